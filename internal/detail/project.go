package detail

import (
	"strings"

	"roomdir/internal/directory"
)

const (
	FallbackName     = "Unknown room"
	FallbackCapacity = "N/A"
	FallbackFeatures = "None"

	StatusOpen   = "Open"
	StatusClosed = "Closed"

	ClassOpen   = "open"
	ClassClosed = "closed"

	AlertText = "Failed to load room details."
)

// Fields is the text shown in the detail panel for one room.
type Fields struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Capacity    string `json:"capacity"`
	Features    string `json:"features"`
	Status      string `json:"status"`
	StatusClass string `json:"status_class"`
}

// Project turns a detail record into display text, applying the fallbacks
// for missing fields.
func Project(r directory.Room) Fields {
	f := Fields{
		ID:       r.ID.String(),
		Name:     strings.TrimSpace(r.Name),
		Capacity: FallbackCapacity,
		Features: FallbackFeatures,
	}
	if f.Name == "" {
		f.Name = FallbackName
	}
	if r.Capacity != nil && strings.TrimSpace(r.Capacity.String()) != "" {
		f.Capacity = r.Capacity.String()
	}

	names := make([]string, 0, len(r.Features))
	for _, feat := range r.Features {
		label := strings.TrimSpace(feat.Name)
		if label == "" {
			label = strings.TrimSpace(feat.Code)
		}
		if label != "" {
			names = append(names, label)
		}
	}
	if len(names) > 0 {
		f.Features = strings.Join(names, ", ")
	}

	if r.IsOpen {
		f.Status, f.StatusClass = StatusOpen, ClassOpen
	} else {
		f.Status, f.StatusClass = StatusClosed, ClassClosed
	}
	return f
}
