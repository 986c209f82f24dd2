package sqlcgen

import "time"

type RoomOccupancy struct {
	RoomID     string
	Occupied   bool
	ObservedAt time.Time
}
