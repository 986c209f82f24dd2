package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"roomdir/internal/metrics"
)

// DefaultBaseURL is the development backend address.
const DefaultBaseURL = "http://127.0.0.1:5000/"

// ErrRequestFailed is the single failure class for upstream calls. Network
// errors, non-2xx statuses and malformed bodies all match it.
var ErrRequestFailed = errors.New("request failed")

// RequestError carries the details of a failed upstream call. The status
// text is meant for logs, never for end users.
type RequestError struct {
	Path       string
	StatusCode int
	Status     string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("GET %s: %v", e.Path, e.Err)
	case e.Status != "":
		return fmt.Sprintf("GET %s: response was not ok: %s", e.Path, e.Status)
	default:
		return fmt.Sprintf("GET %s: request failed", e.Path)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

// Source is what the loader needs from the backend.
type Source interface {
	Rooms(ctx context.Context) ([]Room, error)
	Buildings(ctx context.Context) ([]Building, error)
	Features(ctx context.Context) ([]Feature, error)
}

// RoomFetcher loads the detail record for one room.
type RoomFetcher interface {
	Room(ctx context.Context, id ID) (Room, error)
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Metrics *metrics.Metrics
}

// Client talks to the room backend over HTTP.
type Client struct {
	http    *resty.Client
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewClient(log zerolog.Logger, opts Options) *Client {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    hc,
		log:     log.With().Str("component", "directory_client").Str("base_url", base).Logger(),
		metrics: opts.Metrics,
	}
}

func (c *Client) Rooms(ctx context.Context) ([]Room, error) {
	var out []Room
	if err := c.get(ctx, "rooms", "/rooms", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Buildings(ctx context.Context) ([]Building, error) {
	var out []Building
	if err := c.get(ctx, "buildings", "/buildings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Features(ctx context.Context) ([]Feature, error) {
	var out []Feature
	if err := c.get(ctx, "features", "/features", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Room(ctx context.Context, id ID) (Room, error) {
	var out Room
	params := map[string]string{"id": id.String()}
	if err := c.get(ctx, "room_detail", "/rooms/{id}", params, &out); err != nil {
		return Room{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, params map[string]string, dst any) error {
	start := time.Now()
	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetPathParams(params)
	}

	resp, err := req.Get(path)
	for k, v := range params {
		path = strings.ReplaceAll(path, "{"+k+"}", v)
	}
	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	c.metrics.ObserveUpstreamFetch(endpoint, status, time.Since(start))

	if err != nil {
		c.log.Error().Err(err).Str("endpoint", endpoint).Msg("upstream request failed")
		return &RequestError{Path: path, Err: err}
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		c.log.Error().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode()).
			Str("status_text", resp.Status()).
			Msg("upstream response was not ok")
		return &RequestError{Path: path, StatusCode: resp.StatusCode(), Status: resp.Status()}
	}
	if err := json.Unmarshal(resp.Body(), dst); err != nil {
		c.log.Error().Err(err).Str("endpoint", endpoint).Msg("upstream response was not valid json")
		return &RequestError{Path: path, StatusCode: resp.StatusCode(), Err: err}
	}

	c.log.Debug().Str("endpoint", endpoint).Int("status", resp.StatusCode()).Msg("upstream request ok")
	return nil
}
