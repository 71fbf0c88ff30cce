package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Response is a fully read HTTP response.
type Response struct {
	Status     int
	StatusText string
	Headers    map[string][]string
	Body       []byte
	Duration   time.Duration

	// Truncated is set when Body was cut at the reader's size limit.
	Truncated bool
}

// OK reports a 2xx status.
func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Err returns a StatusError for non-2xx responses and nil otherwise.
func (r Response) Err() error {
	if r.OK() {
		return nil
	}
	return &StatusError{Code: r.Status, Status: r.StatusText, Body: r.Body}
}

// Text returns the body as a string.
func (r Response) Text() string {
	return string(r.Body)
}

// JSON decodes the body into v. A truncated body is never decoded.
func (r Response) JSON(v any) error {
	if r.Truncated {
		return &OpError{
			Op:   "response.json",
			Kind: KindExecution,
			Err:  fmt.Errorf("body exceeds %d bytes", len(r.Body)),
		}
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &OpError{
			Op:   "response.json",
			Kind: KindExecution,
			Err:  err,
		}
	}
	return nil
}
