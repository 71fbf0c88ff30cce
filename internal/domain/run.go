package domain

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"
)

// RunErrorKind is a high-level classification of transport errors.
type RunErrorKind string

const (
	RunErrorUnknown RunErrorKind = "unknown"
	RunErrorTimeout RunErrorKind = "timeout"
	RunErrorDNS     RunErrorKind = "dns"
	RunErrorConn    RunErrorKind = "connection"
	RunErrorHTTP    RunErrorKind = "http"
)

// RunError represents a structured error produced by a runner.
type RunError struct {
	Kind    RunErrorKind
	Message string
}

// NewRunError converts err into a RunError, or returns nil for a nil error.
func NewRunError(err error) *RunError {
	if err == nil {
		return nil
	}
	return &RunError{Kind: ClassifyRunError(err), Message: err.Error()}
}

// ClassifyRunError maps transport errors onto a RunErrorKind.
func ClassifyRunError(err error) RunErrorKind {
	if err == nil {
		return RunErrorUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return RunErrorTimeout
	}

	var se *StatusError
	if errors.As(err, &se) {
		return RunErrorHTTP
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return RunErrorDNS
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return RunErrorTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE) {
		return RunErrorConn
	}

	var oe *net.OpError
	if errors.As(err, &oe) {
		return RunErrorConn
	}

	return RunErrorUnknown
}

// AssertionResult is the output of a single assertion.
type AssertionResult struct {
	Name    string
	Passed  bool
	Message string
}

// ExtractResult is the output of a single extraction rule.
type ExtractResult struct {
	Name    string
	Success bool
	Message string
}

// ResponseSnapshot stores a bounded view of the response.
type ResponseSnapshot struct {
	Headers   map[string][]string
	Body      []byte
	Truncated bool
}

// RequestResult represents the result of executing a single request.
type RequestResult struct {
	Name   string
	Method HTTPMethod
	URL    string

	StatusCode int
	LatencyMS  int64

	Assertions []AssertionResult
	Extracts   []ExtractResult
	Extracted  Vars

	Response ResponseSnapshot
	Error    *RunError
}

// OK reports whether the request completed with a 2xx status.
func (r RequestResult) OK() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Failed reports whether the request errored or any check did not pass.
func (r RequestResult) Failed() bool {
	if r.Error != nil {
		return true
	}
	for _, a := range r.Assertions {
		if !a.Passed {
			return true
		}
	}
	for _, e := range r.Extracts {
		if !e.Success {
			return true
		}
	}
	return false
}

// RunResult is the outcome of executing a whole script.
type RunResult struct {
	ID         string
	ScriptName string
	ScriptPath string

	StartedAt time.Time
	EndedAt   time.Time

	Results []RequestResult
}

// Failures counts failed requests.
func (r RunResult) Failures() int {
	n := 0
	for _, rr := range r.Results {
		if rr.Failed() {
			n++
		}
	}
	return n
}
