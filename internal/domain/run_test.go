package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"
)

func TestClassifyRunError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want RunErrorKind
	}{
		{"deadline", context.DeadlineExceeded, RunErrorTimeout},
		{"wrapped deadline", fmt.Errorf("do: %w", context.DeadlineExceeded), RunErrorTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "example.invalid"}, RunErrorDNS},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, RunErrorConn},
		{"reset", &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}, RunErrorConn},
		{"status", &StatusError{Code: 500}, RunErrorHTTP},
		{"url wraps dns", &url.Error{Op: "Get", URL: "http://example.invalid", Err: &net.DNSError{Err: "no such host"}}, RunErrorDNS},
		{"other", errors.New("boom"), RunErrorUnknown},
		{"nil", nil, RunErrorUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClassifyRunError(c.err); got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
		})
	}
}

func TestNewRunError(t *testing.T) {
	if NewRunError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
	re := NewRunError(context.DeadlineExceeded)
	if re.Kind != RunErrorTimeout || re.Message == "" {
		t.Fatalf("unexpected run error %+v", re)
	}
}

func TestRequestResultOKAndFailed(t *testing.T) {
	cases := []struct {
		name   string
		r      RequestResult
		ok     bool
		failed bool
	}{
		{"200", RequestResult{StatusCode: 200}, true, false},
		{"201", RequestResult{StatusCode: 201}, true, false},
		{"404 without checks", RequestResult{StatusCode: 404}, false, false},
		{"transport error", RequestResult{Error: &RunError{Kind: RunErrorConn}}, false, true},
		{"failed assertion", RequestResult{StatusCode: 200, Assertions: []AssertionResult{{Passed: false}}}, true, true},
		{"failed extract", RequestResult{StatusCode: 200, Extracts: []ExtractResult{{Success: false}}}, true, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.r.OK() != c.ok {
				t.Fatalf("OK: expected %v", c.ok)
			}
			if c.r.Failed() != c.failed {
				t.Fatalf("Failed: expected %v", c.failed)
			}
		})
	}
}

func TestRunResultFailures(t *testing.T) {
	run := RunResult{Results: []RequestResult{
		{StatusCode: 200},
		{Error: &RunError{Kind: RunErrorTimeout}},
		{Assertions: []AssertionResult{{Passed: false}}},
	}}
	if n := run.Failures(); n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}
}
