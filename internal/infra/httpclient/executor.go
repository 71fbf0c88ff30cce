package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
)

// Executor executes HTTP requests with timing.
type Executor struct {
	client       *http.Client
	timeout      time.Duration
	maxBodyBytes int64
}

// ExecutorOption allows configuring an Executor.
type ExecutorOption func(*Executor)

// WithTimeout sets the default timeout applied to requests.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = timeout }
}

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) ExecutorOption {
	return func(e *Executor) { e.client = client }
}

// WithMaxBodyBytes caps how much of a response body is read. Non-positive
// values keep the default.
func WithMaxBodyBytes(n int64) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.maxBodyBytes = n
		}
	}
}

// NewExecutor builds an Executor with a default client and timeout.
func NewExecutor(opts ...ExecutorOption) *Executor {
	cfg := DefaultConfig()
	e := &Executor{
		client:       New(cfg),
		timeout:      cfg.Timeout,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ ports.Fetcher = (*Executor)(nil)

// Do executes the request and returns the response plus duration.
// Non-2xx statuses are not errors here; use Response.Err.
func (e *Executor) Do(ctx context.Context, req *http.Request) (domain.Response, error) {
	start := time.Now()
	ctxWithTimeout := ctx
	cancel := func() {}
	if e.timeout > 0 {
		ctxWithTimeout, cancel = context.WithTimeout(ctx, e.timeout)
	}
	defer cancel()

	resp, err := e.client.Do(req.WithContext(ctxWithTimeout))
	duration := time.Since(start)
	if err != nil {
		return domain.Response{Duration: duration}, err
	}
	defer resp.Body.Close()

	body, truncated, err := readLimited(resp.Body, e.maxBodyBytes)
	if err != nil {
		return domain.Response{Status: resp.StatusCode, Duration: duration}, err
	}

	return domain.Response{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Headers:    resp.Header.Clone(),
		Body:       body,
		Duration:   time.Since(start),
		Truncated:  truncated,
	}, nil
}

func readLimited(r io.Reader, max int64) ([]byte, bool, error) {
	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(b)) > max {
		return b[:max], true, nil
	}
	return b, false, nil
}

// Fetch builds spec and sends it.
func (e *Executor) Fetch(ctx context.Context, spec domain.RequestSpec) (domain.Response, error) {
	req, err := BuildRequest(ctx, spec)
	if err != nil {
		return domain.Response{}, err
	}
	return e.Do(ctx, req)
}

// FetchCloned builds spec once and sends the request followed by its clone.
func (e *Executor) FetchCloned(ctx context.Context, spec domain.RequestSpec) (domain.Response, domain.Response, error) {
	req, err := BuildRequest(ctx, spec)
	if err != nil {
		return domain.Response{}, domain.Response{}, err
	}

	// The clone must be taken before the original body is drained.
	clone, err := CloneRequest(ctx, req)
	if err != nil {
		return domain.Response{}, domain.Response{}, err
	}

	orig, err := e.Do(ctx, req)
	if err != nil {
		return orig, domain.Response{}, err
	}

	cloned, err := e.Do(ctx, clone)
	if err != nil {
		return orig, cloned, err
	}
	return orig, cloned, nil
}
