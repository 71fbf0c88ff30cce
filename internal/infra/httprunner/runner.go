package httprunner

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/httpclient"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
)

const defaultMaxBodyBytes = 256 * 1024 // 256KB

type Runner struct {
	client       *http.Client
	maxBodyBytes int64
	resolver     *domain.VarResolver
	log          *slog.Logger
}

type Option func(*Runner)

func WithMaxBodyBytes(n int64) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxBodyBytes = n
		}
	}
}

func WithResolver(vr *domain.VarResolver) Option {
	return func(r *Runner) { r.resolver = vr }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

func New(client *http.Client, opts ...Option) *Runner {
	r := &Runner{
		client:       client,
		maxBodyBytes: defaultMaxBodyBytes,
		resolver:     domain.NewVarResolver(),
		log:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.RequestRunner = (*Runner)(nil)

// Run resolves placeholders in req, sends it and captures a bounded snapshot
// of the response. Transport failures are reported in RequestResult.Error;
// the returned error is reserved for config-level problems (missing vars,
// unbuildable requests).
func (r *Runner) Run(ctx context.Context, req domain.RequestSpec, vars domain.Vars) (domain.RequestResult, error) {
	rt, err := r.resolver.NewRuntime(vars)
	if err != nil {
		return domain.RequestResult{}, err
	}

	resolved, err := rt.ResolveRequest(req)
	if err != nil {
		return domain.RequestResult{}, err
	}

	httpReq, err := httpclient.BuildRequest(ctx, resolved)
	if err != nil {
		return domain.RequestResult{}, err
	}

	return r.Send(httpReq, resolved.Name), nil
}

// Send issues an already-built request. The request is consumed.
func (r *Runner) Send(httpReq *http.Request, name string) domain.RequestResult {
	result := domain.RequestResult{
		Name:       name,
		Method:     domain.HTTPMethod(httpReq.Method),
		URL:        httpReq.URL.String(),
		Extracted:  domain.Vars{},
		Extracts:   []domain.ExtractResult{},
		Assertions: []domain.AssertionResult{},
		Response: domain.ResponseSnapshot{
			Headers: map[string][]string{},
		},
	}

	start := time.Now()
	resp, err := r.client.Do(httpReq)
	result.LatencyMS = time.Since(start).Milliseconds()

	if err != nil {
		result.Error = domain.NewRunError(err)
		r.log.Debug("httprunner.send.failed",
			"name", name,
			"method", httpReq.Method,
			"url", result.URL,
			"kind", result.Error.Kind,
			"err", err,
		)
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.Response.Headers = cloneHeaders(resp.Header)

	body, truncated, readErr := readBounded(resp.Body, r.maxBodyBytes)
	if readErr != nil {
		result.Error = domain.NewRunError(readErr)
		return result
	}
	result.Response.Body = body
	result.Response.Truncated = truncated

	r.log.Debug("httprunner.send.done",
		"name", name,
		"method", httpReq.Method,
		"url", result.URL,
		"status", result.StatusCode,
		"latency_ms", result.LatencyMS,
		"truncated", truncated,
	)
	return result
}

func readBounded(r io.Reader, maxBytes int64) ([]byte, bool, error) {
	lim := io.LimitReader(r, maxBytes+1)
	b, err := io.ReadAll(lim)
	if err != nil {
		return nil, false, err
	}
	if int64(len(b)) > maxBytes {
		return b[:maxBytes], true, nil
	}
	return b, false, nil
}

func cloneHeaders(h http.Header) map[string][]string {
	out := make(map[string][]string, len(h))
	for k, v := range h {
		cp := make([]string, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}
