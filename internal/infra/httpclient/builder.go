package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// BuildRequest builds an HTTP request from a domain RequestSpec.
// The body is buffered so the request can be cloned and replayed.
func BuildRequest(ctx context.Context, spec domain.RequestSpec) (*http.Request, error) {
	if strings.TrimSpace(spec.URL) == "" {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  domain.ErrInvalidRequest,
		}
	}

	payload, contentType, err := encodeBody(spec.Body)
	if err != nil {
		return nil, err
	}

	method := string(spec.Method)
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, spec.URL, body)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}

func encodeBody(b domain.BodySpec) ([]byte, string, error) {
	switch b.Type {
	case domain.BodyNone, "":
		return nil, "", nil
	case domain.BodyJSON:
		if b.JSON == nil {
			return nil, "", nil
		}
		payload, err := json.Marshal(b.JSON)
		if err != nil {
			return nil, "", &domain.OpError{
				Op:   "httpclient.build",
				Kind: domain.KindInvalidConfig,
				Err:  err,
			}
		}
		return payload, pick(b.ContentType, ContentTypeJSON), nil
	case domain.BodyForm:
		if b.Form == nil {
			return nil, "", nil
		}
		return []byte(EncodeFormOrdered(b.Form, b.FormOrder)), pick(b.ContentType, ContentTypeForm), nil
	case domain.BodyRaw:
		if strings.TrimSpace(b.Raw) == "" {
			return nil, "", nil
		}
		return []byte(b.Raw), b.ContentType, nil
	default:
		return nil, "", &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  domain.ErrInvalidRequest,
		}
	}
}

// EncodeForm URL-encodes fields. Keys come out sorted, so
// {username: example, password: password} becomes "password=password&username=example".
func EncodeForm(fields map[string]string) string {
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	return values.Encode()
}

// EncodeFormOrdered URL-encodes fields, emitting the keys listed in order
// first. Keys missing from order follow in sorted order.
func EncodeFormOrdered(fields map[string]string, order []string) string {
	if len(order) == 0 {
		return EncodeForm(fields)
	}

	var b strings.Builder
	seen := make(map[string]bool, len(order))
	write := func(k string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fields[k]))
	}

	for _, k := range order {
		if _, ok := fields[k]; !ok || seen[k] {
			continue
		}
		seen[k] = true
		write(k)
	}

	rest := make([]string, 0, len(fields))
	for k := range fields {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		write(k)
	}
	return b.String()
}

func pick(override, fallback string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return fallback
}

// CloneRequest returns a copy of req bound to ctx with its own readable body,
// so the original and the copy can both be sent.
func CloneRequest(ctx context.Context, req *http.Request) (*http.Request, error) {
	clone := req.Clone(ctx)
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, &domain.OpError{
			Op:   "httpclient.clone",
			Kind: domain.KindExecution,
			Err:  errBodyNotReplayable,
		}
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.clone",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	clone.Body = body
	return clone, nil
}
