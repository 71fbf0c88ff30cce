package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Built-in placeholders available in every script.
const (
	BuiltinTimestamp = "$timestamp"
	BuiltinUUID      = "$uuid"
)

// VarResolver resolves {{var}} placeholders in request URLs, headers and bodies.
type VarResolver struct {
	now   func() time.Time
	newID func() (string, error)
}

// VarResolverOption configures VarResolver.
type VarResolverOption func(*VarResolver)

// WithNow overrides the clock.
func WithNow(now func() time.Time) VarResolverOption {
	return func(r *VarResolver) { r.now = now }
}

// WithUUID overrides UUID generation.
func WithUUID(gen func() (string, error)) VarResolverOption {
	return func(r *VarResolver) { r.newID = gen }
}

func NewVarResolver(opts ...VarResolverOption) *VarResolver {
	r := &VarResolver{
		now:   time.Now,
		newID: randomUUID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func randomUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Runtime resolves placeholders for a single request. Built-ins are fixed when
// the runtime is created, so {{$uuid}} repeated across fields yields one value.
type Runtime struct {
	vars     Vars
	builtins Vars
}

func (r *VarResolver) NewRuntime(vars Vars) (*Runtime, error) {
	id, err := r.newID()
	if err != nil {
		return nil, &OpError{
			Op:   "vars.builtins.uuid",
			Kind: KindExecution,
			Err:  err,
		}
	}

	return &Runtime{
		vars: Merge(vars),
		builtins: Vars{
			BuiltinTimestamp: strconv.FormatInt(r.now().Unix(), 10),
			BuiltinUUID:      id,
		},
	}, nil
}

// ResolveString replaces every {{name}} in s.
func (rt *Runtime) ResolveString(s string) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	var out strings.Builder
	out.Grow(len(s) + 16)

	rest := s
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}
		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", &OpError{
				Op:   "vars.resolve",
				Kind: KindInvalidConfig,
				Err:  errors.New("unclosed placeholder"),
			}
		}

		name := strings.TrimSpace(rest[:end])
		if name == "" {
			return "", &OpError{
				Op:   "vars.resolve",
				Kind: KindInvalidConfig,
				Err:  errors.New("empty placeholder"),
			}
		}

		val, ok := rt.lookup(name)
		if !ok {
			return "", &OpError{
				Op:   "vars.resolve",
				Kind: KindMissingVar,
				Err:  fmt.Errorf("%w: %s", ErrMissingVar, name),
			}
		}
		out.WriteString(val)
		rest = rest[end+2:]
	}
}

func (rt *Runtime) lookup(name string) (string, bool) {
	if v, ok := rt.builtins[name]; ok {
		return v, true
	}
	v, ok := rt.vars[name]
	return v, ok
}

// ResolveRequest resolves placeholders in URL, header values and body.
// The input is never mutated.
func (rt *Runtime) ResolveRequest(req RequestSpec) (RequestSpec, error) {
	out := req.Clone()

	u, err := rt.ResolveString(req.URL)
	if err != nil {
		return RequestSpec{}, wrapField(err, "request.url")
	}
	out.URL = u

	if out.Headers == nil {
		out.Headers = Headers{}
	}
	for k, v := range out.Headers {
		rv, err := rt.ResolveString(v)
		if err != nil {
			return RequestSpec{}, wrapField(err, "request.headers."+k)
		}
		out.Headers[k] = rv
	}

	if err := rt.resolveBody(&out.Body); err != nil {
		return RequestSpec{}, wrapField(err, "request.body")
	}
	return out, nil
}

// resolveBody works on a cloned body: JSON string leaves, form values and
// the raw payload are substituted in place.
func (rt *Runtime) resolveBody(b *BodySpec) error {
	switch b.Type {
	case BodyJSON:
		if b.JSON == nil {
			return nil
		}
		v, err := rt.ResolveJSONValue(b.JSON)
		if err != nil {
			return err
		}
		b.JSON = v.(map[string]any)
	case BodyForm:
		for k, v := range b.Form {
			rv, err := rt.ResolveString(v)
			if err != nil {
				return err
			}
			b.Form[k] = rv
		}
	case BodyRaw:
		rv, err := rt.ResolveString(b.Raw)
		if err != nil {
			return err
		}
		b.Raw = rv
	}
	return nil
}

// ResolveJSONValue recursively resolves string values inside JSON-like structures.
// Numbers, bools and nil are returned unchanged.
func (rt *Runtime) ResolveJSONValue(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return rt.ResolveString(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			rv, err := rt.ResolveJSONValue(vv)
			if err != nil {
				return nil, err
			}
			out[k] = rv
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(t))
		for _, it := range t {
			rv, err := rt.ResolveJSONValue(it)
			if err != nil {
				return nil, err
			}
			out = append(out, rv)
		}
		return out, nil
	default:
		return v, nil
	}
}

func wrapField(err error, field string) error {
	kind := KindExecution
	var oe *OpError
	if errors.As(err, &oe) {
		kind = oe.Kind
	}
	return &OpError{
		Op:   "vars.resolve",
		Kind: kind,
		Err:  fmt.Errorf("%s: %w", field, err),
	}
}
