package domain

// HTTPMethod represents an HTTP method (e.g., GET, POST).
type HTTPMethod string

const (
	MethodGet     HTTPMethod = "GET"
	MethodPost    HTTPMethod = "POST"
	MethodPut     HTTPMethod = "PUT"
	MethodPatch   HTTPMethod = "PATCH"
	MethodDelete  HTTPMethod = "DELETE"
	MethodHead    HTTPMethod = "HEAD"
	MethodOptions HTTPMethod = "OPTIONS"
)

// BodyType represents the type of payload for a request body.
type BodyType string

const (
	BodyNone BodyType = "none"
	BodyJSON BodyType = "json"
	BodyForm BodyType = "form"
	BodyRaw  BodyType = "raw"
)

// Headers is a map representation of HTTP headers.
type Headers map[string]string

// BodySpec describes an HTTP request body.
// Only one of JSON/Form/Raw is used depending on Type.
type BodySpec struct {
	Type        BodyType
	JSON        map[string]any
	Form        map[string]string
	FormOrder   []string // Optional key order for Form; unlisted keys follow sorted.
	Raw         string
	ContentType string // Optional override (useful for raw payloads).
}

// JSONPathAssertion defines checks applied to the value selected by a JSONPath.
type JSONPathAssertion struct {
	Exists   bool
	Eq       *string
	Contains *string
	Matches  *string
	Gt       *float64
	Lt       *float64
}

// AssertionsSpec defines functional assertions for a request.
type AssertionsSpec struct {
	Status       *int
	MaxLatencyMS *int
	JSONPath     map[string]JSONPathAssertion
}

// ExtractSpec maps a variable name to the JSONPath expression that feeds it.
type ExtractSpec map[string]string

// RequestSpec describes a single request and its validation/extraction rules.
type RequestSpec struct {
	Name    string
	Method  HTTPMethod
	URL     string
	Headers Headers
	Body    BodySpec

	Assert  AssertionsSpec
	Extract ExtractSpec
}

// Clone returns a deep copy; the copy can be resolved, sent, or mutated
// without affecting the original.
func (r RequestSpec) Clone() RequestSpec {
	out := r

	if r.Headers != nil {
		out.Headers = make(Headers, len(r.Headers))
		for k, v := range r.Headers {
			out.Headers[k] = v
		}
	}

	if r.Body.JSON != nil {
		out.Body.JSON = cloneJSONObject(r.Body.JSON)
	}
	if r.Body.Form != nil {
		out.Body.Form = make(map[string]string, len(r.Body.Form))
		for k, v := range r.Body.Form {
			out.Body.Form[k] = v
		}
	}
	if r.Body.FormOrder != nil {
		out.Body.FormOrder = append([]string(nil), r.Body.FormOrder...)
	}

	if r.Assert.Status != nil {
		s := *r.Assert.Status
		out.Assert.Status = &s
	}
	if r.Assert.MaxLatencyMS != nil {
		m := *r.Assert.MaxLatencyMS
		out.Assert.MaxLatencyMS = &m
	}
	if r.Assert.JSONPath != nil {
		out.Assert.JSONPath = make(map[string]JSONPathAssertion, len(r.Assert.JSONPath))
		for k, v := range r.Assert.JSONPath {
			out.Assert.JSONPath[k] = v
		}
	}
	if r.Extract != nil {
		out.Extract = make(ExtractSpec, len(r.Extract))
		for k, v := range r.Extract {
			out.Extract[k] = v
		}
	}

	return out
}

func cloneJSONObject(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneJSONValue(v)
	}
	return out
}

func cloneJSONValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneJSONObject(t)
	case []any:
		out := make([]any, len(t))
		for i, it := range t {
			out[i] = cloneJSONValue(it)
		}
		return out
	default:
		return v
	}
}

// Script groups requests executed in order, sharing variables.
type Script struct {
	Name string

	// Vars are defaults available to every request; config vars and
	// command-line vars override them.
	Vars Vars

	Requests []RequestSpec
}

// ScriptRef is a lightweight reference to a script file on disk.
type ScriptRef struct {
	Name string
	Path string
}
