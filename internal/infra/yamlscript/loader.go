package yamlscript

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
)

type Loader struct {
	scriptsDir string
}

type Option func(*Loader)

func WithScriptsDir(dir string) Option {
	return func(l *Loader) {
		if strings.TrimSpace(dir) != "" {
			l.scriptsDir = dir
		}
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{scriptsDir: "scripts"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.ScriptLoader = (*Loader)(nil)

func (l *Loader) LoadScript(path string) (domain.Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Script{}, &domain.OpError{
			Op:   "yamlscript.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var ys yamlScript
	if err := yaml.Unmarshal(b, &ys); err != nil {
		return domain.Script{}, &domain.OpError{
			Op:   "yamlscript.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, ys)
}

// ListScripts returns the scripts under <root>/<scriptsDir>, sorted by name.
// Files whose name field is empty are listed under their file name.
func (l *Loader) ListScripts(root string) ([]domain.ScriptRef, error) {
	dir := filepath.Join(root, l.scriptsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlscript.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.ScriptRef
	for _, e := range entries {
		if e.IsDir() || !HasYAMLExt(e.Name()) {
			continue
		}

		p := filepath.Join(dir, e.Name())
		n, _ := readScriptName(p)
		if strings.TrimSpace(n) == "" {
			n = strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		}
		refs = append(refs, domain.ScriptRef{Name: n, Path: p})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// HasYAMLExt reports a .yaml or .yml extension, case-insensitively.
func HasYAMLExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func readScriptName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var v struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return "", err
	}
	return v.Name, nil
}

func mapAndValidate(path string, ys yamlScript) (domain.Script, error) {
	if strings.TrimSpace(ys.Name) == "" {
		return domain.Script{}, invalidField(path, "name", "script name is required")
	}
	if len(ys.Requests) == 0 {
		return domain.Script{}, invalidField(path, "requests", "at least one request is required")
	}

	script := domain.Script{
		Name:     ys.Name,
		Vars:     domain.Vars(ys.Vars),
		Requests: make([]domain.RequestSpec, 0, len(ys.Requests)),
	}
	if script.Vars == nil {
		script.Vars = domain.Vars{}
	}

	seen := map[string]bool{}
	for i, r := range ys.Requests {
		field := fmt.Sprintf("requests[%d]", i)

		name := strings.TrimSpace(r.Name)
		if name == "" {
			return domain.Script{}, invalidField(path, field+".name", "request name is required")
		}
		if seen[name] {
			return domain.Script{}, invalidField(path, field+".name", fmt.Sprintf("duplicate request name %q", name))
		}
		seen[name] = true

		if strings.TrimSpace(r.URL) == "" {
			return domain.Script{}, invalidField(path, field+".url", "request url is required")
		}

		method, err := ParseMethod(r.Method)
		if err != nil {
			return domain.Script{}, invalidField(path, field+".method", err.Error())
		}

		body, err := mapBody(r)
		if err != nil {
			return domain.Script{}, invalidField(path, field, err.Error())
		}

		req := domain.RequestSpec{
			Name:    name,
			Method:  method,
			URL:     r.URL,
			Headers: domain.Headers(r.Headers),
			Body:    body,
			Assert: domain.AssertionsSpec{
				Status:       r.Assert.Status,
				MaxLatencyMS: r.Assert.MaxMS,
				JSONPath:     mapJSONPath(r.Assert.JSONPath),
			},
			Extract: domain.ExtractSpec(r.Extract),
		}
		if req.Headers == nil {
			req.Headers = domain.Headers{}
		}
		if req.Extract == nil {
			req.Extract = domain.ExtractSpec{}
		}

		script.Requests = append(script.Requests, req)
	}

	return script, nil
}

// mapBody picks the single body kind a request declares.
func mapBody(r yamlRequest) (domain.BodySpec, error) {
	declared := 0
	body := domain.BodySpec{Type: domain.BodyNone}
	if r.JSON != nil {
		declared++
		body = domain.BodySpec{Type: domain.BodyJSON, JSON: r.JSON}
	}
	if r.Form != nil {
		declared++
		body = domain.BodySpec{Type: domain.BodyForm, Form: r.Form}
	}
	if strings.TrimSpace(r.Raw) != "" {
		declared++
		body = domain.BodySpec{Type: domain.BodyRaw, Raw: r.Raw}
	}
	if declared > 1 {
		return domain.BodySpec{}, fmt.Errorf("only one of json, form or raw may be set")
	}
	body.ContentType = strings.TrimSpace(r.ContentType)
	return body, nil
}

func mapJSONPath(in map[string]yamlJSONPathAssertion) map[string]domain.JSONPathAssertion {
	out := make(map[string]domain.JSONPathAssertion, len(in))
	for k, v := range in {
		out[k] = domain.JSONPathAssertion{
			Exists:   v.Exists,
			Eq:       v.Eq,
			Contains: v.Contains,
			Matches:  v.Matches,
			Gt:       v.Gt,
			Lt:       v.Lt,
		}
	}
	return out
}

// ParseMethod normalizes m; an empty method means GET.
func ParseMethod(m string) (domain.HTTPMethod, error) {
	up := strings.ToUpper(strings.TrimSpace(m))
	if up == "" {
		return domain.MethodGet, nil
	}
	switch domain.HTTPMethod(up) {
	case domain.MethodGet,
		domain.MethodPost,
		domain.MethodPut,
		domain.MethodPatch,
		domain.MethodDelete,
		domain.MethodHead,
		domain.MethodOptions:
		return domain.HTTPMethod(up), nil
	default:
		return "", fmt.Errorf("unsupported method %q", m)
	}
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlscript.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}
