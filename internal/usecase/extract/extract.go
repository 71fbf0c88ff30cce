// Package extract pulls variables out of JSON responses with JSONPath.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

var (
	errNotJSON   = errors.New("response body is not valid JSON")
	errEmptyExpr = errors.New("empty jsonpath expression")
	errNoValue   = errors.New("no value found")
)

// Apply runs every rule (var name -> JSONPath) against body. A failing rule
// is reported in its ExtractResult and does not stop the others. Results are
// ordered by variable name.
func Apply(body []byte, rules domain.ExtractSpec) (domain.Vars, []domain.ExtractResult) {
	extracted := domain.Vars{}
	results := make([]domain.ExtractResult, 0, len(rules))
	if len(rules) == 0 {
		return extracted, results
	}

	names := make([]string, 0, len(rules))
	for k := range rules {
		names = append(names, k)
	}
	sort.Strings(names)

	var doc any
	docErr := json.Unmarshal(body, &doc)

	for _, name := range names {
		expr := strings.TrimSpace(rules[name])

		var (
			val string
			err error
		)
		switch {
		case expr == "":
			err = errEmptyExpr
		case docErr != nil:
			err = errNotJSON
		default:
			val, err = lookup(doc, expr)
		}

		if err != nil {
			results = append(results, domain.ExtractResult{
				Name:    name,
				Success: false,
				Message: fmt.Sprintf("extract %q (%s): %v", name, expr, err),
			})
			continue
		}

		extracted[name] = val
		results = append(results, domain.ExtractResult{
			Name:    name,
			Success: true,
			Message: fmt.Sprintf("extracted %q", name),
		})
	}

	return extracted, results
}

func lookup(doc any, expr string) (string, error) {
	v, err := jsonpath.Get(expr, doc)
	if err != nil {
		return "", fmt.Errorf("jsonpath error: %w", err)
	}
	if isEmpty(v) {
		return "", errNoValue
	}
	return toString(v)
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

// toString renders scalars plainly, unwraps single-element arrays and
// re-encodes anything else as JSON.
func toString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case float64, bool:
		return fmt.Sprint(t), nil
	case []any:
		if len(t) == 1 {
			return toString(t[0])
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cannot convert value to string: %w", err)
	}
	return string(b), nil
}
