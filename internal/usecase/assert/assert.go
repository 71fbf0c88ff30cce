// Package assert evaluates response assertions: status, latency and JSONPath
// checks over the decoded body.
package assert

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

func Status(expected int, got int) domain.AssertionResult {
	if got == expected {
		return pass("status", fmt.Sprintf("status %d", got))
	}
	return fail("status", fmt.Sprintf("expected status %d, got %d", expected, got))
}

func MaxLatency(maxMs int, latencyMs int64) domain.AssertionResult {
	if latencyMs <= int64(maxMs) {
		return pass("max_ms", fmt.Sprintf("latency %dms <= %dms", latencyMs, maxMs))
	}
	return fail("max_ms", fmt.Sprintf("expected latency <= %dms, got %dms", maxMs, latencyMs))
}

// Evaluate applies spec to an observed response. The body is decoded only
// when JSONPath checks are present; expressions run in sorted order.
func Evaluate(spec domain.AssertionsSpec, status int, latencyMs int64, body []byte) []domain.AssertionResult {
	var out []domain.AssertionResult

	if spec.Status != nil {
		out = append(out, Status(*spec.Status, status))
	}
	if spec.MaxLatencyMS != nil {
		out = append(out, MaxLatency(*spec.MaxLatencyMS, latencyMs))
	}
	if len(spec.JSONPath) == 0 {
		return out
	}

	exprs := make([]string, 0, len(spec.JSONPath))
	for e := range spec.JSONPath {
		exprs = append(exprs, e)
	}
	sort.Strings(exprs)

	var doc any
	docErr := json.Unmarshal(body, &doc)
	if docErr != nil {
		docErr = fmt.Errorf("response body is not valid JSON")
	}

	for _, expr := range exprs {
		var (
			val any
			err = docErr
		)
		if err == nil {
			val, err = jsonpath.Get(expr, doc)
		}
		for _, c := range checksFor(spec.JSONPath[expr]) {
			out = append(out, c.apply(expr, val, err))
		}
	}

	return out
}

// check is one JSONPath predicate. test returns whether it held and the
// detail to report either way.
type check struct {
	name string
	test func(val any) (bool, string, error)
}

func (c check) apply(expr string, val any, getErr error) domain.AssertionResult {
	name := "jsonpath." + c.name
	if getErr != nil {
		return fail(name, fmt.Sprintf("jsonpath %q: %v", expr, getErr))
	}
	ok, detail, err := c.test(val)
	if err != nil {
		return fail(name, fmt.Sprintf("jsonpath %q: %v", expr, err))
	}
	if ok {
		return pass(name, fmt.Sprintf("jsonpath %q %s", expr, detail))
	}
	return fail(name, fmt.Sprintf("jsonpath %q: %s", expr, detail))
}

func checksFor(a domain.JSONPathAssertion) []check {
	var cs []check

	if a.Exists {
		cs = append(cs, check{"exists", func(v any) (bool, string, error) {
			if isEmpty(v) {
				return false, "expected value to exist, got empty", nil
			}
			return true, "exists", nil
		}})
	}
	if a.Eq != nil {
		want := *a.Eq
		cs = append(cs, check{"eq", stringCheck(func(s string) (bool, string) {
			if s == want {
				return true, fmt.Sprintf("eq %q", want)
			}
			return false, fmt.Sprintf("expected %q, got %q", want, s)
		})})
	}
	if a.Contains != nil {
		sub := *a.Contains
		cs = append(cs, check{"contains", stringCheck(func(s string) (bool, string) {
			if strings.Contains(s, sub) {
				return true, fmt.Sprintf("contains %q", sub)
			}
			return false, fmt.Sprintf("%q does not contain %q", s, sub)
		})})
	}
	if a.Matches != nil {
		pattern := *a.Matches
		cs = append(cs, check{"matches", func(v any) (bool, string, error) {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return false, "", fmt.Errorf("invalid regex %q: %v", pattern, err)
			}
			return stringCheck(func(s string) (bool, string) {
				if re.MatchString(s) {
					return true, fmt.Sprintf("matches %q", pattern)
				}
				return false, fmt.Sprintf("%q does not match %q", s, pattern)
			})(v)
		}})
	}
	if a.Gt != nil {
		cs = append(cs, check{"gt", numberCheck(*a.Gt, ">", func(f, t float64) bool { return f > t })})
	}
	if a.Lt != nil {
		cs = append(cs, check{"lt", numberCheck(*a.Lt, "<", func(f, t float64) bool { return f < t })})
	}

	return cs
}

func stringCheck(pred func(string) (bool, string)) func(any) (bool, string, error) {
	return func(v any) (bool, string, error) {
		s, err := toString(v)
		if err != nil {
			return false, "", err
		}
		ok, detail := pred(s)
		return ok, detail, nil
	}
}

func numberCheck(threshold float64, op string, pred func(f, t float64) bool) func(any) (bool, string, error) {
	return func(v any) (bool, string, error) {
		f, err := toFloat64(v)
		if err != nil {
			return false, "", err
		}
		if pred(f, threshold) {
			return true, fmt.Sprintf("%v %s %v", f, op, threshold), nil
		}
		return false, fmt.Sprintf("expected %s %v, got %v", op, threshold, f), nil
	}
}

func pass(name, msg string) domain.AssertionResult {
	return domain.AssertionResult{Name: name, Passed: true, Message: msg}
}

func fail(name, msg string) domain.AssertionResult {
	return domain.AssertionResult{Name: name, Passed: false, Message: msg}
}

func toString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", fmt.Errorf("value is null")
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v), nil
		}
		return string(b), nil
	}
}

func toFloat64(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", val)
	}
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
