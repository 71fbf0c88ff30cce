package cli

import (
	"fmt"
	"strings"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/usecase"
)

const (
	formatPretty = "pretty"
	formatJSON   = "json"
)

func checkFormat(format string) error {
	switch format {
	case formatPretty, formatJSON, "":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

// parsePairs splits key=value arguments, keeping their order.
func parsePairs(flag string, in []string) ([]usecase.FormField, error) {
	out := make([]usecase.FormField, 0, len(in))
	for _, raw := range in {
		k, v, ok := strings.Cut(raw, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, &domain.OpError{
				Op:   "cli.flags",
				Kind: domain.KindValidation,
				Err:  fmt.Errorf("--%s %q: expected key=value", flag, raw),
			}
		}
		out = append(out, usecase.FormField{Key: k, Value: v})
	}
	return out, nil
}

func parseVars(in []string) (domain.Vars, error) {
	pairs, err := parsePairs("var", in)
	if err != nil {
		return nil, err
	}
	vars := make(domain.Vars, len(pairs))
	for _, p := range pairs {
		vars[p.Key] = p.Value
	}
	return vars, nil
}

func parseHeaders(in []string) (domain.Headers, error) {
	pairs, err := parsePairs("header", in)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, nil
	}
	h := make(domain.Headers, len(pairs))
	for _, p := range pairs {
		h[p.Key] = p.Value
	}
	return h, nil
}
