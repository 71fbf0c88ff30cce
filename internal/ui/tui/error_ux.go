package tui

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// userMessage turns an error into a one-line notice for the status area.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	if code := domain.StatusCode(err); code != 0 {
		return err.Error()
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {
		case domain.KindNotFound:
			if strings.Contains(oe.Op, "yamlscript") {
				return "Script not found"
			}
			if strings.Contains(oe.Op, "workspacefinder") {
				return "Workspace not found (run `biblioteca init`)"
			}
			return "Not found"

		case domain.KindMissingVar:
			if v := extractMissingVarName(err.Error()); v != "" {
				return "Missing variable " + v
			}
			return "Missing variable"

		case domain.KindInvalidConfig:
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}
			if line := extractLine(err.Error()); line != "" {
				return "Invalid YAML at " + base + " line " + line
			}
			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			return "Invalid config at " + base
		}
	}

	if errors.Is(err, domain.ErrMissingVar) {
		return "Missing variable"
	}
	return "Unexpected error (see logs)"
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

func extractMissingVarName(s string) string {
	ls := strings.ToLower(s)
	for _, marker := range []string{"missing variable:", "missing variable "} {
		i := strings.LastIndex(ls, marker)
		if i < 0 {
			continue
		}
		fields := strings.Fields(strings.TrimSpace(s[i+len(marker):]))
		if len(fields) == 0 {
			return ""
		}
		return strings.Trim(fields[0], " .,:;\"'")
	}
	return ""
}
