package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

const maxBodyPreview = 400

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func prettyBody(body []byte) string {
	if len(body) == 0 {
		return "(empty)"
	}
	var js any
	if err := json.Unmarshal(body, &js); err == nil {
		b, _ := json.MarshalIndent(js, "", "  ")
		return string(b)
	}
	return string(bytes.TrimSpace(body))
}

func renderRun(t Theme, run domain.RunResult, id string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %d request(s), %d failed\n", t.Title.Render(run.ScriptName), len(run.Results), run.Failures())
	if id != "" {
		fmt.Fprintf(&b, "saved as %s\n", id)
	}
	b.WriteString("\n")

	for _, rr := range run.Results {
		mark := t.Pass.Render("PASS")
		if rr.Failed() {
			mark = t.Fail.Render("FAIL")
		}
		fmt.Fprintf(&b, "[%s] %s %s\n", mark, rr.Method, rr.Name)
		b.WriteString(renderResultDetails(rr))
	}
	return b.String()
}

func renderResultDetails(rr domain.RequestResult) string {
	var b strings.Builder

	if rr.Error != nil {
		b.WriteString("  error: ")
		b.WriteString(string(rr.Error.Kind))
		b.WriteString(": ")
		b.WriteString(rr.Error.Message)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "  %s\n  status %d in %dms\n", rr.URL, rr.StatusCode, rr.LatencyMS)

	for _, a := range rr.Assertions {
		status := "FAIL"
		if a.Passed {
			status = "PASS"
		}
		fmt.Fprintf(&b, "  - %s [%s] %s\n", a.Name, status, a.Message)
	}

	for _, e := range rr.Extracts {
		status := "FAIL"
		if e.Success {
			status = "OK"
		}
		fmt.Fprintf(&b, "  - extract %s [%s] %s\n", e.Name, status, e.Message)
	}

	if len(rr.Extracted) > 0 {
		keys := make([]string, 0, len(rr.Extracted))
		for k := range rr.Extracted {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  = %s: %s\n", k, rr.Extracted[k])
		}
	}

	if rr.Failed() && len(rr.Response.Body) > 0 {
		body := clampString(prettyBody(rr.Response.Body), maxBodyPreview)
		if rr.Response.Truncated {
			body += "\n(truncated)"
		}
		b.WriteString("  body:\n")
		for _, line := range strings.Split(body, "\n") {
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	return b.String()
}
