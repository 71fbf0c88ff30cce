package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/infra/logger"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/usecase"
)

func runCmd(opts *rootOptions) *cobra.Command {
	var script string
	var vars []string
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "run",
		Short: "Run a request script against a server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ws, err := loadWorkspace(opts)
			if err != nil {
				return err
			}

			scriptPath, err := resolveScriptPath(ws, script)
			if err != nil {
				return err
			}

			flagVars, err := parseVars(vars)
			if err != nil {
				return err
			}

			var store ports.ArtifactStore = ws.store
			if noSave {
				store = nil
			}

			uc := usecase.NewRunScript(ws.scripts, ws.runner, store, usecase.WithLogger(logger.L()))

			run, runID, err := uc.Execute(cmd.Context(), scriptPath, ws.baseVars(), flagVars)
			if err != nil {
				// Print what ran before the failure.
				_ = printRun(cmd.OutOrStdout(), run, runID, format)
				return err
			}

			if err := printRun(cmd.OutOrStdout(), run, runID, format); err != nil {
				return err
			}

			if fails := run.Failures(); fails > 0 {
				return fmt.Errorf("run failed (%d failed request(s))", fails)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&script, "script", "s", "", "Script name or path (required)")
	c.Flags().StringArrayVar(&vars, "var", nil, "variable key=value, overrides script and config vars (repeatable)")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save run artifact under runs/")
	c.Flags().StringVar(&format, "format", formatPretty, "Output format: pretty|json")

	_ = c.MarkFlagRequired("script")
	return c
}

func printRun(w io.Writer, run domain.RunResult, runID string, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, map[string]any{
			"run_id": runID,
			"run":    runPayload(run),
		})
	case formatPretty, "":
		printPrettyRun(w, run, runID)
		return nil
	default:
		return checkFormat(format)
	}
}

func runPayload(run domain.RunResult) map[string]any {
	results := make([]map[string]any, 0, len(run.Results))
	for _, r := range run.Results {
		item := map[string]any{
			"name":        r.Name,
			"method":      r.Method,
			"url":         r.URL,
			"status_code": r.StatusCode,
			"latency_ms":  r.LatencyMS,
			"failed":      r.Failed(),
			"assertions":  r.Assertions,
			"extracted":   r.Extracted,
		}
		if r.Error != nil {
			item["error"] = map[string]string{"kind": string(r.Error.Kind), "message": r.Error.Message}
		}
		results = append(results, item)
	}
	return map[string]any{
		"script":      run.ScriptName,
		"script_path": run.ScriptPath,
		"started_at":  run.StartedAt,
		"ended_at":    run.EndedAt,
		"failures":    run.Failures(),
		"results":     results,
	}
}

func printPrettyRun(w io.Writer, run domain.RunResult, runID string) {
	total := run.EndedAt.Sub(run.StartedAt)
	if run.StartedAt.IsZero() || run.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "Script:     %s\n", styles.Title.Render(run.ScriptName))
	fmt.Fprintf(w, "Started:    %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Ended:      %s\n", run.EndedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration:   %s\n", total)
	if runID != "" {
		fmt.Fprintf(w, "Run ID:     %s\n", runID)
	}
	fmt.Fprintln(w)

	for _, r := range run.Results {
		status := styles.OK.Render("OK")
		if r.Failed() {
			status = styles.Fail.Render("FAIL")
		}

		fmt.Fprintf(w, "- [%s] %s (%s) %dms\n", status, r.Name, r.Method, r.LatencyMS)

		if r.Error != nil {
			fmt.Fprintf(w, "  error: %s (%s)\n", r.Error.Message, r.Error.Kind)
		} else {
			fmt.Fprintf(w, "  status: %s\n", statusBadge(r.StatusCode))
		}

		if len(r.Assertions) > 0 {
			pass, fail := countAssertionPassFail(r.Assertions)
			fmt.Fprintf(w, "  assertions: %d pass / %d fail\n", pass, fail)
			for _, a := range r.Assertions {
				mark := "✓"
				if !a.Passed {
					mark = "✗"
				}
				fmt.Fprintf(w, "    %s %s: %s\n", mark, a.Name, a.Message)
			}
		}

		if len(r.Extracts) > 0 {
			ok, bad := countExtractPassFail(r.Extracts)
			fmt.Fprintf(w, "  extracts: %d ok / %d fail\n", ok, bad)
			for _, e := range r.Extracts {
				mark := "✓"
				if !e.Success {
					mark = "✗"
				}
				fmt.Fprintf(w, "    %s %s: %s\n", mark, e.Name, e.Message)
			}
		}

		if len(r.Extracted) > 0 {
			keys := make([]string, 0, len(r.Extracted))
			for k := range r.Extracted {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(w, "  extracted vars:\n")
			for _, k := range keys {
				fmt.Fprintf(w, "    - %s = %s\n", k, r.Extracted[k])
			}
		}

		fmt.Fprintln(w)
	}
}

func countAssertionPassFail(in []domain.AssertionResult) (pass int, fail int) {
	for _, a := range in {
		if a.Passed {
			pass++
		} else {
			fail++
		}
	}
	return pass, fail
}

func countExtractPassFail(in []domain.ExtractResult) (ok int, bad int) {
	for _, e := range in {
		if e.Success {
			ok++
		} else {
			bad++
		}
	}
	return ok, bad
}
