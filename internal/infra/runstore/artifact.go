package runstore

import (
	"time"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

// artifact is the on-disk shape of a saved run.
type artifact struct {
	ID         string          `json:"id"`
	Script     string          `json:"script"`
	ScriptPath string          `json:"script_path,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	EndedAt    time.Time       `json:"ended_at"`
	Failures   int             `json:"failures"`
	Results    []requestRecord `json:"results"`
}

type requestRecord struct {
	Name       string              `json:"name"`
	Method     string              `json:"method"`
	URL        string              `json:"url"`
	StatusCode int                 `json:"status_code"`
	LatencyMS  int64               `json:"latency_ms"`
	Assertions []checkRecord       `json:"assertions"`
	Extracts   []checkRecord       `json:"extracts"`
	Extracted  map[string]string   `json:"extracted"`
	Headers    map[string][]string `json:"response_headers"`
	Body       string              `json:"response_body,omitempty"`
	Truncated  bool                `json:"response_truncated,omitempty"`
	Error      *errorRecord        `json:"error,omitempty"`
}

type checkRecord struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

type errorRecord struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func newArtifact(id string, run domain.RunResult) artifact {
	a := artifact{
		ID:         id,
		Script:     run.ScriptName,
		ScriptPath: run.ScriptPath,
		StartedAt:  run.StartedAt.UTC(),
		EndedAt:    run.EndedAt.UTC(),
		Failures:   run.Failures(),
		Results:    make([]requestRecord, 0, len(run.Results)),
	}

	for _, rr := range run.Results {
		rec := requestRecord{
			Name:       rr.Name,
			Method:     string(rr.Method),
			URL:        rr.URL,
			StatusCode: rr.StatusCode,
			LatencyMS:  rr.LatencyMS,
			Assertions: make([]checkRecord, 0, len(rr.Assertions)),
			Extracts:   make([]checkRecord, 0, len(rr.Extracts)),
			Extracted:  map[string]string{},
			Headers:    map[string][]string{},
			Body:       string(rr.Response.Body),
			Truncated:  rr.Response.Truncated,
		}
		for _, as := range rr.Assertions {
			rec.Assertions = append(rec.Assertions, checkRecord{Name: as.Name, Passed: as.Passed, Message: as.Message})
		}
		for _, ex := range rr.Extracts {
			rec.Extracts = append(rec.Extracts, checkRecord{Name: ex.Name, Passed: ex.Success, Message: ex.Message})
		}
		for k, v := range rr.Extracted {
			rec.Extracted[k] = v
		}
		for k, v := range rr.Response.Headers {
			cp := make([]string, len(v))
			copy(cp, v)
			rec.Headers[k] = cp
		}
		if rr.Error != nil {
			rec.Error = &errorRecord{Kind: string(rr.Error.Kind), Message: rr.Error.Message}
		}
		a.Results = append(a.Results, rec)
	}

	return a
}
