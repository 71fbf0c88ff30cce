package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
	ucassert "github.com/GuuhFranca/blibioteca-de-livros-on/internal/usecase/assert"
	ucextract "github.com/GuuhFranca/blibioteca-de-livros-on/internal/usecase/extract"
)

type RunScript struct {
	scripts ports.ScriptLoader
	runner  ports.RequestRunner
	store   ports.ArtifactStore
	log     *slog.Logger
}

// NewRunScript wires a script runner. store may be nil, in which case runs
// are not persisted.
func NewRunScript(sl ports.ScriptLoader, rr ports.RequestRunner, store ports.ArtifactStore, opts ...Option) *RunScript {
	s := newSettings(opts)
	return &RunScript{
		scripts: sl,
		runner:  rr,
		store:   store,
		log:     s.log,
	}
}

// Execute runs every request of the script in order. Variables are layered
// script < overrides (left to right) < extracted values, the last being
// updated after each request. The returned id is empty when nothing was saved.
func (uc *RunScript) Execute(ctx context.Context, scriptPath string, overrides ...domain.Vars) (domain.RunResult, string, error) {
	script, err := uc.scripts.LoadScript(scriptPath)
	if err != nil {
		return domain.RunResult{}, "", err
	}

	layers := append([]domain.Vars{script.Vars}, overrides...)
	vars := domain.Merge(layers...)

	run := domain.RunResult{
		ScriptName: script.Name,
		ScriptPath: scriptPath,
		StartedAt:  time.Now(),
		Results:    make([]domain.RequestResult, 0, len(script.Requests)),
	}

	uc.log.Info("script.run.start", "script", script.Name, "path", scriptPath, "requests", len(script.Requests))

	for _, req := range script.Requests {
		if err := ctx.Err(); err != nil {
			run.EndedAt = time.Now()
			uc.log.Warn("script.run.cancelled", "script", script.Name, "done", len(run.Results))
			return run, "", err
		}

		rr, runErr := uc.runner.Run(ctx, req, vars)
		if runErr != nil {
			// Config-level problem: record it and move on.
			run.Results = append(run.Results, failedResult(req, runErr))
			uc.log.Warn("script.request.invalid", "request", req.Name, "err", runErr.Error())
			continue
		}

		rr.Assertions = ucassert.Evaluate(req.Assert, rr.StatusCode, rr.LatencyMS, rr.Response.Body)

		extracted, extractResults := ucextract.Apply(rr.Response.Body, req.Extract)
		rr.Extracts = extractResults
		rr.Extracted = extracted
		for k, v := range extracted {
			vars[k] = v
		}

		uc.log.Info("script.request.done",
			"request", req.Name,
			"status", rr.StatusCode,
			"latency_ms", rr.LatencyMS,
			"failed", rr.Failed(),
		)
		run.Results = append(run.Results, rr)
	}

	run.EndedAt = time.Now()
	uc.log.Info("script.run.done", "script", script.Name, "failures", run.Failures())

	if uc.store == nil {
		return run, "", nil
	}

	id, err := uc.store.SaveRun(run)
	if err != nil {
		return run, "", err
	}
	run.ID = id
	return run, id, nil
}

func failedResult(req domain.RequestSpec, err error) domain.RequestResult {
	return domain.RequestResult{
		Name:       req.Name,
		Method:     req.Method,
		URL:        req.URL,
		Assertions: []domain.AssertionResult{},
		Extracts:   []domain.ExtractResult{},
		Extracted:  domain.Vars{},
		Response: domain.ResponseSnapshot{
			Headers: map[string][]string{},
		},
		Error: domain.NewRunError(err),
	}
}
