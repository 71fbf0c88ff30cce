package usecase

import (
	"context"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

type fakeScriptLoader struct {
	script domain.Script
	err    error
}

func (f fakeScriptLoader) LoadScript(_ string) (domain.Script, error) {
	return f.script, f.err
}

func (f fakeScriptLoader) ListScripts(_ string) ([]domain.ScriptRef, error) {
	return nil, nil
}

type fakeStore struct {
	saved bool
	last  domain.RunResult
	err   error
}

func (s *fakeStore) SaveRun(run domain.RunResult) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = true
	s.last = run
	return "run-123", nil
}

// multiCallRunner returns a different result/error per call and captures vars passed.
type multiCallRunner struct {
	results      []domain.RequestResult
	errs         []error
	capturedVars []domain.Vars
	onCall       func(i int)
}

func (m *multiCallRunner) Run(_ context.Context, _ domain.RequestSpec, vars domain.Vars) (domain.RequestResult, error) {
	snap := make(domain.Vars, len(vars))
	for k, v := range vars {
		snap[k] = v
	}
	i := len(m.capturedVars)
	m.capturedVars = append(m.capturedVars, snap)
	if m.onCall != nil {
		m.onCall(i)
	}

	var res domain.RequestResult
	var err error
	if i < len(m.results) {
		res = m.results[i]
	}
	if i < len(m.errs) {
		err = m.errs[i]
	}
	return res, err
}

type fakeFetcher struct {
	resp   domain.Response
	clone  domain.Response
	err    error
	specs  []domain.RequestSpec
	cloned int
}

func (f *fakeFetcher) Fetch(_ context.Context, spec domain.RequestSpec) (domain.Response, error) {
	f.specs = append(f.specs, spec)
	return f.resp, f.err
}

func (f *fakeFetcher) FetchCloned(_ context.Context, spec domain.RequestSpec) (domain.Response, domain.Response, error) {
	f.specs = append(f.specs, spec)
	f.cloned++
	return f.resp, f.clone, f.err
}
