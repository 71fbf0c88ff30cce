package usecase

import (
	"context"
	"fmt"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
)

type ValidateScript struct {
	scripts  ports.ScriptLoader
	resolver *domain.VarResolver
}

func NewValidateScript(sl ports.ScriptLoader, opts ...Option) *ValidateScript {
	s := newSettings(opts)
	return &ValidateScript{scripts: sl, resolver: s.resolver}
}

// Execute checks a script without performing HTTP calls. Every templated
// field must resolve from the initial vars or from extract keys declared by
// an earlier request.
func (uc *ValidateScript) Execute(ctx context.Context, scriptPath string, overrides ...domain.Vars) (domain.Script, error) {
	script, err := uc.scripts.LoadScript(scriptPath)
	if err != nil {
		return domain.Script{}, err
	}

	layers := append([]domain.Vars{script.Vars}, overrides...)
	vars := domain.Merge(layers...)

	for _, req := range script.Requests {
		if err := ctx.Err(); err != nil {
			return script, err
		}

		rt, err := uc.resolver.NewRuntime(vars)
		if err != nil {
			return script, err
		}
		if _, err := rt.ResolveRequest(req); err != nil {
			return script, fmt.Errorf("request %q: %w", req.Name, err)
		}

		for k := range req.Extract {
			if _, ok := vars[k]; !ok {
				vars[k] = "x"
			}
		}
	}

	return script, nil
}
