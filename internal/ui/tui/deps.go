package tui

import (
	"context"
	"log/slog"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/ports"
)

// ScriptRunner is the slice of usecase.RunScript the TUI needs.
type ScriptRunner interface {
	Execute(ctx context.Context, scriptPath string, overrides ...domain.Vars) (domain.RunResult, string, error)
}

type Deps struct {
	Root    string
	Scripts ports.ScriptLoader
	Runner  ScriptRunner
	Vars    domain.Vars

	Logger *slog.Logger
	Debug  bool
}
