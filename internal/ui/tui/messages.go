package tui

import "github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"

type scriptsLoadedMsg struct {
	refs []domain.ScriptRef
	err  error
}

type runnerDoneMsg struct {
	run domain.RunResult
	id  string
	err error
}
