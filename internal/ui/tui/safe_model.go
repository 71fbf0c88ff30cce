package tui

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const crashNotice = "Unexpected error (see logs)"

// safeModel keeps a panic in the model from leaving the terminal in raw mode.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return safeModel{m: m, log: log}
}

// report logs a recovered panic together with the script that was active.
func (s safeModel) report(stage string, r any) {
	s.log.Error("tui.panic",
		"stage", stage,
		"script", s.m.activePath,
		"screen", int(s.m.scr),
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
}

func (s safeModel) Init() (cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.report("init", r)
			cmd = nil
		}
	}()
	return s.m.Init()
}

func (s safeModel) Update(msg tea.Msg) (next tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.report("update", r)
			// A run in flight cannot be trusted after a panic; go back to the list.
			s.m.running = false
			s.m.activePath = ""
			s.m.scr = screenScripts
			s.m.toast = crashNotice
			next, cmd = s, nil
		}
	}()

	inner, c := s.m.Update(msg)
	if mm, ok := inner.(model); ok {
		s.m = mm
	}
	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.report("view", r)
			out = crashNotice
		}
	}()
	return s.m.View()
}

var _ tea.Model = safeModel{}
