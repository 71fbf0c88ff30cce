package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const runTimeout = 5 * time.Minute

func cmdLoadScripts(deps Deps) tea.Cmd {
	return func() tea.Msg {
		if deps.Scripts == nil {
			return scriptsLoadedMsg{err: errors.New("script loader is nil")}
		}
		refs, err := deps.Scripts.ListScripts(deps.Root)
		return scriptsLoadedMsg{refs: refs, err: err}
	}
}

func listenRunner(ch <-chan runnerDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return runnerDoneMsg{err: errors.New("runner channel closed")}
		}
		return msg
	}
}

// startRunAsync executes the script in a goroutine; the returned command
// delivers a single runnerDoneMsg.
func startRunAsync(deps Deps, scriptPath string) (chan runnerDoneMsg, tea.Cmd) {
	ch := make(chan runnerDoneMsg, 1)

	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	go func() {
		defer close(ch)

		if deps.Runner == nil {
			ch <- runnerDoneMsg{err: errors.New("script runner is nil")}
			return
		}

		log.Info("tui.run.start", "workspace", deps.Root, "script_path", scriptPath, "debug", deps.Debug)

		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		run, id, err := deps.Runner.Execute(ctx, scriptPath, deps.Vars)
		if err != nil {
			log.Error("tui.run.failed", "err", err, "saved_id", id)
		} else {
			log.Info("tui.run.ok", "saved_id", id, "failures", run.Failures())
		}

		ch <- runnerDoneMsg{run: run, id: id, err: err}
	}()

	return ch, listenRunner(ch)
}
