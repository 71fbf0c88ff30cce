package tui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/GuuhFranca/blibioteca-de-livros-on/internal/domain"
)

type screen int

const (
	screenScripts screen = iota
	screenRunning
	screenResults
)

type scriptItem struct {
	ref domain.ScriptRef
	rel string
}

func (s scriptItem) Title() string       { return s.ref.Name }
func (s scriptItem) Description() string { return s.rel }
func (s scriptItem) FilterValue() string { return s.ref.Name }

type model struct {
	theme Theme
	deps  Deps

	scr     screen
	scripts list.Model
	spin    spinner.Model
	results viewport.Model

	running    bool
	activePath string
	lastRun    domain.RunResult
	lastID     string
	toast      string
}

func Run(deps Deps) error {
	p := tea.NewProgram(wrapSafe(newModel(deps), deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Scripts"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return model{
		theme:   DefaultTheme(),
		deps:    deps,
		scr:     screenScripts,
		scripts: l,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		results: viewport.New(0, 0),
	}
}

func (m model) Init() tea.Cmd { return cmdLoadScripts(m.deps) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width-4, msg.Height-10
		m.scripts.SetSize(w, h)
		m.results.Width = w
		m.results.Height = h
		return m, nil

	case scriptsLoadedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, r := range msg.refs {
			rel, err := filepath.Rel(m.deps.Root, r.Path)
			if err != nil {
				rel = r.Path
			}
			items = append(items, scriptItem{ref: r, rel: rel})
		}
		m.toast = ""
		return m, m.scripts.SetItems(items)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case runnerDoneMsg:
		m.running = false
		m.lastRun = msg.run
		m.lastID = msg.id
		m.toast = ""
		if msg.err != nil {
			m.toast = userMessage(msg.err)
		}
		m.results.SetContent(renderRun(m.theme, msg.run, msg.id))
		m.results.GotoTop()
		m.scr = screenResults
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	switch m.scr {
	case screenScripts:
		m.scripts, cmd = m.scripts.Update(msg)
	case screenResults:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}
	// Let the list consume keys while the filter input is open.
	if m.scr == screenScripts && m.scripts.FilterState() == list.Filtering {
		return m, nil, false
	}

	switch msg.String() {
	case "q":
		if m.scr == screenScripts {
			return m, tea.Quit, true
		}
		if m.scr == screenResults {
			m.scr = screenScripts
			return m, nil, true
		}

	case "esc", "b":
		if m.scr == screenResults {
			m.scr = screenScripts
			return m, nil, true
		}

	case "r":
		if m.scr == screenScripts {
			return m, cmdLoadScripts(m.deps), true
		}
		if m.scr == screenResults && m.activePath != "" {
			return m.startRun(m.activePath)
		}

	case "enter":
		if m.scr == screenScripts {
			it, ok := m.scripts.SelectedItem().(scriptItem)
			if !ok {
				return m, nil, true
			}
			return m.startRun(it.ref.Path)
		}
	}
	return m, nil, false
}

func (m model) startRun(path string) (model, tea.Cmd, bool) {
	if m.running {
		return m, nil, true
	}
	m.running = true
	m.activePath = path
	m.scr = screenRunning
	m.toast = ""

	_, listen := startRunAsync(m.deps, path)
	return m, tea.Batch(listen, m.spin.Tick), true
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("biblioteca") + "\n" +
		m.theme.Subtitle.Render(fmt.Sprintf("Workspace: %s", m.deps.Root)) + "\n"

	toast := ""
	if m.toast != "" {
		toast = "\n" + m.theme.Fail.Render("⚠ "+m.toast) + "\n"
	}

	switch m.scr {
	case screenScripts:
		help := m.theme.Help.Render("↑/↓ navigate • enter run • / search • r reload • q quit")
		return wrap.Render(header + toast + "\n" + m.theme.Card.Render(m.scripts.View()) + "\n" + help)

	case screenRunning:
		name := filepath.Base(m.activePath)
		return wrap.Render(header + "\n" + m.theme.Card.Render(m.spin.View()+" running "+name+"…"))

	case screenResults:
		help := m.theme.Help.Render("↑/↓ scroll • r run again • esc/b back • q scripts")
		return wrap.Render(header + toast + "\n" + m.theme.Card.Render(m.results.View()) + "\n" + help)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
