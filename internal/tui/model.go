package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomizedcoder/go-uv-install-trace/internal/analyzer"
)

const headerHeight = 6

// Model represents the TUI state.
type Model struct {
	result *analyzer.Result
	report string

	viewport viewport.Model
	ready    bool
	quitting bool
}

// New creates a TUI model for browsing an analysis result.
// report is the pre-rendered text report shown in the scrolling viewport.
func New(result *analyzer.Result, report string) Model {
	return Model{
		result: result,
		report: report,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-1)
			m.viewport.SetContent(bodyStyle.Render(m.report))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - 1
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Run starts the TUI and blocks until the user quits.
func Run(result *analyzer.Result, report string) error {
	p := tea.NewProgram(New(result, report), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
