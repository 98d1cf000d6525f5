package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomizedcoder/go-uv-install-trace/internal/analyzer"
	"github.com/randomizedcoder/go-uv-install-trace/internal/download"
	"github.com/randomizedcoder/go-uv-install-trace/internal/parallel"
	"github.com/randomizedcoder/go-uv-install-trace/internal/stages"
)

func sampleModel() Model {
	res := &analyzer.Result{
		Path:        "/tmp/uv_debug_output.log",
		Profile:     stages.ProfileStrict,
		Transitions: make([]stages.Transition, 10),
		FinalStage:  stages.StageFinalSummary,
		Counters:    stages.Counters{Resolved: 3, Prepared: 3, Installed: 3},
		Downloads: []*download.PackageDownload{
			{Package: "torch", StreamID: 7, Started: true, Ended: true},
		},
		Parallelism: parallel.Result{MaxConcurrent: 3},
	}
	return New(res, "report body")
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c", "esc"} {
		t.Run(key, func(t *testing.T) {
			m := sampleModel()

			var msg tea.KeyMsg
			switch key {
			case "ctrl+c":
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			case "esc":
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			default:
				msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
			}

			updated, cmd := m.Update(msg)
			if cmd == nil {
				t.Fatal("quit key returned no command")
			}
			if v := updated.(Model).View(); v != "" {
				t.Errorf("View() after quit = %q, want empty", v)
			}
		})
	}
}

func TestModel_WindowSizeReadiesViewport(t *testing.T) {
	m := sampleModel()

	if m.View() != "loading..." {
		t.Errorf("View() before sizing = %q, want loading...", m.View())
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	sized := updated.(Model)

	if !sized.ready {
		t.Fatal("model not ready after WindowSizeMsg")
	}
	view := sized.View()
	if !strings.Contains(view, "go-uv-install-trace") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "/tmp/uv_debug_output.log") {
		t.Error("view missing trace path")
	}
	if !strings.Contains(view, "q quit") {
		t.Error("view missing help line")
	}
}

func TestModel_ResizeKeepsContent(t *testing.T) {
	m := sampleModel()

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	updated, _ = updated.(Model).Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	resized := updated.(Model)

	if resized.viewport.Width != 60 {
		t.Errorf("viewport width = %d, want 60", resized.viewport.Width)
	}
	if !resized.ready {
		t.Error("resize reset readiness")
	}
}

func TestModel_InitIsNil(t *testing.T) {
	if cmd := sampleModel().Init(); cmd != nil {
		t.Error("Init() returned a command, want nil")
	}
}
