package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/viz"
)

// App lists the known scenes and opens the live view for the chosen one.
// Esc returns from the live view to the list.
type App struct {
	registry *experiment.Registry
	scenes   []string
	cursor   int
	live     *Live
	err      error
}

func NewApp(r *experiment.Registry) *App {
	return &App{
		registry: r,
		scenes:   r.ListScenes(),
	}
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.live = nil
			return a, nil
		}
		_, cmd := a.live.Update(msg)
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.scenes)-1 {
			a.cursor++
		}
	case "enter":
		if len(a.scenes) == 0 {
			return a, nil
		}
		cfg, err := a.registry.GetScene(a.scenes[a.cursor])
		if err != nil {
			a.err = err
			return a, nil
		}
		live, err := NewLive(cfg)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.err = nil
		a.live = live
		return a, live.Init()
	}
	return a, nil
}

func describe(cfg *config.Config) string {
	switch {
	case cfg.Generator != nil:
		return fmt.Sprintf("%s of %d bodies", cfg.Generator.Kind, cfg.Generator.Count)
	case len(cfg.Bodies) == 1:
		return "1 body"
	}
	return fmt.Sprintf("%d bodies", len(cfg.Bodies))
}

func (a *App) View() string {
	if a.live != nil {
		return a.live.View()
	}

	var s strings.Builder
	s.WriteString(viz.Header.Render("GRAVSIM") + "\n\n")
	for i, name := range a.scenes {
		info := ""
		if cfg, err := a.registry.GetScene(name); err == nil {
			info = describe(cfg)
		}
		line := fmt.Sprintf("%-12s %s", name, viz.Subtle.Render(info))
		if i == a.cursor {
			s.WriteString(viz.Title.Render("> ") + line + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}
	if a.err != nil {
		s.WriteString("\n" + viz.Warning.Render(a.err.Error()) + "\n")
	}
	s.WriteString("\n" + viz.KeyHint.Render("↑↓:Select Enter:Open Esc:Back Q:Quit"))
	return s.String()
}

func RunInteractive(r *experiment.Registry) error {
	_, err := tea.NewProgram(NewApp(r), tea.WithAltScreen()).Run()
	return err
}
