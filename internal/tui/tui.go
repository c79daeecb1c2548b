// Package tui emulates the clock face and its four buttons in a terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"binclock/internal/button"
	"binclock/internal/clock"
	"binclock/internal/glyph"
	"binclock/internal/screen"
)

// Clock is the part of runner.Runner the emulator drives.
type Clock interface {
	Step() error
	Click(i int) error
	Snapshot() clock.Snapshot
	Rows() glyph.Pattern
}

type keyMap struct {
	Buttons [button.MaxButtons]key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return append(k.Buttons[:], k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.Buttons[:], {k.Help, k.Quit}}
}

var keys = keyMap{
	Buttons: [button.MaxButtons]key.Binding{
		button.Mode:  key.NewBinding(key.WithKeys("1", "m"), key.WithHelp("1/m", "mode")),
		button.Left:  key.NewBinding(key.WithKeys("2", "left", "h"), key.WithHelp("2/←", "left")),
		button.Right: key.NewBinding(key.WithKeys("3", "right", "l"), key.WithHelp("3/→", "right")),
		button.Set:   key.NewBinding(key.WithKeys("4", "enter", "s"), key.WithHelp("4/enter", "set")),
	},
	Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	ledOn     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3B30"))
	ledOff    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	faceStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555")).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
)

type tickMsg time.Time

// Model is the bubbletea model of the emulator.
type Model struct {
	clock    Clock
	interval time.Duration
	help     help.Model
	err      error
}

// New returns a model that steps c every interval.
func New(c Clock, interval time.Duration) Model {
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	return Model{clock: c, interval: interval, help: help.New()}
}

// Err is the tick error that stopped the emulator, if any.
func (m Model) Err() error { return m.err }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if err := m.clock.Step(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		for i, b := range keys.Buttons {
			if key.Matches(msg, b) {
				// 큐가 가득 차면 조용히 버린다.
				_ = m.clock.Click(i)
				break
			}
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) View() string {
	snap := m.clock.Snapshot()

	var b strings.Builder
	b.WriteString(faceStyle.Render(Face(m.clock.Rows())))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("%s  %s", snap.State, snap.DateTime)))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(keys))
	b.WriteString("\n")
	return b.String()
}

// Face renders rows as styled LEDs, one line per pixel row.
func Face(rows glyph.Pattern) string {
	lines := make([]string, 0, screen.Height)
	for y := 0; y < screen.Height; y++ {
		var line strings.Builder
		for x := 0; x < screen.Width; x++ {
			if x > 0 {
				line.WriteByte(' ')
			}
			if rows[y]&(0x80>>x) != 0 {
				line.WriteString(ledOn.Render("●"))
			} else {
				line.WriteString(ledOff.Render("·"))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// Run starts the emulator in the alternate screen and blocks until quit.
func Run(c Clock, interval time.Duration) error {
	final, err := tea.NewProgram(New(c, interval), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
