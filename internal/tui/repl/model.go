// ============================================================================
// rdtrace - Recursive Descent Expression Tracer
// ============================================================================
//
// Package:     repl
// Description: Main Bubbletea model for the interactive trace REPL
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	rdtlexer "github.com/msto63/rdtrace/foundation/expr/lexer"
	"github.com/msto63/rdtrace/internal/render"
	"github.com/msto63/rdtrace/internal/tracer/service"
	"github.com/msto63/rdtrace/internal/tui"
)

// Config holds REPL configuration
type Config struct {
	Mode       string // "standard" or "compat"
	Indent     string
	MaxHistory int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Mode:       "standard",
		Indent:     "   ",
		MaxHistory: 100,
	}
}

// Model is the main Bubbletea model for the REPL
type Model struct {
	// State
	width   int
	height  int
	ready   bool
	tracing bool
	err     error

	// Components
	input    textinput.Model
	viewport viewport.Model

	// Trace state
	service *service.Service
	mode    string
	indent  string
	last    *service.TraceResponse
	content string

	// History, newest last
	history    []string
	histIdx    int
	maxHistory int
}

// New creates a new REPL model
func New(svc *service.Service, cfg Config) Model {
	mode, err := rdtlexer.ParseMode(cfg.Mode)
	if err != nil {
		mode = rdtlexer.ModeStandard
	}
	if cfg.Indent == "" {
		cfg.Indent = "   "
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 100
	}

	ti := textinput.New()
	ti.Placeholder = "(a + b) * 47"
	ti.Prompt = tui.PromptStyle.Render("expr> ")
	ti.CharLimit = 4096
	ti.Focus()

	return Model{
		input:      ti,
		viewport:   viewport.New(80, 20),
		service:    svc,
		mode:       mode.String(),
		indent:     cfg.Indent,
		maxHistory: cfg.MaxHistory,
	}
}

// Run starts the REPL on the terminal
func Run(svc *service.Service, cfg Config) error {
	_, err := tea.NewProgram(New(svc, cfg), tea.WithAltScreen()).Run()
	return err
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyUp:
			m.recall(-1)
			return m, nil
		case tea.KeyDown:
			m.recall(1)
			return m, nil
		case tea.KeyCtrlT:
			m.toggleMode()
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3 // Title + subtitle
		footerHeight := 5 // Input + status bar + help
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 3)
		m.input.Width = msg.Width - 10
		m.ready = true
		m.viewport.SetContent(m.content)

	case traceDoneMsg:
		m.tracing = false
		m.err = msg.err
		m.last = msg.resp
		m.content = m.renderTrace(msg)
		m.viewport.SetContent(m.content)
		m.viewport.GotoTop()
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit starts tracing the current input
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	if len(m.history) == 0 || m.history[len(m.history)-1] != line {
		m.history = append(m.history, line)
		if len(m.history) > m.maxHistory {
			m.history = m.history[len(m.history)-m.maxHistory:]
		}
	}
	m.histIdx = len(m.history)
	m.input.SetValue("")
	m.tracing = true

	return m, m.traceCmd(line)
}

func (m Model) traceCmd(line string) tea.Cmd {
	svc, mode, indent := m.service, m.mode, m.indent
	return func() tea.Msg {
		resp, err := svc.Trace(context.Background(), &service.TraceRequest{
			Expression:        line,
			Mode:              mode,
			Indent:            indent,
			InlineDiagnostics: mode == rdtlexer.ModeCompat.String(),
		})
		return traceDoneMsg{input: line, resp: resp, err: err}
	}
}

// recall moves through the input history
func (m *Model) recall(delta int) {
	if len(m.history) == 0 {
		return
	}
	m.histIdx += delta
	if m.histIdx < 0 {
		m.histIdx = 0
	}
	if m.histIdx >= len(m.history) {
		m.histIdx = len(m.history)
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.history[m.histIdx])
	m.input.CursorEnd()
}

func (m *Model) toggleMode() {
	if m.mode == rdtlexer.ModeCompat.String() {
		m.mode = rdtlexer.ModeStandard.String()
	} else {
		m.mode = rdtlexer.ModeCompat.String()
	}
}

func (m Model) renderTrace(msg traceDoneMsg) string {
	if msg.err != nil {
		return tui.RenderError(msg.err.Error())
	}

	out, err := render.String(render.FormatStyled, msg.resp.Events, m.indent)
	if err != nil {
		return tui.RenderError(err.Error())
	}
	if out == "" {
		out = tui.SubtitleStyle.Render("(no expression)") + "\n"
	}

	var sb strings.Builder
	sb.WriteString(out)
	if len(msg.resp.Diagnostics) > 0 && msg.resp.Mode != rdtlexer.ModeCompat.String() {
		sb.WriteString("\n")
		for _, d := range msg.resp.Diagnostics {
			sb.WriteString(tui.DiagnosticStyle.Render(d.String()))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// View renders the model
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(tui.RenderTitle("rdtrace"))
	b.WriteString("\n")
	b.WriteString(tui.BoxStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	b.WriteString(tui.RenderHelp("enter trace • ↑/↓ history • ctrl+t mode • pgup/pgdn scroll • esc quit"))
	return b.String()
}

func (m Model) statusBar() string {
	status := tui.StatusOKStyle.Render("ready")
	switch {
	case m.tracing:
		status = "tracing..."
	case m.err != nil:
		status = tui.StatusErrorStyle.Render("error")
	case m.last != nil && len(m.last.Diagnostics) > 0:
		status = tui.StatusErrorStyle.Render(fmt.Sprintf("%d diagnostics", len(m.last.Diagnostics)))
	}

	parts := []string{"mode: " + m.mode, status}
	if m.last != nil && m.last.Result != nil {
		parts = append(parts,
			fmt.Sprintf("expressions: %d", m.last.Result.Expressions),
			fmt.Sprintf("depth: %d", m.last.Result.MaxDepth))
	}
	return tui.StatusBarStyle.Width(max(m.width, 20)).Render(strings.Join(parts, "  |  "))
}
