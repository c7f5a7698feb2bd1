// Package tui provides an interactive terminal chat following the Elm
// architecture. It drives the same coordinator as the web and CLI fronts.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/parchment-labs/docuchat/internal/core/domain"
	"github.com/parchment-labs/docuchat/internal/core/ports/driving"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sourceStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle      = lipgloss.NewStyle().Faint(true)
)

// answerMsg carries a completed answer back into the update loop.
type answerMsg struct {
	answer *domain.Answer
}

// errMsg carries a failed request back into the update loop.
type errMsg struct {
	err error
}

// App is the chat TUI model.
type App struct {
	coordinator driving.Coordinator
	sessionID   string

	ctx      context.Context
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	transcript []string
	waiting    bool
	ready      bool
	err        error
}

// NewApp creates the chat TUI bound to a session.
func NewApp(ctx context.Context, coordinator driving.Coordinator, sessionID string) *App {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Focus()
	ti.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		coordinator: coordinator,
		sessionID:   sessionID,
		ctx:         ctx,
		input:       ti,
		spinner:     sp,
	}
}

// Init starts the cursor blink.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 3
		if !a.ready {
			a.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		a.refreshViewport()
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			return a.submit()
		}

	case answerMsg:
		a.waiting = false
		a.err = nil
		a.appendAnswer(msg.answer)
		return a, nil

	case errMsg:
		a.waiting = false
		a.err = msg.err
		a.refreshViewport()
		return a, nil

	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// submit sends the current input as a question.
func (a *App) submit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(a.input.Value())
	if question == "" || a.waiting {
		return a, nil
	}

	a.input.SetValue("")
	a.waiting = true
	a.err = nil
	a.transcript = append(a.transcript, userStyle.Render("you: ")+question)
	a.refreshViewport()

	return a, tea.Batch(a.spinner.Tick, a.ask(question))
}

// ask runs the question through the coordinator off the update loop.
func (a *App) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.coordinator.Ask(a.ctx, a.sessionID, question)
		if err != nil {
			return errMsg{err: err}
		}
		return answerMsg{answer: answer}
	}
}

func (a *App) appendAnswer(answer *domain.Answer) {
	line := assistantStyle.Render("docuchat: ") + answer.Text
	if len(answer.Citations) > 0 {
		seen := make(map[string]bool)
		var names []string
		for _, c := range answer.Citations {
			if !seen[c.Filename] {
				seen[c.Filename] = true
				names = append(names, c.Filename)
			}
		}
		line += "\n" + sourceStyle.Render("sources: "+strings.Join(names, ", "))
	}
	a.transcript = append(a.transcript, line)
	a.refreshViewport()
}

func (a *App) refreshViewport() {
	if !a.ready {
		return
	}
	content := strings.Join(a.transcript, "\n\n")
	if a.err != nil {
		content += "\n\n" + errorStyle.Render("error: "+a.err.Error())
	}
	a.viewport.SetContent(content)
	a.viewport.GotoBottom()
}

// View renders the chat.
func (a *App) View() string {
	if !a.ready {
		return "loading..."
	}

	header := titleStyle.Render("DocuChat") + sourceStyle.Render("  session "+a.sessionID)

	footer := a.input.View()
	if a.waiting {
		footer = a.spinner.View() + " thinking..."
	}
	help := helpStyle.Render("enter: send  esc: quit")

	return fmt.Sprintf("%s\n\n%s\n\n%s\n%s", header, a.viewport.View(), footer, help)
}

// Run starts the TUI and blocks until it exits.
func Run(ctx context.Context, coordinator driving.Coordinator, sessionID string) error {
	app := NewApp(ctx, coordinator, sessionID)
	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
