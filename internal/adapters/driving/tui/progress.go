package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/fiches/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/fiches/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/fiches/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driving"
)

const maxBarWidth = 60

// Model shows the progress of one batch. It implements tea.Model.
type Model struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	bar    progress.Model
	title  string
	cancel context.CancelFunc

	done     int
	total    int
	last     string
	failures []string

	showFailures bool
	cancelling   bool
	finished     bool
	result       *domain.BatchResult
	err          error
}

// NewModel creates a progress view. cancel is called when the user quits.
func NewModel(title string, cancel context.CancelFunc) Model {
	s := styles.DefaultStyles()
	return Model{
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		bar: progress.New(
			progress.WithGradient(string(s.Theme().Primary), string(s.Theme().Secondary)),
			progress.WithWidth(40),
		),
		title:  title,
		cancel: cancel,
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
		switch {
		case key.Matches(msg, m.keys.Quit):
			if !m.cancelling && m.cancel != nil {
				m.cancel()
			}
			m.cancelling = true
		case key.Matches(msg, m.keys.Failures):
			m.showFailures = !m.showFailures
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, maxBarWidth)
	case messages.RowDone:
		m.done, m.total, m.last = msg.Done, msg.Total, msg.Name
		if msg.Err != nil {
			m.failures = append(m.failures, msg.Err.Error())
		}
	case messages.BatchDone:
		m.finished = true
		m.result, m.err = msg.Result, msg.Err
		return m, tea.Quit
	}
	return m, nil
}

// Percent returns the completed share of rows.
func (m Model) Percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.Percent()))
	b.WriteString("\n")

	status := fmt.Sprintf("%d/%d", m.done, m.total)
	if m.last != "" {
		status += "  " + m.last
	}
	b.WriteString(m.styles.Normal.Render(status))
	b.WriteString("\n")

	if n := len(m.failures); n > 0 {
		b.WriteString(m.styles.Warning.Render(fmt.Sprintf("%d row(s) failed", n)))
		b.WriteString("\n")
		if m.showFailures {
			for _, f := range m.failures {
				b.WriteString(m.styles.Error.Render("  " + f))
				b.WriteString("\n")
			}
		}
	}

	switch {
	case m.finished:
	case m.cancelling:
		b.WriteString(m.styles.Muted.Render("Cancelling..."))
		b.WriteString("\n")
	default:
		var help []string
		for _, k := range m.keys.ShortHelp() {
			help = append(help, k.Help().Key+" "+k.Help().Desc)
		}
		b.WriteString(m.styles.Help.Render(strings.Join(help, " • ")))
		b.WriteString("\n")
	}
	return b.String()
}

// reporter forwards batch progress into a running program.
type reporter struct {
	program *tea.Program
}

// RowDone implements driving.ProgressReporter.
func (r reporter) RowDone(done, total int, name string, err error) {
	r.program.Send(messages.RowDone{Done: done, Total: total, Name: name, Err: err})
}

// RunBatch runs req while showing its progress on out. Quitting the view
// cancels the batch and returns ErrInterrupted.
func RunBatch(
	ctx context.Context, ports *Ports, req driving.BatchRequest, out io.Writer, opts ...tea.ProgramOption,
) (*domain.BatchResult, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	title := "fiches: " + req.Profile.Name
	opts = append([]tea.ProgramOption{tea.WithOutput(out)}, opts...)
	p := tea.NewProgram(NewModel(title, cancel), opts...)

	req.Progress = reporter{program: p}
	go func() {
		result, err := ports.Batch.Run(ctx, req)
		p.Send(messages.BatchDone{Result: result, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("progress view: unexpected model %T", final)
	}
	if m.cancelling && errors.Is(m.err, context.Canceled) {
		return nil, ErrInterrupted
	}
	return m.result, m.err
}
