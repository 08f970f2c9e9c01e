package tui

import (
	"bytes"
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fiches/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driving"
)

// fakeBatch reports every row then returns its result, or waits for
// cancellation when block is set.
type fakeBatch struct {
	rows  []string
	block bool
	err   error
}

func (f *fakeBatch) Run(ctx context.Context, req driving.BatchRequest) (*domain.BatchResult, error) {
	for i, name := range f.rows {
		req.Progress.RowDone(i+1, len(f.rows), name, nil)
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	docs := make([]domain.NamedBuffer, len(f.rows))
	for i, name := range f.rows {
		docs[i] = domain.NamedBuffer{Name: name}
	}
	return &domain.BatchResult{Profile: req.Profile.Name, Documents: docs, Rows: len(f.rows)}, nil
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestModel_TracksRows(t *testing.T) {
	m := NewModel("fiches", nil)
	assert.Zero(t, m.Percent())

	m = update(t, m, messages.RowDone{Done: 1, Total: 4, Name: "Dupont_Marie.pdf"})
	m = update(t, m, messages.RowDone{Done: 2, Total: 4, Name: "row 2", Err: errors.New("row 2: boom")})

	assert.InDelta(t, 0.5, m.Percent(), 1e-9)
	view := m.View()
	assert.Contains(t, view, "2/4")
	assert.Contains(t, view, "1 row(s) failed")
	assert.NotContains(t, view, "row 2: boom")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	assert.Contains(t, m.View(), "row 2: boom")
}

func TestModel_QuitCancelsOnce(t *testing.T) {
	calls := 0
	m := NewModel("fiches", func() { calls++ })

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	assert.Equal(t, 1, calls)
	assert.Contains(t, m.View(), "Cancelling")
}

func TestModel_BatchDoneQuits(t *testing.T) {
	m := NewModel("fiches", nil)
	result := &domain.BatchResult{Profile: "fiches"}

	next, cmd := m.Update(messages.BatchDone{Result: result})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Same(t, result, next.(Model).result)
}

func TestModel_WindowResizeCapsBar(t *testing.T) {
	m := update(t, NewModel("fiches", nil), tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Equal(t, maxBarWidth, m.bar.Width)

	m = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 40})
	assert.Equal(t, 26, m.bar.Width)
}

func runOpts() []tea.ProgramOption {
	return []tea.ProgramOption{tea.WithInput(nil), tea.WithoutRenderer()}
}

func TestRunBatch(t *testing.T) {
	ports := &Ports{Batch: &fakeBatch{rows: []string{"a.pdf", "b.pdf"}}}
	req := driving.BatchRequest{Profile: domain.Profile{Name: "fiches"}}

	result, err := RunBatch(context.Background(), ports, req, &bytes.Buffer{}, runOpts()...)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, result.Names())
}

func TestRunBatch_Error(t *testing.T) {
	boom := &domain.BatchError{Row: 2, Err: domain.ErrMalformedDocument}
	ports := &Ports{Batch: &fakeBatch{err: boom}}

	_, err := RunBatch(context.Background(), ports, driving.BatchRequest{}, &bytes.Buffer{}, runOpts()...)
	var batchErr *domain.BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, 2, batchErr.Row)
}

func TestRunBatch_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ports := &Ports{Batch: &fakeBatch{block: true}}
	cancel()

	_, err := RunBatch(ctx, ports, driving.BatchRequest{}, &bytes.Buffer{}, runOpts()...)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunBatch_MissingService(t *testing.T) {
	_, err := RunBatch(context.Background(), &Ports{}, driving.BatchRequest{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrMissingBatchService)

	_, err = RunBatch(context.Background(), nil, driving.BatchRequest{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrMissingBatchService)
}
