package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/uvwizard/internal/engine"
	"github.com/rshade/uvwizard/internal/engine/batch"
	"github.com/rshade/uvwizard/internal/wizard"
)

// WizardState represents the current state of the wizard window.
type WizardState int

const (
	// WizardStateReady shows the worklist and waits for Create.
	WizardStateReady WizardState = iota
	// WizardStateRunning is processing the batch.
	WizardStateRunning
	// WizardStateDone has finished; the program is quitting.
	WizardStateDone
)

type wizardKeyMap struct {
	Create key.Binding
	Quit   key.Binding
	Abort  key.Binding
	Up     key.Binding
	Down   key.Binding
}

func defaultWizardKeys(createLabel string) wizardKeyMap {
	return wizardKeyMap{
		Create: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", strings.ToLower(createLabel)),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "close"),
		),
		Abort: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "abort"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
	}
}

// WizardModel is the Bubble Tea model of one wizard window.
type WizardModel struct {
	ctx    context.Context
	cancel context.CancelFunc
	wizard *wizard.Wizard

	state   WizardState
	keys    wizardKeyMap
	table   table.Model
	loading *LoadingState
	bar     progress.Model
	modal   Modal

	// pending is the request the open modal answers.
	pending tea.Msg

	// running is the worklist snapshot of the batch in progress.
	running  []engine.MeshHandle
	progress batch.ProgressSnapshot
	missing  []string
	selErr   error

	summary engine.Summary
	created bool
	err     error

	width  int
	height int
}

// NewWizardModel creates the model for an opened wizard. Cancelling ctx, or
// pressing ctrl+c, abandons any running batch.
func NewWizardModel(ctx context.Context, w *wizard.Wizard) *WizardModel {
	ctx, cancel := context.WithCancel(ctx)
	m := &WizardModel{
		ctx:     ctx,
		cancel:  cancel,
		wizard:  w,
		state:   WizardStateReady,
		keys:    defaultWizardKeys(w.CreateButton()),
		loading: NewLoadingState(),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(modalWidth)),
		modal:   NewModal(),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.table = m.buildTable()
	return m
}

// Init implements tea.Model.
func (m *WizardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.buildTable()
		return m, nil
	case SelectionChangedMsg:
		return m.handleSelectionChanged(msg)
	case progressMsg:
		m.progress = batch.ProgressSnapshot(msg)
		m.loading.SetMessage(m.progressText())
		return m, nil
	case noSelectionRequest:
		m.pending = msg
		m.modal.Show(engine.TitleFailed, engine.NoSelectionMessage, true, engine.LabelRestart, engine.LabelCancel)
		return m, nil
	case failureRequest:
		m.pending = msg
		m.modal.Show(engine.TitleFailed, engine.FailureMessage(msg.handle, msg.err), true,
			engine.LabelRetry, engine.LabelSkip)
		return m, nil
	case completedRequest:
		m.pending = msg
		m.modal.Show(engine.TitleCompleted, engine.CompletionMessage(msg.summary), false, engine.LabelClose)
		return m, nil
	case batchDoneMsg:
		m.summary = msg.summary
		m.err = msg.err
		m.created = true
		m.state = WizardStateDone
		return m, tea.Quit
	case spinner.TickMsg:
		if m.state != WizardStateRunning {
			return m, nil
		}
		return m, m.loading.Update(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *WizardModel) handleSelectionChanged(msg SelectionChangedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.selErr = msg.Err
		return m, nil
	}
	m.selErr = nil
	m.missing = msg.Missing
	m.wizard.OnSelectionChange(msg.Selection)
	m.table = m.buildTable()
	return m, nil
}

func (m *WizardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Abort) {
		m.cancel()
		m.modal.Hide()
		m.pending = nil
		if m.state == WizardStateRunning {
			// The batch observes the cancellation and reports back.
			return m, nil
		}
		m.state = WizardStateDone
		return m, tea.Quit
	}

	if m.modal.IsVisible() {
		var idx int
		var chosen bool
		m.modal, idx, chosen = m.modal.Update(msg)
		if chosen {
			m.answer(idx)
		}
		return m, nil
	}

	if m.state != WizardStateReady {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Create):
		m.state = WizardStateRunning
		m.running = m.wizard.Targets()
		m.loading.SetMessage("Creating UV maps...")
		return m, tea.Batch(m.loading.Init(), m.createCmd())
	case key.Matches(msg, m.keys.Quit):
		m.state = WizardStateDone
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// answer replies to the pending request with the chosen button. Button 0
// is always the affirmative choice.
func (m *WizardModel) answer(idx int) {
	switch req := m.pending.(type) {
	case noSelectionRequest:
		choice := engine.Cancel
		if idx == 0 {
			choice = engine.RestartSession
		}
		req.reply <- choice
	case failureRequest:
		decision := engine.Skip
		if idx == 0 {
			decision = engine.Retry
		}
		req.reply <- decision
	case completedRequest:
		req.reply <- struct{}{}
	}
	m.pending = nil
}

func (m *WizardModel) createCmd() tea.Cmd {
	ctx, w, targets := m.ctx, m.wizard, m.running
	return func() tea.Msg {
		s, err := w.CreateFor(ctx, targets)
		return batchDoneMsg{summary: s, err: err}
	}
}

// Result returns the batch summary and whether Create ran.
func (m *WizardModel) Result() (engine.Summary, bool, error) {
	return m.summary, m.created, m.err
}

// State returns the current window state.
func (m *WizardModel) State() WizardState {
	return m.state
}

func (m *WizardModel) progressText() string {
	p := m.progress
	if p.TotalItems == 0 {
		return "Creating UV maps..."
	}
	name := ""
	if p.Current >= 0 && p.Current < len(m.running) {
		name = m.running[p.Current].Name
	}
	return fmt.Sprintf("%d/%d  %s", p.CompletedItems, p.TotalItems, name)
}

func (m *WizardModel) buildTable() table.Model {
	nameWidth := m.width/2 - borderPadding
	pathWidth := m.width - nameWidth - 4*borderPadding
	columns := []table.Column{
		{Title: "Object", Width: max(nameWidth, 12)}, //nolint:mnd // Minimum column width.
		{Title: "Mesh", Width: max(pathWidth, 12)},   //nolint:mnd // Minimum column width.
	}

	targets := m.wizard.Targets()
	rows := make([]table.Row, len(targets))
	for i, h := range targets {
		mesh := h.Mesh.Name
		if h.Mesh.Path != "" {
			mesh = h.Mesh.Path
		}
		rows[i] = table.Row{h.Name, mesh}
	}

	height := max(m.height-10, 3) //nolint:mnd // Header, footer and borders.
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(height, len(rows)+1)),
	)
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)
	return t
}

// View implements tea.Model.
func (m *WizardModel) View() string {
	if m.state == WizardStateDone {
		return ""
	}
	if m.modal.IsVisible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.modal.View())
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.wizard.Title()))
	b.WriteString("\n")

	targets := m.wizard.Targets()
	b.WriteString(LabelStyle.Render("Targets: "))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("%d mesh(es)", len(targets))))
	b.WriteString("\n\n")

	if m.selErr != nil {
		b.WriteString(CriticalStyle.Render("Selection unreadable: " + m.selErr.Error()))
		b.WriteString("\n")
	}
	if len(m.missing) > 0 {
		b.WriteString(WarningStyle.Render("Not in scene: " + strings.Join(m.missing, ", ")))
		b.WriteString("\n")
	}

	if len(targets) == 0 {
		b.WriteString(SubtleStyle.Render("No mesh selected. Select objects that have a mesh filter."))
	} else {
		b.WriteString(BoxStyle.Render(m.table.View()))
	}
	b.WriteString("\n")

	switch m.state {
	case WizardStateRunning:
		b.WriteString(RenderLoading(m.loading))
		if m.progress.TotalItems > 0 {
			b.WriteString(m.bar.ViewAs(m.progress.PercentComplete / 100)) //nolint:mnd // Percent to ratio.
			b.WriteString("\n")
		}
	case WizardStateReady:
		b.WriteString("\n")
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("%s • %s • %s",
			helpText(m.keys.Create), helpText(m.keys.Quit), helpText(m.keys.Up))))
	case WizardStateDone:
	}
	return b.String()
}

func helpText(b key.Binding) string {
	h := b.Help()
	return h.Key + " " + h.Desc
}
