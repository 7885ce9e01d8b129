package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/festify/internal/models"
	"github.com/desertthunder/festify/internal/shared"
	"github.com/desertthunder/festify/internal/workflow"
)

// Mode selects which panel receives key presses.
type Mode int

const (
	SearchMode Mode = iota
	ResultsMode
	CartMode
	PosterMode
	NameMode
)

// Model is the bubbletea model. It renders workflow snapshots and forwards key presses to the workflow.
type Model struct {
	ctx       context.Context
	workflow  *workflow.Workflow
	snapshots <-chan workflow.Snapshot
	cancel    func()
	logger    *log.Logger
	open      func(string) error

	mode    Mode
	snap    workflow.Snapshot
	input   textinput.Model
	results list.Model
	cart    list.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	notice  string
}

// NewModel subscribes to w. Call [Model.Close] once the program exits.
func NewModel(ctx context.Context, w *workflow.Workflow, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	snapshots, cancel := w.Subscribe()

	input := textinput.New()
	input.Placeholder = "Search for an artist"
	input.CharLimit = 120
	input.Focus()

	results := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	results.Title = "Results"
	results.SetShowHelp(false)
	results.SetFilteringEnabled(false)

	cart := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	cart.Title = "Selected Artists"
	cart.SetShowHelp(false)
	cart.SetFilteringEnabled(false)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Model{
		ctx:       ctx,
		workflow:  w,
		snapshots: snapshots,
		cancel:    cancel,
		logger:    logger,
		open:      shared.OpenBrowser,
		mode:      SearchMode,
		snap:      w.Snapshot(),
		input:     input,
		results:   results,
		cart:      cart,
		spinner:   spin,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Close releases the workflow subscription.
func (m *Model) Close() { m.cancel() }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForSnapshot(), m.spinner.Tick, textinput.Blink)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := max(msg.Height-8, 4)
		m.results.SetSize(msg.Width, h)
		m.cart.SetSize(msg.Width, h)
		m.help.Width = msg.Width
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case Msg:
		return m.handleMsg(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.inputMode() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSnapshot:
		m.apply(msg.data.(workflow.Snapshot))
		return m, m.waitForSnapshot()
	case MsgOperationDone:
		res := msg.data.(operationResult)
		m.settle(res)
	case MsgSubscriptionClosed:
		return m, tea.Quit
	}
	return m, nil
}

// apply renders snap. It is the only place the view state follows the workflow.
func (m *Model) apply(snap workflow.Snapshot) {
	m.snap = snap
	m.results.SetItems(candidateItems(snap.Results))
	m.cart.SetItems(entryItems(snap.Items))
}

// settle reacts to a finished operation. Failures the workflow records are shown from the snapshot,
// which may not have arrived on the subscription yet.
func (m *Model) settle(res operationResult) {
	m.apply(m.workflow.Snapshot())

	switch {
	case res.err == nil:
		m.notice = ""
		switch res.op {
		case "search":
			if len(m.snap.Results) > 0 {
				m.focus(ResultsMode)
			}
		case "scan", "submit":
			m.focus(CartMode)
		}
	case errors.Is(res.err, shared.ErrStaleResult):
		m.logger.Debug("discarded stale result", "op", res.op)
	case m.snap.State == workflow.Failed:
		m.logger.Warn("operation failed", "op", res.op, "error", res.err)
	default:
		m.notice = res.err.Error()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.snap.State {
	case workflow.Failed:
		m.workflow.Dismiss()
		m.report(nil)
		return m, nil
	case workflow.Created:
		return m.handleCreatedKeys(msg)
	case workflow.Submitting:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.inputMode() {
		return m.handleInputKeys(msg)
	}
	if m.snap.Staged != nil {
		return m.handleStageKeys(msg)
	}
	if m.mode == ResultsMode {
		return m.handleResultsKeys(msg)
	}
	return m.handleCartKeys(msg)
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.focus(CartMode)
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		switch m.mode {
		case SearchMode:
			return m, m.run("search", func() error { return m.workflow.Search(m.ctx, value) })
		case PosterMode:
			poster, err := models.ReadPoster(strings.TrimSpace(value))
			if err != nil {
				m.notice = err.Error()
				return m, nil
			}
			return m, m.run("scan", func() error { return m.workflow.Scan(m.ctx, poster) })
		case NameMode:
			m.report(m.workflow.SetPlaylistName(value))
			m.focus(CartMode)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleStageKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.presets, m.keys.all):
		m.report(m.workflow.StageCount(presetFor(msg.String())))
	case key.Matches(msg, m.keys.enter):
		err := m.workflow.Commit()
		m.report(err)
		if err == nil {
			m.focus(CartMode)
		}
	case key.Matches(msg, m.keys.back):
		m.report(m.workflow.Unstage())
		m.focus(SearchMode)
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		m.report(m.workflow.Pick(m.results.Index()))
		return m, nil
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.search):
		m.focus(SearchMode)
		return m, nil
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleCartKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected, hasSelection := m.selectedKey()

	switch {
	case key.Matches(msg, m.keys.search):
		m.focus(SearchMode)
	case key.Matches(msg, m.keys.poster):
		m.focus(PosterMode)
	case key.Matches(msg, m.keys.rename):
		m.focus(NameMode)
	case key.Matches(msg, m.keys.toggle) && hasSelection:
		m.report(m.workflow.Toggle(selected))
	case key.Matches(msg, m.keys.remove) && hasSelection:
		m.report(m.workflow.Remove(selected))
	case key.Matches(msg, m.keys.presets, m.keys.all) && hasSelection:
		m.report(m.workflow.SetTrackCount(selected, presetFor(msg.String())))
	case key.Matches(msg, m.keys.global):
		m.report(m.workflow.ApplyGlobal(nextPreset(m.snap.Global)))
	case key.Matches(msg, m.keys.submit):
		return m, m.run("submit", func() error {
			_, err := m.workflow.Submit(m.ctx)
			return err
		})
	case key.Matches(msg, m.keys.restart):
		m.report(m.workflow.Reset())
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.cart, cmd = m.cart.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleCreatedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.open):
		if m.snap.Created != nil {
			m.report(m.open(m.snap.Created.URL))
		}
	case key.Matches(msg, m.keys.restart):
		m.report(m.workflow.Reset())
		m.focus(SearchMode)
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

// focus switches mode and prepares the shared text input for it.
func (m *Model) focus(mode Mode) {
	m.mode = mode
	m.input.Reset()
	switch mode {
	case SearchMode:
		m.input.Placeholder = "Search for an artist"
		m.input.SetValue(m.snap.Query)
	case PosterMode:
		m.input.Placeholder = "Path to a festival poster (png, jpeg, gif, webp)"
	case NameMode:
		m.input.Placeholder = workflow.DefaultPlaylistName
		m.input.SetValue(m.snap.PlaylistName)
	}
	if m.inputMode() {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) inputMode() bool {
	return m.mode == SearchMode || m.mode == PosterMode || m.mode == NameMode
}

func (m *Model) selectedKey() (string, bool) {
	item, ok := m.cart.SelectedItem().(entryItem)
	if !ok {
		return "", false
	}
	return item.item.Key(), true
}

// report renders the workflow after a synchronous operation and shows err, if any.
func (m *Model) report(err error) {
	m.apply(m.workflow.Snapshot())
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = ""
}

// run executes fn off the update loop. Its outcome arrives as [MsgOperationDone].
func (m *Model) run(op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return operationDoneMsg(op, fn())
	}
}

// waitForSnapshot listens for the next published snapshot.
func (m *Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-m.snapshots
		if !ok {
			return subscriptionClosedMsg()
		}
		return snapshotMsg(snap)
	}
}

func presetFor(k string) models.TrackCount {
	switch k {
	case "1":
		return models.Presets[0]
	case "2":
		return models.Presets[1]
	case "3":
		return models.Presets[2]
	default:
		return models.Discography
	}
}

// nextPreset cycles the global count through the presets.
func nextPreset(current models.TrackCount) models.TrackCount {
	for i, p := range models.Presets {
		if p == current {
			return models.Presets[(i+1)%len(models.Presets)]
		}
	}
	return models.Presets[0]
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Festify"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s\n\n", styles.badge.Render(m.snap.State.String()), m.snap.PlaylistName)

	switch {
	case m.snap.State == workflow.Failed && m.snap.Failure != nil:
		b.WriteString(m.renderFailure())
	case m.snap.State == workflow.Created:
		b.WriteString(m.renderCreated())
	case m.snap.State == workflow.Submitting:
		fmt.Fprintf(&b, "%s Creating playlist...\n", m.spinner.View())
	case m.snap.Staged != nil && !m.inputMode():
		b.WriteString(m.renderStaged())
	default:
		b.WriteString(m.renderMode())
	}

	if m.notice != "" {
		b.WriteString("\n" + styles.warn.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderFailure() string {
	return fmt.Sprintf("%s\n\n%s\n",
		styles.err.Render("✗ "+m.snap.Failure.Message),
		styles.help.Render("Press any key to continue."))
}

func (m *Model) renderCreated() string {
	res := m.snap.Created
	return fmt.Sprintf("%s\n\n  %s\n  %s\n  %d tracks\n\n%s\n",
		styles.ok.Render("✓ Playlist created"),
		res.Name, res.URL, res.TrackCount,
		styles.help.Render("o: open in browser • r: start over • q: quit"))
}

func (m *Model) renderStaged() string {
	staged := m.snap.Staged
	return fmt.Sprintf("%s\n  %s\n\n%s\n",
		styles.ok.Render(staged.Artist.Name),
		countLabel(staged.TrackCount),
		styles.help.Render("1/2/3: 5/10/20 tracks • d: discography • enter: add • esc: cancel"))
}

func (m *Model) renderMode() string {
	var b strings.Builder

	switch m.mode {
	case SearchMode, PosterMode, NameMode:
		b.WriteString(m.input.View() + "\n")
		if m.snap.State.Discovering() {
			fmt.Fprintf(&b, "\n%s %s...\n", m.spinner.View(), m.snap.State)
		}
	case ResultsMode:
		b.WriteString(m.results.View() + "\n")
	case CartMode:
		if len(m.snap.Items) == 0 {
			b.WriteString(styles.help.Render("No artists yet. Press / to search or p to scan a poster.") + "\n")
		} else {
			b.WriteString(m.cart.View() + "\n")
		}
		global := "per artist"
		if m.snap.Global.IsSet() {
			global = countLabel(m.snap.Global)
		}
		fmt.Fprintf(&b, "\n%d of %d enabled • global: %s\n", m.snap.EnabledCount(), len(m.snap.Items), global)
	}

	if m.snap.Validation != "" {
		b.WriteString(styles.warn.Render(m.snap.Validation) + "\n")
	}
	return b.String()
}
