package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"sensitivity-calc.klederson.com/internal/calc"
	"sensitivity-calc.klederson.com/internal/config"
	"sensitivity-calc.klederson.com/internal/service"
	"sensitivity-calc.klederson.com/internal/ui"
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	store   *calc.Store
	gateway *service.Gateway
	history *History
	spinner *ui.Spinner
}

// Model is the root Bubble Tea model of the calculator.
type Model struct {
	width  int
	height int

	backend string
	cursor  int
	editing bool
	buffer  string
	notice  string

	log    *log.Entry
	shared *shared

	// Cached snapshot
	state calc.State
}

// New creates a Model driving store. backend names the service in the
// menu bar.
func New(store *calc.Store, gateway *service.Gateway, backend string, logger *log.Entry) Model {
	return Model{
		backend: backend,
		log:     logger,
		state:   store.State(),
		shared: &shared{
			store:   store,
			gateway: gateway,
			history: NewHistory(config.HistorySize),
			spinner: ui.NewSpinner(),
		},
	}
}

func (m Model) Init() tea.Cmd {
	reqs := m.shared.store.Dispatch(calc.Started{})
	return tea.Batch(m.shared.gateway.Cmds(reqs), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.shared.spinner.Update(time.Time(msg))
		m.state = m.shared.store.State()
		return m, tickCmd()

	case calc.Event:
		return m.dispatch(msg)
	}

	return m, nil
}

// dispatch reduces ev and starts the requests it produced.
func (m Model) dispatch(ev calc.Event) (Model, tea.Cmd) {
	if ev == nil {
		return m, nil
	}
	stale := calc.Stale(m.shared.store.State(), ev)
	reqs := m.shared.store.Dispatch(ev)
	m.state = m.shared.store.State()
	if stale {
		return m, nil
	}

	m.shared.history.Record(ev, m.state, time.Now())
	switch ev.(type) {
	case calc.CalculateSensitivity, calc.CalculateTime:
		m.notice = fmt.Sprintf("%d of %d arrays submitted", len(reqs), calc.NumArrays)
		logSkipped(m.log, ev, reqs)
	case calc.SensitivityFailed, calc.TimeFailed, calc.OctileFailed, calc.BandsFailed:
		m.notice = "request failed, see the highlighted field"
	}
	return m, m.shared.gateway.Cmds(reqs)
}

// logSkipped records the arrays a calculation command left out because
// their sensitivity could not be converted.
func logSkipped(logger *log.Entry, ev calc.Event, reqs []calc.Request) {
	var sent [calc.NumArrays]bool
	for _, r := range reqs {
		switch r := r.(type) {
		case calc.SensitivityCalc:
			sent[r.Array] = true
		case calc.TimeCalc:
			sent[r.Array] = true
		}
	}
	for _, id := range calc.Arrays {
		if !sent[id] {
			logger.WithFields(log.Fields{"array": id, "command": fmt.Sprintf("%T", ev)}).
				Info("array skipped: sensitivity cannot be converted without a resolution")
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.editing {
		return m.handleEditKey(msg)
	}

	t := targetAt(m.cursor)
	switch msg.String() {
	case "q", "Q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < numCursorRows-1 {
			m.cursor++
		}

	case "home":
		m.cursor = 0

	case "end":
		m.cursor = numCursorRows - 1

	case "enter":
		if t.typed() {
			m.editing = true
			m.buffer = t.initialText(m.state)
			return m, nil
		}
		return m.dispatch(t.choiceEvent(m.state, 1))

	case "right", "l", " ":
		return m.dispatch(t.choiceEvent(m.state, 1))

	case "left", "h":
		return m.dispatch(t.choiceEvent(m.state, -1))

	case "u", "U":
		return m.dispatch(t.unitEvent(m.state))

	case "r", "R":
		return m.dispatch(calc.RescaleModeSet{On: !m.state.RescaleMode})

	case "c", "C":
		return m.dispatch(calc.CalculateSensitivity{})

	case "t", "T":
		return m.dispatch(calc.CalculateTime{})
	}

	return m, nil
}

// handleEditKey feeds the edit buffer. Every keystroke is dispatched so the
// derived fields follow the text as typed.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := targetAt(m.cursor)
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeyTab:
		m.editing = false
		return m.dispatch(t.commitEvent(m.buffer))

	case tea.KeyBackspace:
		if r := []rune(m.buffer); len(r) > 0 {
			m.buffer = string(r[:len(r)-1])
		}

	case tea.KeyRunes, tea.KeySpace:
		m.buffer += string(msg.Runes)

	default:
		return m, nil
	}
	return m.dispatch(t.editEvent(m.buffer))
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing sensitivity calculator..."
	}

	menuH := 1
	statusH := 1
	bodyH := m.height - menuH - statusH
	if bodyH < 10 {
		bodyH = 10
	}

	paramsW := m.width * 3 / 5
	if paramsW < config.ParamsWidth {
		paramsW = config.ParamsWidth
	}
	sideW := m.width - paramsW
	if sideW < 24 {
		sideW = 24
		paramsW = m.width - sideW
	}
	atmH := bodyH / 2
	histH := bodyH - atmH

	s := m.state
	menuBar := ui.RenderMenuBar(m.width, m.backend, s.RescaleMode)
	params := ui.RenderParams(buildRows(s), paramsW, bodyH, m.cursor, ui.EditState{Active: m.editing, Buffer: m.buffer})
	atmosphere := ui.RenderAtmosphere(s, sideW, atmH)
	history := ui.RenderHistory(historyBlocks(m.shared.history), sideW, histH)
	statusBar := ui.RenderStatusBar(m.width, s, m.shared.spinner.Glyph(busy(s)), m.notice)

	return ui.ComposeLayout(menuBar, params, []string{atmosphere, history}, statusBar)
}

func busy(s calc.State) bool {
	if s.FetchingOctile || s.FetchingBands {
		return true
	}
	for _, a := range s.Arrays {
		if a.SensitivityStatus == calc.Fetching || a.TimeStatus == calc.Fetching {
			return true
		}
	}
	return false
}

func tickCmd() tea.Cmd {
	return tea.Tick(config.SpinnerInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
