package tui

import (
	"fmt"
	"strings"
	"time"

	"route-tracker/internal/collapse"
	"route-tracker/internal/logging"
	"route-tracker/internal/tracker"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bprogress "github.com/charmbracelet/bubbles/progress"
	bviewport "github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeRoute mode = iota
	modeMap
	modeConfirmReset
	modeError
)

const (
	headerHeight = 3
	footerHeight = 2
)

type resumeMsg struct{}

type highlightClearMsg struct{ token uint64 }

type appModel struct {
	session *tracker.Session
	log     *logging.Logger
	loadErr error

	width  int
	height int
	mode   mode

	keys    routeKeyMap
	mapKeys mapKeyMap
	help    help.Model
	body    bviewport.Model
	bar     bprogress.Model

	palette palette
	styles  styles

	rows   []row
	cursor string
	notice string

	mapLines []string
	mapErr   string

	unsubscribe func()
}

func newAppModel(opts Options) *appModel {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	m := &appModel{
		session: opts.Session,
		log:     log,
		loadErr: opts.LoadErr,
		keys:    newRouteKeyMap(),
		mapKeys: newMapKeyMap(),
		help:    help.New(),
		body:    bviewport.New(80, 20),
		bar:     bprogress.New(bprogress.WithoutPercentage(), bprogress.WithWidth(40)),
		width:   80,
		height:  20 + headerHeight + footerHeight,
	}
	if m.session == nil {
		if m.loadErr == nil {
			m.loadErr = fmt.Errorf("no dataset loaded")
		}
		m.mode = modeError
		m.applyTheme(tracker.ThemeDefault)
		return m
	}
	m.applyTheme(m.session.Theme())
	m.unsubscribe = m.session.Collapse.Subscribe(func(tr collapse.Transition) {
		if tr.State != collapse.Collapsed || !m.session.Checklist.StatsForGroup(tr.GroupID).Complete() {
			return
		}
		if g, ok := m.session.Route.FindGroup(tr.GroupID); ok {
			m.notice = "Completed: " + g.Title
		}
	})
	m.refresh(false)
	return m
}

func (m *appModel) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	if m.session != nil {
		m.session.Map.Flush()
	}
}

// Init resumes once on launch, like opening the page jumps to the first open step.
func (m *appModel) Init() tea.Cmd {
	if m.mode == modeError {
		return nil
	}
	return func() tea.Msg { return resumeMsg{} }
}

func (m *appModel) applyTheme(theme string) {
	m.palette = paletteFor(theme)
	m.styles = newStyles(m.palette)
}

func (m *appModel) bodyHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < 1 {
		h = 1
	}
	return h
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.body.Width, m.body.Height = m.width, m.bodyHeight()
		m.help.Width = m.width
		if m.mode != modeError {
			m.refresh(false)
		}
		return m, nil

	case resumeMsg:
		return m, m.resume()

	case highlightClearMsg:
		if m.session != nil && m.session.Highlight.Clear(msg.token) {
			m.refresh(false)
		}
		return m, nil

	case tea.MouseMsg:
		switch m.mode {
		case modeMap:
			m.updateMapMouse(msg)
		case modeRoute:
			var cmd tea.Cmd
			m.body, cmd = m.body.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeError:
			switch msg.String() {
			case "q", "esc", "ctrl+c", "enter":
				return m, tea.Quit
			}
			return m, nil
		case modeConfirmReset:
			return m.updateConfirmReset(msg)
		case modeMap:
			return m.updateMap(msg)
		}
		return m.updateRoute(msg)
	}
	return m, nil
}

func (m *appModel) updateRoute(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.NextPart):
		m.jumpPart(1)
	case key.Matches(msg, m.keys.PrevPart):
		m.jumpPart(-1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggleSelected()
	case key.Matches(msg, m.keys.Resume):
		return m, m.resume()
	case key.Matches(msg, m.keys.Auto):
		on := !m.session.AutoCollapse()
		if err := m.session.SetAutoCollapse(on); err != nil {
			m.notice = "Could not save preference: " + err.Error()
		} else if on {
			m.notice = "Auto-collapse is ON"
		} else {
			m.notice = "Auto-collapse is OFF"
		}
	case key.Matches(msg, m.keys.Theme):
		theme, err := m.session.ToggleTheme()
		if err != nil {
			m.notice = "Could not save theme: " + err.Error()
		}
		m.applyTheme(theme)
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
	case key.Matches(msg, m.keys.Map):
		m.openMap()
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		m.mode = modeConfirmReset
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	default:
		return m, nil
	}
	m.refresh(false)
	return m, nil
}

func (m *appModel) updateConfirmReset(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = modeRoute
		if err := m.session.Reset(); err != nil {
			m.log.Error("reset failed", "err", err)
			m.notice = "Reset failed: " + err.Error()
		} else {
			m.applyTheme(m.session.Theme())
			m.cursor = ""
			m.notice = "Progress reset"
		}
		m.refresh(false)
	case "n", "N", "esc", "q", "ctrl+c":
		m.mode = modeRoute
		m.notice = "Reset cancelled"
	}
	return m, nil
}

func (m *appModel) selected() (row, bool) {
	i := indexOf(m.rows, m.cursor)
	if i < 0 {
		return row{}, false
	}
	return m.rows[i], true
}

func (m *appModel) moveCursor(delta int) {
	i := indexOf(m.rows, m.cursor)
	for j := i + delta; j >= 0 && j < len(m.rows); j += delta {
		if m.rows[j].selectable() {
			m.cursor = m.rows[j].key()
			return
		}
	}
}

func (m *appModel) jumpPart(delta int) {
	i := indexOf(m.rows, m.cursor)
	if i < 0 {
		i = 0
	}
	// Find the enclosing part header, then the next/previous one.
	cur := i
	for cur > 0 && m.rows[cur].kind != rowPart {
		cur--
	}
	for j := cur + delta; j >= 0 && j < len(m.rows); j += delta {
		if m.rows[j].kind != rowPart {
			continue
		}
		for k := j + 1; k < len(m.rows) && m.rows[k].kind != rowPart; k++ {
			if m.rows[k].selectable() {
				m.cursor = m.rows[k].key()
				return
			}
		}
	}
}

func (m *appModel) toggleSelected() {
	r, ok := m.selected()
	if !ok {
		return
	}
	switch r.kind {
	case rowStep:
		if _, err := m.session.Toggle(r.stepID); err != nil {
			m.notice = "Could not save: " + err.Error()
		}
	case rowGroup:
		m.session.Collapse.Toggle(r.groupID)
	}
}

func (m *appModel) copySelected() {
	r, ok := m.selected()
	if !ok || r.kind != rowStep {
		m.notice = "Select a step to copy"
		return
	}
	if err := copyToClipboard(r.text); err != nil {
		m.notice = "Clipboard error: " + err.Error()
		return
	}
	m.notice = "Copied: " + r.text
}

// resume moves the cursor to the first open step, centres it and schedules the end
// of its highlight.
func (m *appModel) resume() tea.Cmd {
	ref, token, ok := m.session.Resume()
	if !ok {
		m.notice = "Every step is done"
		m.refresh(false)
		return nil
	}
	m.cursor = "s:" + ref.StepID
	m.refresh(true)
	return tea.Tick(m.session.Highlight.Duration, func(time.Time) tea.Msg {
		return highlightClearMsg{token: token}
	})
}

// refresh re-derives rows from the session and re-renders the body.
func (m *appModel) refresh(center bool) {
	m.rows = buildRows(m.session)
	if indexOf(m.rows, m.cursor) < 0 {
		m.cursor = m.fallbackCursor()
	}

	var lines []string
	cursorLine := 0
	for i, r := range m.rows {
		if r.kind == rowPart && i > 0 {
			lines = append(lines, "")
		}
		if r.key() == m.cursor && r.key() != "" {
			cursorLine = len(lines)
		}
		lines = append(lines, m.renderRow(r, r.key() == m.cursor && r.selectable(), m.width)...)
	}
	m.body.SetContent(strings.Join(lines, "\n"))

	h := m.body.Height
	switch {
	case center:
		m.body.SetYOffset(cursorLine - h/2)
	case cursorLine < m.body.YOffset:
		m.body.SetYOffset(cursorLine)
	case cursorLine >= m.body.YOffset+h:
		m.body.SetYOffset(cursorLine - h + 1)
	}
}

// fallbackCursor keeps the cursor near a row that just disappeared: a hidden step
// selects its group, anything else selects the first selectable row.
func (m *appModel) fallbackCursor() string {
	if strings.HasPrefix(m.cursor, "s:") {
		if g, ok := m.session.Checklist.GroupOf(strings.TrimPrefix(m.cursor, "s:")); ok {
			if indexOf(m.rows, "g:"+g) >= 0 {
				return "g:" + g
			}
		}
	}
	for _, r := range m.rows {
		if r.selectable() {
			return r.key()
		}
	}
	return ""
}

func (m *appModel) View() string {
	if m.mode == modeError {
		return m.errorView()
	}

	var body string
	switch m.mode {
	case modeMap:
		body = m.mapView()
	case modeConfirmReset:
		body = m.confirmView()
	default:
		body = m.body.View()
	}

	var helpView string
	if m.mode == modeMap {
		helpView = m.help.View(m.mapKeys)
	} else {
		helpView = m.help.View(m.keys)
	}
	return strings.Join([]string{
		m.headerView(),
		body,
		m.styles.muted.Render(truncate(m.notice, m.width)),
		helpView,
	}, "\n")
}

func (m *appModel) headerView() string {
	title := m.session.Route.Title
	if title == "" {
		title = m.session.Name
	}
	right := ""
	if m.session.AutoCollapse() {
		right = m.styles.muted.Render("  [auto-collapse]")
	}

	ind := m.session.Progress()
	barW := m.width - lipgloss.Width(ind.Label) - 2
	if barW > 60 {
		barW = 60
	}
	if barW < 10 {
		barW = 10
	}
	m.bar.Width = barW
	m.bar.FullColor = m.palette.tierColor(ind.Tier)
	bar := m.bar.ViewAs(float64(ind.Percent)/100) + " " + m.styles.label.Foreground(lipgloss.Color(m.palette.tierColor(ind.Tier))).Render(ind.Label)

	return truncate(m.styles.title.Render(title)+right, m.width) + "\n" +
		truncate(bar, m.width) + "\n" +
		truncate(m.partNav(), m.width)
}

// currentPart is the part holding the cursor, or the first part.
func (m *appModel) currentPart() string {
	if i := indexOf(m.rows, m.cursor); i >= 0 {
		return m.rows[i].partID
	}
	if len(m.session.Route.Parts) > 0 {
		return m.session.Route.Parts[0].ID
	}
	return ""
}

// partNav lists the parts by short title with the current one marked.
func (m *appModel) partNav() string {
	cur := m.currentPart()
	items := make([]string, 0, len(m.session.Route.Parts))
	for _, p := range m.session.Route.Parts {
		if p.ID == cur {
			items = append(items, m.styles.selected.Render(" "+p.ShortTitle()+" "))
			continue
		}
		items = append(items, m.styles.muted.Render(" "+p.ShortTitle()+" "))
	}
	return strings.Join(items, " ")
}

func (m *appModel) confirmView() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.palette.errorFg).
		Padding(1, 2).
		Render(strings.Join([]string{
			m.styles.err.Render("Reset ALL progress?"),
			"",
			fmt.Sprintf("This clears every checked step, the theme, auto-collapse and the map\nposition for %q. It cannot be undone.", m.session.Namespace()),
			"",
			m.styles.muted.Render("y/enter: reset   n/esc: cancel"),
		}, "\n"))
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (m *appModel) errorView() string {
	msg := "unknown error"
	if m.loadErr != nil {
		msg = m.loadErr.Error()
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.palette.errorFg).
		Padding(1, 2).
		Width(min(m.width-4, 80)).
		Render(strings.Join([]string{
			m.styles.err.Render("Could not load the route"),
			"",
			msg,
			"",
			m.styles.muted.Render("Check the dataset file, then run routetrack again. q: quit"),
		}, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
