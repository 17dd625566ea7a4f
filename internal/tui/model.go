package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/narrative-risk/riskview/internal/clip"
	"github.com/narrative-risk/riskview/internal/core"
	"github.com/narrative-risk/riskview/internal/logging"
	"github.com/narrative-risk/riskview/internal/report"
	"github.com/narrative-risk/riskview/internal/session"
)

// Recorder stores successful analyses.
type Recorder interface {
	Record(ctx context.Context, input string, r *core.AnalysisReport) error
}

// Copier makes text available on the clipboard.
type Copier interface {
	Copy(text string) (clip.Result, error)
}

// Options configures a Model.
type Options struct {
	Context      context.Context
	Analyzer     session.Analyzer
	Logger       *logging.Logger
	Theme        string
	NoColor      bool
	GlamourStyle string
	Recorder     Recorder
	Copier       Copier
	// InitialInput is submitted as soon as the program starts.
	InitialInput string
}

const sourcesHint = "tab to expand"

// Model is the interactive analysis screen. It owns the session: every state
// transition happens inside Update, and analyzer calls come back as messages.
type Model struct {
	ctx      context.Context
	session  *session.Session
	analyzer session.Analyzer
	logger   *logging.Logger
	recorder Recorder
	copier   Copier

	theme    Theme
	keys     keyMap
	help     help.Model
	input    textinput.Model
	filter   textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	md           report.MarkdownRenderer
	glamourStyle string
	mdWidth      int

	width  int
	height int
	ready  bool

	reportFocus bool
	filtering   bool
	cursor      int
	expanded    map[int]bool
	expandAll   bool
	status      string
	initial     string
}

// New creates a model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.WithComponent("tui")

	var copier Copier = opts.Copier
	if copier == nil {
		copier = clip.New()
	}

	theme := NewTheme(opts.Theme, opts.NoColor)

	in := textinput.New()
	in.Placeholder = "Paste a URL or describe a claim..."
	in.Prompt = "› "
	in.CharLimit = 4096
	in.Focus()

	f := textinput.New()
	f.Prompt = "/"
	f.Placeholder = "filter sources"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Running

	keys := defaultKeyMap()
	keys.setReportFocus(false)

	return Model{
		ctx:          ctx,
		session:      session.New(session.WithLogger(logger)),
		analyzer:     opts.Analyzer,
		logger:       logger,
		recorder:     opts.Recorder,
		copier:       copier,
		theme:        theme,
		keys:         keys,
		help:         help.New(),
		input:        in,
		filter:       f,
		spinner:      sp,
		glamourStyle: resolveGlamourStyle(opts.GlamourStyle, opts.Theme, opts.NoColor),
		expanded:     map[int]bool{},
		initial:      strings.TrimSpace(opts.InitialInput),
	}
}

func resolveGlamourStyle(style, theme string, noColor bool) string {
	switch {
	case noColor:
		return "notty"
	case style != "" && style != "auto":
		return style
	case theme == "light":
		return "light"
	default:
		return "dracula"
	}
}

// Session exposes the session for inspection.
func (m Model) Session() *session.Session {
	return m.session
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.initial != "" {
		initial := m.initial
		return tea.Batch(textinput.Blink, func() tea.Msg { return Submit(initial) })
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case submitMsg:
		m.input.SetValue(msg.input)
		return m.submit()

	case analysisDoneMsg:
		return m.handleResult(msg.Result)

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = msg.result.Describe("report JSON")
		}
		return m, nil

	case recordedMsg:
		if msg.err != nil {
			m.logger.Warn("history not saved", "error", msg.err)
			m.status = "history not saved: " + core.UserMessage(msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		if m.session.State().Status() != session.StatusRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch {
	case m.filtering:
		m.filter, cmd = m.filter.Update(msg)
	case m.reportFocus:
		m.viewport, cmd = m.viewport.Update(msg)
	default:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.escape()
		return m, nil
	case key.Matches(msg, m.keys.Submit) && !m.reportFocus:
		return m.submit()
	}

	if m.reportFocus {
		return m.handleReportKey(msg)
	}
	if m.session.State().Status() == session.StatusRunning {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	req, ok := m.session.Submit(m.input.Value())
	if !ok {
		if m.session.State().Status() == session.StatusRunning {
			m.status = "an analysis is already running"
		}
		return m, nil
	}
	if m.analyzer == nil {
		m.session.Resolve(session.Result{Seq: req.Seq, Input: req.Input,
			Err: core.ErrValidation(core.CodeInvalidConfig, "no analyzer configured")})
		return m, nil
	}

	m.leaveReport()
	m.input.Blur()
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, analyzeCmd(m.ctx, m.analyzer, req))
}

// escape dismisses an error, abandons a running analysis, closes a report or
// clears the input, in that order of precedence.
func (m *Model) escape() {
	switch m.session.State().(type) {
	case session.Failed:
		m.session.DismissError()
	case session.Running, session.Succeeded:
		m.session.Reset()
	default:
		m.input.Reset()
	}
	m.leaveReport()
	m.status = ""
}

func (m *Model) leaveReport() {
	m.reportFocus = false
	m.keys.setReportFocus(false)
	m.filtering = false
	m.filter.Reset()
	m.filter.Blur()
	m.cursor = 0
	m.expanded = map[int]bool{}
	m.expandAll = false
	m.input.Focus()
	m.viewport.SetContent("")
}

func (m Model) handleResult(res session.Result) (tea.Model, tea.Cmd) {
	if !m.session.Resolve(res) {
		m.logger.Debug("discarded stale analysis result", "seq", res.Seq, "latest", m.session.Latest())
		return m, nil
	}

	switch st := m.session.State().(type) {
	case session.Succeeded:
		m.reportFocus = true
		m.keys.setReportFocus(true)
		m.input.Blur()
		m.refresh()
		m.viewport.GotoTop()
		return m, m.recordCmd(st)
	case session.Failed:
		m.input.Focus()
	}
	return m, nil
}

func (m Model) recordCmd(st session.Succeeded) tea.Cmd {
	if m.recorder == nil {
		return nil
	}
	ctx, rec := m.ctx, m.recorder
	return func() tea.Msg {
		return recordedMsg{err: rec.Record(ctx, st.Input, st.Report)}
	}
}

func (m Model) copyCmd() tea.Cmd {
	st, ok := m.session.State().(session.Succeeded)
	if !ok || m.copier == nil {
		return nil
	}
	copier := m.copier
	return func() tea.Msg {
		data, err := report.Encode(st.Report, report.FormatJSON)
		if err != nil {
			return copiedMsg{err: err}
		}
		res, err := copier.Copy(string(data))
		return copiedMsg{result: res, err: err}
	}
}

func (m Model) handleReportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.session.CrossCheck()
	claims := 0
	if view != nil {
		claims = len(view.Claims)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refresh()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < claims-1 {
			m.cursor++
			m.refresh()
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < claims && view.Claims[m.cursor].ShowSourcesAffordance() {
			m.expanded[m.cursor] = !m.expanded[m.cursor]
			m.refresh()
		}
	case key.Matches(msg, m.keys.ExpandAll):
		m.expandAll = !m.expandAll
		m.refresh()
	case key.Matches(msg, m.keys.Filter):
		if view != nil && len(view.Catalogue) > 0 {
			m.filtering = true
			m.filter.Focus()
			m.resize(m.width, m.height)
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filter.Reset()
		fallthrough
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		m.resize(m.width, m.height)
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.input.Width = max(width-8, 10)

	body := max(height-m.chromeHeight(), 3)
	if !m.ready {
		m.viewport = viewport.New(width, body)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = body
	}
	m.ensureMarkdown(width)
	m.refresh()
}

// chromeHeight is the number of lines around the report viewport.
func (m Model) chromeHeight() int {
	h := 1 + 3 + 1 + lipgloss.Height(m.help.View(m.keys))
	if m.filtering {
		h++
	}
	return h
}

func (m *Model) ensureMarkdown(width int) {
	if m.md != nil && width == m.mdWidth {
		return
	}
	r, err := report.NewMarkdownRenderer(m.glamourStyle, width-4)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable", "style", m.glamourStyle, "error", err)
		return
	}
	m.md = r
	m.mdWidth = width
}

func (m Model) catalogue() []core.CatalogueEntry {
	view := m.session.CrossCheck()
	query := strings.TrimSpace(m.filter.Value())
	if view == nil || query == "" {
		return nil
	}
	return FilterCatalogue(view.Catalogue, query)
}

// refresh re-renders the report into the viewport and keeps the selected
// claim on screen.
func (m *Model) refresh() {
	st, ok := m.session.State().(session.Succeeded)
	if !ok || !m.ready {
		return
	}
	content := report.Text(st.Report, report.Options{
		Styles:      m.theme.ReportStyles(),
		Markdown:    m.md,
		View:        m.session.CrossCheck(),
		ExpandAll:   m.expandAll,
		Expanded:    m.expanded,
		Cursor:      m.cursor,
		ShowCursor:  true,
		Catalogue:   m.catalogue(),
		SourcesHint: sourcesHint,
	})
	m.viewport.SetContent(content)

	for i, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, "▸ ") {
			continue
		}
		switch {
		case i < m.viewport.YOffset:
			m.viewport.SetYOffset(i)
		case i >= m.viewport.YOffset+m.viewport.Height:
			m.viewport.SetYOffset(i - m.viewport.Height + 1)
		}
		break
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.theme.InputBox.Width(max(m.width-2, 20)).Render(m.input.View()))
	b.WriteByte('\n')
	b.WriteString(m.renderBody())
	b.WriteByte('\n')
	if m.filtering {
		b.WriteString(m.filter.View())
		b.WriteByte('\n')
	}
	b.WriteString(m.theme.Status.Render(m.status))
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render("riskview")
	switch st := m.session.State().(type) {
	case session.Running:
		return title + " " + m.theme.StatusBadge("ANALYZING", core.ToneWarning)
	case session.Succeeded:
		d := core.DescribeRisk(st.Report.RiskLevel)
		return title + " " + m.theme.StatusBadge("DONE", core.TonePositive) +
			"  " + m.theme.Tone(d.Tone, d.Icon+" "+d.Label+" risk")
	case session.Failed:
		return title + " " + m.theme.StatusBadge("FAILED", core.ToneNegative)
	default:
		return title + " " + m.theme.StatusBadge("READY", core.ToneNeutral)
	}
}

func (m Model) renderBody() string {
	box := lipgloss.NewStyle().Height(m.viewport.Height).MaxHeight(m.viewport.Height)

	switch st := m.session.State().(type) {
	case session.Running:
		return box.Render(m.spinner.View() + " Analyzing " + truncate(st.Input, max(m.width-16, 20)))
	case session.Failed:
		hint := "esc to dismiss"
		if core.IsRetryable(st.Err) {
			hint += ", enter to retry"
		}
		return box.Render(m.theme.Error.Render("✗ "+st.Message) + "\n" + m.theme.Muted.Render(hint))
	case session.Succeeded:
		return m.viewport.View()
	default:
		return box.Render(m.theme.Muted.Render(
			"Enter a news URL or a claim to check it for narrative risk."))
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
