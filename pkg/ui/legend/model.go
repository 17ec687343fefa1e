// Package legend provides the bubbletea model of a scrollable legend.
//
// Every change to the legend, its size or its anchor runs a render pass:
// pieces are measured, laid out by a [layout.Engine], and the page controls
// are refreshed by a [scroll.Controller]. Page changes are requested with a
// [ScrollMsg] and applied through an [anchor.Dispatcher] before the next
// pass.
package legend

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/pagelegend/pkg/anchor"
	"github.com/macropower/pagelegend/pkg/layout"
	"github.com/macropower/pagelegend/pkg/legend"
	"github.com/macropower/pagelegend/pkg/paging"
	"github.com/macropower/pagelegend/pkg/scroll"
	"github.com/macropower/pagelegend/pkg/ui/canvas"
	"github.com/macropower/pagelegend/pkg/ui/theme"
)

const tracerName = "github.com/macropower/pagelegend/pkg/ui/legend"

// ScrollMsg requests a scroll to an item index.
type ScrollMsg struct {
	Request anchor.ScrollRequest
}

// FlushMsg applies requests already submitted to the dispatcher.
type FlushMsg struct{}

// ReloadMsg replaces the displayed legend. The anchor is kept.
type ReloadMsg struct {
	Legend   *legend.Legend
	Title    string
	Settings Settings
}

// ErrMsg shows an error below the legend until the next reload.
type ErrMsg struct {
	Err error
}

// Config configures a [Model].
type Config struct {
	Legend     *legend.Legend
	Theme      *theme.Theme
	KeyBinds   *KeyBinds
	Dispatcher *anchor.Dispatcher
	Status     *Status
	Tracer     trace.Tracer
	// Now returns the current time. Defaults to [time.Now].
	Now      func() time.Time
	Title    string
	Settings Settings
	FPS      int
	ShowHelp bool
}

// Model is a bubbletea model rendering one scrollable legend.
type Model struct {
	err        error
	tracer     trace.Tracer
	legend     *legend.Legend
	theme      *theme.Theme
	kb         *KeyBinds
	engine     *layout.Engine
	controller *scroll.Controller
	store      *anchor.Store
	dispatcher *anchor.Dispatcher
	status     *Status
	now        func() time.Time
	binds      binds
	title      string
	blocks     []string
	items      []layout.Item
	help       help.Model
	anim       transition
	result     layout.Result
	settings   Settings
	offset     layout.Point
	controls   [3]layout.Size
	width      int
	height     int
	cursor     int
	fps        int
	showHelp   bool
}

type binds struct {
	prevPage, nextPage   key.Binding
	prevPiece, nextPiece key.Binding
	toggle, copy         key.Binding
	help, quit           key.Binding
}

// NewModel creates a new [Model].
func NewModel(cfg Config) *Model {
	if cfg.Theme == nil {
		cfg.Theme = theme.Default
	}
	if cfg.KeyBinds == nil {
		cfg.KeyBinds = NewKeyBinds()
	}
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = anchor.NewDispatcher()
	}
	if cfg.Status == nil {
		cfg.Status = NewStatus()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(tracerName)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.FPS <= 0 {
		cfg.FPS = defaultFPS
	}

	kb := cfg.KeyBinds

	m := &Model{
		theme:      cfg.Theme,
		kb:         kb,
		dispatcher: cfg.Dispatcher,
		status:     cfg.Status,
		tracer:     cfg.Tracer,
		now:        cfg.Now,
		fps:        cfg.FPS,
		showHelp:   cfg.ShowHelp,
		help:       help.New(),
		binds: binds{
			prevPage:  kb.PrevPage.BubbleKey(),
			nextPage:  kb.NextPage.BubbleKey(),
			prevPiece: kb.PrevPiece.BubbleKey(),
			nextPiece: kb.NextPiece.BubbleKey(),
			toggle:    kb.Toggle.BubbleKey(),
			copy:      kb.Copy.BubbleKey(),
			help:      kb.Help.BubbleKey(),
			quit:      kb.Quit.BubbleKey(),
		},
	}

	m.help.Styles.ShortKey = m.theme.HelpStyle.Bold(true)
	m.help.Styles.ShortDesc = m.theme.HelpStyle
	m.help.Styles.FullKey = m.theme.HelpStyle.Bold(true)
	m.help.Styles.FullDesc = m.theme.HelpStyle

	m.load(cfg.Legend, cfg.Title, cfg.Settings)
	m.engine = layout.NewEngine(cfg.Settings.Layout)

	return m
}

// load replaces the legend and its settings, keeping the anchor of a legend
// with the same ID.
func (m *Model) load(l *legend.Legend, title string, s Settings) {
	if l == nil {
		l = legend.New("", nil)
	}

	m.legend = l
	m.title = title
	m.settings = s
	m.cursor = min(m.cursor, max(l.Len()-1, 0))

	if m.store == nil || m.store.ID() != l.ID() {
		if m.store != nil {
			m.dispatcher.Unregister(m.store)
		}

		m.store = anchor.NewStore(l.ID(), anchor.WithIndex(s.Anchor))
		m.dispatcher.Register(m.store)
	}

	m.controller = scroll.NewController(l.ID(),
		scroll.WithFormatter(s.Formatter),
		scroll.WithColors(s.IconColor, s.InactiveColor),
	)

	if m.engine != nil {
		m.engine.SetOptions(s.Layout)
	}
}

// SetSize sets the size available to the legend.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Result returns the result of the last layout pass.
func (m *Model) Result() layout.Result {
	return m.result
}

// Offset returns the displayed content offset.
func (m *Model) Offset() layout.Point {
	return m.offset
}

// Controller returns the scroll controller.
func (m *Model) Controller() *scroll.Controller {
	return m.controller
}

// Anchor returns the anchor index of the legend.
func (m *Model) Anchor() int {
	return m.store.Index()
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.help.Width = msg.Width

		return m, m.Pass()

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case ScrollMsg:
		if !m.dispatcher.Submit(msg.Request) {
			return m, nil
		}

		return m, m.flush()

	case FlushMsg:
		return m, m.flush()

	case ReloadMsg:
		m.err = nil
		m.load(msg.Legend, msg.Title, msg.Settings)

		return m, m.Pass()

	case ErrMsg:
		m.err = msg.Err

		return m, m.Pass()

	case frameMsg:
		if msg.id != m.anim.id || !m.anim.active {
			return m, nil
		}

		offset, done := m.anim.at(msg.time)
		m.offset = offset
		if done {
			m.anim.active = false

			return m, nil
		}

		return m, m.anim.tick(m.fps)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.binds.quit):
		return tea.Quit

	case key.Matches(msg, m.binds.prevPage):
		return m.request(m.controller.PageBack())

	case key.Matches(msg, m.binds.nextPage):
		return m.request(m.controller.PageForward())

	case key.Matches(msg, m.binds.prevPiece):
		return m.moveCursor(-1)

	case key.Matches(msg, m.binds.nextPiece):
		return m.moveCursor(1)

	case key.Matches(msg, m.binds.toggle):
		if len(m.items) == 0 || !m.legend.Toggle(m.items[m.cursor].Index) {
			return nil
		}

		return m.Pass()

	case key.Matches(msg, m.binds.copy):
		return m.copyPage()

	case key.Matches(msg, m.binds.help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp

		return m.Pass()
	}

	return nil
}

// request turns a scroll request into a message, so the anchor is only
// changed between passes.
func (m *Model) request(req *anchor.ScrollRequest) tea.Cmd {
	if req == nil {
		return nil
	}

	r := *req

	return func() tea.Msg {
		return ScrollMsg{Request: r}
	}
}

func (m *Model) moveCursor(delta int) tea.Cmd {
	if len(m.items) == 0 {
		return nil
	}

	next := min(max(m.cursor+delta, 0), len(m.items)-1)
	if next == m.cursor {
		return nil
	}

	m.cursor = next

	if m.visible(next) {
		return m.Pass()
	}

	req := anchor.NewScrollRequest(m.items[next].Index, m.legend.ID())

	return m.request(&req)
}

// copyPage copies the labels of the visible pieces.
func (m *Model) copyPage() tea.Cmd {
	labels := m.status.Snapshot().Labels
	if len(labels) == 0 {
		return nil
	}

	text := strings.Join(labels, "\n")

	return func() tea.Msg {
		// Copy using OSC 52.
		termenv.Copy(text)

		// Copy using native system clipboard.
		err := clipboard.WriteAll(text)
		if err != nil {
			slog.Debug("copy to system clipboard", slog.Any("error", err))
		}

		return nil
	}
}

func (m *Model) flush() tea.Cmd {
	if len(m.dispatcher.Flush()) == 0 {
		return nil
	}

	return m.Pass()
}

// Pass runs a render pass and returns the command driving the transition
// to the new page, if any.
func (m *Model) Pass() tea.Cmd {
	_, span := m.tracer.Start(context.Background(), "legend.pass")
	defer span.End()

	m.measure()

	res := m.engine.Layout(layout.Input{
		Items:    m.items,
		Controls: m.controls,
		Max:      m.available(),
		Current:  m.offset,
		Anchor:   m.store.Index(),
	})
	m.result = res
	m.controller.Update(res.Page)

	var cmd tea.Cmd
	if res.Animate && m.settings.Animation && m.settings.Duration > 0 && res.From != res.To {
		m.anim.retarget(res.From, res.To, m.now(), m.settings.Duration)
		m.offset = res.From
		cmd = m.anim.tick(m.fps)
	} else {
		m.anim.stop()
		m.offset = res.To
	}

	m.publish()

	span.SetAttributes(
		attribute.String("legend.id", m.legend.ID()),
		attribute.Int("page.index", res.Page.PageIndex),
		attribute.Int("page.count", res.Page.PageCount),
		attribute.Bool("controls.shown", res.ShowControls),
	)

	slog.Debug("legend pass",
		slog.String("legend", m.legend.ID()),
		slog.Int("anchor", m.store.Index()),
		slog.Int("page", res.Page.PageIndex),
		slog.Int("pages", res.Page.PageCount),
		slog.Bool("controls", res.ShowControls),
	)

	return cmd
}

// available returns the space left for the legend itself.
func (m *Model) available() layout.Size {
	pad := m.settings.Padding

	return layout.Size{
		Width:  max(m.width-2*pad, 0),
		Height: max(m.height-2*pad-lines(m.chromeTop())-lines(m.chromeBottom()), 0),
	}
}

func lines(s string) int {
	if s == "" {
		return 0
	}

	return lipgloss.Height(s)
}

func (m *Model) measure() {
	avail := m.available()
	vertical := m.settings.Layout.Orientation == layout.Vertical

	m.blocks = m.blocks[:0]
	m.items = m.items[:0]

	for _, i := range m.legend.Order() {
		block := m.renderPiece(i, len(m.items) == m.cursor, avail.Width, vertical)
		m.blocks = append(m.blocks, block)
		m.items = append(m.items, layout.Item{
			Index: i,
			Size:  layout.Size{Width: lipgloss.Width(block), Height: lipgloss.Height(block)},
		})
	}

	prev, text, next := m.renderControls()
	m.controls = [3]layout.Size{blockSize(prev), blockSize(text), blockSize(next)}
}

func (m *Model) renderPiece(i int, focused bool, maxWidth int, vertical bool) string {
	selected := m.legend.Selected(i)

	symbolStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.legend.Piece(i).Color))
	labelStyle := m.theme.LabelStyle
	if !selected {
		symbolStyle = m.theme.OutOfRangeStyle
		labelStyle = m.theme.OutOfRangeStyle
	}
	if focused && m.legend.Interactive() {
		labelStyle = m.theme.CursorStyle
	}

	symbol := symbolStyle.Render(m.settings.ItemSymbol)
	if !m.settings.ShowLabel {
		return symbol
	}

	label := m.legend.Label(i)
	labelWidth := maxWidth - lipgloss.Width(symbol) - m.settings.TextGap
	if labelWidth > 0 && lipgloss.Width(label) > labelWidth {
		if vertical {
			label = canvas.Wrap(label, labelWidth)
		} else {
			label = canvas.Truncate(label, labelWidth, m.theme.Ellipsis)
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		symbol+strings.Repeat(" ", m.settings.TextGap),
		labelStyle.Render(label),
	)
}

// renderControls renders the prev button, page text and next button.
// The page text is sized for the longest text any page count can produce.
func (m *Model) renderControls() (string, string, string) {
	prevBtn, nextBtn := m.controller.Buttons()

	iconStyle := m.theme.ControlStyle.
		Width(m.settings.IconSize.Width).
		Height(m.settings.IconSize.Height).
		Align(lipgloss.Center, lipgloss.Center)

	prev := iconStyle.Foreground(lipgloss.Color(prevBtn.Color)).Render(m.settings.PrevIcon)
	next := iconStyle.Foreground(lipgloss.Color(nextBtn.Color)).Render(m.settings.NextIcon)

	placeholder := m.controller.Placeholder(max(m.legend.Len(), 1))
	if placeholder == "" {
		return prev, "", next
	}

	textStyle := m.theme.PageTextStyle.
		Foreground(lipgloss.Color(m.settings.TextColor)).
		Bold(m.settings.TextBold).
		Width(lipgloss.Width(placeholder)).
		Align(lipgloss.Center)

	return prev, textStyle.Render(m.controller.Text()), next
}

func blockSize(block string) layout.Size {
	if block == "" {
		return layout.Size{}
	}

	return layout.Size{Width: lipgloss.Width(block), Height: lipgloss.Height(block)}
}

// visible reports whether the item at display position k is at least
// partially shown once the current transition ends.
func (m *Model) visible(k int) bool {
	res := m.result
	if k < 0 || k >= len(res.Items) {
		return false
	}
	if !res.ShowControls {
		return true
	}

	axis := m.settings.Layout.Orientation.Axis()
	r := res.Items[k]
	start := r.Point.Along(axis) + res.To.Along(axis)
	end := start + r.Size.Along(axis)

	return end > 0 && start < res.Clip.Size.Along(axis)
}

func (m *Model) publish() {
	page := m.result.Page

	snap := Snapshot{
		LegendID:     m.legend.ID(),
		PageText:     m.controller.Text(),
		Anchor:       m.store.Index(),
		PageCount:    page.PageCount,
		ShowControls: m.result.ShowControls,
		Visible:      []int{},
		Labels:       []string{},
		Pieces:       m.legend.Labels(),
	}
	if page.HasPage() {
		snap.PageIndex = &page.PageIndex
	}
	if page.HasPrev() {
		snap.PrevIndex = &page.PrevIndex
	}
	if page.HasNext() {
		snap.NextIndex = &page.NextIndex
	}

	for k, it := range m.items {
		if it.Index != paging.NoIndex && m.visible(k) {
			snap.Visible = append(snap.Visible, it.Index)
			snap.Labels = append(snap.Labels, m.legend.Label(it.Index))
		}
	}

	m.status.set(snap)
}

func (m *Model) chromeTop() string {
	if m.title == "" {
		return ""
	}

	return m.theme.TitleStyle.Render(m.title)
}

func (m *Model) chromeBottom() string {
	parts := []string{}
	if m.err != nil {
		parts = append(parts, m.theme.ErrorStyle.Render(m.err.Error()))
	}
	if m.showHelp {
		parts = append(parts, m.help.View(m.kb.HelpKeyMap()))
	}

	return strings.Join(parts, "\n")
}

func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	rows := []string{}
	if top := m.chromeTop(); top != "" {
		rows = append(rows, top)
	}

	rows = append(rows, m.renderLegend())

	if bottom := m.chromeBottom(); bottom != "" {
		rows = append(rows, bottom)
	}

	return lipgloss.NewStyle().
		Padding(m.settings.Padding).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderLegend draws the pieces and controls of the last pass.
func (m *Model) renderLegend() string {
	res := m.result

	shift := layout.Point{X: -res.Main.X, Y: -res.Main.Y}
	cv := canvas.New(res.Main.Width, res.Main.Height)

	container := res.Container.Add(shift)

	clip := cv.Bounds()
	if res.ShowControls {
		clip = res.Clip.Translate(container)
	}

	for k, r := range res.Items {
		if k >= len(m.blocks) {
			break
		}

		cv.DrawClipped(container.Add(m.offset).Add(r.Point), m.blocks[k], clip)
	}

	if res.ControlsVisible {
		controller := res.Controller.Add(shift)

		prev, text, next := m.renderControls()
		for i, block := range [3]string{prev, text, next} {
			cv.Draw(controller.Add(res.Controls[i].Point), block)
		}
	}

	return cv.String()
}

// Render runs a single pass at the given size and returns the view. It is
// used when the output is not a terminal.
func Render(cfg Config, width, height int) string {
	cfg.Settings.Animation = false
	cfg.ShowHelp = false

	m := NewModel(cfg)
	m.SetSize(width, height)
	m.Pass()

	return m.View()
}
