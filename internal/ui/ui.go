package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/steamx/internal/models"
	"github.com/desertthunder/steamx/internal/progress"
	"github.com/desertthunder/steamx/internal/services"
	"github.com/desertthunder/steamx/internal/shared"
	"github.com/desertthunder/steamx/internal/tasks"
)

const (
	logLimit     = 200
	logLines     = 8
	defaultWidth = 80
	listReserve  = 16 // rows taken by everything but the game list
)

// Options holds the dependencies of a [Model].
type Options struct {
	Catalog     services.Catalog
	Source      services.AchievementSource
	Credentials services.Credentials
	OutputDir   string
	Delay       time.Duration
	History     tasks.JobRecorder
	Cache       tasks.GameCache
	Logger      *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	creds     services.Credentials
	outputDir string
	logger    *log.Logger

	events   chan tasks.Event
	library  *tasks.Library
	exporter *tasks.Exporter
	reporter *progress.Reporter

	visible   []models.Game
	selected  map[int]bool
	cursor    int
	filtering bool
	ticking   bool

	logs      []string
	notice    string
	noticeErr bool

	width  int
	height int

	filter  textinput.Model
	spinner spinner.Model
	bar     bar.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model and seeds the game list from the cache when one is configured.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	events := make(chan tasks.Event, 64)
	emit := tasks.ChanEmitter(events)

	filter := textinput.New()
	filter.Prompt = "Filter: "
	filter.Placeholder = "game name"

	m := &Model{
		ctx:       ctx,
		creds:     opts.Credentials,
		outputDir: opts.OutputDir,
		logger:    opts.Logger,
		events:    events,
		library:   tasks.NewLibrary(opts.Catalog, tasks.LibraryOpts{Emit: emit, Logger: opts.Logger, Cache: opts.Cache}),
		exporter: tasks.NewExporter(opts.Source, tasks.ExporterOpts{
			Delay:   opts.Delay,
			Emit:    emit,
			Logger:  opts.Logger,
			History: opts.History,
		}),
		reporter: progress.New(),
		selected: make(map[int]bool),
		filter:   filter,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:      bar.New(bar.WithDefaultGradient(), bar.WithWidth(defaultWidth-4)),
		help:     help.New(),
		keys:     newKeyMap(),
	}

	if n, err := m.library.Load(); err != nil {
		m.logger.Warn("failed to load cached games", "error", err)
	} else if n > 0 {
		m.appendLog(fmt.Sprintf("Loaded %d cached game(s)", n))
	}
	m.applyFilter()
	return m
}

// Init starts the spinner, the event pump and the first owned-games fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh(), m.waitForEvent())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(msg.Width-4, 10)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKeys(msg)
		}
		return m.handleListKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgEvent:
			cmd := m.handleEvent(msg.data.(tasks.Event))
			return m, tea.Batch(cmd, m.waitForEvent())
		case MsgFrame:
			return m, m.step(msg.data.(time.Time))
		case MsgError:
			m.setNotice(msg.data.(error).Error(), true)
			return m, nil
		}
	}

	return m, nil
}

// View renders the single export screen.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Steam Achievements Export"))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(m.reporter.Fraction()))
	b.WriteString("\n\n")
	b.WriteString(m.renderLog())

	if m.notice != "" {
		b.WriteString("\n")
		if m.noticeErr {
			b.WriteString(styles.err.Render(m.notice))
		} else {
			b.WriteString(styles.ok.Render(m.notice))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Selection returns the selected games in list order.
func (m *Model) Selection() []models.Game {
	var selection []models.Game
	for _, g := range m.library.Games() {
		if m.selected[g.AppID] {
			selection = append(selection, g)
		}
	}
	return selection
}

func (m *Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m.quit()
	case key.Matches(msg, m.keys.blur):
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.toggle):
		if m.cursor < len(m.visible) {
			id := m.visible[m.cursor].AppID
			if m.selected[id] {
				delete(m.selected, id)
			} else {
				m.selected[id] = true
			}
		}
	case key.Matches(msg, m.keys.all):
		for _, g := range m.visible {
			m.selected[g.AppID] = true
		}
	case key.Matches(msg, m.keys.clear):
		clear(m.selected)
	case key.Matches(msg, m.keys.filter):
		m.filtering = true
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.export):
		return m, m.startExport()
	case key.Matches(msg, m.keys.cancel):
		if !m.exporter.RequestCancel() {
			m.setNotice("No export is running", true)
		} else {
			m.appendLog("Cancel requested")
		}
	case key.Matches(msg, m.keys.refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleEvent(ev tasks.Event) tea.Cmd {
	now := time.Now()

	switch ev.Kind {
	case tasks.EventProgress:
		if ev.Step == 0 {
			m.reporter.Reset()
			return nil
		}
		m.reporter.SetTarget(ev.Percent, now)
		return m.startTicking()

	case tasks.EventLog, tasks.EventItemDone:
		m.appendLog(ev.Message)

	case tasks.EventOutcome:
		m.appendLog(ev.Message)
		m.setNotice(ev.Message, ev.Outcome != nil && ev.Outcome.Kind == tasks.OutcomeFailed)
		m.reporter.DecayToZero(progress.DecayDuration, now)
		return m.startTicking()

	case tasks.EventListLoaded:
		if ev.List == nil {
			return nil
		}
		if err := m.library.Apply(*ev.List); err != nil {
			m.setNotice(ev.Message, true)
			return nil
		}
		m.appendLog(ev.Message)
		m.pruneSelection()
		m.applyFilter()
	}
	return nil
}

// step advances the progress animation and keeps the frame tick alive only while it runs.
func (m *Model) step(now time.Time) tea.Cmd {
	if _, animating := m.reporter.Step(now); animating {
		return m.tick()
	}
	m.ticking = false
	return nil
}

func (m *Model) startTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(progress.FrameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-m.events:
			return eventMsg(ev)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		if err := m.library.Refresh(m.ctx, m.creds); err != nil {
			return errorMsg(err)
		}
		return nil
	}
}

func (m *Model) startExport() tea.Cmd {
	selection := m.Selection()
	if len(selection) == 0 {
		m.setNotice("Select at least one game to export", true)
		return nil
	}

	path := tasks.ExportPath(m.outputDir, selection)
	if err := m.exporter.Start(m.ctx, m.creds, selection, path); err != nil {
		if errors.Is(err, shared.ErrBusy) {
			m.setNotice("An export is already running", true)
		} else {
			m.setNotice(err.Error(), true)
		}
		return nil
	}

	m.logs = nil
	m.notice = ""
	return nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.exporter.RequestCancel() {
		m.logger.Info("canceling export before exit")
	}
	return m, tea.Quit
}

func (m *Model) applyFilter() {
	m.visible = m.library.Filter(m.filter.Value())
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

// pruneSelection drops selected ids that are no longer in the item set.
func (m *Model) pruneSelection() {
	for id := range m.selected {
		if _, ok := m.library.Lookup(id); !ok {
			delete(m.selected, id)
		}
	}
}

func (m *Model) appendLog(line string) {
	m.logs = append(m.logs, line)
	if len(m.logs) > logLimit {
		m.logs = m.logs[len(m.logs)-logLimit:]
	}
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m *Model) renderList() string {
	if len(m.visible) == 0 {
		if m.library.Busy() {
			return fmt.Sprintf("%s Loading owned games...\n", m.spinner.View())
		}
		return styles.help.Render("No games to show") + "\n"
	}

	var b strings.Builder
	header := fmt.Sprintf("%d game(s), %d selected", len(m.visible), len(m.selected))
	if m.library.Busy() {
		header = fmt.Sprintf("%s %s (refreshing)", m.spinner.View(), header)
	}
	b.WriteString(styles.help.Render(header))
	b.WriteString("\n")

	start, end := m.window()
	for i := start; i < end; i++ {
		g := m.visible[i]
		check := "[ ]"
		if m.selected[g.AppID] {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s", check, g)
		if i == m.cursor {
			b.WriteString(styles.cursor.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// window returns the slice of visible rows that keeps the cursor on screen.
func (m *Model) window() (int, int) {
	rows := len(m.visible)
	if m.height > listReserve {
		rows = min(rows, m.height-listReserve)
	} else {
		rows = min(rows, 10)
	}

	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	return start, min(start+rows, len(m.visible))
}

func (m *Model) renderLog() string {
	lines := m.logs
	if len(lines) > logLines {
		lines = lines[len(lines)-logLines:]
	}

	var b strings.Builder
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "error:") {
			b.WriteString(styles.warn.Render(line))
		} else {
			b.WriteString(styles.log.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
