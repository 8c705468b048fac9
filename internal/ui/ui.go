package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mawshu/movie-tracker/internal/models"
	"github.com/mawshu/movie-tracker/internal/services"
	"github.com/mawshu/movie-tracker/internal/shared"
	"github.com/mawshu/movie-tracker/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	WatchlistListView ViewState = iota
	ItemsView
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusErr
)

// displaySort is one step of the sort cycle bound to the sort key.
type displaySort struct {
	key tasks.SortKey
	dir tasks.Direction
}

var sortCycle = []displaySort{
	{tasks.SortPosition, tasks.Ascending},
	{tasks.SortTitle, tasks.Ascending},
	{tasks.SortYear, tasks.Descending},
	{tasks.SortAddedAt, tasks.Descending},
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	client services.Watchlists
	userID int64
	logger *log.Logger

	view          ViewState
	width         int
	height        int
	watchlistList list.Model
	watchlists    []models.Watchlist

	session *tasks.OrderSession
	cursor  int
	rows    []models.WatchlistItem // Snapshot of session.View(), safe to render while busy
	title   string
	sortKey tasks.SortKey
	sortDir tasks.Direction
	dirty   bool
	busy    bool
	discard bool // esc pressed once with unsaved moves

	status     string
	statusKind statusKind
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model acting as userID.
func NewModel(ctx context.Context, client services.Watchlists, userID int64, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Model{
		ctx:           ctx,
		client:        client,
		userID:        userID,
		logger:        logger,
		view:          WatchlistListView,
		watchlistList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Init initializes the TUI by fetching the user's watchlists.
func (m *Model) Init() tea.Cmd {
	m.busy = true
	return m.fetchWatchlists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.watchlistList.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && !m.watchlistList.SettingFilter() {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch m.view {
		case WatchlistListView:
			return m.handleWatchlistKeys(msg)
		case ItemsView:
			return m.handleItemKeys(msg)
		}

	case Msg:
		m.busy = false
		return m.handleMsg(msg)
	}

	if m.view == WatchlistListView {
		var cmd tea.Cmd
		m.watchlistList, cmd = m.watchlistList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgWatchlistsFetched:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.watchlists = msg.data.([]models.Watchlist)
		items := make([]list.Item, len(m.watchlists))
		for i, w := range m.watchlists {
			items[i] = watchlistItem{watchlist: w}
		}
		m.watchlistList = list.New(items, list.NewDefaultDelegate(), max(m.width-4, 0), max(m.height-8, 0))
		m.watchlistList.Title = "Watchlists"
		m.watchlistList.SetShowHelp(false)
		return m, nil

	case MsgWatchlistFetched:
		if msg.err != nil {
			m.setStatus(statusErr, "Failed to load watchlist: %v", msg.err)
			return m, nil
		}
		w := msg.data.(*models.Watchlist)
		if m.session == nil || m.view != ItemsView {
			m.session = tasks.NewOrderSession(m.client, w)
			m.cursor = 0
		} else {
			m.session.Seed(w)
		}
		m.view = ItemsView
		m.discard = false
		m.snapshot()
		m.setStatus(statusInfo, "Loaded %d movies", len(m.rows))
		return m, nil

	case MsgOrderSaved:
		if msg.err != nil {
			m.logger.Error("failed to save order", "watchlist", m.session.Watchlist().ID, "error", msg.err)
			m.setStatus(statusErr, "Save failed: %v (press r to reload the saved order)", msg.err)
			return m, nil
		}
		m.logger.Info("saved order", "watchlist", m.session.Watchlist().ID, "items", msg.data)
		m.snapshot()
		m.setStatus(statusOK, "✓ Order saved")
		return m, nil

	case MsgItemRemoved:
		item := msg.data.(models.WatchlistItem)
		m.snapshot()
		if msg.err != nil {
			m.setStatus(statusErr, "Failed to remove %s: %v", item.Movie.Title, msg.err)
			return m, nil
		}
		m.setStatus(statusOK, "Removed %s", item.Movie.Title)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleWatchlistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.watchlistList.SettingFilter() {
		var cmd tea.Cmd
		m.watchlistList, cmd = m.watchlistList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.watchlistList.SelectedItem().(watchlistItem); ok {
			m.busy = true
			m.session = nil
			return m, m.fetchWatchlist(selected.watchlist.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.busy = true
		return m, m.fetchWatchlists()
	}

	var cmd tea.Cmd
	m.watchlistList, cmd = m.watchlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleItemKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.back) {
		m.discard = false
	}

	switch {
	case key.Matches(msg, m.keys.up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.down):
		m.cursor = min(m.cursor+1, max(len(m.rows)-1, 0))
	case key.Matches(msg, m.keys.moveUp):
		m.move(-1)
	case key.Matches(msg, m.keys.moveDown):
		m.move(1)
	case key.Matches(msg, m.keys.save):
		if !m.dirty {
			m.setStatus(statusInfo, "Nothing to save")
			return m, nil
		}
		m.busy = true
		m.setStatus(statusInfo, "Saving…")
		return m, m.commit()
	case key.Matches(msg, m.keys.refresh):
		m.busy = true
		return m, m.fetchWatchlist(m.session.Watchlist().ID)
	case key.Matches(msg, m.keys.sort):
		m.cycleSort()
	case key.Matches(msg, m.keys.reverse):
		m.reverseSort()
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.current(); ok {
			m.busy = true
			return m, m.removeItem(item)
		}
	case key.Matches(msg, m.keys.back):
		if m.dirty && !m.discard {
			m.discard = true
			m.setStatus(statusWarn, "Unsaved order changes. Press esc again to discard, s to save")
			return m, nil
		}
		m.view = WatchlistListView
		m.session = nil
		m.rows = nil
		m.dirty = false
		m.discard = false
		m.status = ""
		m.busy = true
		return m, m.fetchWatchlists()
	}
	return m, nil
}

func (m *Model) current() (models.WatchlistItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return models.WatchlistItem{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) move(delta int) {
	item, ok := m.current()
	if !ok {
		return
	}

	var err error
	if delta < 0 {
		err = m.session.MoveUp(item.ID)
	} else {
		err = m.session.MoveDown(item.ID)
	}
	if err != nil {
		m.reportPrecondition(err)
		return
	}

	m.snapshot()
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	m.status = ""
}

func (m *Model) cycleSort() {
	next := sortCycle[0]
	for i, s := range sortCycle {
		if s.key == m.sortKey && s.dir == m.sortDir {
			next = sortCycle[(i+1)%len(sortCycle)]
			break
		}
	}
	m.applySort(next.key, next.dir)
}

func (m *Model) reverseSort() {
	dir := tasks.Ascending
	if m.sortDir == tasks.Ascending {
		dir = tasks.Descending
	}
	m.applySort(m.sortKey, dir)
}

func (m *Model) applySort(sortKey tasks.SortKey, dir tasks.Direction) {
	if err := m.session.SetDisplaySort(sortKey, dir); err != nil {
		m.reportPrecondition(err)
		return
	}
	m.snapshot()
	m.cursor = 0
	m.setStatus(statusInfo, "Sorted by %s (%s)", sortKey, dir)
}

func (m *Model) reportPrecondition(err error) {
	switch {
	case errors.Is(err, shared.ErrSortActive):
		m.setStatus(statusWarn, "Reset the sort to position (press o) before moving items")
	case errors.Is(err, shared.ErrPendingReorder):
		m.setStatus(statusWarn, "Save or refresh your order changes before sorting")
	default:
		m.setStatus(statusErr, "%v", err)
	}
}

func (m *Model) setStatus(kind statusKind, format string, args ...any) {
	m.statusKind = kind
	m.status = fmt.Sprintf(format, args...)
}

// snapshot copies the session's current view for rendering.
func (m *Model) snapshot() {
	if m.session == nil {
		m.rows = nil
		return
	}
	m.rows = m.session.View()
	m.title = m.session.Watchlist().Title
	m.sortKey, m.sortDir = m.session.DisplaySort()
	m.dirty = m.session.Dirty()
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

func (m *Model) fetchWatchlists() tea.Cmd {
	return func() tea.Msg {
		watchlists, err := m.client.ListWatchlists(m.ctx, m.userID)
		return watchlistsFetchedMsg(watchlists, err)
	}
}

func (m *Model) fetchWatchlist(id int64) tea.Cmd {
	return func() tea.Msg {
		w, err := m.client.GetWatchlist(m.ctx, id)
		return watchlistFetchedMsg(w, err)
	}
}

func (m *Model) commit() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		count := len(session.ItemIDs())
		return orderSavedMsg(count, session.Commit(m.ctx))
	}
}

func (m *Model) removeItem(item models.WatchlistItem) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return itemRemovedMsg(item, session.RemoveItem(m.ctx, item.ID))
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case WatchlistListView:
		return m.renderWatchlists()
	case ItemsView:
		return m.renderItems()
	default:
		return ""
	}
}

func (m *Model) renderWatchlists() string {
	if m.busy && len(m.watchlists) == 0 {
		return styles.help.Render("Loading watchlists…")
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit})
	if m.status != "" {
		return fmt.Sprintf("%s\n\n%s\n\n%s", m.watchlistList.View(), m.renderStatus(), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.watchlistList.View(), helpView)
}

func (m *Model) renderItems() string {
	var b strings.Builder

	b.WriteString(styles.title.Render(m.title))
	b.WriteString("\n")

	header := fmt.Sprintf("Sort: %s (%s)", m.sortKey, m.sortDir)
	if m.dirty {
		header += "  " + styles.dirty.Render("● unsaved order")
	}
	b.WriteString(styles.help.Render(header))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(styles.help.Render("This watchlist is empty."))
		b.WriteString("\n")
	}
	for i, item := range m.rows {
		line := itemLine(i, item)
		if i == m.cursor {
			b.WriteString(styles.selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.moveUp, m.keys.moveDown, m.keys.save, m.keys.refresh, m.keys.sort, m.keys.remove, m.keys.back, m.keys.quit}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderStatus() string {
	switch m.statusKind {
	case statusOK:
		return styles.ok.Render(m.status)
	case statusWarn:
		return styles.warn.Render(m.status)
	case statusErr:
		return styles.err.Render(m.status)
	default:
		return styles.help.Render(m.status)
	}
}
