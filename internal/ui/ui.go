package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tunes/internal/models"
	"github.com/desertthunder/tunes/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ReplayView ViewState = iota
	SongsView
	ArtistsView
	PlaylistsView
	PlaylistDetailView
)

// browseViews are the views tab cycles through, in order.
var browseViews = []ViewState{SongsView, ArtistsView, PlaylistsView}

func (v ViewState) String() string {
	switch v {
	case ReplayView:
		return "Replay"
	case SongsView:
		return "Songs"
	case ArtistsView:
		return "Artists"
	case PlaylistsView:
		return "Playlists"
	case PlaylistDetailView:
		return "Playlist"
	default:
		return ""
	}
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.Engine
	script       *tasks.Script
	width        int
	height       int
	songList     list.Model
	artistList   list.Model
	playlistList list.Model
	detailList   list.Model
	selected     *models.PlaylistView
	snapshot     models.Snapshot
	replay       *replay
	progress     tasks.ProgressUpdate
	result       *tasks.RunResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model that replays script through engine before browsing.
func NewModel(ctx context.Context, engine *tasks.Engine, script *tasks.Script) *Model {
	return &Model{
		ctx:          ctx,
		view:         ReplayView,
		engine:       engine,
		script:       script,
		songList:     newList("Songs"),
		artistList:   newList("Artists"),
		playlistList: newList("Playlists"),
		detailList:   newList("Playlist"),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

// Init starts the replay.
func (m *Model) Init() tea.Cmd {
	return m.startReplay()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgReplayComplete:
			res := msg.data.(replayResult)
			m.result = res.result
			m.err = res.err
			m.replay = nil
			if m.err == nil {
				m.refresh()
				m.view = SongsView
			}
			return m, nil
		}
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ReplayView:
		return m.renderReplay()
	case SongsView, ArtistsView, PlaylistsView:
		return m.renderBrowse()
	case PlaylistDetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}
	if m.view == ReplayView || m.err != nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.next):
		m.cycle(1)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.cycle(-1)
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.back):
		if m.view == PlaylistDetailView {
			m.view = PlaylistsView
			m.selected = nil
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if m.view == PlaylistsView {
			if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
				m.openPlaylist(item.view)
			}
		}
		return m, nil
	}

	return m.updateList(msg)
}

// cycle moves through the browse views; from the detail view it starts at Playlists.
func (m *Model) cycle(step int) {
	current := m.view
	if current == PlaylistDetailView {
		current = PlaylistsView
		m.selected = nil
	}
	for i, v := range browseViews {
		if v == current {
			n := len(browseViews)
			m.view = browseViews[((i+step)%n+n)%n]
			return
		}
	}
	m.view = SongsView
}

func (m *Model) openPlaylist(view models.PlaylistView) {
	m.selected = &view
	m.detailList.Title = fmt.Sprintf("Songs in '%s'", view.Playlist.Title)
	m.detailList.SetItems(songItems(view.Songs))
	m.detailList.ResetSelected()
	m.view = PlaylistDetailView
}

// refresh re-reads the store and rebuilds every list.
func (m *Model) refresh() {
	if m.engine == nil || m.engine.Store() == nil {
		return
	}
	m.snapshot = m.engine.Store().Snapshot()
	m.songList.SetItems(chartItems(m.snapshot.SongChart))
	m.artistList.SetItems(chartItems(m.snapshot.ArtistChart))
	m.playlistList.SetItems(playlistItems(m.snapshot.Playlists))

	if m.selected != nil {
		for _, v := range m.snapshot.Playlists {
			if v.Playlist.ID == m.selected.Playlist.ID {
				m.openPlaylist(v)
				break
			}
		}
	}
}

func (m *Model) resize() {
	w, h := m.width-4, m.height-8
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	for _, l := range []*list.Model{&m.songList, &m.artistList, &m.playlistList, &m.detailList} {
		l.SetSize(w, h)
	}
}

// active returns the list shown in the current view, or nil.
func (m *Model) active() *list.Model {
	switch m.view {
	case SongsView:
		return &m.songList
	case ArtistsView:
		return &m.artistList
	case PlaylistsView:
		return &m.playlistList
	case PlaylistDetailView:
		return &m.detailList
	default:
		return nil
	}
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	l := m.active()
	if l == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func (m *Model) startReplay() tea.Cmd {
	if m.engine == nil || m.script == nil {
		return func() tea.Msg {
			return replayCompleteMsg(nil, fmt.Errorf("nothing to replay"))
		}
	}

	r := &replay{progress: make(chan tasks.ProgressUpdate, 50)}
	m.replay = r

	go func() {
		r.result, r.err = m.engine.Run(m.ctx, m.script, r.progress)
		close(r.progress)
	}()

	return m.waitForProgress()
}

// replay is owned by the replay goroutine until progress is closed.
type replay struct {
	progress chan tasks.ProgressUpdate
	result   *tasks.RunResult
	err      error
}

func (m *Model) waitForProgress() tea.Cmd {
	r := m.replay
	return func() tea.Msg {
		if r == nil {
			return replayCompleteMsg(nil, fmt.Errorf("no replay running"))
		}

		update, ok := <-r.progress
		if !ok {
			return replayCompleteMsg(r.result, r.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderReplay() string {
	name := ""
	if m.script != nil {
		name = m.script.Name
	}
	title := styles.title.Render(fmt.Sprintf("Replaying %s", name))

	var phase string
	switch m.progress.Phase {
	case tasks.ApplyOp:
		phase = fmt.Sprintf("Applying ops (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Summarize:
		phase = "Summarizing..."
	default:
		phase = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(browseViews))
	for _, v := range browseViews {
		style := styles.tab
		if v == m.view || (v == PlaylistsView && m.view == PlaylistDetailView) {
			style = styles.active
		}
		tabs = append(tabs, style.Render(v.String()))
	}
	return strings.Join(tabs, "│")
}

func (m *Model) renderSummary() string {
	s := m.snapshot.Stats
	summary := fmt.Sprintf("%d users • %d artists • %d albums • %d songs • %d playlists • %d likes",
		s.Users, s.Artists, s.Albums, s.Songs, s.Playlists, s.Likes)
	if m.result != nil && m.result.FailedCount > 0 {
		summary += "  " + styles.warn.Render(fmt.Sprintf("(%d ops failed)", m.result.FailedCount))
	}
	return summary
}

func (m *Model) renderBrowse() string {
	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.next, m.keys.refresh, m.keys.quit}
	if m.view == PlaylistsView {
		helpKeys = append([]key.Binding{m.keys.enter}, helpKeys...)
	}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", m.renderTabs(), m.renderSummary(), m.active().View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return m.renderBrowse()
	}

	listeners := make([]string, 0, len(m.selected.Listeners))
	for _, u := range m.selected.Listeners {
		listeners = append(listeners, u.Name)
	}
	info := fmt.Sprintf("Creator: %s (%s)\nListeners: %s",
		m.selected.Creator.Name, m.selected.Creator.Mobile, strings.Join(listeners, ", "))

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", m.renderTabs(), info, m.detailList.View(), helpView)
}
