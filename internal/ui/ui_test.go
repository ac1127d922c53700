package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tunes/internal/catalog"
	"github.com/desertthunder/tunes/internal/tasks"
)

func testScript() *tasks.Script {
	return &tasks.Script{Name: "ui", Ops: []tasks.Op{
		{Op: tasks.OpAddAlbum, Title: "Alb", Artist: "A"},
		{Op: tasks.OpAddSong, Title: "S1", Album: "Alb", Length: 180},
		{Op: tasks.OpAddSong, Title: "S2", Album: "Alb", Length: 200},
		{Op: tasks.OpAddUser, Name: "U", Mobile: "999"},
		{Op: tasks.OpAddUser, Name: "V", Mobile: "888"},
		{Op: tasks.OpAddPlaylistOnName, Mobile: "999", Title: "Mix", Songs: []string{"S2", "S1"}},
		{Op: tasks.OpFindPlaylist, Mobile: "888", Title: "Mix"},
		{Op: tasks.OpLikeSong, Mobile: "888", Title: "S2"},
		{Op: tasks.OpLikeSong, Mobile: "000", Title: "S2"},
	}}
}

// runToCompletion drives the replay commands the way tea.Program would.
func runToCompletion(t *testing.T, m *Model) {
	t.Helper()

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	cmd := m.Init()
	for i := 0; cmd != nil; i++ {
		if i > 1000 {
			t.Fatal("replay did not complete")
		}
		msg := cmd()
		_, cmd = m.Update(msg)
		if out, ok := msg.(Msg); ok && out.kind == MsgReplayComplete {
			return
		}
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	engine := tasks.NewEngine(catalog.New())
	m := NewModel(context.Background(), engine, testScript())
	runToCompletion(t, m)
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestModel_Replay(t *testing.T) {
	m := newTestModel(t)

	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if m.view != SongsView {
		t.Errorf("expected SongsView after replay, got %v", m.view)
	}
	if m.result == nil || m.result.FailedCount != 1 {
		t.Fatalf("expected one failed op, got %+v", m.result)
	}
	if m.snapshot.Stats.Songs != 2 {
		t.Errorf("expected 2 songs in snapshot, got %d", m.snapshot.Stats.Songs)
	}

	items := m.songList.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 song items, got %d", len(items))
	}
	if top := items[0].(chartItem); top.entry.Name != "S2" || top.Description() != "1 like • Alb" {
		t.Errorf("unexpected top song: %s / %s", top.entry.Name, top.Description())
	}

	view := m.View()
	for _, want := range []string{"Songs", "Artists", "Playlists", "2 songs", "(1 ops failed)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_Navigation(t *testing.T) {
	t.Run("tab cycles browse views", func(t *testing.T) {
		m := newTestModel(t)

		want := []ViewState{ArtistsView, PlaylistsView, SongsView, ArtistsView}
		for _, v := range want {
			m.Update(keyPress("tab"))
			if m.view != v {
				t.Fatalf("expected %v, got %v", v, m.view)
			}
		}

		m.Update(keyPress("shift+tab"))
		if m.view != SongsView {
			t.Errorf("expected shift+tab back to SongsView, got %v", m.view)
		}
		m.Update(keyPress("shift+tab"))
		if m.view != PlaylistsView {
			t.Errorf("expected shift+tab to wrap to PlaylistsView, got %v", m.view)
		}
	})

	t.Run("enter opens playlist and esc returns", func(t *testing.T) {
		m := newTestModel(t)
		m.view = PlaylistsView

		m.Update(keyPress("enter"))
		if m.view != PlaylistDetailView {
			t.Fatalf("expected PlaylistDetailView, got %v", m.view)
		}
		if m.selected == nil || m.selected.Playlist.Title != "Mix" {
			t.Fatalf("expected Mix selected, got %+v", m.selected)
		}

		items := m.detailList.Items()
		if len(items) != 2 || items[0].(songItem).song.Title != "S2" {
			t.Errorf("expected songs in playlist order, got %v", items)
		}
		if d := items[0].(songItem).Description(); d != "3:20 • 1 like" {
			t.Errorf("unexpected song description %q", d)
		}

		view := m.View()
		if !strings.Contains(view, "Creator: U (999)") || !strings.Contains(view, "Listeners: U, V") {
			t.Errorf("detail view missing creator or listeners:\n%s", view)
		}

		m.Update(keyPress("esc"))
		if m.view != PlaylistsView || m.selected != nil {
			t.Errorf("expected back on PlaylistsView, got %v", m.view)
		}
	})

	t.Run("enter outside playlists does nothing", func(t *testing.T) {
		m := newTestModel(t)
		m.Update(keyPress("enter"))
		if m.view != SongsView {
			t.Errorf("expected SongsView, got %v", m.view)
		}
	})

	t.Run("refresh picks up store changes", func(t *testing.T) {
		m := newTestModel(t)
		if _, err := m.engine.Store().LikeSong("999", "S1"); err != nil {
			t.Fatalf("LikeSong() error = %v", err)
		}
		if _, err := m.engine.Store().LikeSong("888", "S1"); err != nil {
			t.Fatalf("LikeSong() error = %v", err)
		}

		m.Update(keyPress("r"))
		if top := m.songList.Items()[0].(chartItem); top.entry.Name != "S1" {
			t.Errorf("expected S1 on top after refresh, got %s", top.entry.Name)
		}
	})

	t.Run("quit", func(t *testing.T) {
		m := newTestModel(t)
		_, cmd := m.Update(keyPress("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestModel_ReplayErrors(t *testing.T) {
	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		m := NewModel(ctx, tasks.NewEngine(catalog.New()), testScript())
		runToCompletion(t, m)

		if m.err == nil {
			t.Fatal("expected cancellation error")
		}
		if !strings.Contains(m.View(), "Error:") {
			t.Errorf("expected error view, got %q", m.View())
		}

		m.Update(keyPress("tab"))
		if m.view != ReplayView {
			t.Errorf("navigation should be disabled after an error, got %v", m.view)
		}
	})

	t.Run("nothing to replay", func(t *testing.T) {
		m := NewModel(context.Background(), nil, nil)
		runToCompletion(t, m)
		if m.err == nil {
			t.Error("expected error without engine or script")
		}
	})
}

func TestViewState_String(t *testing.T) {
	for v, want := range map[ViewState]string{
		ReplayView:         "Replay",
		SongsView:          "Songs",
		ArtistsView:        "Artists",
		PlaylistsView:      "Playlists",
		PlaylistDetailView: "Playlist",
		ViewState(42):      "",
	} {
		if got := v.String(); got != want {
			t.Errorf("ViewState(%d).String() = %q, want %q", int(v), got, want)
		}
	}
}
