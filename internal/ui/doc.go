// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI replays a script and then lets the user browse the resulting catalog:
//  1. [ReplayView] : Monitor real-time progress while the script runs
//  2. [SongsView] : Songs ranked by likes
//  3. [ArtistsView] : Artists ranked by the likes on all their songs
//  4. [PlaylistsView] : Playlists with creator and listener counts
//  5. [PlaylistDetailView] : One playlist's songs in order, plus its listeners
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the replay [tasks.Engine].
//
// Keyboard navigation uses vim-style bindings (j/k, tab, enter, esc, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
