// Package models defines the catalog entities shared by the store, the request layer and the exporters.
//
// Entities:
//   - [User] : a listener identified by mobile number
//   - [Artist] : owns albums
//   - [Album] : belongs to one artist, owns songs
//   - [Song] : belongs to one album; its like count is derived from the store's like index
//   - [Playlist] : a frozen selection of songs with a creator and listeners
//
// Relationships between entities are not stored on the structs. The catalog store keeps them in
// its own indices and hands out copies, so values in this package are safe to share.
//
// Read-side aggregates ([ChartEntry], [Stats], [Snapshot]) describe the store at a point in time
// for reports, exports and the TUI.
package models
