// Package catalog implements the in-memory catalog store: users, artists, albums, songs and playlists,
// the relationship indices between them, likes, and popularity aggregation.
//
// # Keys
//
// Mobile numbers, artist names, and album, song and playlist titles are lookup keys. The latest record
// registered under a key is the one lookups resolve to. Creating a second record with the same key
// always succeeds: the earlier record stays in iteration (length-based playlists, charts, snapshots)
// but can no longer be addressed by key.
//
// # Relationships
//
// Entities don't point at each other. The [Store] keeps the edges in maps keyed by entity ID:
// artist→albums, album→songs, playlist→songs, playlist→listeners, user→playlists and song→likes.
// An artist's popularity is always computed from song likes on read, so there is no second counter
// to fall out of sync.
//
// # Concurrency
//
// A single [sync.RWMutex] guards the store. Operations that write take the exclusive lock; lookups
// and aggregations take the shared lock. Every operation resolves its references before mutating
// anything, so a NotFound failure leaves the store untouched.
package catalog
