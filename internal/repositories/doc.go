// Package repositories implements SQLite persistence for exported catalog snapshots.
//
// Key Implementations:
//   - [SnapshotRepository] : Replaces the snapshot tables with a [models.Snapshot] in one transaction
//     and reads like rankings back with SQL aggregation
//   - [ExportRepository] : Export history, one row per saved snapshot
//
// Exports are one-way reports. Nothing here rebuilds a catalog store from the database.
// Insertion order is kept in a position column so rankings break ties the same way the store does.
package repositories
