// Package tasks replays scripted catalog operations with real-time progress reporting.
//
// # Scripts
//
// A script is a TOML document with an ordered list of [[ops]] tables:
//
//	name = "smoke"
//
//	[[ops]]
//	op = "add-artist"
//	name = "A"
//
//	[[ops]]
//	op = "add-song"
//	title = "S1"
//	album = "Alb"
//	length = 180
//
// Op names mirror the HTTP routes: add-user, add-artist, add-album, add-song,
// add-playlist-on-length, add-playlist-on-name, find-playlist, like-song,
// popular-artist and popular-song.
//
// # Engines
//
// [Engine.Run] applies a script against one [catalog.Store]. A failing op is
// recorded with its "Failure: ..." outcome and the run continues. Only context
// cancellation stops a run early.
//
// [RunBatch] replays several script files concurrently, each against its own store,
// using a bounded worker pool and a shared rate limiter.
//
// # Progress Reporting
//
// Runs report [ProgressUpdate] values over an optional channel. Sends never block:
// a full channel drops the update.
package tasks
