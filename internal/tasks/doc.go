// Package tasks runs bulk playlist operations with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.Backup] : Flatten every playlist of a user into CSV rows
//     - Lists the user's playlists (optionally restricted to some kinds)
//     - Fetches each playlist's tracks concurrently
//     - Produces playlist, artist, title, album rows in list order
//
//  2. [Engine.Export] : Write each playlist to its own file(s)
//     - json, csv (+ metadata), markdown (+ cover) or txt
//     - Records an export_manifest.json with per-playlist outcomes
//
// # Worker Pool
//
// Detail fetches run on a bounded pool ([PoolOpts]) behind a shared [rate.Limiter].
// A playlist that fails to fetch is recorded in its [PlaylistResult] and does not stop the run;
// a cancelled context does.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Updates use select with default so a slow reader never blocks the pool.
package tasks
