// Package snapshot persists configuration revisions for rollback.
//
// Every successful apply stores the deployed configuration as a
// timestamped JSON file under a history directory (DefaultHistoryDir
// next to the managed config). A failed apply restores the newest one.
//
//	.preflight_history/
//	├── snapshot_1755878400123.json   ← newest, rollback target
//	├── snapshot_1755792000456.json
//	└── snapshot_1755705600789.json
//
// Each file wraps the raw YAML text with metadata: the millisecond
// timestamp, an ISO-8601 UTC time, and a SHA-256 digest of the text.
// The digest makes saves idempotent: storing text identical to the
// newest snapshot returns its path without writing anything, so watch
// loops and repeated applies do not flood the history.
//
// Writes are atomic (temp file, fsync, rename) and serialized by a
// mutex, so a reader never observes a partial snapshot. Retention
// keeps the MaxSnapshots newest files and prunes the rest after each
// save.
//
// # Usage
//
//	store := snapshot.NewFileStore(snapshot.DefaultDir("."))
//	path, err := store.Save(configText)
//	...
//	restored, path, err := store.RollbackToLatest()
//	if errors.Is(err, snapshot.ErrNoSnapshots) {
//	    // nothing to restore
//	}
package snapshot
