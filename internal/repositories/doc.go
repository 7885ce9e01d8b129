// Package repositories implements SQLite persistence for created playlists.
//
// [HistoryRepository] stores each playlist created through festify along with the artists and
// track counts that were requested for it. Records are soft deleted via deleted_at and excluded
// from queries by default.
//
// Sequence numbers provide stable, human-readable ordering (e.g. playlist #15) independent of UUIDs
// and creation timestamps. The [NextSequence] function atomically increments per-table sequence
// counters in dedicated sequence tables.
//
// [HistoryRecorder] adapts the repository to the workflow's recorder hook.
package repositories
