package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/festify/internal/shared"
)

// sequences maps each numbered table to its counter table. Only these names reach SQL.
var sequences = map[string]string{
	"playlists": "playlists_sequence",
}

// NextSequence increments and returns the counter for table in a single statement.
//
// Sequence numbers give playlists the short "#3" reference accepted by the history command.
// Tables without a counter fail with [shared.ErrInvalidArgument] before any query runs.
func NextSequence(db *sql.DB, table string) (int, error) {
	counter, ok := sequences[table]
	if !ok {
		return 0, fmt.Errorf("%w: no sequence for table %q", shared.ErrInvalidArgument, table)
	}

	var sequence int
	query := "UPDATE " + counter + " SET value = value + 1 WHERE id = 1 RETURNING value"
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", table, err)
	}
	return sequence, nil
}
