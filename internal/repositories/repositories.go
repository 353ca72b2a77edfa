package repositories

import (
	"database/sql"
	"fmt"
)

// NextSequence bumps the counter row in table's "<table>_sequence" companion and returns the new value.
//
// `history list` prints the sequence as the export number (e.g. export #15).
func NextSequence(db *sql.DB, table string) (int, error) {
	stmt := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)

	var next int
	switch err := db.QueryRow(stmt).Scan(&next); {
	case err == sql.ErrNoRows:
		return 0, fmt.Errorf("sequence for %s is not seeded", table)
	case err != nil:
		return 0, fmt.Errorf("failed to advance %s sequence: %w", table, err)
	}
	return next, nil
}
