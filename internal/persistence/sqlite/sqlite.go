// Package sqlite implements the persistence repositories on top of the
// modernc.org/sqlite driver. Timestamps are stored as RFC3339 strings and
// string lists (days, busy slots) as JSON arrays.
package sqlite

import "context"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS rooms (
		code         TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		creator_name TEXT NOT NULL DEFAULT '',
		start_time   TEXT NOT NULL,
		end_time     TEXT NOT NULL,
		days         TEXT NOT NULL,
		slot_minutes INTEGER NOT NULL CHECK (slot_minutes > 0),
		created_at   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS participants (
		id         TEXT NOT NULL,
		room_code  TEXT NOT NULL REFERENCES rooms(code),
		name       TEXT NOT NULL,
		timezone   TEXT NOT NULL DEFAULT '',
		busy_slots TEXT NOT NULL DEFAULT '[]',
		joined_at  TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (room_code, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_participants_room ON participants (room_code, joined_at)`,
}

// Migrate applies the schema. Statements are idempotent so Migrate is safe to
// run on every startup.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	for _, statement := range schema {
		if _, err := cp.db.ExecContext(ctx, statement); err != nil {
			return mapError(err)
		}
	}
	return nil
}
