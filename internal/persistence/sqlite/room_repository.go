package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/syncmeet/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool *ConnectionPool
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// CreateRoom inserts a new room into the database.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.Code == "" {
		return persistence.ErrConstraintViolation
	}
	if room.SlotMinutes <= 0 {
		return persistence.ErrConstraintViolation
	}

	days, err := json.Marshal(room.Days)
	if err != nil {
		return fmt.Errorf("failed to encode days: %w", err)
	}

	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO rooms (code, name, creator_name, start_time, end_time, days, slot_minutes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.pool.db.ExecContext(ctx, query,
		room.Code,
		room.Name,
		room.CreatorName,
		room.StartTime,
		room.EndTime,
		string(days),
		room.SlotMinutes,
		room.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return mapError(err)
	}

	return nil
}

// GetRoom retrieves a room by its share code.
func (r *RoomRepository) GetRoom(ctx context.Context, code string) (persistence.Room, error) {
	if code == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	query := `
		SELECT code, name, creator_name, start_time, end_time, days, slot_minutes, created_at
		FROM rooms
		WHERE code = ?
	`

	var room persistence.Room
	var daysJSON, createdAt string
	err := r.pool.db.QueryRowContext(ctx, query, code).Scan(
		&room.Code,
		&room.Name,
		&room.CreatorName,
		&room.StartTime,
		&room.EndTime,
		&daysJSON,
		&room.SlotMinutes,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Room{}, persistence.ErrNotFound
		}
		return persistence.Room{}, mapError(err)
	}

	if err := json.Unmarshal([]byte(daysJSON), &room.Days); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to decode days for room %s: %w", code, err)
	}
	if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
		room.CreatedAt = parsed
	}

	return room, nil
}
