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

// ParticipantRepository implements persistence.ParticipantRepository using SQLite.
type ParticipantRepository struct {
	pool *ConnectionPool
}

// NewParticipantRepository creates a new SQLite participant repository.
func NewParticipantRepository(pool *ConnectionPool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

// CreateParticipant inserts a new participant into the database.
func (r *ParticipantRepository) CreateParticipant(ctx context.Context, participant persistence.Participant) error {
	if participant.ID == "" || participant.RoomCode == "" {
		return persistence.ErrConstraintViolation
	}

	busySlots, err := json.Marshal(emptyAsList(participant.BusySlots))
	if err != nil {
		return fmt.Errorf("failed to encode busy slots: %w", err)
	}

	now := time.Now().UTC()
	if participant.JoinedAt.IsZero() {
		participant.JoinedAt = now
	}
	if participant.UpdatedAt.IsZero() {
		participant.UpdatedAt = participant.JoinedAt
	}

	query := `
		INSERT INTO participants (id, room_code, name, timezone, busy_slots, joined_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.pool.db.ExecContext(ctx, query,
		participant.ID,
		participant.RoomCode,
		participant.Name,
		participant.Timezone,
		string(busySlots),
		participant.JoinedAt.Format(time.RFC3339),
		participant.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return mapError(err)
	}

	return nil
}

// GetParticipant retrieves a single participant of a room.
func (r *ParticipantRepository) GetParticipant(ctx context.Context, roomCode, id string) (persistence.Participant, error) {
	if roomCode == "" || id == "" {
		return persistence.Participant{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, room_code, name, timezone, busy_slots, joined_at, updated_at
		FROM participants
		WHERE room_code = ? AND id = ?
	`

	row := r.pool.db.QueryRowContext(ctx, query, roomCode, id)
	participant, err := scanParticipant(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Participant{}, persistence.ErrNotFound
		}
		return persistence.Participant{}, mapError(err)
	}
	return participant, nil
}

// ListParticipants returns the participants of a room in join order.
func (r *ParticipantRepository) ListParticipants(ctx context.Context, roomCode string) ([]persistence.Participant, error) {
	if roomCode == "" {
		return nil, nil
	}

	query := `
		SELECT id, room_code, name, timezone, busy_slots, joined_at, updated_at
		FROM participants
		WHERE room_code = ?
		ORDER BY joined_at ASC, id ASC
	`

	rows, err := r.pool.db.QueryContext(ctx, query, roomCode)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var participants []persistence.Participant
	for rows.Next() {
		participant, err := scanParticipant(rows.Scan)
		if err != nil {
			return nil, mapError(err)
		}
		participants = append(participants, participant)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return participants, nil
}

// SetBusySlots replaces a participant's stored busy-slot set wholesale.
func (r *ParticipantRepository) SetBusySlots(ctx context.Context, roomCode, id string, busySlots []string) error {
	if roomCode == "" || id == "" {
		return persistence.ErrNotFound
	}

	encoded, err := json.Marshal(emptyAsList(busySlots))
	if err != nil {
		return fmt.Errorf("failed to encode busy slots: %w", err)
	}

	query := `
		UPDATE participants
		SET busy_slots = ?, updated_at = ?
		WHERE room_code = ? AND id = ?
	`

	result, err := r.pool.db.ExecContext(ctx, query,
		string(encoded),
		time.Now().UTC().Format(time.RFC3339),
		roomCode,
		id,
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

func scanParticipant(scan func(dest ...any) error) (persistence.Participant, error) {
	var participant persistence.Participant
	var busySlots, joinedAt, updatedAt string

	if err := scan(
		&participant.ID,
		&participant.RoomCode,
		&participant.Name,
		&participant.Timezone,
		&busySlots,
		&joinedAt,
		&updatedAt,
	); err != nil {
		return persistence.Participant{}, err
	}

	if err := json.Unmarshal([]byte(busySlots), &participant.BusySlots); err != nil {
		return persistence.Participant{}, fmt.Errorf("failed to decode busy slots for participant %s: %w", participant.ID, err)
	}
	if parsed, err := time.Parse(time.RFC3339, joinedAt); err == nil {
		participant.JoinedAt = parsed
	}
	if parsed, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		participant.UpdatedAt = parsed
	}

	return participant, nil
}

// emptyAsList keeps nil slices encoded as [] so reads never see JSON null.
func emptyAsList(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
