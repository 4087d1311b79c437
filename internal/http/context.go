package http

import "context"

type contextKey string

const (
	roomCodeContextKey      contextKey = "room_code"
	participantIDContextKey contextKey = "participant_id"
)

// ContextWithRoomCode injects the room code resolved from the request path.
func ContextWithRoomCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, roomCodeContextKey, code)
}

// RoomCodeFromContext extracts a room code previously associated with the context.
func RoomCodeFromContext(ctx context.Context) (string, bool) {
	code, ok := ctx.Value(roomCodeContextKey).(string)
	return code, ok
}

// ContextWithParticipantID injects the participant identifier resolved from the request path.
func ContextWithParticipantID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, participantIDContextKey, id)
}

// ParticipantIDFromContext extracts a participant identifier previously associated with the context.
func ParticipantIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(participantIDContextKey).(string)
	return id, ok
}
