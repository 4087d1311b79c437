package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/syncmeet/internal/application"
	"github.com/example/syncmeet/internal/grid"
)

type roomService interface {
	CreateRoom(ctx context.Context, params application.CreateRoomParams) (application.Room, error)
	GetRoom(ctx context.Context, code string) (application.Room, error)
	JoinRoom(ctx context.Context, params application.JoinRoomParams) (application.Participant, error)
	ListParticipants(ctx context.Context, code string) ([]application.Participant, error)
	SetBusySlots(ctx context.Context, params application.SetBusySlotsParams) (application.Participant, error)
	Results(ctx context.Context, code string, filter grid.Filter) (application.Room, grid.Table, error)
}

type RoomHandler struct {
	service   roomService
	responder responder
	logger    *slog.Logger
}

func NewRoomHandler(service roomService, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")

	room, err := h.service.CreateRoom(r.Context(), application.CreateRoomParams{Input: req.toInput()})
	if err != nil {
		logger.ErrorContext(r.Context(), "room creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_code", room.Code).InfoContext(r.Context(), "room created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	code, ok := RoomCodeFromContext(r.Context())
	if !ok || strings.TrimSpace(code) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room code")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomCode)
		return
	}

	logger := h.log(r.Context(), "Get", "room_code", code)

	room, err := h.service.GetRoom(r.Context(), code)
	if err != nil {
		logger.ErrorContext(r.Context(), "room lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	code, ok := RoomCodeFromContext(r.Context())
	if !ok || strings.TrimSpace(code) == "" {
		h.log(r.Context(), "Join", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room code for join")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomCode)
		return
	}

	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Join", "room_code", code, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode join request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Join", "room_code", code)

	participant, err := h.service.JoinRoom(r.Context(), application.JoinRoomParams{
		RoomCode: code,
		Name:     strings.TrimSpace(req.Name),
		Timezone: strings.TrimSpace(req.Timezone),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "join failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("participant_id", participant.ID).InfoContext(r.Context(), "participant joined")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, participantResponse{Participant: toParticipantDTO(participant)})
}

func (h *RoomHandler) Roster(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	code, ok := RoomCodeFromContext(r.Context())
	if !ok || strings.TrimSpace(code) == "" {
		h.log(r.Context(), "Roster", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room code for roster")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomCode)
		return
	}

	logger := h.log(r.Context(), "Roster", "room_code", code)

	participants, err := h.service.ListParticipants(r.Context(), code)
	if err != nil {
		logger.ErrorContext(r.Context(), "roster lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	viewerID := strings.TrimSpace(r.URL.Query().Get("participant_id"))
	logger.With("result_count", len(participants)).InfoContext(r.Context(), "roster listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, rosterResponse{
		Participants: toParticipantDTOs(participants),
		Names:        groupByName(participants, viewerID),
	})
}

func (h *RoomHandler) SetBusySlots(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	code, ok := RoomCodeFromContext(r.Context())
	if !ok || strings.TrimSpace(code) == "" {
		h.log(r.Context(), "SetBusySlots", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room code for busy slot update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomCode)
		return
	}

	participantID, ok := ParticipantIDFromContext(r.Context())
	if !ok || strings.TrimSpace(participantID) == "" {
		h.log(r.Context(), "SetBusySlots", "room_code", code, "error_kind", "bad_request").ErrorContext(r.Context(), "missing participant id for busy slot update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidParticipant)
		return
	}

	var req busySlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetBusySlots", "room_code", code, "participant_id", participantID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode busy slot update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetBusySlots", "room_code", code, "participant_id", participantID)

	participant, err := h.service.SetBusySlots(r.Context(), application.SetBusySlotsParams{
		RoomCode:      code,
		ParticipantID: participantID,
		BusySlots:     req.BusySlots,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "busy slot update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("busy_count", len(participant.BusySlots)).InfoContext(r.Context(), "busy slots replaced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, participantResponse{Participant: toParticipantDTO(participant)})
}

func (h *RoomHandler) Grid(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	code, ok := RoomCodeFromContext(r.Context())
	if !ok || strings.TrimSpace(code) == "" {
		h.log(r.Context(), "Grid", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room code for grid")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomCode)
		return
	}

	filter := grid.Filter(strings.TrimSpace(r.URL.Query().Get("filter")))
	if filter == "" {
		filter = grid.FilterEverything
	}

	logger := h.log(r.Context(), "Grid", "room_code", code, "filter", string(filter))

	room, table, err := h.service.Results(r.Context(), code, filter)
	if err != nil {
		logger.ErrorContext(r.Context(), "grid aggregation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("row_count", len(table.Rows)).InfoContext(r.Context(), "grid computed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, gridResponse{
		Room:  toRoomDTO(room),
		Table: toTableDTO(table),
	})
}

type createRoomRequest struct {
	Name        string   `json:"name"`
	CreatorName string   `json:"creator_name"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Days        []string `json:"days"`
	SlotMinutes int      `json:"slot_minutes"`
}

func (r createRoomRequest) toInput() application.RoomInput {
	return application.RoomInput{
		Name:        strings.TrimSpace(r.Name),
		CreatorName: strings.TrimSpace(r.CreatorName),
		StartTime:   strings.TrimSpace(r.StartTime),
		EndTime:     strings.TrimSpace(r.EndTime),
		Days:        r.Days,
		SlotMinutes: r.SlotMinutes,
	}
}

type joinRoomRequest struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

type busySlotsRequest struct {
	BusySlots []string `json:"busy_slots"`
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type participantResponse struct {
	Participant participantDTO `json:"participant"`
}

type rosterResponse struct {
	Participants []participantDTO `json:"participants"`
	Names        []rosterEntry    `json:"names"`
}

type gridResponse struct {
	Room  roomDTO  `json:"room"`
	Table tableDTO `json:"table"`
}

type roomDTO struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	CreatorName string   `json:"creator_name"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Days        []string `json:"days"`
	SlotMinutes int      `json:"slot_minutes"`
	CreatedAt   string   `json:"created_at"`
}

func toRoomDTO(room application.Room) roomDTO {
	return roomDTO{
		Code:        room.Code,
		Name:        room.Name,
		CreatorName: room.CreatorName,
		StartTime:   room.StartTime,
		EndTime:     room.EndTime,
		Days:        room.Days,
		SlotMinutes: room.SlotMinutes,
		CreatedAt:   room.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type participantDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Timezone  string   `json:"timezone,omitempty"`
	BusySlots []string `json:"busy_slots"`
	JoinedAt  string   `json:"joined_at"`
	UpdatedAt string   `json:"updated_at"`
}

func toParticipantDTO(participant application.Participant) participantDTO {
	busy := participant.BusySlots
	if busy == nil {
		busy = []string{}
	}
	return participantDTO{
		ID:        participant.ID,
		Name:      participant.Name,
		Timezone:  participant.Timezone,
		BusySlots: busy,
		JoinedAt:  participant.JoinedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: participant.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toParticipantDTOs(participants []application.Participant) []participantDTO {
	out := make([]participantDTO, 0, len(participants))
	for _, participant := range participants {
		out = append(out, toParticipantDTO(participant))
	}
	return out
}

type rosterEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	IsYou bool   `json:"is_you"`
}

// groupByName collapses the roster to one entry per display name, preserving
// first appearance order. The viewer's own name is flagged so clients can
// render it distinctly.
func groupByName(participants []application.Participant, viewerID string) []rosterEntry {
	index := make(map[string]int, len(participants))
	entries := make([]rosterEntry, 0, len(participants))
	for _, participant := range participants {
		i, seen := index[participant.Name]
		if !seen {
			index[participant.Name] = len(entries)
			entries = append(entries, rosterEntry{Name: participant.Name})
			i = len(entries) - 1
		}
		entries[i].Count++
		if viewerID != "" && participant.ID == viewerID {
			entries[i].IsYou = true
		}
	}
	return entries
}

type cellDTO struct {
	SlotID       string   `json:"slot_id"`
	Day          string   `json:"day"`
	Time         string   `json:"time"`
	BusyCount    int      `json:"busy_count"`
	BusyNames    []string `json:"busy_names"`
	Availability string   `json:"availability"`
}

type rowDTO struct {
	Time  string    `json:"time"`
	Cells []cellDTO `json:"cells"`
}

type tableDTO struct {
	Days         []string `json:"days"`
	Times        []string `json:"times"`
	Rows         []rowDTO `json:"rows"`
	Earliest     string   `json:"earliest,omitempty"`
	HasEarliest  bool     `json:"has_earliest"`
	Participants int      `json:"participants"`
}

func toTableDTO(table grid.Table) tableDTO {
	rows := make([]rowDTO, 0, len(table.Rows))
	for _, row := range table.Rows {
		cells := make([]cellDTO, 0, len(row.Cells))
		for _, cell := range row.Cells {
			names := cell.BusyNames
			if names == nil {
				names = []string{}
			}
			cells = append(cells, cellDTO{
				SlotID:       cell.SlotID,
				Day:          cell.Day,
				Time:         cell.Time,
				BusyCount:    cell.BusyCount,
				BusyNames:    names,
				Availability: string(cell.Availability),
			})
		}
		rows = append(rows, rowDTO{Time: row.Time, Cells: cells})
	}

	return tableDTO{
		Days:         table.Days,
		Times:        table.Times,
		Rows:         rows,
		Earliest:     table.Earliest,
		HasEarliest:  table.HasEarliest,
		Participants: table.Participants,
	}
}
