package room

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	vent "github.com/melo-wellness/melo/backend/internal/service/vent"
	"github.com/melo-wellness/melo/backend/pkg/utils"
)

// Handler exposes the vent-room coordinator over HTTP.
type Handler struct {
	coordinator *vent.Coordinator
	feed        *Feed
}

// New creates the room handler.
func New(coordinator *vent.Coordinator, feed *Feed) *Handler {
	return &Handler{
		coordinator: coordinator,
		feed:        feed,
	}
}

// RegisterRoutes registers the vent-room routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/rooms/{roomID}/join", h.handleJoin)
	r.Post("/rooms/{roomID}/leave", h.handleLeave)
	r.Get("/rooms/{roomID}/messages", h.handleListMessages)
	r.Post("/rooms/{roomID}/messages", h.handleSendMessage)
	r.Post("/rooms/{roomID}/messages/{messageID}/reactions", h.handleAddReaction)
	r.Get("/rooms/{roomID}/users", h.handleActiveUsers)
	r.Get("/rooms/{roomID}/stats", h.handleStats)
	r.Get("/rooms/{roomID}/live", h.handleLive)
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	var payload struct {
		UserID      string `json:"userId"`
		DisplayName string `json:"displayName"`
		IsAnonymous bool   `json:"isAnonymous"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	result, err := h.coordinator.JoinRoom(payload.UserID, payload.DisplayName, roomID, payload.IsAnonymous)
	if err != nil {
		var full *vent.RoomFullError
		if errors.As(err, &full) {
			metricJoinsRejected.WithLabelValues("room_full").Inc()
			utils.RespondError(w, http.StatusConflict, fmt.Sprintf("Room is full (max %d users)", full.Max))
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metricJoins.Inc()
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleLeave(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	var payload struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	h.coordinator.LeaveRoom(payload.UserID, roomID)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	var payload struct {
		UserID string `json:"userId"`
		Text   string `json:"text"`
		Type   string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.coordinator.SendMessage(payload.UserID, roomID, payload.Text, payload.Type)
	if err != nil {
		h.respondSendError(w, err)
		return
	}

	metricMessages.Inc()
	h.feed.Publish(roomID, result.Message)
	utils.RespondJSON(w, http.StatusCreated, result)
}

func (h *Handler) respondSendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, vent.ErrInvalidRoomOrUser):
		metricMessagesRejected.WithLabelValues("invalid_room_or_user").Inc()
		utils.RespondError(w, http.StatusForbidden, "Invalid room or user")
	case errors.Is(err, vent.ErrEmptyMessage):
		metricMessagesRejected.WithLabelValues("empty").Inc()
		utils.RespondError(w, http.StatusBadRequest, "Message cannot be empty")
	case errors.Is(err, vent.ErrMessageTooLong):
		metricMessagesRejected.WithLabelValues("too_long").Inc()
		utils.RespondError(w, http.StatusBadRequest,
			fmt.Sprintf("Message too long (max %d characters)", h.coordinator.Limits().MaxMessageChars))
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	utils.RespondJSON(w, http.StatusOK, h.coordinator.Messages(roomID, limit))
}

func (h *Handler) handleAddReaction(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	messageID := chi.URLParam(r, "messageID")

	var payload struct {
		Emoji string `json:"emoji"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Emoji == "" {
		utils.RespondError(w, http.StatusBadRequest, "emoji is required")
		return
	}

	if err := h.coordinator.AddReaction(messageID, roomID, payload.Emoji); err != nil {
		if errors.Is(err, vent.ErrMessageNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Message not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metricReactions.Inc()
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "reaction added"})
}

func (h *Handler) handleActiveUsers(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	users := h.coordinator.ActiveUsers(roomID)
	if users == nil {
		utils.RespondError(w, http.StatusNotFound, "Room not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, users)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	stats, err := h.coordinator.RoomStats(roomID)
	if err != nil {
		if errors.Is(err, vent.ErrRoomNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Room not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	h.feed.Serve(w, r, roomID)
}
