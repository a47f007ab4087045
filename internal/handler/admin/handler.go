package admin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/melo-wellness/melo/backend/internal/auth"
	vent "github.com/melo-wellness/melo/backend/internal/service/vent"
	"github.com/melo-wellness/melo/backend/pkg/utils"
)

// Handler exposes the password-gated moderation surface.
type Handler struct {
	gate        *auth.Gate
	coordinator *vent.Coordinator
}

func New(gate *auth.Gate, coordinator *vent.Coordinator) *Handler {
	return &Handler{gate: gate, coordinator: coordinator}
}

// RegisterRoutes mounts the login endpoint and the token-gated
// moderation endpoints on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/admin/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.requireToken)
		r.Get("/admin/rooms", h.handleListRooms)
		r.Post("/admin/rooms/{roomID}/clear", h.handleClearRoom)
		r.Post("/admin/rooms/{roomID}/close", h.handleCloseRoom)
		r.Post("/admin/password", h.handleChangePassword)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.gate.Login(payload.Password)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	log.Printf("[admin] login succeeded")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// requireToken rejects requests without a valid bearer token.
func (h *Handler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if err := h.gate.Validate(token); err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				utils.RespondError(w, http.StatusUnauthorized, "Session expired")
				return
			}
			utils.RespondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleListRooms(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.coordinator.AllRoomStats())
}

func (h *Handler) handleClearRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	if err := h.coordinator.ClearMessages(roomID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Room not found")
		return
	}
	log.Printf("[admin] cleared messages room=%s", roomID)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "Messages cleared"})
}

func (h *Handler) handleCloseRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	if err := h.coordinator.CloseRoom(roomID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Room not found")
		return
	}
	log.Printf("[admin] closed room=%s", roomID)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "Room closed"})
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.gate.ChangePassword(payload.CurrentPassword, payload.NewPassword); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidPassword):
			utils.RespondError(w, http.StatusUnauthorized, "Invalid password")
		case errors.Is(err, auth.ErrPasswordTooShort):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondError(w, http.StatusInternalServerError, "failed to change password")
		}
		return
	}

	log.Printf("[admin] password changed")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "Password updated"})
}
