package companion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/melo-wellness/melo/backend/internal/analysis/mood"
	companionModel "github.com/melo-wellness/melo/backend/internal/model/companion"
	companionService "github.com/melo-wellness/melo/backend/internal/service/companion"
	"github.com/melo-wellness/melo/backend/internal/store"
	"github.com/melo-wellness/melo/backend/pkg/utils"
)

const chatCollection = "auri_chat"

// Handler serves Auri's profiles and the streaming chat endpoint.
type Handler struct {
	service  *companionService.Service
	profiles companionModel.Store
	docs     *store.Store
}

// New creates a companion handler. service may be nil when no chat model
// is configured; the handler then answers with the canned fallback reply.
func New(service *companionService.Service, profiles companionModel.Store, docs *store.Store) *Handler {
	return &Handler{
		service:  service,
		profiles: profiles,
		docs:     docs,
	}
}

// RegisterRoutes mounts the companion endpoints on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/companion/profiles", h.handleListProfiles)
	r.Get("/companion/history", h.handleHistory)
	r.Post("/companion/chat", h.handleChat)
}

// StreamResponse is one Server-Sent Event payload in a chat stream.
type StreamResponse struct {
	Event    string `json:"event"`
	Content  string `json:"content,omitempty"`
	Mood     string `json:"mood,omitempty"`
	Emoji    string `json:"emoji,omitempty"`
	Finished bool   `json:"finished,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.profiles.List())
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	turns, err := h.loadTranscript(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	utils.RespondJSON(w, http.StatusOK, turns)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID    string `json:"userId"`
		ProfileID string `json:"profileId"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" || payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId and message are required")
		return
	}
	if payload.ProfileID == "" {
		payload.ProfileID = "supportive"
	}

	profile, ok := h.profiles.FindByID(payload.ProfileID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	utils.SetupSSEHeaders(w)

	ctx := r.Context()

	history, err := h.loadTranscript(ctx, payload.UserID)
	if err != nil {
		h.sendSSEError(w, flusher, "failed to load conversation")
		return
	}

	h.saveTurn(ctx, payload.UserID, companionModel.Turn{
		Sender: companionModel.SenderUser,
		Text:   payload.Message,
	})

	decision := mood.Analyze(payload.Message)
	guidance := mood.Guidance(decision)

	h.sendSSE(w, flusher, StreamResponse{Event: "start", Content: profile.Name})

	reply, err := h.dispatchReply(ctx, w, flusher, profile, history, payload.Message, guidance)
	if err != nil {
		log.Printf("[companion] reply generation failed: %v", err)
		reply = companionService.FallbackReply()
		h.sendSSE(w, flusher, StreamResponse{Event: "message", Content: reply})
	}

	h.saveTurn(ctx, payload.UserID, companionModel.Turn{
		Sender: companionModel.SenderCompanion,
		Text:   reply,
	})

	h.sendSSE(w, flusher, StreamResponse{
		Event: "mood",
		Mood:  string(decision.Mood),
		Emoji: decision.Emoji,
	})
	h.sendSSE(w, flusher, StreamResponse{Event: "end", Finished: true})

	log.Printf("[companion] completed reply user=%s profile=%s", payload.UserID, profile.ID)
}

// dispatchReply generates the companion reply, streaming chunk events when
// the model supports it and a single message event otherwise.
func (h *Handler) dispatchReply(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, profile companionModel.Profile, history []companionModel.Turn, userMessage, guidance string) (string, error) {
	if h.service == nil {
		return "", errors.New("no chat model configured")
	}

	if h.service.StreamingEnabled() {
		return h.streamReply(ctx, w, flusher, profile, history, userMessage, guidance)
	}

	response, err := h.service.GenerateReply(ctx, profile, history, userMessage, guidance)
	if err != nil {
		return "", err
	}
	h.sendSSE(w, flusher, StreamResponse{Event: "message", Content: response.Content})
	return response.Content, nil
}

func (h *Handler) streamReply(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, profile companionModel.Profile, history []companionModel.Turn, userMessage, guidance string) (string, error) {
	stream, err := h.service.StreamReply(ctx, profile, history, userMessage, guidance)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var full string
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", recvErr
		}
		if chunk.Content == "" {
			continue
		}
		full += chunk.Content
		h.sendSSE(w, flusher, StreamResponse{Event: "chunk", Content: chunk.Content})
	}
	if full == "" {
		return "", errors.New("empty streamed reply")
	}
	return full, nil
}

func (h *Handler) loadTranscript(ctx context.Context, userID string) ([]companionModel.Turn, error) {
	docs, err := h.docs.List(ctx, userID, chatCollection, 0)
	if err != nil {
		return nil, err
	}

	// List returns newest first; the prompt wants chronological order.
	turns := make([]companionModel.Turn, 0, len(docs))
	for i := len(docs) - 1; i >= 0; i-- {
		var turn companionModel.Turn
		if err := json.Unmarshal(docs[i].Payload, &turn); err != nil {
			log.Printf("[companion] skipping malformed turn %s: %v", docs[i].ID, err)
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (h *Handler) saveTurn(ctx context.Context, userID string, turn companionModel.Turn) {
	if _, err := h.docs.Put(ctx, userID, chatCollection, turn); err != nil {
		log.Printf("[companion] failed to save turn: %v", err)
	}
}

func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}

func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, message string) {
	h.sendSSE(w, flusher, StreamResponse{Event: "error", Error: message})
}
