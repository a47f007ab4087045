package journal

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/melo-wellness/melo/backend/internal/analysis/mood"
	"github.com/melo-wellness/melo/backend/internal/store"
	"github.com/melo-wellness/melo/backend/pkg/utils"
)

const journalCollection = "journal_entries"

// Entry is a single journal note with its mood marker.
type Entry struct {
	Text      string    `json:"text"`
	MoodEmoji string    `json:"moodEmoji"`
	MoodScore int       `json:"moodScore"`
	CreatedAt time.Time `json:"createdAt"`
}

// Handler serves journal entries and the mood trend summary.
type Handler struct {
	docs *store.Store
}

func New(docs *store.Store) *Handler {
	return &Handler{docs: docs}
}

// RegisterRoutes mounts the journal endpoints on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/journal", h.handleSave)
	r.Get("/journal", h.handleList)
	r.Get("/journal/trend", h.handleTrend)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID    string `json:"userId"`
		Text      string `json:"text"`
		MoodEmoji string `json:"moodEmoji"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "Entry cannot be empty")
		return
	}

	// No emoji picked: suggest one from the text itself.
	if payload.MoodEmoji == "" {
		payload.MoodEmoji = mood.Analyze(payload.Text).Emoji
	}

	entry := Entry{
		Text:      payload.Text,
		MoodEmoji: payload.MoodEmoji,
		MoodScore: mood.ScoreFor(payload.MoodEmoji),
		CreatedAt: time.Now().UTC(),
	}

	doc, err := h.docs.Put(r.Context(), payload.UserID, journalCollection, entry)
	if err != nil {
		log.Printf("[journal] failed to save entry: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"id":    doc.ID,
		"entry": entry,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.loadEntries(r, userID, limit)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load entries")
		return
	}
	utils.RespondJSON(w, http.StatusOK, entries)
}

// listedEntry pairs a stored entry with its document id for clients.
type listedEntry struct {
	ID string `json:"id"`
	Entry
}

func (h *Handler) loadEntries(r *http.Request, userID string, limit int) ([]listedEntry, error) {
	docs, err := h.docs.List(r.Context(), userID, journalCollection, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]listedEntry, 0, len(docs))
	for _, doc := range docs {
		var entry Entry
		if err := json.Unmarshal(doc.Payload, &entry); err != nil {
			log.Printf("[journal] skipping malformed entry %s: %v", doc.ID, err)
			continue
		}
		entries = append(entries, listedEntry{ID: doc.ID, Entry: entry})
	}
	return entries, nil
}

// Trend summarizes recent entries for the mood graph.
type Trend struct {
	EntryCount   int     `json:"entryCount"`
	AverageScore float64 `json:"averageScore"`
	Points       []Point `json:"points"`
}

// Point is one mood sample in chronological order.
type Point struct {
	Score     int       `json:"score"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) handleTrend(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	entries, err := h.loadEntries(r, userID, 0)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load entries")
		return
	}

	trend := Trend{Points: make([]Point, 0, len(entries))}
	var total int
	var scored int
	// Entries arrive newest first; the graph wants oldest first.
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		trend.Points = append(trend.Points, Point{
			Score:     entry.MoodScore,
			Emoji:     entry.MoodEmoji,
			CreatedAt: entry.CreatedAt,
		})
		if entry.MoodScore > 0 {
			total += entry.MoodScore
			scored++
		}
	}
	trend.EntryCount = len(entries)
	if scored > 0 {
		trend.AverageScore = float64(total) / float64(scored)
	}

	utils.RespondJSON(w, http.StatusOK, trend)
}
