package journal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/melo-wellness/melo/backend/internal/store"
)

func setupHandler(t *testing.T) *chi.Mux {
	t.Helper()
	docs, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { docs.Close() })

	r := chi.NewRouter()
	New(docs).RegisterRoutes(r)
	return r
}

func saveEntry(t *testing.T, r http.Handler, userID, text, emoji string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{
		"userId":    userID,
		"text":      text,
		"moodEmoji": emoji,
	})
	req := httptest.NewRequest(http.MethodPost, "/journal", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSaveAndListEntries(t *testing.T) {
	r := setupHandler(t)

	resp := saveEntry(t, r, "u1", "long day but it ended okay", "😀")
	if resp.Code != http.StatusCreated {
		t.Fatalf("save: expected 201, got %d (%s)", resp.Code, resp.Body.String())
	}
	var saved struct {
		ID    string `json:"id"`
		Entry Entry  `json:"entry"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode save result: %v", err)
	}
	if saved.Entry.MoodScore != 5 {
		t.Fatalf("expected mood score 5 for 😀, got %d", saved.Entry.MoodScore)
	}

	req := httptest.NewRequest(http.MethodGet, "/journal?userId=u1", nil)
	list := httptest.NewRecorder()
	r.ServeHTTP(list, req)
	if list.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", list.Code)
	}
	var entries []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != saved.ID {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestSaveRejectsEmptyEntry(t *testing.T) {
	r := setupHandler(t)

	resp := saveEntry(t, r, "u1", "   ", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["error"] != "Entry cannot be empty" {
		t.Fatalf("unexpected error copy: %q", body["error"])
	}
}

func TestSaveSuggestsEmojiFromText(t *testing.T) {
	r := setupHandler(t)

	resp := saveEntry(t, r, "u1", "I am completely overwhelmed by everything", "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var saved struct {
		Entry Entry `json:"entry"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode save result: %v", err)
	}
	if saved.Entry.MoodEmoji == "" {
		t.Fatal("expected a suggested mood emoji")
	}
}

func TestTrendAveragesScoredEntries(t *testing.T) {
	r := setupHandler(t)

	saveEntry(t, r, "u1", "rough start", "😔")
	saveEntry(t, r, "u1", "much better now", "😀")

	req := httptest.NewRequest(http.MethodGet, "/journal/trend?userId=u1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var trend Trend
	if err := json.Unmarshal(resp.Body.Bytes(), &trend); err != nil {
		t.Fatalf("decode trend: %v", err)
	}
	if trend.EntryCount != 2 {
		t.Fatalf("expected 2 entries, got %d", trend.EntryCount)
	}
	if trend.AverageScore != 3.5 {
		t.Fatalf("expected average 3.5, got %v", trend.AverageScore)
	}
	if len(trend.Points) != 2 || trend.Points[0].Emoji != "😔" {
		t.Fatalf("expected oldest-first points, got %+v", trend.Points)
	}
}
