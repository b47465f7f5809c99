package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avoronin/intakebot/internal/assist"
	"github.com/avoronin/intakebot/internal/flow"
	"github.com/avoronin/intakebot/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "cases.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	f := flow.New(assist.WithFallback(nil, nil), repo, time.Hour, flow.Limits{})

	r := chi.NewRouter()
	NewHandler(f, repo).RegisterRoutes(r)
	NewHealthHandler(repo).RegisterHealth(r)
	return r
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestCreateSessionAssignsKey(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}

	var resp struct {
		SessionKey string `json:"session_key"`
		Reply      string `json:"reply"`
		Stage      string `json:"stage"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.SessionKey == "" {
		t.Error("Expected a server-assigned session key")
	}
	if resp.Stage != "case_description" {
		t.Errorf("Expected stage case_description, got %q", resp.Stage)
	}
	if !strings.Contains(resp.Reply, "intake assistant") {
		t.Errorf("Expected the greeting reply, got %q", resp.Reply)
	}
}

func TestIntakeOverREST(t *testing.T) {
	router := newTestRouter(t)

	post := func(path, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := post("/api/sessions/rest-1", ""); w.Code != http.StatusOK {
		t.Fatalf("StartSession returned %d", w.Code)
	}

	var turn struct {
		Reply string `json:"reply"`
		Stage string `json:"stage"`
		Saved bool   `json:"saved"`
	}
	for _, text := range []string{"overdue credit card", "card and loan", "Springfield", "court letter", "Jordan Doe, +123"} {
		w := post("/api/sessions/rest-1/messages", `{"text": "`+text+`"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("PostMessage(%q) returned %d", text, w.Code)
		}
		if err := json.NewDecoder(w.Body).Decode(&turn); err != nil {
			t.Fatalf("Failed to decode turn: %v", err)
		}
	}
	if turn.Stage != "confirmation" {
		t.Fatalf("Expected confirmation stage, got %q", turn.Stage)
	}

	w := post("/api/sessions/rest-1/messages", `{"text": "yes"}`)
	if err := json.NewDecoder(w.Body).Decode(&turn); err != nil {
		t.Fatalf("Failed to decode final turn: %v", err)
	}
	if turn.Stage != "close" || !turn.Saved {
		t.Errorf("Expected saved close, got stage %q saved %v", turn.Stage, turn.Saved)
	}

	listResp := httptest.NewRecorder()
	router.ServeHTTP(listResp, httptest.NewRequest(http.MethodGet, "/api/cases?limit=5", nil))
	if listResp.Code != http.StatusOK {
		t.Fatalf("ListCases returned %d", listResp.Code)
	}
	var cases []struct {
		ChatID   string `json:"chat_id"`
		DebtType string `json:"debt_type"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&cases); err != nil {
		t.Fatalf("Failed to decode cases: %v", err)
	}
	if len(cases) != 1 || cases[0].ChatID != "rest-1" {
		t.Fatalf("Expected the saved case for rest-1, got %+v", cases)
	}
	if cases[0].DebtType != "credit_card" || cases[0].Status != "new" {
		t.Errorf("Unexpected case fields: %+v", cases[0])
	}

	countResp := httptest.NewRecorder()
	router.ServeHTTP(countResp, httptest.NewRequest(http.MethodGet, "/api/cases/count", nil))
	var count struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(countResp.Body).Decode(&count); err != nil {
		t.Fatalf("Failed to decode count: %v", err)
	}
	if count.Count != 1 {
		t.Errorf("Expected one saved case, got %d", count.Count)
	}
}

func TestPostMessageRejectsBadJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/x/messages", strings.NewReader("{"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", resp["status"])
	}
}
