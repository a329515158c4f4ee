package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pubgscore/tournament-service/models"
	"github.com/pubgscore/tournament-service/services"
	"github.com/pubgscore/tournament-service/state"
)

type mockTournamentService struct {
	services.TournamentService
	CurrentStateFunc func(ctx context.Context) (state.View, error)
}

func (m *mockTournamentService) CurrentState(ctx context.Context) (state.View, error) {
	return m.CurrentStateFunc(ctx)
}

func TestGetIncludesLastMatch(t *testing.T) {
	older := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)

	// порядок добавления обратный хронологическому: последний матч
	// выбирается по played_at
	svc := &mockTournamentService{
		CurrentStateFunc: func(ctx context.Context) (state.View, error) {
			return state.View{
				Tournament: &models.Tournament{
					ID:   "t1",
					Name: "Cup",
					Mode: models.ModeSquad,
					Matches: []models.TournamentMatch{
						{MatchID: "m-late", MatchData: models.MatchRecord{ID: "m-late", MapName: "Erangel", PlayedAt: newer}},
						{MatchID: "m-early", MatchData: models.MatchRecord{ID: "m-early", MapName: "Miramar", PlayedAt: older}},
					},
				},
			}, nil
		},
	}
	handler := NewTournamentHandler(svc)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/tournament", nil)
	handler.Get(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		LastMatch *lastMatchView `json:"last_match"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.LastMatch == nil {
		t.Fatal("response must carry last_match")
	}
	if body.LastMatch.MatchID != "m-late" {
		t.Errorf("expected m-late, got %s", body.LastMatch.MatchID)
	}
	if body.LastMatch.MapName != "Erangel" {
		t.Errorf("expected Erangel, got %s", body.LastMatch.MapName)
	}
}

func TestGetOmitsLastMatchWithoutHistory(t *testing.T) {
	svc := &mockTournamentService{
		CurrentStateFunc: func(ctx context.Context) (state.View, error) {
			return state.View{
				Tournament: &models.Tournament{ID: "t1", Name: "Cup", Mode: models.ModeSquad},
			}, nil
		},
	}
	handler := NewTournamentHandler(svc)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/tournament", nil)
	handler.Get(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := body["last_match"]; ok {
		t.Error("empty history must not produce last_match")
	}
}

func TestGetWithoutTournament(t *testing.T) {
	svc := &mockTournamentService{
		CurrentStateFunc: func(ctx context.Context) (state.View, error) {
			return state.View{}, state.ErrNoTournament
		},
	}
	handler := NewTournamentHandler(svc)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/tournament", nil)
	handler.Get(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
