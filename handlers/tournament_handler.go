package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/pubgscore/tournament-service/models"
	"github.com/pubgscore/tournament-service/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

// Create создаёт новый турнир, затирая предыдущий.
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string                `json:"name"`
		Mode models.TournamentMode `json:"mode"`
	}

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.Name == "" {
		badRequestResponse(w, r, errors.New("tournament name is required"))
		return
	}
	if input.Mode == "" {
		input.Mode = models.ModeSquad
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input.Name, input.Mode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"tournament": tournament,
	}

	err = writeJSON(w, http.StatusCreated, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

type lastMatchView struct {
	MatchID  string    `json:"match_id"`
	MapName  string    `json:"map_name"`
	GameMode string    `json:"game_mode"`
	PlayedAt time.Time `json:"played_at"`
	AddedAt  time.Time `json:"added_at"`
}

// Get возвращает полное текущее состояние турнира: сам турнир, команды,
// игроков, ожидающие конфликты и последний сыгранный матч (по played_at).
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.tournamentService.CurrentState(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"tournament": view.Tournament,
		"teams":      view.Teams,
		"players":    view.Players,
		"conflicts":  view.Conflicts,
	}
	if last, ok := view.Tournament.LastMatch(); ok {
		response["last_match"] = lastMatchView{
			MatchID:  last.MatchID,
			MapName:  last.MatchData.MapName,
			GameMode: last.MatchData.GameMode,
			PlayedAt: last.MatchData.PlayedAt,
			AddedAt:  last.AddedAt,
		}
	}

	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.tournamentService.ClearTournament(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err := writeJSON(w, http.StatusOK, jsonResponse{"message": "tournament cleared"}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Standings возвращает отсортированные таблицы команд и игроков.
func (h *TournamentHandler) Standings(w http.ResponseWriter, r *http.Request) {
	view, err := h.tournamentService.Standings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, view, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
