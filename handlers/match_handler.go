package handlers

import (
	"net/http"
	"time"

	"github.com/pubgscore/tournament-service/models"
	"github.com/pubgscore/tournament-service/pubg"
	"github.com/pubgscore/tournament-service/services"
	"github.com/pubgscore/tournament-service/standings"
)

type MatchHandler struct {
	tournamentService services.TournamentService
	defaultShard      string
}

func NewMatchHandler(tournamentService services.TournamentService, defaultShard string) *MatchHandler {
	if defaultShard == "" {
		defaultShard = pubg.DefaultShard
	}
	return &MatchHandler{
		tournamentService: tournamentService,
		defaultShard:      defaultShard,
	}
}

// matchShard возвращает шард из запроса или шард по умолчанию.
func (h *MatchHandler) matchShard(shard string) string {
	if shard == "" {
		return h.defaultShard
	}
	return shard
}

// Add загружает матч по ID из источника и добавляет его в турнир.
func (h *MatchHandler) Add(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MatchID string `json:"match_id"`
		Shard   string `json:"shard"`
	}

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.tournamentService.AddMatchByID(r.Context(), input.MatchID, h.matchShard(input.Shard))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"match": match,
	}

	err = writeJSON(w, http.StatusCreated, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddBatch добавляет выбранный набор матчей. Уже добавленные пропускаются.
func (h *MatchHandler) AddBatch(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MatchIDs []string `json:"match_ids"`
		Shard    string   `json:"shard"`
	}

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	added, err := h.tournamentService.AddMatchesByIDs(r.Context(), input.MatchIDs, h.matchShard(input.Shard))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"requested": len(input.MatchIDs),
		"added":     added,
	}

	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Search ищет последние матчи игрока по нику, ничего не добавляя.
// Оператор выбирает нужные матчи и добавляет их через AddBatch.
func (h *MatchHandler) Search(w http.ResponseWriter, r *http.Request) {
	playerName := r.URL.Query().Get("player_name")
	shard := h.matchShard(r.URL.Query().Get("shard"))

	matches, err := h.tournamentService.SearchPlayerMatches(r.Context(), playerName, shard)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"matches": matches,
	}

	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

type matchParticipantView struct {
	models.Participant
	Score float64 `json:"score"`
}

type matchView struct {
	MatchID      string                 `json:"match_id"`
	MapName      string                 `json:"map_name"`
	GameMode     string                 `json:"game_mode"`
	PlayedAt     time.Time              `json:"played_at"`
	AddedAt      time.Time              `json:"added_at"`
	Participants []matchParticipantView `json:"participants"`
}

// List возвращает добавленные матчи с очками каждого участника по
// текущим настройкам подсчёта.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	view, err := h.tournamentService.CurrentState(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	settings := view.Tournament.ScoringSettings
	matches := make([]matchView, 0, len(view.Tournament.Matches))
	for _, tm := range view.Tournament.Matches {
		mv := matchView{
			MatchID:      tm.MatchID,
			MapName:      tm.MatchData.MapName,
			GameMode:     tm.MatchData.GameMode,
			PlayedAt:     tm.MatchData.PlayedAt,
			AddedAt:      tm.AddedAt,
			Participants: make([]matchParticipantView, 0, len(tm.MatchData.Participants)),
		}
		for _, p := range tm.MatchData.Participants {
			mv.Participants = append(mv.Participants, matchParticipantView{
				Participant: p,
				Score:       standings.ParticipantScore(p, settings),
			})
		}
		matches = append(matches, mv)
	}

	response := jsonResponse{
		"matches": matches,
	}

	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
