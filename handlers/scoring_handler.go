package handlers

import (
	"net/http"

	"github.com/pubgscore/tournament-service/models"
	"github.com/pubgscore/tournament-service/services"
)

type ScoringHandler struct {
	tournamentService services.TournamentService
}

func NewScoringHandler(tournamentService services.TournamentService) *ScoringHandler {
	return &ScoringHandler{tournamentService: tournamentService}
}

// Update заменяет настройки подсчёта очков и пересчитывает таблицу с нуля.
func (h *ScoringHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input models.ScoringSettings

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.UpdateScoringSettings(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"message": "scoring settings updated"}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ApplyPreset применяет именованный пресет настроек: default, esports,
// casual или experimental.
func (h *ScoringHandler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Preset string `json:"preset"`
	}

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	settings, err := h.tournamentService.ApplyScoringPreset(r.Context(), input.Preset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"preset":   input.Preset,
		"settings": settings,
	}

	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
