package handlers

import (
	"errors"
	"net/http"

	"github.com/pubgscore/tournament-service/models"
	"github.com/pubgscore/tournament-service/services"
)

type ConflictHandler struct {
	tournamentService services.TournamentService
}

func NewConflictHandler(tournamentService services.TournamentService) *ConflictHandler {
	return &ConflictHandler{tournamentService: tournamentService}
}

// Resolve применяет решения по всем ожидающим конфликтам одним батчем.
// Ключ — ID игрока, значение — действие (assign или exclude).
// Либо применяются все решения, либо ни одно.
func (h *ConflictHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Resolutions map[string]models.ConflictResolution `json:"resolutions"`
	}

	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if len(input.Resolutions) == 0 {
		badRequestResponse(w, r, errors.New("resolutions must not be empty"))
		return
	}

	if err := h.tournamentService.ResolveConflicts(r.Context(), input.Resolutions); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"message": "conflicts resolved"}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
