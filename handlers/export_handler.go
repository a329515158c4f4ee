package handlers

import (
	"fmt"
	"net/http"

	"github.com/pubgscore/tournament-service/services"
)

type ExportHandler struct {
	tournamentService services.TournamentService
}

func NewExportHandler(tournamentService services.TournamentService) *ExportHandler {
	return &ExportHandler{tournamentService: tournamentService}
}

// JSON отдаёт полный снимок турнира файлом для скачивания.
func (h *ExportHandler) JSON(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.tournamentService.ExportJSON(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// CSV отдаёт турнирную таблицу файлом CSV: команды в командном режиме,
// игроков в одиночном.
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.tournamentService.ExportCSV(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Upload выгружает оба файла экспорта во внешнее хранилище и возвращает
// публичные ссылки.
func (h *ExportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	result, err := h.tournamentService.UploadExports(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"uploads": result}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
