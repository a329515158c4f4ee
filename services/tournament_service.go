package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pubgscore/tournament-service/export"
	"github.com/pubgscore/tournament-service/models"
	"github.com/pubgscore/tournament-service/pubg"
	"github.com/pubgscore/tournament-service/standings"
	"github.com/pubgscore/tournament-service/state"
	"github.com/pubgscore/tournament-service/storage"
)

// StandingsView — турнирная таблица в обоих разрезах плюс ожидающие
// конфликты.
type StandingsView struct {
	Mode      models.TournamentMode      `json:"mode"`
	Teams     []standings.TeamStanding   `json:"teams"`
	Players   []standings.PlayerStanding `json:"players"`
	Conflicts []models.TeamConflict      `json:"conflicts"`
}

// ExportUploadResult — публичные ссылки на загруженные файлы экспорта.
type ExportUploadResult struct {
	JSONURL string `json:"json_url"`
	CSVURL  string `json:"csv_url"`
}

// TournamentService связывает источник матчей, стор состояния и экспорт.
type TournamentService interface {
	CreateTournament(ctx context.Context, name string, mode models.TournamentMode) (*models.Tournament, error)
	CurrentState(ctx context.Context) (state.View, error)
	ClearTournament(ctx context.Context) error

	AddMatchByID(ctx context.Context, matchID, shard string) (*models.MatchRecord, error)
	SearchPlayerMatches(ctx context.Context, playerName, shard string) ([]*models.MatchRecord, error)
	AddMatchesByIDs(ctx context.Context, matchIDs []string, shard string) (int, error)

	UpdateScoringSettings(ctx context.Context, settings models.ScoringSettings) error
	ApplyScoringPreset(ctx context.Context, preset string) (models.ScoringSettings, error)
	ResolveConflicts(ctx context.Context, resolutions map[string]models.ConflictResolution) error

	Standings(ctx context.Context) (StandingsView, error)
	ExportJSON(ctx context.Context) ([]byte, string, error)
	ExportCSV(ctx context.Context) ([]byte, string, error)
	UploadExports(ctx context.Context) (*ExportUploadResult, error)
}

type tournamentService struct {
	store    *state.Store
	source   pubg.MatchSource
	uploader storage.FileUploader // nil, если R2 не сконфигурирован
	logger   *slog.Logger
}

func NewTournamentService(
	store *state.Store,
	source pubg.MatchSource,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		store:    store,
		source:   source,
		uploader: uploader,
		logger:   logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, name string, mode models.TournamentMode) (*models.Tournament, error) {
	name = strings.TrimSpace(name)
	t, err := s.store.CreateTournament(ctx, name, mode)
	if err != nil {
		return nil, err
	}
	s.logger.Info("tournament created",
		slog.String("tournament_id", t.ID),
		slog.String("name", t.Name),
		slog.String("mode", string(t.Mode)))
	return t, nil
}

func (s *tournamentService) CurrentState(ctx context.Context) (state.View, error) {
	view := s.store.Current()
	if view.Tournament == nil {
		return state.View{}, state.ErrNoTournament
	}
	return view, nil
}

func (s *tournamentService) ClearTournament(ctx context.Context) error {
	if err := s.store.ClearTournament(ctx); err != nil {
		return err
	}
	s.logger.Info("tournament cleared")
	return nil
}

// AddMatchByID запрашивает матч у источника и добавляет его в турнир.
func (s *tournamentService) AddMatchByID(ctx context.Context, matchID, shard string) (*models.MatchRecord, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, ErrMatchIDRequired
	}

	match, err := s.source.FetchMatch(ctx, matchID, shard)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match %s: %w", matchID, err)
	}
	if err := s.store.AddMatch(ctx, match); err != nil {
		return nil, err
	}

	s.logger.Info("match added",
		slog.String("match_id", match.ID),
		slog.Int("participants", len(match.Participants)))
	return match, nil
}

// SearchPlayerMatches возвращает детали последних матчей игрока, ничего не
// добавляя: оператор выбирает нужные и добавляет их отдельным вызовом.
func (s *tournamentService) SearchPlayerMatches(ctx context.Context, playerName, shard string) ([]*models.MatchRecord, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return nil, ErrPlayerNameRequired
	}

	ids, err := s.source.FetchPlayerMatchIDs(ctx, playerName, shard)
	if err != nil {
		return nil, fmt.Errorf("failed to search matches for player %s: %w", playerName, err)
	}
	if len(ids) == 0 {
		return []*models.MatchRecord{}, nil
	}

	matches, err := s.source.FetchMatches(ctx, ids, shard)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match details for player %s: %w", playerName, err)
	}
	return matches, nil
}

// AddMatchesByIDs добавляет выбранный набор матчей; уже добавленные
// пропускаются. Возвращает число реально добавленных.
func (s *tournamentService) AddMatchesByIDs(ctx context.Context, matchIDs []string, shard string) (int, error) {
	if len(matchIDs) == 0 {
		return 0, ErrNoMatchesSelected
	}

	matches, err := s.source.FetchMatches(ctx, matchIDs, shard)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch selected matches: %w", err)
	}

	added := 0
	for _, match := range matches {
		if err := s.store.AddMatch(ctx, match); err != nil {
			if errors.Is(err, state.ErrMatchAlreadyAdded) {
				continue
			}
			return added, err
		}
		added++
	}
	s.logger.Info("matches added", slog.Int("requested", len(matchIDs)), slog.Int("added", added))
	return added, nil
}

func (s *tournamentService) UpdateScoringSettings(ctx context.Context, settings models.ScoringSettings) error {
	return s.store.UpdateScoringSettings(ctx, settings)
}

func (s *tournamentService) ApplyScoringPreset(ctx context.Context, preset string) (models.ScoringSettings, error) {
	settings, ok := models.ScoringPreset(preset)
	if !ok {
		return models.ScoringSettings{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
	if err := s.store.UpdateScoringSettings(ctx, settings); err != nil {
		return models.ScoringSettings{}, err
	}
	return settings, nil
}

func (s *tournamentService) ResolveConflicts(ctx context.Context, resolutions map[string]models.ConflictResolution) error {
	return s.store.ResolveConflicts(ctx, resolutions)
}

func (s *tournamentService) Standings(ctx context.Context) (StandingsView, error) {
	view := s.store.Current()
	if view.Tournament == nil {
		return StandingsView{}, state.ErrNoTournament
	}
	return StandingsView{
		Mode:      view.Tournament.Mode,
		Teams:     standings.BuildTeamStandings(view.Teams, view.Players),
		Players:   standings.BuildPlayerStandings(view.Players),
		Conflicts: view.Conflicts,
	}, nil
}

func (s *tournamentService) ExportJSON(ctx context.Context) ([]byte, string, error) {
	view := s.store.Current()
	if view.Tournament == nil {
		return nil, "", state.ErrNoTournament
	}
	now := time.Now().UTC()
	data, err := export.BuildJSON(view.Tournament, view.Teams, view.Players, now)
	if err != nil {
		return nil, "", err
	}
	return data, export.JSONFilename(view.Tournament.Name, now), nil
}

func (s *tournamentService) ExportCSV(ctx context.Context) ([]byte, string, error) {
	view := s.store.Current()
	if view.Tournament == nil {
		return nil, "", state.ErrNoTournament
	}
	data, err := export.BuildCSV(view.Tournament, view.Teams, view.Players)
	if err != nil {
		return nil, "", err
	}
	return data, export.CSVFilename(view.Tournament.Name, time.Now().UTC()), nil
}

// UploadExports выгружает оба файла экспорта во внешнее хранилище и
// возвращает публичные ссылки.
func (s *tournamentService) UploadExports(ctx context.Context) (*ExportUploadResult, error) {
	if s.uploader == nil {
		return nil, ErrExportNotConfigured
	}

	jsonData, jsonName, err := s.ExportJSON(ctx)
	if err != nil {
		return nil, err
	}
	csvData, csvName, err := s.ExportCSV(ctx)
	if err != nil {
		return nil, err
	}

	jsonResult, err := s.uploader.Upload(ctx, "exports/"+jsonName, "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to upload json export: %w", err)
	}
	csvResult, err := s.uploader.Upload(ctx, "exports/"+csvName, "text/csv; charset=utf-8", bytes.NewReader(csvData))
	if err != nil {
		return nil, fmt.Errorf("failed to upload csv export: %w", err)
	}

	s.logger.Info("exports uploaded",
		slog.String("json_key", jsonResult.Key),
		slog.String("csv_key", csvResult.Key))

	return &ExportUploadResult{
		JSONURL: jsonResult.Location,
		CSVURL:  csvResult.Location,
	}, nil
}
