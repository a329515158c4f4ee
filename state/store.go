package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pubgscore/tournament-service/models"
	"github.com/pubgscore/tournament-service/standings"
)

var (
	ErrNoTournament       = errors.New("no active tournament")
	ErrTournamentName     = errors.New("tournament name is required")
	ErrInvalidMode        = errors.New("invalid tournament mode")
	ErrMatchAlreadyAdded  = errors.New("match is already added to the tournament")
	ErrInvalidSettings    = errors.New("invalid scoring settings")
	ErrInvalidResolution  = errors.New("invalid conflict resolution")
	ErrResolutionNoTeam   = errors.New("conflict resolution references unknown team")
	ErrResolutionNoPlayer = errors.New("conflict resolution references unknown player")
)

// Persistence — коллаборатор хранения снапшотов. Load возвращает nil без
// ошибки, если сохранённого состояния нет.
type Persistence interface {
	Save(ctx context.Context, snapshot *models.Snapshot) error
	Load(ctx context.Context) (*models.Snapshot, error)
	Clear(ctx context.Context) error
}

// View — консистентный срез состояния для подписчиков и чтения. Слайсы —
// копии, изменение View не влияет на стор.
type View struct {
	Tournament *models.Tournament    `json:"tournament"`
	Teams      []models.Team         `json:"teams"`
	Players    []models.Player       `json:"players"`
	Conflicts  []models.TeamConflict `json:"conflicts"`
}

// Store владеет каноническим состоянием турнира. Все мутации проходят
// через его методы и выполняются последовательно под мьютексом; подписчики
// получают уведомление после каждой мутации.
//
// Ошибка сохранения снапшота не откатывает мутацию: для интерактивного
// процесса состояние в памяти первично, потеря персистентности — деградация,
// а не отказ.
type Store struct {
	mu         sync.RWMutex
	tournament *models.Tournament
	teams      []models.Team
	players    []models.Player
	conflicts  []models.TeamConflict

	persistence Persistence
	logger      *slog.Logger

	subMu       sync.Mutex
	subscribers map[int]func(View)
	nextSubID   int
}

func NewStore(persistence Persistence, logger *slog.Logger) *Store {
	return &Store{
		persistence: persistence,
		logger:      logger,
		subscribers: make(map[int]func(View)),
	}
}

// Subscribe регистрирует подписчика на изменения состояния и возвращает
// функцию отписки. Подписчик вызывается синхронно после каждой мутации.
func (s *Store) Subscribe(fn func(View)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// Restore загружает сохранённый снапшот, дополняя отсутствующие поля
// значениями по умолчанию. Отсутствие снапшота — не ошибка.
func (s *Store) Restore(ctx context.Context) error {
	snapshot, err := s.persistence.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load persisted snapshot: %w", err)
	}
	if snapshot == nil || snapshot.Tournament == nil {
		return nil
	}

	models.UpgradeSnapshot(snapshot, time.Now().UTC())

	s.mu.Lock()
	s.tournament = snapshot.Tournament
	s.teams = snapshot.Teams
	s.players = snapshot.Players
	s.conflicts = nil
	// Счётчики в снапшоте могли быть посчитаны другой версией — выводим
	// их заново из истории.
	s.teams, s.players = standings.Recompute(s.tournament, s.teams, s.players, s.conflicts)
	view := s.viewLocked()
	s.mu.Unlock()

	s.notify(view)
	return nil
}

// CreateTournament создаёт турнир с настройками по умолчанию, замещая
// текущее состояние.
func (s *Store) CreateTournament(ctx context.Context, name string, mode models.TournamentMode) (*models.Tournament, error) {
	if name == "" {
		return nil, ErrTournamentName
	}
	if mode != models.ModeSolo && mode != models.ModeSquad {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	settings := models.DefaultScoringSettings()
	if mode == models.ModeSolo {
		settings.Mode = models.ScoringModeSolo
	}

	t := &models.Tournament{
		ID:              uuid.NewString(),
		Name:            name,
		CreatedAt:       time.Now().UTC(),
		Mode:            mode,
		ScoringSettings: settings,
		Matches:         []models.TournamentMatch{},
	}

	s.mu.Lock()
	s.tournament = t
	s.teams = nil
	s.players = nil
	s.conflicts = nil
	view := s.viewLocked()
	s.mu.Unlock()

	s.persist(ctx, view)
	s.notify(view)
	return view.Tournament, nil
}

// AddMatch добавляет матч в историю и прогоняет его через разрешение команд
// и полный пересчёт. Неразрешённые конфликты добавлению не мешают.
func (s *Store) AddMatch(ctx context.Context, match *models.MatchRecord) error {
	s.mu.Lock()
	if s.tournament == nil {
		s.mu.Unlock()
		return ErrNoTournament
	}
	if s.tournament.HasMatch(match.ID) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrMatchAlreadyAdded, match.ID)
	}

	s.tournament.Matches = append(s.tournament.Matches, models.TournamentMatch{
		MatchID:   match.ID,
		MatchData: *match,
		AddedAt:   time.Now().UTC(),
		Processed: true,
	})

	if s.tournament.Mode == models.ModeSquad {
		res := standings.ResolveTeams(match, s.teams, s.players)
		s.teams = res.Teams
		s.players = res.Players
		s.mergeConflictsLocked(res.Conflicts)
	} else {
		s.players = standings.EnsurePlayers(match, s.players)
	}

	s.teams, s.players = standings.Recompute(s.tournament, s.teams, s.players, s.conflicts)
	view := s.viewLocked()
	s.mu.Unlock()

	s.persist(ctx, view)
	s.notify(view)
	return nil
}

// UpdateScoringSettings заменяет настройки подсчёта глубокой копией
// переданного значения и ретроактивно пересчитывает всю историю.
func (s *Store) UpdateScoringSettings(ctx context.Context, settings models.ScoringSettings) error {
	settings = settings.Clone()
	settings.Normalize()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	s.mu.Lock()
	if s.tournament == nil {
		s.mu.Unlock()
		return ErrNoTournament
	}
	s.tournament.ScoringSettings = settings
	s.teams, s.players = standings.Recompute(s.tournament, s.teams, s.players, s.conflicts)
	view := s.viewLocked()
	s.mu.Unlock()

	s.persist(ctx, view)
	s.notify(view)
	return nil
}

// ResolveConflicts атомарно применяет решения оператора: либо все, либо ни
// одного. Частичное разрешение допустимо — не упомянутые конфликты остаются
// в ожидании.
func (s *Store) ResolveConflicts(ctx context.Context, resolutions map[string]models.ConflictResolution) error {
	if len(resolutions) == 0 {
		return nil
	}

	s.mu.Lock()
	if s.tournament == nil {
		s.mu.Unlock()
		return ErrNoTournament
	}

	// Сначала валидация всего набора, потом применение: состояние не
	// меняется, если хотя бы одно решение некорректно.
	for playerID, res := range resolutions {
		if s.findPlayerLocked(playerID) == nil {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrResolutionNoPlayer, playerID)
		}
		switch res.Action {
		case models.ConflictActionExclude:
		case models.ConflictActionAssign:
			if res.AssignedTeamID == "" || s.findTeamLocked(res.AssignedTeamID) == nil {
				s.mu.Unlock()
				return fmt.Errorf("%w: player %s", ErrResolutionNoTeam, playerID)
			}
		default:
			s.mu.Unlock()
			return fmt.Errorf("%w: unknown action %q", ErrInvalidResolution, res.Action)
		}
	}

	for playerID, res := range resolutions {
		player := s.findPlayerLocked(playerID)
		switch res.Action {
		case models.ConflictActionExclude:
			player.Excluded = true
			player.TeamID = ""
		case models.ConflictActionAssign:
			player.TeamID = res.AssignedTeamID
			player.Excluded = false
			for i := range s.teams {
				if s.teams[i].ID == res.AssignedTeamID {
					s.teams[i].AddPlayer(playerID)
				} else {
					removeTeamPlayer(&s.teams[i], playerID)
				}
			}
		}
		s.removeConflictLocked(playerID)
	}

	s.teams, s.players = standings.Recompute(s.tournament, s.teams, s.players, s.conflicts)
	view := s.viewLocked()
	s.mu.Unlock()

	s.persist(ctx, view)
	s.notify(view)
	return nil
}

// ClearTournament сбрасывает состояние и очищает персистентное хранилище.
func (s *Store) ClearTournament(ctx context.Context) error {
	s.mu.Lock()
	s.tournament = nil
	s.teams = nil
	s.players = nil
	s.conflicts = nil
	view := s.viewLocked()
	s.mu.Unlock()

	if err := s.persistence.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear persisted snapshot", slog.Any("error", err))
	}
	s.notify(view)
	return nil
}

// Current возвращает срез текущего состояния.
func (s *Store) Current() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

// viewLocked строит View под уже взятой блокировкой.
func (s *Store) viewLocked() View {
	view := View{
		Teams:     make([]models.Team, len(s.teams)),
		Players:   make([]models.Player, len(s.players)),
		Conflicts: make([]models.TeamConflict, len(s.conflicts)),
	}
	copy(view.Teams, s.teams)
	copy(view.Players, s.players)
	copy(view.Conflicts, s.conflicts)
	// Вложенные срезы тоже копируются: ResolveConflicts меняет ростеры на
	// месте, общий backing array искажал бы ранее выданные View.
	for i := range view.Teams {
		view.Teams[i].Players = append([]string(nil), view.Teams[i].Players...)
	}
	for i := range view.Conflicts {
		view.Conflicts[i].ConflictingTeams = append([]string(nil), view.Conflicts[i].ConflictingTeams...)
	}
	if s.tournament != nil {
		t := *s.tournament
		t.Matches = make([]models.TournamentMatch, len(s.tournament.Matches))
		copy(t.Matches, s.tournament.Matches)
		t.ScoringSettings = s.tournament.ScoringSettings.Clone()
		view.Tournament = &t
	}
	return view
}

// mergeConflictsLocked добавляет новые конфликты в ожидающий набор.
// Повторное обнаружение конфликта по тому же игроку — no-op.
func (s *Store) mergeConflictsLocked(newConflicts []models.TeamConflict) {
	for _, c := range newConflicts {
		exists := false
		for _, pending := range s.conflicts {
			if pending.PlayerID == c.PlayerID {
				exists = true
				break
			}
		}
		if !exists {
			s.conflicts = append(s.conflicts, c)
		}
	}
}

func (s *Store) removeConflictLocked(playerID string) {
	for i, c := range s.conflicts {
		if c.PlayerID == playerID {
			s.conflicts = append(s.conflicts[:i], s.conflicts[i+1:]...)
			return
		}
	}
}

func (s *Store) findPlayerLocked(playerID string) *models.Player {
	for i := range s.players {
		if s.players[i].ID == playerID {
			return &s.players[i]
		}
	}
	return nil
}

func (s *Store) findTeamLocked(teamID string) *models.Team {
	for i := range s.teams {
		if s.teams[i].ID == teamID {
			return &s.teams[i]
		}
	}
	return nil
}

func (s *Store) persist(ctx context.Context, view View) {
	if view.Tournament == nil {
		return
	}
	snapshot := &models.Snapshot{
		Version:    models.SnapshotVersion,
		Tournament: view.Tournament,
		Teams:      view.Teams,
		Players:    view.Players,
	}
	if err := s.persistence.Save(ctx, snapshot); err != nil {
		s.logger.Warn("failed to persist tournament snapshot", slog.Any("error", err))
	}
}

func (s *Store) notify(view View) {
	s.subMu.Lock()
	subscribers := make([]func(View), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subscribers {
		fn(view)
	}
}

func removeTeamPlayer(team *models.Team, playerID string) {
	for i, id := range team.Players {
		if id == playerID {
			team.Players = append(team.Players[:i], team.Players[i+1:]...)
			return
		}
	}
}
