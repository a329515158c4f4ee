package state

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/pubgscore/tournament-service/models"
)

type mockPersistence struct {
	SaveFunc  func(ctx context.Context, snapshot *models.Snapshot) error
	LoadFunc  func(ctx context.Context) (*models.Snapshot, error)
	ClearFunc func(ctx context.Context) error
}

func (m *mockPersistence) Save(ctx context.Context, snapshot *models.Snapshot) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, snapshot)
	}
	return nil
}

func (m *mockPersistence) Load(ctx context.Context) (*models.Snapshot, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return nil, nil
}

func (m *mockPersistence) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}

func newTestStore() *Store {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(&mockPersistence{}, logger)
}

func squadMatch(id string, groups ...[]string) *models.MatchRecord {
	match := &models.MatchRecord{ID: id, GameMode: "squad"}
	for i, group := range groups {
		for _, playerID := range group {
			match.Participants = append(match.Participants, models.Participant{
				Name:     "name-" + playerID,
				PlayerID: playerID,
				Stats:    models.ParticipantStats{Placement: i + 1, Kills: 1},
			})
		}
	}
	return match
}

func TestCreateTournament(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	tournament, err := store.CreateTournament(ctx, "Friday Cup", models.ModeSquad)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tournament.ID == "" {
		t.Error("tournament must get an id")
	}
	if tournament.Name != "Friday Cup" {
		t.Errorf("unexpected name: %q", tournament.Name)
	}
	if tournament.ScoringSettings.Mode != models.ScoringModeTeam {
		t.Errorf("squad tournament must default to team scoring, got %q", tournament.ScoringSettings.Mode)
	}

	solo, err := store.CreateTournament(ctx, "Solo Night", models.ModeSolo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if solo.ScoringSettings.Mode != models.ScoringModeSolo {
		t.Errorf("solo tournament must default to solo scoring, got %q", solo.ScoringSettings.Mode)
	}
}

func TestCreateTournamentValidation(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	if _, err := store.CreateTournament(ctx, "", models.ModeSquad); !errors.Is(err, ErrTournamentName) {
		t.Errorf("expected ErrTournamentName, got %v", err)
	}
	if _, err := store.CreateTournament(ctx, "Cup", "trio"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
}

func TestAddMatchWithoutTournament(t *testing.T) {
	store := newTestStore()

	err := store.AddMatch(context.Background(), squadMatch("m1", []string{"a1"}))
	if !errors.Is(err, ErrNoTournament) {
		t.Errorf("expected ErrNoTournament, got %v", err)
	}
}

func TestAddMatchRejectsDuplicate(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	if _, err := store.CreateTournament(ctx, "Cup", models.ModeSquad); err != nil {
		t.Fatal(err)
	}

	match := squadMatch("m1", []string{"a1", "a2"})
	if err := store.AddMatch(ctx, match); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := store.AddMatch(ctx, match); !errors.Is(err, ErrMatchAlreadyAdded) {
		t.Errorf("expected ErrMatchAlreadyAdded, got %v", err)
	}

	view := store.Current()
	if len(view.Tournament.Matches) != 1 {
		t.Errorf("duplicate add must not grow history, got %d matches", len(view.Tournament.Matches))
	}
}

func TestAddMatchResolvesTeamsAndRecomputes(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	if _, err := store.CreateTournament(ctx, "Cup", models.ModeSquad); err != nil {
		t.Fatal(err)
	}

	if err := store.AddMatch(ctx, squadMatch("m1", []string{"a1", "a2"}, []string{"b1"})); err != nil {
		t.Fatal(err)
	}

	view := store.Current()
	if len(view.Teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(view.Teams))
	}
	if len(view.Players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(view.Players))
	}
	if view.Teams[0].TotalScore == 0 {
		t.Error("team totals must be recomputed after add")
	}
}

func TestAddMatchKeepsPendingConflict(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	if _, err := store.CreateTournament(ctx, "Cup", models.ModeSquad); err != nil {
		t.Fatal(err)
	}

	if err := store.AddMatch(ctx, squadMatch("m1", []string{"a1", "a2"}, []string{"b1", "b2"})); err != nil {
		t.Fatal(err)
	}
	// b1 играет в группе команды A
	if err := store.AddMatch(ctx, squadMatch("m2", []string{"a1", "b1"})); err != nil {
		t.Fatal(err)
	}

	view := store.Current()
	if len(view.Conflicts) != 1 {
		t.Fatalf("expected 1 pending conflict, got %d", len(view.Conflicts))
	}
	if view.Conflicts[0].PlayerID != "b1" {
		t.Errorf("expected conflict for b1, got %s", view.Conflicts[0].PlayerID)
	}

	// то же наблюдение ещё раз — конфликт не дублируется
	if err := store.AddMatch(ctx, squadMatch("m3", []string{"a1", "b1"})); err != nil {
		t.Fatal(err)
	}
	view = store.Current()
	if len(view.Conflicts) != 1 {
		t.Errorf("conflict must be idempotent per player, got %d", len(view.Conflicts))
	}
}

func TestResolveConflictsAssign(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	if _, err := store.CreateTournament(ctx, "Cup", models.ModeSquad); err != nil {
		t.Fatal(err)
	}
	if err := store.AddMatch(ctx, squadMatch("m1", []string{"a1", "a2"}, []string{"b1", "b2"})); err != nil {
		t.Fatal(err)
	}
	if err := store.AddMatch(ctx, squadMatch("m2", []string{"a1", "b1"})); err != nil {
		t.Fatal(err)
	}

	view := store.Current()
	teamA := view.Conflicts[0].ConflictingTeams[0]

	err := store.ResolveConflicts(ctx, map[string]models.ConflictResolution{
		"b1": {Action: models.ConflictActionAssign, AssignedTeamID: teamA},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	view = store.Current()
	if len(view.Conflicts) != 0 {
		t.Errorf("conflict must be cleared, got %d", len(view.Conflicts))
	}
	for _, p := range view.Players {
		if p.ID == "b1" && p.TeamID != teamA {
			t.Errorf("b1 must be bound to team A, got %s", p.TeamID)
		}
	}
	// после переназначения b1 не числится в составе старой команды
	for _, team := range view.Teams {
		if team.ID != teamA && team.HasPlayer("b1") {
			t.Errorf("b1 must be removed from team %s roster", team.ID)
		}
	}
}

func TestViewRostersIsolatedFromLaterMutations(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	if _, err := store.CreateTournament(ctx, "Cup", models.ModeSquad); err != nil {
		t.Fatal(err)
	}
	if err := store.AddMatch(ctx, squadMatch("m1", []string{"a1", "a2"}, []string{"b1", "b2"})); err != nil {
		t.Fatal(err)
	}
	if err := store.AddMatch(ctx, squadMatch("m2", []string{"a1", "b1"})); err != nil {
		t.Fatal(err)
	}

	before := store.Current()
	rosters := make(map[string][]string)
	for _, team := range before.Teams {
		rosters[team.ID] = append([]string(nil), team.Players...)
	}
	conflicting := append([]string(nil), before.Conflicts[0].ConflictingTeams...)

	teamA := before.Conflicts[0].ConflictingTeams[0]
	err := store.ResolveConflicts(ctx, map[string]models.ConflictResolution{
		"b1": {Action: models.ConflictActionAssign, AssignedTeamID: teamA},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	// разрешение конфликта не должно трогать ранее выданный View
	for _, team := range before.Teams {
		if !reflect.DeepEqual(team.Players, rosters[team.ID]) {
			t.Errorf("earlier view mutated: team %s roster %v, want %v", team.ID, team.Players, rosters[team.ID])
		}
	}
	if !reflect.DeepEqual(before.Conflicts[0].ConflictingTeams, conflicting) {
		t.Errorf("earlier view conflict mutated: %v, want %v", before.Conflicts[0].ConflictingTeams, conflicting)
	}
}

func TestResolveConflictsExclude(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	if _, err := store.CreateTournament(ctx, "Cup", models.ModeSquad); err != nil {
		t.Fatal(err)
	}
	if err := store.AddMatch(ctx, squadMatch("m1", []string{"a1", "a2"}, []string{"b1", "b2"})); err != nil {
		t.Fatal(err)
	}
	if err := store.AddMatch(ctx, squadMatch("m2", []string{"a1", "b1"})); err != nil {
		t.Fatal(err)
	}

	err := store.ResolveConflicts(ctx, map[string]models.ConflictResolution{
		"b1": {Action: models.ConflictActionExclude},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	view := store.Current()
	for _, p := range view.Players {
		if p.ID == "b1" {
			if !p.Excluded {
				t.Error("b1 must be excluded")
			}
			if p.MatchCount != 0 {
				t.Errorf("excluded player contributes zero matches, got %d", p.MatchCount)
			}
		}
	}
}

func TestResolveConflictsAtomicValidation(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	if _, err := store.CreateTournament(ctx, "Cup", models.ModeSquad); err != nil {
		t.Fatal(err)
	}
	if err := store.AddMatch(ctx, squadMatch("m1", []string{"a1", "a2"}, []string{"b1", "b2"})); err != nil {
		t.Fatal(err)
	}
	if err := store.AddMatch(ctx, squadMatch("m2", []string{"a1", "b1"})); err != nil {
		t.Fatal(err)
	}

	// валидное решение по b1 плюс ссылка на несуществующего игрока:
	// не применяется ничего
	err := store.ResolveConflicts(ctx, map[string]models.ConflictResolution{
		"b1":    {Action: models.ConflictActionExclude},
		"ghost": {Action: models.ConflictActionExclude},
	})
	if !errors.Is(err, ErrResolutionNoPlayer) {
		t.Fatalf("expected ErrResolutionNoPlayer, got %v", err)
	}

	view := store.Current()
	if len(view.Conflicts) != 1 {
		t.Errorf("failed batch must not consume conflicts, got %d", len(view.Conflicts))
	}
	for _, p := range view.Players {
		if p.ID == "b1" && p.Excluded {
			t.Error("failed batch must not mutate players")
		}
	}

	// неизвестное действие
	err = store.ResolveConflicts(ctx, map[string]models.ConflictResolution{
		"b1": {Action: "merge"},
	})
	if !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("expected ErrInvalidResolution, got %v", err)
	}

	// assign без команды
	err = store.ResolveConflicts(ctx, map[string]models.ConflictResolution{
		"b1": {Action: models.ConflictActionAssign},
	})
	if !errors.Is(err, ErrResolutionNoTeam) {
		t.Errorf("expected ErrResolutionNoTeam, got %v", err)
	}
}

func TestUpdateScoringSettingsRecomputes(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	if _, err := store.CreateTournament(ctx, "Cup", models.ModeSquad); err != nil {
		t.Fatal(err)
	}
	if err := store.AddMatch(ctx, squadMatch("m1", []string{"a1"})); err != nil {
		t.Fatal(err)
	}

	before := store.Current().Teams[0].TotalScore

	settings := models.DefaultScoringSettings()
	settings.KillPoints = 10
	if err := store.UpdateScoringSettings(ctx, settings); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	after := store.Current().Teams[0].TotalScore
	if after <= before {
		t.Errorf("retroactive recompute expected, score %v -> %v", before, after)
	}
}

func TestUpdateScoringSettingsRejectsInvalid(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	if _, err := store.CreateTournament(ctx, "Cup", models.ModeSquad); err != nil {
		t.Fatal(err)
	}

	settings := models.DefaultScoringSettings()
	settings.DamagePoints.Enabled = true
	settings.DamagePoints.DamageThreshold = 0

	err := store.UpdateScoringSettings(ctx, settings)
	if !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestSubscribeNotifiesOnMutation(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	var notifications []View
	unsubscribe := store.Subscribe(func(v View) {
		notifications = append(notifications, v)
	})

	if _, err := store.CreateTournament(ctx, "Cup", models.ModeSquad); err != nil {
		t.Fatal(err)
	}
	if err := store.AddMatch(ctx, squadMatch("m1", []string{"a1"})); err != nil {
		t.Fatal(err)
	}

	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications))
	}
	if notifications[1].Tournament == nil || len(notifications[1].Teams) != 1 {
		t.Error("notification must carry the updated view")
	}

	unsubscribe()
	if err := store.ClearTournament(ctx); err != nil {
		t.Fatal(err)
	}
	if len(notifications) != 2 {
		t.Errorf("unsubscribed observer must not be called, got %d notifications", len(notifications))
	}
}

func TestClearTournament(t *testing.T) {
	cleared := false
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewStore(&mockPersistence{
		ClearFunc: func(ctx context.Context) error {
			cleared = true
			return nil
		},
	}, logger)
	ctx := context.Background()

	if _, err := store.CreateTournament(ctx, "Cup", models.ModeSquad); err != nil {
		t.Fatal(err)
	}
	if err := store.ClearTournament(ctx); err != nil {
		t.Fatal(err)
	}

	if !cleared {
		t.Error("persistence.Clear must be called")
	}
	if store.Current().Tournament != nil {
		t.Error("state must be empty after clear")
	}
}

func TestRestoreFromSnapshot(t *testing.T) {
	match := squadMatch("m1", []string{"a1", "a2"})
	snapshot := &models.Snapshot{
		Tournament: &models.Tournament{
			ID:   "t1",
			Name: "Restored Cup",
			Matches: []models.TournamentMatch{
				{MatchID: "m1", MatchData: *match, Processed: true},
			},
		},
		Teams: []models.Team{
			{ID: "team-a", Name: "Team 1", Players: []string{"a1", "a2"}},
		},
		Players: []models.Player{
			{ID: "a1", Name: "name-a1", TeamID: "team-a"},
			{ID: "a2", Name: "name-a2", TeamID: "team-a"},
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewStore(&mockPersistence{
		LoadFunc: func(ctx context.Context) (*models.Snapshot, error) {
			return snapshot, nil
		},
	}, logger)

	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	view := store.Current()
	if view.Tournament == nil || view.Tournament.Name != "Restored Cup" {
		t.Fatal("tournament must be restored")
	}
	// апгрейд заполняет недостающие поля
	if view.Tournament.Mode != models.ModeSquad {
		t.Errorf("mode must default to squad, got %q", view.Tournament.Mode)
	}
	if view.Tournament.CreatedAt.IsZero() {
		t.Error("created_at must be defaulted")
	}
	// счётчики пересчитаны из истории
	if view.Teams[0].MatchCount != 1 {
		t.Errorf("counters must be recomputed on restore, got %+v", view.Teams[0])
	}
}

func TestRestoreWithoutSnapshot(t *testing.T) {
	store := newTestStore()

	if err := store.Restore(context.Background()); err != nil {
		t.Fatalf("missing snapshot must not be an error, got %v", err)
	}
	if store.Current().Tournament != nil {
		t.Error("state must stay empty")
	}
}

func TestSaveErrorDoesNotFailMutation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewStore(&mockPersistence{
		SaveFunc: func(ctx context.Context, snapshot *models.Snapshot) error {
			return errors.New("disk on fire")
		},
	}, logger)
	ctx := context.Background()

	if _, err := store.CreateTournament(ctx, "Cup", models.ModeSquad); err != nil {
		t.Fatalf("save failure must not fail the mutation: %v", err)
	}
	if store.Current().Tournament == nil {
		t.Error("in-memory state must survive persistence failure")
	}
}
