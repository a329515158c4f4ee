package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/pubgscore/tournament-service/models"
)

func exportFixture(mode models.TournamentMode) (*models.Tournament, []models.Team, []models.Player) {
	t := &models.Tournament{
		ID:   "t1",
		Name: "Spring Cup",
		Mode: mode,
	}
	teams := []models.Team{
		{ID: "team-a", Name: "Alpha", Players: []string{"p1"}, TotalScore: 21.5, MatchCount: 2, TotalKills: 8, AveragePosition: 1.5},
		{ID: "team-b", Name: "Bravo", Players: []string{"p2"}, TotalScore: 30, MatchCount: 2, TotalKills: 11, AveragePosition: 1},
	}
	players := []models.Player{
		{ID: "p1", Name: "One", TeamID: "team-a", TotalScore: 21.5, MatchCount: 2, TotalKills: 8, TotalDamage: 840.5, TotalWalkDistance: 4200, AveragePosition: 1.5},
		{ID: "p2", Name: "Two", TeamID: "team-b", TotalScore: 30, MatchCount: 2, TotalKills: 11, TotalDamage: 1100, TotalRideDistance: 2500, AveragePosition: 1},
	}
	return t, teams, players
}

func TestBuildJSON(t *testing.T) {
	tournament, teams, players := exportFixture(models.ModeSquad)
	now := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)

	data, err := BuildJSON(tournament, teams, players, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc JSONDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export must be valid json: %v", err)
	}
	if doc.Tournament.Name != "Spring Cup" {
		t.Errorf("unexpected tournament name: %q", doc.Tournament.Name)
	}
	if len(doc.Teams) != 2 || len(doc.Players) != 2 {
		t.Errorf("export must carry teams and players, got %d/%d", len(doc.Teams), len(doc.Players))
	}
	if !doc.ExportedAt.Equal(now) {
		t.Errorf("unexpected exported_at: %v", doc.ExportedAt)
	}
}

func TestBuildCSVTeamRows(t *testing.T) {
	tournament, teams, players := exportFixture(models.ModeSquad)

	data, err := BuildCSV(tournament, teams, players)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	header := []string{"Rank", "Team", "Points", "Matches", "Kills", "Avg Place"}
	for i, col := range header {
		if rows[0][i] != col {
			t.Errorf("header col %d: expected %q, got %q", i, col, rows[0][i])
		}
	}

	// первая строка — лидер по очкам
	if rows[1][1] != "Bravo" || rows[1][0] != "1" {
		t.Errorf("expected Bravo at rank 1, got %v", rows[1])
	}
	if rows[2][1] != "Alpha" || rows[2][2] != "21.5" {
		t.Errorf("expected Alpha with 21.5 points, got %v", rows[2])
	}
}

func TestBuildCSVPlayerRows(t *testing.T) {
	tournament, teams, players := exportFixture(models.ModeSolo)

	data, err := BuildCSV(tournament, teams, players)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "Player" || len(rows[0]) != 10 {
		t.Errorf("unexpected player header: %v", rows[0])
	}
	if rows[1][1] != "Two" {
		t.Errorf("expected Two at rank 1, got %v", rows[1])
	}
	if rows[2][5] != "840.5" {
		t.Errorf("expected damage column 840.5, got %v", rows[2])
	}
}

func TestFilenames(t *testing.T) {
	now := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)

	if got := JSONFilename("Spring Cup", now); got != "tournament-Spring Cup-2026-04-01.json" {
		t.Errorf("unexpected json filename: %q", got)
	}
	if got := CSVFilename("Spring Cup", now); got != "tournament-standings-Spring Cup-2026-04-01.csv" {
		t.Errorf("unexpected csv filename: %q", got)
	}
}
