package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/pubgscore/tournament-service/models"
	"github.com/pubgscore/tournament-service/standings"
)

// Пакет export — Export Sink: сериализация снапшота турнира в файловые
// форматы. Куда попадает файл (скачивание, R2) — забота вызывающего.

// JSONDocument — полный экспорт турнира.
type JSONDocument struct {
	Tournament *models.Tournament `json:"tournament"`
	Teams      []models.Team      `json:"teams"`
	Players    []models.Player    `json:"players"`
	ExportedAt time.Time          `json:"exported_at"`
}

// BuildJSON сериализует полное состояние турнира.
func BuildJSON(t *models.Tournament, teams []models.Team, players []models.Player, now time.Time) ([]byte, error) {
	doc := JSONDocument{
		Tournament: t,
		Teams:      teams,
		Players:    players,
		ExportedAt: now,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tournament export: %w", err)
	}
	return data, nil
}

// BuildCSV строит таблицу результатов: командные строки для squad-турнира,
// личные для solo. Одна строка на позицию, в порядке текущего ранга.
func BuildCSV(t *models.Tournament, teams []models.Team, players []models.Player) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	var err error
	if t.Mode == models.ModeSquad {
		err = writeTeamRows(w, standings.BuildTeamStandings(teams, players))
	} else {
		err = writePlayerRows(w, standings.BuildPlayerStandings(players))
	}
	if err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// JSONFilename / CSVFilename — имена файлов экспорта в историческом формате
// tournament[-standings]-<имя>-<дата>.
func JSONFilename(tournamentName string, now time.Time) string {
	return fmt.Sprintf("tournament-%s-%s.json", tournamentName, now.Format("2006-01-02"))
}

func CSVFilename(tournamentName string, now time.Time) string {
	return fmt.Sprintf("tournament-standings-%s-%s.csv", tournamentName, now.Format("2006-01-02"))
}

func writeTeamRows(w *csv.Writer, rows []standings.TeamStanding) error {
	if err := w.Write([]string{"Rank", "Team", "Points", "Matches", "Kills", "Avg Place"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Rank),
			row.Name,
			formatFloat(row.TotalScore),
			strconv.Itoa(row.MatchCount),
			strconv.Itoa(row.TotalKills),
			strconv.FormatFloat(row.AveragePosition, 'f', 1, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	return nil
}

func writePlayerRows(w *csv.Writer, rows []standings.PlayerStanding) error {
	header := []string{"Rank", "Player", "Points", "Matches", "Kills", "Damage", "Walk (m)", "Ride (m)", "Swim (m)", "Avg Place"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Rank),
			row.Name,
			formatFloat(row.TotalScore),
			strconv.Itoa(row.MatchCount),
			strconv.Itoa(row.TotalKills),
			formatFloat(row.TotalDamage),
			formatFloat(row.TotalWalkDistance),
			formatFloat(row.TotalRideDistance),
			formatFloat(row.TotalSwimDistance),
			strconv.FormatFloat(row.AveragePosition, 'f', 1, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
