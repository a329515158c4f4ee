package standings

import (
	"sort"

	"github.com/pubgscore/tournament-service/models"
)

// TeamStanding — строка командной турнирной таблицы. Очки и среднее место
// округлены: это граница отображения.
type TeamStanding struct {
	Rank            int     `json:"rank"`
	TeamID          string  `json:"team_id"`
	Name            string  `json:"name"`
	TotalScore      float64 `json:"total_score"`
	MatchCount      int     `json:"match_count"`
	TotalKills      int     `json:"total_kills"`
	AveragePosition float64 `json:"average_position"`
}

// PlayerStanding — строка личной турнирной таблицы.
type PlayerStanding struct {
	Rank              int     `json:"rank"`
	PlayerID          string  `json:"player_id"`
	Name              string  `json:"name"`
	TeamID            string  `json:"team_id,omitempty"`
	TotalScore        float64 `json:"total_score"`
	MatchCount        int     `json:"match_count"`
	TotalKills        int     `json:"total_kills"`
	TotalDamage       float64 `json:"total_damage"`
	TotalWalkDistance float64 `json:"total_walk_distance"`
	TotalRideDistance float64 `json:"total_ride_distance"`
	TotalSwimDistance float64 `json:"total_swim_distance"`
	AveragePosition   float64 `json:"average_position"`
}

// BuildTeamStandings сортирует команды по очкам. Команды, у которых
// исключены все игроки, в таблицу не попадают.
func BuildTeamStandings(teams []models.Team, players []models.Player) []TeamStanding {
	excluded := make(map[string]bool)
	for _, p := range players {
		if p.Excluded {
			excluded[p.ID] = true
		}
	}

	visible := make([]models.Team, 0, len(teams))
	for _, t := range teams {
		if teamFullyExcluded(t, excluded) {
			continue
		}
		visible = append(visible, t)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].TotalScore > visible[j].TotalScore
	})

	rows := make([]TeamStanding, 0, len(visible))
	for i, t := range visible {
		rows = append(rows, TeamStanding{
			Rank:            i + 1,
			TeamID:          t.ID,
			Name:            t.Name,
			TotalScore:      Round2(t.TotalScore),
			MatchCount:      t.MatchCount,
			TotalKills:      t.TotalKills,
			AveragePosition: Round2(t.AveragePosition),
		})
	}
	return rows
}

// BuildPlayerStandings сортирует игроков по очкам; исключённые не попадают.
func BuildPlayerStandings(players []models.Player) []PlayerStanding {
	visible := make([]models.Player, 0, len(players))
	for _, p := range players {
		if p.Excluded {
			continue
		}
		visible = append(visible, p)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].TotalScore > visible[j].TotalScore
	})

	rows := make([]PlayerStanding, 0, len(visible))
	for i, p := range visible {
		rows = append(rows, PlayerStanding{
			Rank:              i + 1,
			PlayerID:          p.ID,
			Name:              p.Name,
			TeamID:            p.TeamID,
			TotalScore:        Round2(p.TotalScore),
			MatchCount:        p.MatchCount,
			TotalKills:        p.TotalKills,
			TotalDamage:       Round2(p.TotalDamage),
			TotalWalkDistance: p.TotalWalkDistance,
			TotalRideDistance: p.TotalRideDistance,
			TotalSwimDistance: p.TotalSwimDistance,
			AveragePosition:   Round2(p.AveragePosition),
		})
	}
	return rows
}

func teamFullyExcluded(t models.Team, excluded map[string]bool) bool {
	if len(t.Players) == 0 {
		return false
	}
	for _, id := range t.Players {
		if !excluded[id] {
			return false
		}
	}
	return true
}
