package standings

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/pubgscore/tournament-service/models"
)

// Resolution — результат привязки участников матча к командам.
type Resolution struct {
	Teams     []models.Team
	Players   []models.Player
	Conflicts []models.TeamConflict
}

// ResolveTeams привязывает участников матча к существующим командам.
//
// Участники группируются по placement: в squad-режиме команда выигрывает и
// проигрывает целиком, поэтому одинаковое место означает один состав. Это
// осознанная эвристика, а не гарантированно верное назначение — её ошибки
// ловит механизм конфликтов.
//
// Для каждой наблюдаемой группы ищется команда с пересечением составов.
// Если пересечения нет, создаётся новая команда со следующим порядковым
// именем. Если игрок из группы уже числится в другой команде, вместо
// молчаливого переназначения поднимается TeamConflict с парой команд;
// такой игрок не добавляется в состав до разрешения.
//
// Счётчики здесь не трогаются: все кумулятивные значения выводит Recompute.
func ResolveTeams(match *models.MatchRecord, teams []models.Team, players []models.Player) Resolution {
	groups := match.ParticipantsByPlacement()

	placements := make([]int, 0, len(groups))
	for placement := range groups {
		placements = append(placements, placement)
	}
	sort.Ints(placements)

	var conflicts []models.TeamConflict

	for _, placement := range placements {
		group := groups[placement]

		ids := make([]string, 0, len(group))
		for _, p := range group {
			ids = append(ids, p.PlayerID)
		}

		teamIdx := findOverlappingTeam(teams, ids)
		if teamIdx < 0 {
			// Состав без пересечений с известными командами — всегда новая
			// команда, даже если часть игроков уже встречалась без команды.
			teams = append(teams, models.Team{
				ID:      uuid.NewString(),
				Name:    fmt.Sprintf("Team %d", len(teams)+1),
				Players: ids,
			})
			teamIdx = len(teams) - 1
			for _, p := range group {
				players = upsertPlayer(players, p, teams[teamIdx].ID)
			}
			continue
		}

		team := &teams[teamIdx]
		for _, p := range group {
			if team.HasPlayer(p.PlayerID) {
				players = upsertPlayer(players, p, team.ID)
				continue
			}
			if prev := findPlayer(players, p.PlayerID); prev != nil && prev.TeamID != "" && prev.TeamID != team.ID {
				conflicts = append(conflicts, models.TeamConflict{
					PlayerID:         p.PlayerID,
					PlayerName:       prev.Name,
					ConflictingTeams: []string{team.ID, prev.TeamID},
				})
				continue
			}
			team.AddPlayer(p.PlayerID)
			players = upsertPlayer(players, p, team.ID)
		}
	}

	return Resolution{Teams: teams, Players: players, Conflicts: conflicts}
}

// EnsurePlayers регистрирует участников матча как игроков без привязки к
// командам. Используется в solo-режиме, где понятия команды нет.
func EnsurePlayers(match *models.MatchRecord, players []models.Player) []models.Player {
	for _, p := range match.Participants {
		players = upsertPlayer(players, p, "")
	}
	return players
}

func findOverlappingTeam(teams []models.Team, playerIDs []string) int {
	for i := range teams {
		if teams[i].Overlaps(playerIDs) {
			return i
		}
	}
	return -1
}

func findPlayer(players []models.Player, playerID string) *models.Player {
	for i := range players {
		if players[i].ID == playerID {
			return &players[i]
		}
	}
	return nil
}

// upsertPlayer создаёт запись игрока при первом появлении либо обновляет
// команду существующей. Пустой teamID оставляет текущую привязку как есть.
func upsertPlayer(players []models.Player, p models.Participant, teamID string) []models.Player {
	if existing := findPlayer(players, p.PlayerID); existing != nil {
		if teamID != "" {
			existing.TeamID = teamID
		}
		if existing.Name == "" {
			existing.Name = p.Name
		}
		return players
	}
	return append(players, models.Player{
		ID:     p.PlayerID,
		Name:   p.Name,
		TeamID: teamID,
	})
}
