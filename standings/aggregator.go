package standings

import "github.com/pubgscore/tournament-service/models"

// Recompute выводит все кумулятивные счётчики команд и игроков заново из
// сырой истории матчей и текущих настроек подсчёта.
//
// Пересчёт всегда полный, никогда инкрементальный: ретроактивная смена
// настроек или переназначение игрока после конфликта детерминированно
// пере-оценивают всю историю. Повторный вызов на тех же входных данных даёт
// идентичный результат, порядок добавления матчей на итоги не влияет.
//
// Игроки с неразрешённым конфликтом не входят в командные суммы: спорный
// вклад не должен молчаливо засчитываться ни одной из сторон. Их личная
// статистика при этом считается — под вопросом состав, а не сам игрок.
func Recompute(t *models.Tournament, teams []models.Team, players []models.Player, pending []models.TeamConflict) ([]models.Team, []models.Player) {
	if t == nil {
		return teams, players
	}

	contested := make(map[string]bool, len(pending))
	for _, c := range pending {
		contested[c.PlayerID] = true
	}
	excluded := make(map[string]bool)
	for _, p := range players {
		if p.Excluded {
			excluded[p.ID] = true
		}
	}

	// Командная агрегация идёт по текущему team_id игрока, а не по списку
	// составов: после разрешения конфликта вся история игрока ретроактивно
	// относится к его текущей команде.
	roster := make(map[string][]string, len(teams))
	for _, p := range players {
		if p.TeamID == "" || contested[p.ID] || excluded[p.ID] {
			continue
		}
		roster[p.TeamID] = append(roster[p.TeamID], p.ID)
	}

	recomputePlayers(t, players)
	recomputeTeams(t, teams, roster)

	return teams, players
}

func recomputePlayers(t *models.Tournament, players []models.Player) {
	for i := range players {
		p := &players[i]
		resetPlayerTotals(p)
		if p.Excluded {
			// Исключённый игрок не участвует ни в одном матче подсчёта;
			// история матчей при этом остаётся нетронутой.
			continue
		}

		var placementSum int
		for _, tm := range t.Matches {
			part, ok := tm.MatchData.ParticipantByPlayerID(p.ID)
			if !ok {
				continue
			}
			p.MatchCount++
			p.TotalKills += part.Stats.Kills
			p.TotalDamage += part.Stats.Damage
			p.TotalSurvivalTime += part.Stats.SurvivalTime
			p.TotalWalkDistance += part.Stats.WalkDistance
			p.TotalRideDistance += part.Stats.RideDistance
			p.TotalSwimDistance += part.Stats.SwimDistance
			placementSum += part.Stats.Placement

			p.TotalScore += Evaluate(
				part.Stats.Placement, part.Stats.Kills,
				part.Stats.Damage, part.Stats.WalkDistance, part.Stats.RideDistance, part.Stats.SwimDistance,
				t.ScoringSettings,
			)
		}
		if p.MatchCount > 0 {
			p.AveragePosition = float64(placementSum) / float64(p.MatchCount)
		}
	}
}

func recomputeTeams(t *models.Tournament, teams []models.Team, roster map[string][]string) {
	for i := range teams {
		team := &teams[i]
		resetTeamTotals(team)

		var placementSum int
		for _, tm := range t.Matches {
			var (
				kills            int
				damage           float64
				walk, ride, swim float64
				placement        int
				participating    bool
			)
			for _, playerID := range roster[team.ID] {
				part, ok := tm.MatchData.ParticipantByPlayerID(playerID)
				if !ok {
					continue
				}
				// Все участники команды делят одно место в матче —
				// группировка по placement это гарантирует.
				placement = part.Stats.Placement
				kills += part.Stats.Kills
				damage += part.Stats.Damage
				walk += part.Stats.WalkDistance
				ride += part.Stats.RideDistance
				swim += part.Stats.SwimDistance
				participating = true
			}
			if !participating {
				continue
			}

			team.MatchCount++
			team.TotalKills += kills
			team.TotalDamage += damage
			team.TotalWalkDistance += walk
			team.TotalRideDistance += ride
			team.TotalSwimDistance += swim
			placementSum += placement

			team.TotalScore += Evaluate(placement, kills, damage, walk, ride, swim, t.ScoringSettings)
		}
		if team.MatchCount > 0 {
			team.AveragePosition = float64(placementSum) / float64(team.MatchCount)
		}
	}
}

func resetPlayerTotals(p *models.Player) {
	p.TotalScore = 0
	p.MatchCount = 0
	p.TotalKills = 0
	p.TotalDamage = 0
	p.TotalSurvivalTime = 0
	p.TotalWalkDistance = 0
	p.TotalRideDistance = 0
	p.TotalSwimDistance = 0
	p.AveragePosition = 0
}

func resetTeamTotals(t *models.Team) {
	t.TotalScore = 0
	t.MatchCount = 0
	t.TotalKills = 0
	t.TotalDamage = 0
	t.TotalWalkDistance = 0
	t.TotalRideDistance = 0
	t.TotalSwimDistance = 0
	t.AveragePosition = 0
}
