package models

// Player — игрок турнира. Создаётся при первом появлении в любом матче.
// TeamID имеет смысл только в squad-режиме и может быть переназначен через
// разрешение конфликта. Excluded убирает игрока из подсчёта очков, не
// удаляя историю его матчей.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TeamID   string `json:"team_id,omitempty"`
	Excluded bool   `json:"excluded,omitempty"`

	TotalScore        float64 `json:"total_score"`
	MatchCount        int     `json:"match_count"`
	TotalKills        int     `json:"total_kills"`
	TotalDamage       float64 `json:"total_damage"`
	TotalSurvivalTime int     `json:"total_survival_time"`
	TotalWalkDistance float64 `json:"total_walk_distance"`
	TotalRideDistance float64 `json:"total_ride_distance"`
	TotalSwimDistance float64 `json:"total_swim_distance"`
	AveragePosition   float64 `json:"average_position"`
}
