package models

import "time"

// MatchRecord — нормализованный результат одного матча, полученный от
// источника матчей (PUBG API или мок-генератор).
type MatchRecord struct {
	ID           string        `json:"id"`
	GameMode     string        `json:"game_mode"`
	PlayedAt     time.Time     `json:"played_at"`
	Duration     int           `json:"duration"` // seconds
	MapName      string        `json:"map_name"`
	Participants []Participant `json:"participants"`
}

// Participant — один игрок в рамках одного матча.
type Participant struct {
	Name     string           `json:"name"`
	PlayerID string           `json:"player_id"`
	Stats    ParticipantStats `json:"stats"`
}

// ParticipantStats — сырая статистика игрока за матч. Placement: 1 = победитель.
type ParticipantStats struct {
	Kills        int     `json:"kills"`
	Damage       float64 `json:"damage"`
	Placement    int     `json:"placement"`
	SurvivalTime int     `json:"survival_time"` // seconds
	WalkDistance float64 `json:"walk_distance"` // meters
	RideDistance float64 `json:"ride_distance"`
	SwimDistance float64 `json:"swim_distance"`
}

// ParticipantsByPlacement группирует участников матча по значению placement.
// В squad-режиме одинаковый placement означает одну команду: команда
// выигрывает и проигрывает целиком. Это эвристика, а не гарантия — именно
// для её ошибок существует механизм конфликтов.
func (m *MatchRecord) ParticipantsByPlacement() map[int][]Participant {
	groups := make(map[int][]Participant)
	for _, p := range m.Participants {
		groups[p.Stats.Placement] = append(groups[p.Stats.Placement], p)
	}
	return groups
}

// ParticipantByPlayerID возвращает запись участника для игрока, если он
// играл в этом матче.
func (m *MatchRecord) ParticipantByPlayerID(playerID string) (Participant, bool) {
	for _, p := range m.Participants {
		if p.PlayerID == playerID {
			return p, true
		}
	}
	return Participant{}, false
}
