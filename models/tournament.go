package models

import "time"

// TournamentMode представляет режим турнира.
type TournamentMode string

const (
	ModeSolo  TournamentMode = "solo"
	ModeSquad TournamentMode = "squad"
)

// Tournament — корневая сущность: очередность матчей и настройки подсчёта.
// ID и Name неизменяемы после создания.
type Tournament struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	CreatedAt       time.Time         `json:"created_at"`
	Mode            TournamentMode    `json:"mode"`
	ScoringSettings ScoringSettings   `json:"scoring_settings"`
	Matches         []TournamentMatch `json:"matches"`
}

// TournamentMatch — матч, добавленный в турнир. Матчи только добавляются:
// удаление и переупорядочивание не поддерживаются.
type TournamentMatch struct {
	MatchID   string      `json:"match_id"`
	MatchData MatchRecord `json:"match_data"`
	AddedAt   time.Time   `json:"added_at"`
	Processed bool        `json:"processed"`
}

// HasMatch сообщает, добавлен ли матч с данным ID.
func (t *Tournament) HasMatch(matchID string) bool {
	for _, m := range t.Matches {
		if m.MatchID == matchID {
			return true
		}
	}
	return false
}

// LastMatch возвращает последний сыгранный матч (по played_at, не по порядку
// добавления). Порядок addMatch влияет только на отображение истории.
func (t *Tournament) LastMatch() (TournamentMatch, bool) {
	if len(t.Matches) == 0 {
		return TournamentMatch{}, false
	}
	last := t.Matches[0]
	for _, m := range t.Matches[1:] {
		if m.MatchData.PlayedAt.After(last.MatchData.PlayedAt) {
			last = m
		}
	}
	return last, true
}
