package models

// ConflictAction — решение оператора по конфликтному игроку.
type ConflictAction string

const (
	ConflictActionAssign  ConflictAction = "assign"
	ConflictActionExclude ConflictAction = "exclude"
)

// TeamConflict — неоднозначность принадлежности игрока к команде:
// в разных матчах игрок наблюдался в составах двух разных команд.
// Существует только между обнаружением и разрешением.
type TeamConflict struct {
	PlayerID         string   `json:"player_id"`
	PlayerName       string   `json:"player_name"`
	ConflictingTeams []string `json:"conflicting_teams"` // exactly two team IDs
}

// ConflictResolution — действие по одному конфликту: либо назначить игрока
// в команду, либо исключить из подсчёта.
type ConflictResolution struct {
	Action         ConflictAction `json:"action"`
	AssignedTeamID string         `json:"assigned_team_id,omitempty"`
}
