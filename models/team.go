package models

// Team — команда, выведенная из истории матчей по группировке placement.
// ID стабилен на всё время жизни турнира; состав может расти через
// разрешение конфликтов.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Players []string `json:"players"` // player IDs, insertion order, no duplicates

	TotalScore        float64 `json:"total_score"`
	MatchCount        int     `json:"match_count"`
	TotalKills        int     `json:"total_kills"`
	TotalDamage       float64 `json:"total_damage"`
	TotalWalkDistance float64 `json:"total_walk_distance"`
	TotalRideDistance float64 `json:"total_ride_distance"`
	TotalSwimDistance float64 `json:"total_swim_distance"`
	AveragePosition   float64 `json:"average_position"`
}

// HasPlayer проверяет членство игрока в команде.
func (t *Team) HasPlayer(playerID string) bool {
	for _, id := range t.Players {
		if id == playerID {
			return true
		}
	}
	return false
}

// AddPlayer добавляет игрока в состав, если его там ещё нет.
func (t *Team) AddPlayer(playerID string) {
	if !t.HasPlayer(playerID) {
		t.Players = append(t.Players, playerID)
	}
}

// Overlaps сообщает, пересекается ли состав команды с данным набором игроков.
func (t *Team) Overlaps(playerIDs []string) bool {
	for _, id := range playerIDs {
		if t.HasPlayer(id) {
			return true
		}
	}
	return false
}
