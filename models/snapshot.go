package models

import "time"

// SnapshotVersion — текущая версия формата снапшота.
const SnapshotVersion = 2

// Snapshot — сериализуемое состояние турнира: всё, что нужно для
// восстановления после перезапуска. Конфликты не сохраняются: они
// транзиентны и выводятся заново из истории матчей.
type Snapshot struct {
	Version    int         `json:"version"`
	Tournament *Tournament `json:"tournament"`
	Teams      []Team      `json:"teams"`
	Players    []Player    `json:"players"`
}

// UpgradeSnapshot дополняет снапшоты старых версий значениями по умолчанию.
// Старые снапшоты могли не иметь version, created_at, блоков damage/distance
// в настройках и счётчиков дистанций. Загрузка никогда не падает из-за
// отсутствующего поля.
func UpgradeSnapshot(s *Snapshot, now time.Time) {
	if s == nil || s.Tournament == nil {
		return
	}
	t := s.Tournament

	if t.CreatedAt.IsZero() {
		// Лучшая доступная оценка — момент добавления первого матча.
		if len(t.Matches) > 0 && !t.Matches[0].AddedAt.IsZero() {
			t.CreatedAt = t.Matches[0].AddedAt
		} else {
			t.CreatedAt = now
		}
	}
	if t.Mode == "" {
		t.Mode = ModeSquad
	}
	if t.Matches == nil {
		t.Matches = []TournamentMatch{}
	}

	upgradeSettings(&t.ScoringSettings)

	if s.Teams == nil {
		s.Teams = []Team{}
	}
	for i := range s.Teams {
		if s.Teams[i].Players == nil {
			s.Teams[i].Players = []string{}
		}
	}
	if s.Players == nil {
		s.Players = []Player{}
	}

	s.Version = SnapshotVersion
}

func upgradeSettings(settings *ScoringSettings) {
	if settings.Mode == "" {
		settings.Mode = ScoringModeTeam
	}
	if settings.PlacementScoring.Type == "" {
		settings.PlacementScoring.Type = PlacementFixed
	}
	if settings.DamagePoints.DamageThreshold < 1 {
		// Снапшоты без блока урона получают порог по умолчанию; сам блок
		// остаётся выключенным, если enabled не был установлен.
		settings.DamagePoints.DamageThreshold = 100
	}
	settings.Normalize()
}
