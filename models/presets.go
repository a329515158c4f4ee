package models

// Пресеты настроек подсчёта. Таблицы значений соответствуют стандартным
// схемам PUBG-турниров.

// DefaultScoringSettings — схема по умолчанию для нового турнира:
// фиксированные очки за топ-8, 1 очко за килл, бонусы выключены.
func DefaultScoringSettings() ScoringSettings {
	s := ScoringSettings{
		Mode:       ScoringModeTeam,
		KillPoints: 1,
		PlacementScoring: PlacementScoring{
			Type: PlacementFixed,
			Values: map[int]float64{
				1: 13, 2: 11, 3: 9, 4: 8, 5: 6, 6: 4, 7: 2, 8: 1,
				9: 0, 10: 0, 11: 0, 12: 0, 13: 0, 14: 0, 15: 0, 16: 0, 17: 0, 18: 0, 19: 0, 20: 0,
			},
		},
		DamagePoints: DamagePoints{Enabled: false, PointsPerDamage: 0, DamageThreshold: 100},
	}
	s.Normalize()
	return s
}

// EsportsScoringSettings — SUPER-подобная таблица мест.
func EsportsScoringSettings() ScoringSettings {
	s := ScoringSettings{
		Mode:       ScoringModeTeam,
		KillPoints: 1,
		PlacementScoring: PlacementScoring{
			Type: PlacementFixed,
			Values: map[int]float64{
				1: 15, 2: 12, 3: 10, 4: 8, 5: 6, 6: 4, 7: 2, 8: 1,
				9: 0, 10: 0, 11: 0, 12: 0, 13: 0, 14: 0, 15: 0, 16: 0, 17: 0, 18: 0, 19: 0, 20: 0,
			},
		},
		DamagePoints: DamagePoints{Enabled: false, PointsPerDamage: 0, DamageThreshold: 100},
	}
	s.Normalize()
	return s
}

// CasualScoringSettings — множители килл-очков вместо фиксированных мест.
func CasualScoringSettings() ScoringSettings {
	s := ScoringSettings{
		Mode:       ScoringModeTeam,
		KillPoints: 1,
		PlacementScoring: PlacementScoring{
			Type: PlacementMultiplier,
			Values: map[int]float64{
				1: 3, 2: 2.5, 3: 2, 4: 1.8, 5: 1.6, 6: 1.4, 7: 1.2, 8: 1.1,
				9: 1, 10: 1, 11: 1, 12: 1, 13: 1, 14: 1, 15: 1, 16: 1, 17: 1, 18: 1, 19: 1, 20: 1,
			},
		},
		DamagePoints: DamagePoints{Enabled: false, PointsPerDamage: 0, DamageThreshold: 100},
	}
	s.Normalize()
	return s
}

// ExperimentalScoringSettings — включает бонусы за урон и дистанции.
func ExperimentalScoringSettings() ScoringSettings {
	s := ScoringSettings{
		Mode:       ScoringModeTeam,
		KillPoints: 1,
		PlacementScoring: PlacementScoring{
			Type:   PlacementFixed,
			Values: map[int]float64{1: 13, 2: 11, 3: 9, 4: 8, 5: 6, 6: 4, 7: 2, 8: 1},
		},
		DamagePoints: DamagePoints{Enabled: true, PointsPerDamage: 1, DamageThreshold: 100},
		DistancePoints: DistancePoints{
			Enabled: true,
			Walk: DistanceCategory{
				Enabled: true,
				Thresholds: []DistanceThreshold{
					{Distance: 1500, Points: 0.5},
					{Distance: 3000, Points: 1.5},
				},
			},
			Ride: DistanceCategory{
				Enabled: true,
				Thresholds: []DistanceThreshold{
					{Distance: 2000, Points: 0.3},
					{Distance: 5000, Points: 1.0},
				},
			},
			Swim: DistanceCategory{
				Enabled: true,
				Thresholds: []DistanceThreshold{
					{Distance: 500, Points: 0.2},
					{Distance: 1000, Points: 0.5},
				},
			},
		},
	}
	s.Normalize()
	return s
}

// ScoringPreset возвращает пресет по имени.
func ScoringPreset(name string) (ScoringSettings, bool) {
	switch name {
	case "default":
		return DefaultScoringSettings(), true
	case "esports":
		return EsportsScoringSettings(), true
	case "casual":
		return CasualScoringSettings(), true
	case "experimental":
		return ExperimentalScoringSettings(), true
	}
	return ScoringSettings{}, false
}
