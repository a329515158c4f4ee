package standings

import (
	"math"

	"github.com/pubgscore/tournament-service/models"
)

// Evaluate вычисляет очки за один матч по заданным настройкам.
// Формула: killScore + placementScore + damageScore + distanceScore.
//
// Для фиксированной схемы placementScore берётся из таблицы мест (0 для
// мест вне таблицы). Для схемы-множителя итоговый вклад места равен
// killScore × multiplier; так как killScore уже учтён отдельно, добавляется
// killScore × (multiplier − 1), множитель по умолчанию 1.
//
// Настройки должны пройти ScoringSettings.Validate до вызова: вычислитель
// полагается на damage_threshold ≥ 1 и не защищается от деления на ноль
// повторно.
func Evaluate(placement, kills int, damage, walkDist, rideDist, swimDist float64, settings models.ScoringSettings) float64 {
	killScore := float64(kills) * settings.KillPoints

	var placementScore float64
	switch settings.PlacementScoring.Type {
	case models.PlacementMultiplier:
		multiplier, ok := settings.PlacementScoring.Values[placement]
		if !ok {
			multiplier = 1
		}
		placementScore = killScore * (multiplier - 1)
	default: // fixed
		placementScore = settings.PlacementScoring.Values[placement]
	}

	var damageScore float64
	if settings.DamagePoints.Enabled && settings.DamagePoints.DamageThreshold >= 1 {
		steps := math.Floor(damage / settings.DamagePoints.DamageThreshold)
		damageScore = steps * settings.DamagePoints.PointsPerDamage
	}

	var distanceScore float64
	if settings.DistancePoints.Enabled {
		distanceScore += categoryScore(settings.DistancePoints.Walk, walkDist)
		distanceScore += categoryScore(settings.DistancePoints.Ride, rideDist)
		distanceScore += categoryScore(settings.DistancePoints.Swim, swimDist)
	}

	return killScore + placementScore + damageScore + distanceScore
}

// categoryScore — очки за наивысший достигнутый порог дистанции.
// Пороги отсортированы по возрастанию (Normalize); очки не суммируются,
// засчитывается последний порог с distance ≤ пройденному.
func categoryScore(cat models.DistanceCategory, travelled float64) float64 {
	if !cat.Enabled {
		return 0
	}
	var score float64
	for _, th := range cat.Thresholds {
		if th.Distance > travelled {
			break
		}
		score = th.Points
	}
	return score
}

// ParticipantScore — очки одного участника за один матч, округлённые для
// отображения. Кумулятивные суммы никогда не округляются, только эта
// граница показа.
func ParticipantScore(p models.Participant, settings models.ScoringSettings) float64 {
	score := Evaluate(
		p.Stats.Placement, p.Stats.Kills,
		p.Stats.Damage, p.Stats.WalkDistance, p.Stats.RideDistance, p.Stats.SwimDistance,
		settings,
	)
	return Round2(score)
}

// Round2 округляет до двух знаков. Применяется только на границах
// отображения и экспорта.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
