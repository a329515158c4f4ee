package models

import (
	"errors"
	"fmt"
	"sort"
)

// ScoringMode — режим подсчёта очков.
type ScoringMode string

const (
	ScoringModeSolo ScoringMode = "solo"
	ScoringModeTeam ScoringMode = "team"
)

// PlacementScoringType — способ начисления очков за место.
type PlacementScoringType string

const (
	// PlacementFixed: фиксированные очки за место, 0 для мест вне таблицы.
	PlacementFixed PlacementScoringType = "fixed"
	// PlacementMultiplier: множитель к килл-очкам, 1 для мест вне таблицы.
	PlacementMultiplier PlacementScoringType = "multiplier"
)

// ScoringSettings — полная конфигурация подсчёта очков турнира.
// Опциональные блоки всегда присутствуют со снятым флагом enabled, поэтому
// коду подсчёта не нужны проверки на nil.
type ScoringSettings struct {
	Mode             ScoringMode      `json:"mode"`
	KillPoints       float64          `json:"kill_points"`
	PlacementScoring PlacementScoring `json:"placement_scoring"`
	DamagePoints     DamagePoints     `json:"damage_points"`
	DistancePoints   DistancePoints   `json:"distance_points"`
}

type PlacementScoring struct {
	Type   PlacementScoringType `json:"type"`
	Values map[int]float64      `json:"values"`
}

type DamagePoints struct {
	Enabled         bool    `json:"enabled"`
	PointsPerDamage float64 `json:"points_per_damage"`
	DamageThreshold float64 `json:"damage_threshold"`
}

type DistancePoints struct {
	Enabled bool             `json:"enabled"`
	Walk    DistanceCategory `json:"walk"`
	Ride    DistanceCategory `json:"ride"`
	Swim    DistanceCategory `json:"swim"`
}

type DistanceCategory struct {
	Enabled    bool                `json:"enabled"`
	Thresholds []DistanceThreshold `json:"thresholds"`
}

// DistanceThreshold: очки начисляются за наивысший достигнутый порог,
// пороги не суммируются.
type DistanceThreshold struct {
	Distance float64 `json:"distance"` // meters
	Points   float64 `json:"points"`
}

// Clone возвращает глубокую копию настроек. Хранимая конфигурация никогда
// не разделяет память с буфером редактирования.
func (s ScoringSettings) Clone() ScoringSettings {
	out := s
	out.PlacementScoring.Values = make(map[int]float64, len(s.PlacementScoring.Values))
	for place, v := range s.PlacementScoring.Values {
		out.PlacementScoring.Values[place] = v
	}
	out.DistancePoints.Walk = s.DistancePoints.Walk.clone()
	out.DistancePoints.Ride = s.DistancePoints.Ride.clone()
	out.DistancePoints.Swim = s.DistancePoints.Swim.clone()
	return out
}

func (c DistanceCategory) clone() DistanceCategory {
	out := c
	out.Thresholds = make([]DistanceThreshold, len(c.Thresholds))
	copy(out.Thresholds, c.Thresholds)
	return out
}

// Normalize приводит настройки к канонической форме: пустая карта мест
// вместо nil, пороги дистанций отсортированы по возрастанию.
func (s *ScoringSettings) Normalize() {
	if s.PlacementScoring.Values == nil {
		s.PlacementScoring.Values = make(map[int]float64)
	}
	for _, cat := range []*DistanceCategory{&s.DistancePoints.Walk, &s.DistancePoints.Ride, &s.DistancePoints.Swim} {
		if cat.Thresholds == nil {
			cat.Thresholds = []DistanceThreshold{}
		}
		sort.Slice(cat.Thresholds, func(i, j int) bool {
			return cat.Thresholds[i].Distance < cat.Thresholds[j].Distance
		})
	}
}

// Validate проверяет настройки до того, как они попадут в подсчёт очков.
// В частности, damage_threshold < 1 отклоняется здесь, чтобы деление на ноль
// не могло возникнуть в вычислителе.
func (s *ScoringSettings) Validate() error {
	if s.Mode != ScoringModeSolo && s.Mode != ScoringModeTeam {
		return fmt.Errorf("invalid scoring mode %q", s.Mode)
	}
	if s.KillPoints < 0 {
		return errors.New("kill_points must be non-negative")
	}
	if s.PlacementScoring.Type != PlacementFixed && s.PlacementScoring.Type != PlacementMultiplier {
		return fmt.Errorf("invalid placement scoring type %q", s.PlacementScoring.Type)
	}
	for place, value := range s.PlacementScoring.Values {
		if place < 1 {
			return fmt.Errorf("placement scoring contains invalid place %d", place)
		}
		if value < 0 {
			return fmt.Errorf("placement scoring value for place %d must be non-negative", place)
		}
	}
	if s.DamagePoints.Enabled {
		if s.DamagePoints.DamageThreshold < 1 {
			return errors.New("damage_threshold must be at least 1")
		}
		if s.DamagePoints.PointsPerDamage < 0 {
			return errors.New("points_per_damage must be non-negative")
		}
	}
	if s.DistancePoints.Enabled {
		for name, cat := range map[string]DistanceCategory{
			"walk": s.DistancePoints.Walk,
			"ride": s.DistancePoints.Ride,
			"swim": s.DistancePoints.Swim,
		} {
			if !cat.Enabled {
				continue
			}
			for _, th := range cat.Thresholds {
				if th.Distance < 0 {
					return fmt.Errorf("%s distance threshold must be non-negative", name)
				}
			}
		}
	}
	return nil
}
