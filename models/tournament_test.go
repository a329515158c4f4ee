package models

import (
	"testing"
	"time"
)

func TestHasMatch(t *testing.T) {
	tournament := &Tournament{
		Matches: []TournamentMatch{{MatchID: "m1"}, {MatchID: "m2"}},
	}

	if !tournament.HasMatch("m1") {
		t.Error("m1 must be found")
	}
	if tournament.HasMatch("m3") {
		t.Error("m3 must not be found")
	}
}

func TestLastMatchByPlayedAt(t *testing.T) {
	older := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)

	// порядок добавления обратный хронологическому: последний матч
	// выбирается по played_at, а не по позиции в истории
	tournament := &Tournament{
		Matches: []TournamentMatch{
			{MatchID: "m-late", MatchData: MatchRecord{ID: "m-late", PlayedAt: newer}},
			{MatchID: "m-early", MatchData: MatchRecord{ID: "m-early", PlayedAt: older}},
		},
	}

	last, ok := tournament.LastMatch()
	if !ok {
		t.Fatal("expected a last match")
	}
	if last.MatchID != "m-late" {
		t.Errorf("expected m-late, got %s", last.MatchID)
	}

	empty := &Tournament{}
	if _, ok := empty.LastMatch(); ok {
		t.Error("empty history must yield no last match")
	}
}
