package pubg

import (
	"context"
	"reflect"
	"testing"
)

func TestMockFetchPlayerMatchIDs(t *testing.T) {
	source := NewMockSource()

	ids, err := source.FetchPlayerMatchIDs(context.Background(), "TestPlayer", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != playerMatchLimit {
		t.Fatalf("expected %d ids, got %d", playerMatchLimit, len(ids))
	}
	if ids[0] != "match-TestPlayer-1" {
		t.Errorf("unexpected first id: %q", ids[0])
	}
}

func TestMockFetchMatchesDeterministic(t *testing.T) {
	source := NewMockSource()
	ctx := context.Background()
	ids := []string{"match-a", "match-b", "match-c"}

	first, err := source.FetchMatches(ctx, ids, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := source.FetchMatches(ctx, ids, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(ids) {
		t.Fatalf("expected %d matches, got %d", len(ids), len(first))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("match %d id differs between runs", i)
		}
		if !reflect.DeepEqual(first[i].Participants, second[i].Participants) {
			t.Errorf("match %s stats must be deterministic", first[i].ID)
		}
	}
}

func TestMockGeneratedSquadMatchGroupsPlacements(t *testing.T) {
	match := generateMatch("some-squad-match", 0) // index 0 — режим squad

	if match.GameMode != "squad" {
		t.Fatalf("expected squad mode at index 0, got %q", match.GameMode)
	}

	groups := match.ParticipantsByPlacement()
	if len(groups) != 5 {
		t.Fatalf("20 participants in squads of 4 must form 5 placements, got %d", len(groups))
	}
	for placement, group := range groups {
		if len(group) != 4 {
			t.Errorf("placement %d must hold a full squad, got %d", placement, len(group))
		}
	}
}

func TestMockFetchMatchReturnsDemoMatch(t *testing.T) {
	source := NewMockSource()

	match, err := source.FetchMatch(context.Background(), "demo-id", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.ID != "demo-id" {
		t.Errorf("match must echo the requested id, got %q", match.ID)
	}
	if len(match.Participants) != 3 {
		t.Errorf("expected 3 demo participants, got %d", len(match.Participants))
	}
	if match.Participants[0].Stats.Placement != 1 {
		t.Errorf("first demo participant must be the winner, got placement %d", match.Participants[0].Stats.Placement)
	}
}
