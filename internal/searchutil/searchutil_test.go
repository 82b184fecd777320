package searchutil

import (
	"reflect"
	"testing"
)

func TestNormalizeAndCompact(t *testing.T) {
	if got := Normalize("  Solo-Leveling: Ragnarok!! "); got != "solo leveling ragnarok" {
		t.Fatalf("unexpected normalized value %q", got)
	}
	if got := Compact("Tower of God: Season 3"); got != "towerofgodseason3" {
		t.Fatalf("unexpected compact value %q", got)
	}
}

func TestQueryMatches(t *testing.T) {
	query := NewQuery("leveling solo")
	if !query.Matches("Solo Leveling") {
		t.Fatalf("expected token match")
	}
	if query.Matches("Solo Max-Level Newbie") {
		t.Fatalf("expected partial token set not to match")
	}
	if !NewQuery("").Matches("anything") {
		t.Fatalf("expected empty query to match everything")
	}
	if !NewQuery("tower of").Matches("", "Tower of God") {
		t.Fatalf("expected substring match on second candidate")
	}
}

func TestUniqueAndLatinOnly(t *testing.T) {
	values := []string{" Solo Leveling ", "solo-leveling", "나 혼자만 레벨업", "", "Only I Level Up"}

	if got := UniqueNonEmpty(values); !reflect.DeepEqual(got, []string{"Solo Leveling", "나 혼자만 레벨업", "Only I Level Up"}) {
		t.Fatalf("unexpected unique values %v", got)
	}
	if got := LatinOnly(values); !reflect.DeepEqual(got, []string{"Solo Leveling", "Only I Level Up"}) {
		t.Fatalf("unexpected latin values %v", got)
	}
}
