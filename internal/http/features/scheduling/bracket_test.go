package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/pkg/domain"
)

func teamIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestGenerateBracket_SingleElimination(t *testing.T) {
	tournamentID := uuid.New()
	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	t.Run("even team count", func(t *testing.T) {
		teams := teamIDs(4)
		matches, err := GenerateBracket(BracketSingleElimination, tournamentID, teams, start)
		if err != nil {
			t.Fatalf("GenerateBracket: %v", err)
		}
		if len(matches) != 2 {
			t.Fatalf("got %d matches, want 2", len(matches))
		}
		if matches[0].Team1ID != teams[0] || matches[0].Team2ID != teams[1] {
			t.Error("first pairing out of order")
		}
		if !matches[0].ScheduledTime.Equal(start) {
			t.Errorf("first match at %v, want %v", matches[0].ScheduledTime, start)
		}
		if got := matches[1].ScheduledTime.Sub(matches[0].ScheduledTime); got != 2*time.Hour {
			t.Errorf("spacing = %v, want 2h", got)
		}
	})

	t.Run("odd team count gets a bye", func(t *testing.T) {
		matches, err := GenerateBracket(BracketSingleElimination, tournamentID, teamIDs(5), start)
		if err != nil {
			t.Fatalf("GenerateBracket: %v", err)
		}
		if len(matches) != 2 {
			t.Fatalf("got %d matches, want 2", len(matches))
		}
	})
}

func TestGenerateBracket_RoundRobin(t *testing.T) {
	teams := teamIDs(4)
	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	matches, err := GenerateBracket(BracketRoundRobin, uuid.New(), teams, start)
	if err != nil {
		t.Fatalf("GenerateBracket: %v", err)
	}
	// n*(n-1)/2 pairings, each pair exactly once
	if len(matches) != 6 {
		t.Fatalf("got %d matches, want 6", len(matches))
	}
	seen := make(map[[2]uuid.UUID]bool)
	for _, m := range matches {
		pair := [2]uuid.UUID{m.Team1ID, m.Team2ID}
		if m.Team1ID == m.Team2ID {
			t.Fatal("team paired with itself")
		}
		if seen[pair] {
			t.Fatalf("duplicate pairing %v", pair)
		}
		seen[pair] = true
	}
	last := matches[len(matches)-1].ScheduledTime
	if want := start.Add(10 * time.Hour); !last.Equal(want) {
		t.Errorf("last match at %v, want %v", last, want)
	}
}

func TestGenerateBracket_Errors(t *testing.T) {
	start := time.Now()

	if _, err := GenerateBracket(BracketSingleElimination, uuid.New(), teamIDs(1), start); !errors.Is(err, domain.ErrInsufficientTeams) {
		t.Errorf("one team: error = %v, want ErrInsufficientTeams", err)
	}
	if _, err := GenerateBracket("double_elimination", uuid.New(), teamIDs(4), start); !errors.Is(err, domain.ErrInvalidBracketType) {
		t.Errorf("unknown bracket: error = %v, want ErrInvalidBracketType", err)
	}
}

func TestGroupByDay(t *testing.T) {
	day1 := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	matches := []*domain.Match{
		{ID: uuid.New(), ScheduledTime: day1},
		{ID: uuid.New(), ScheduledTime: day1.Add(2 * time.Hour)},
		{ID: uuid.New(), ScheduledTime: day2},
	}

	grouped := GroupByDay(matches)
	if len(grouped) != 2 {
		t.Fatalf("got %d days, want 2", len(grouped))
	}
	if len(grouped["2026-09-01"]) != 2 || len(grouped["2026-09-02"]) != 1 {
		t.Errorf("grouping = %v", grouped)
	}
}
