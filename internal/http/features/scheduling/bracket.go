package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/arenaops/arenad/pkg/domain"
)

// Bracket types accepted by match generation.
const (
	BracketSingleElimination = "single_elimination"
	BracketRoundRobin        = "round_robin"
)

const matchSpacing = 2 * time.Hour

// GenerateBracket builds the first-round pairings for a tournament. Teams
// are paired in the order given; with an odd count the last team sits out
// the first round. Matches are spaced two hours apart from start.
func GenerateBracket(bracketType string, tournamentID uuid.UUID, teamIDs []uuid.UUID, start time.Time) ([]*domain.Match, error) {
	if len(teamIDs) < 2 {
		return nil, domain.ErrInsufficientTeams
	}
	switch bracketType {
	case BracketSingleElimination:
		return singleElimination(tournamentID, teamIDs, start), nil
	case BracketRoundRobin:
		return roundRobin(tournamentID, teamIDs, start), nil
	default:
		return nil, domain.ErrInvalidBracketType
	}
}

func singleElimination(tournamentID uuid.UUID, teamIDs []uuid.UUID, start time.Time) []*domain.Match {
	matches := make([]*domain.Match, 0, len(teamIDs)/2)
	at := start
	for i := 0; i+1 < len(teamIDs); i += 2 {
		matches = append(matches, &domain.Match{
			ID:            uuid.New(),
			TournamentID:  tournamentID,
			Round:         1,
			Team1ID:       teamIDs[i],
			Team2ID:       teamIDs[i+1],
			ScheduledTime: at,
		})
		at = at.Add(matchSpacing)
	}
	return matches
}

func roundRobin(tournamentID uuid.UUID, teamIDs []uuid.UUID, start time.Time) []*domain.Match {
	matches := make([]*domain.Match, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	at := start
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			matches = append(matches, &domain.Match{
				ID:            uuid.New(),
				TournamentID:  tournamentID,
				Round:         1,
				Team1ID:       teamIDs[i],
				Team2ID:       teamIDs[j],
				ScheduledTime: at,
			})
			at = at.Add(matchSpacing)
		}
	}
	return matches
}

// GroupByDay buckets matches by calendar day of their scheduled time, for
// the schedule view.
func GroupByDay(matches []*domain.Match) map[string][]*domain.Match {
	grouped := make(map[string][]*domain.Match)
	for _, m := range matches {
		day := m.ScheduledTime.Format("2006-01-02")
		grouped[day] = append(grouped[day], m)
	}
	return grouped
}
