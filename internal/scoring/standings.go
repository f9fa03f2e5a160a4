package scoring

// Standings is the tournament-level team score: one point per match won,
// half a point to each side for a halved match.
type Standings struct {
	TeamAPoints float64
	TeamBPoints float64
}

// MatchOutcome is the slice of a match the aggregator needs. Winner is empty
// while the match is undecided.
type MatchOutcome struct {
	Status MatchStatus
	Winner string
}

// AggregateScores reduces all of a game's matches to the two team totals.
// It always recomputes from scratch — there is no incremental counter to
// drift out of sync — so it is idempotent and order-independent. Matches
// without a winner contribute nothing.
func AggregateScores(matches []MatchOutcome) Standings {
	var s Standings
	for _, m := range matches {
		switch m.Winner {
		case string(SideA):
			s.TeamAPoints++
		case string(SideB):
			s.TeamBPoints++
		case WinnerHalved:
			s.TeamAPoints += 0.5
			s.TeamBPoints += 0.5
		}
	}
	return s
}

// CompletedCount reports how many matches are decided, for the leaderboard's
// "4 of 6 matches complete" line.
func CompletedCount(matches []MatchOutcome) int {
	n := 0
	for _, m := range matches {
		if m.Status == MatchCompleted {
			n++
		}
	}
	return n
}
