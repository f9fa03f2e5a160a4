package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateScores(t *testing.T) {
	matches := []MatchOutcome{
		{Status: MatchCompleted, Winner: "A"},
		{Status: MatchCompleted, Winner: "B"},
		{Status: MatchCompleted, Winner: "halved"},
		{Status: MatchCompleted, Winner: "A"},
	}

	s := AggregateScores(matches)
	assert.Equal(t, 2.5, s.TeamAPoints)
	assert.Equal(t, 1.5, s.TeamBPoints)
}

func TestAggregateScoresIgnoresUndecidedMatches(t *testing.T) {
	matches := []MatchOutcome{
		{Status: MatchCompleted, Winner: "A"},
		{Status: MatchInProgress},
		{Status: MatchNotStarted},
	}

	s := AggregateScores(matches)
	assert.Equal(t, 1.0, s.TeamAPoints)
	assert.Equal(t, 0.0, s.TeamBPoints)
}

func TestAggregateScoresEmpty(t *testing.T) {
	s := AggregateScores(nil)
	assert.Zero(t, s.TeamAPoints)
	assert.Zero(t, s.TeamBPoints)
}

func TestAggregateScoresOrderIndependent(t *testing.T) {
	matches := []MatchOutcome{
		{Status: MatchCompleted, Winner: "halved"},
		{Status: MatchCompleted, Winner: "B"},
		{Status: MatchCompleted, Winner: "A"},
	}
	reversed := []MatchOutcome{matches[2], matches[1], matches[0]}

	assert.Equal(t, AggregateScores(matches), AggregateScores(reversed))
}

func TestCompletedCount(t *testing.T) {
	matches := []MatchOutcome{
		{Status: MatchCompleted, Winner: "A"},
		{Status: MatchInProgress},
		{Status: MatchCompleted, Winner: "halved"},
	}
	assert.Equal(t, 2, CompletedCount(matches))
}
