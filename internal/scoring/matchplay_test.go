package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// holesWithWinners builds hole results 1..n with the given winners.
func holesWithWinners(winners ...string) []HoleResult {
	holes := make([]HoleResult, len(winners))
	for i, w := range winners {
		holes[i] = HoleResult{HoleNumber: i + 1, Winner: w}
	}
	return holes
}

// repeat returns n copies of winner, handy for building lopsided matches.
func repeat(winner string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = winner
	}
	return out
}

func TestScoreMatchLifecycle(t *testing.T) {
	tests := []struct {
		name       string
		winners    []string
		wantA      int
		wantB      int
		wantStatus MatchStatus
		wantWinner string
	}{
		{
			name:       "no holes recorded",
			winners:    nil,
			wantStatus: MatchNotStarted,
		},
		{
			name:       "mid match still open",
			winners:    []string{"A", "B", "halved", "A"},
			wantA:      2,
			wantB:      1,
			wantStatus: MatchInProgress,
		},
		{
			name:       "halved holes count for neither side",
			winners:    []string{"halved", "halved", "halved"},
			wantStatus: MatchInProgress,
		},
		{
			name:       "full round team A wins",
			winners:    append(repeat("A", 10), repeat("B", 8)...),
			wantA:      10,
			wantB:      8,
			wantStatus: MatchCompleted,
			wantWinner: "A",
		},
		{
			name:       "full round halved",
			winners:    append(append(repeat("A", 7), repeat("B", 7)...), repeat("halved", 4)...),
			wantA:      7,
			wantB:      7,
			wantStatus: MatchCompleted,
			wantWinner: "halved",
		},
		{
			name: "early clinch for A",
			// 13-2 after 15: lead 11, 3 remaining — B cannot catch up.
			winners:    append(repeat("A", 13), repeat("B", 2)...),
			wantA:      13,
			wantB:      2,
			wantStatus: MatchCompleted,
			wantWinner: "A",
		},
		{
			name: "early clinch for B",
			// 0-10 after 10: lead 10, 8 remaining.
			winners:    repeat("B", 10),
			wantB:      10,
			wantStatus: MatchCompleted,
			wantWinner: "B",
		},
		{
			name: "dormie is not yet decided",
			// 5-0 after 13: lead 5, 5 remaining. B can still level the match,
			// so equal lead and remaining stays in progress.
			winners:    append(repeat("A", 5), repeat("halved", 8)...),
			wantA:      5,
			wantStatus: MatchInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreMatch(holesWithWinners(tt.winners...), HolesPerRound)
			assert.Equal(t, tt.wantA, got.TeamAScore, "team A holes")
			assert.Equal(t, tt.wantB, got.TeamBScore, "team B holes")
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantWinner, got.Winner)
			assert.Equal(t, len(tt.winners), got.HolesPlayed)
		})
	}
}

func TestScoreMatchShortRound(t *testing.T) {
	// A 9-hole round clinches sooner: 5-0 after 5 holes leaves 4 remaining.
	holes := holesWithWinners("A", "A", "A", "A", "A")
	got := ScoreMatch(holes, 9)
	assert.Equal(t, MatchCompleted, got.Status)
	assert.Equal(t, "A", got.Winner)

	// The same holes in an 18-hole round are nowhere near decided.
	got = ScoreMatch(holes, HolesPerRound)
	assert.Equal(t, MatchInProgress, got.Status)
}

func TestScoreMatchOrderIndependent(t *testing.T) {
	ordered := holesWithWinners("A", "B", "A", "halved", "A")
	shuffled := []HoleResult{ordered[3], ordered[0], ordered[4], ordered[2], ordered[1]}

	assert.Equal(t, ScoreMatch(ordered, HolesPerRound), ScoreMatch(shuffled, HolesPerRound))
}

func TestUndoFromHoleIsLeftInverse(t *testing.T) {
	recorded := holesWithWinners("A", "B", "A", "A", "halved")
	kept, result := UndoFromHole(recorded, 3, HolesPerRound)

	require.Len(t, kept, 2)
	assert.Equal(t, holesWithWinners("A", "B"), kept)
	assert.Equal(t, ScoreMatch(holesWithWinners("A", "B"), HolesPerRound), result)
}

func TestUndoFromHoleToEmpty(t *testing.T) {
	recorded := holesWithWinners("A", "B")
	kept, result := UndoFromHole(recorded, 1, HolesPerRound)

	assert.Empty(t, kept)
	assert.Equal(t, MatchNotStarted, result.Status)
	assert.Zero(t, result.TeamAScore)
	assert.Zero(t, result.TeamBScore)
}

func TestUndoReopensClinchedMatch(t *testing.T) {
	// Clinched 13-2 after 15; rolling back to hole 10 reopens the match.
	recorded := holesWithWinners(append(repeat("A", 13), repeat("B", 2)...)...)
	require.Equal(t, MatchCompleted, ScoreMatch(recorded, HolesPerRound).Status)

	_, result := UndoFromHole(recorded, 10, HolesPerRound)
	assert.Equal(t, MatchInProgress, result.Status)
	assert.Empty(t, result.Winner)
}

func TestMargin(t *testing.T) {
	tests := []struct {
		name    string
		winners []string
		want    string
	}{
		{"early clinch", append(repeat("A", 13), repeat("B", 2)...), "11 & 3"},
		{"decided on the last hole", append(repeat("A", 10), repeat("B", 8)...), "2 up"},
		{"halved", append(repeat("A", 9), repeat("B", 9)...), "halved"},
		{"leading mid round", []string{"A", "A", "halved"}, "2 up thru 3"},
		{"level mid round", []string{"A", "B"}, "all square"},
		{"not started", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreMatch(holesWithWinners(tt.winners...), HolesPerRound)
			assert.Equal(t, tt.want, result.Margin(HolesPerRound))
		})
	}
}
