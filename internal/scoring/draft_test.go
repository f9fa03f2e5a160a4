package scoring

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func pool(n int) []DraftPlayer {
	players := make([]DraftPlayer, n)
	for i := range players {
		players[i] = DraftPlayer{ID: uuid.New()}
	}
	return players
}

func TestTeamForPickSnakeOrder(t *testing.T) {
	// Round pairs: (1,2)=A,B  (3,4)=B,A  (5,6)=A,B  (7,8)=B,A ...
	want := []Side{SideA, SideB, SideB, SideA, SideA, SideB, SideB, SideA}
	for p, team := range want {
		assert.Equalf(t, team, TeamForPick(p+1), "pick %d", p+1)
	}
}

func TestTeamForPickPairsAlternate(t *testing.T) {
	// Within any pair of picks (2r+1, 2r+2) the two teams each pick once.
	for p := 1; p <= 40; p += 2 {
		assert.NotEqual(t, TeamForPick(p), TeamForPick(p+1), "pair starting at pick %d", p)
	}
}

func TestAssignSnakeDraftBalance(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 7, 8, 11, 12} {
		result := AssignSnakeDraft(pool(n), 1)

		require.Len(t, result.Picks, n)
		diff := len(result.TeamA) - len(result.TeamB)
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqualf(t, diff, 1, "%d players split %d/%d", n, len(result.TeamA), len(result.TeamB))
	}
}

func TestAssignSnakeDraftLedger(t *testing.T) {
	players := pool(4)
	result := AssignSnakeDraft(players, 1)

	for i, pick := range result.Picks {
		assert.Equal(t, i+1, pick.PickNumber)
		assert.Equal(t, players[i].ID, pick.Player.ID)
		assert.Equal(t, TeamForPick(i+1), pick.Team)
	}
	assert.Equal(t, []uuid.UUID{players[0].ID, players[3].ID}, result.TeamA)
	assert.Equal(t, []uuid.UUID{players[1].ID, players[2].ID}, result.TeamB)
}

func TestAssignSnakeDraftStartPick(t *testing.T) {
	// Picking up an in-flight draft: picks 1-2 already happened, so the next
	// two picks fall in the reversed round and go B then A.
	players := pool(2)
	result := AssignSnakeDraft(players, 3)

	require.Len(t, result.Picks, 2)
	assert.Equal(t, 3, result.Picks[0].PickNumber)
	assert.Equal(t, SideB, result.Picks[0].Team)
	assert.Equal(t, 4, result.Picks[1].PickNumber)
	assert.Equal(t, SideA, result.Picks[1].Team)
}

func TestBalancedOrder(t *testing.T) {
	handicaps := []float64{5, 30, 10, 25, 2, 40}
	players := make([]DraftPlayer, len(handicaps))
	for i, h := range handicaps {
		players[i] = DraftPlayer{ID: uuid.New(), Handicap: ptr(h)}
	}

	ordered := BalancedOrder(players)
	got := make([]float64, len(ordered))
	for i, p := range ordered {
		got[i] = *p.Handicap
	}
	assert.Equal(t, []float64{2, 5, 10, 25, 30, 40}, got)

	// The snake over the sorted order distributes the handicap sums as evenly
	// as the alternating greedy can: A gets 2+25+30=57, B gets 5+10+40=55.
	result := AssignSnakeDraft(ordered, 1)
	sums := map[Side]float64{}
	for _, pick := range result.Picks {
		sums[pick.Team] += *pick.Player.Handicap
	}
	assert.Equal(t, 57.0, sums[SideA])
	assert.Equal(t, 55.0, sums[SideB])
}

func TestBalancedOrderMissingHandicapsDraftLast(t *testing.T) {
	players := []DraftPlayer{
		{ID: uuid.New(), Name: "no card"},
		{ID: uuid.New(), Name: "scratch", Handicap: ptr(0)},
		{ID: uuid.New(), Name: "also no card"},
		{ID: uuid.New(), Name: "mid", Handicap: ptr(18)},
	}

	ordered := BalancedOrder(players)
	assert.Equal(t, "scratch", ordered[0].Name)
	assert.Equal(t, "mid", ordered[1].Name)
	// Stable sort keeps the unrated players in roster order at the back.
	assert.Equal(t, "no card", ordered[2].Name)
	assert.Equal(t, "also no card", ordered[3].Name)
}

func TestBalancedOrderDoesNotMutateInput(t *testing.T) {
	players := []DraftPlayer{
		{ID: uuid.New(), Handicap: ptr(20)},
		{ID: uuid.New(), Handicap: ptr(1)},
	}
	first := players[0].ID

	BalancedOrder(players)
	assert.Equal(t, first, players[0].ID)
}

func TestRandomOrderSeededIsReproducible(t *testing.T) {
	players := pool(10)

	a := RandomOrder(players, rand.New(rand.NewSource(42)))
	b := RandomOrder(players, rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)

	// Same pool either way, just rearranged.
	seen := map[uuid.UUID]bool{}
	for _, p := range a {
		seen[p.ID] = true
	}
	for _, p := range players {
		assert.True(t, seen[p.ID])
	}
}
