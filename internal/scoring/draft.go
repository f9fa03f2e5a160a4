package scoring

import (
	"math/rand"
	"sort"

	"github.com/google/uuid"
)

// missingHandicap is the sort key used for players with no recorded handicap.
// It pushes them to the end of the balanced ordering so they draft last —
// the same behaviour the frontend's live draft board shows.
const missingHandicap = 999

// DraftPlayer is the slice of a game player the draft cares about.
type DraftPlayer struct {
	ID       uuid.UUID
	Name     string
	Handicap *float64 // nil means unknown; lower is better
}

// Pick is one entry in the draft ledger: player N went to team T as pick P.
type Pick struct {
	Player     DraftPlayer
	Team       Side
	PickNumber int
}

// DraftResult is the outcome of running a snake draft over an ordered pool.
type DraftResult struct {
	Picks []Pick      // full ledger in draft order
	TeamA []uuid.UUID // player IDs assigned to A
	TeamB []uuid.UUID // player IDs assigned to B
}

// TeamForPick returns which team owns pick number p (1-based) under snake
// ("serpentine") turn order. Picks come in pairs: within a pair each team
// picks once, and the team that picked second in one pair picks first in the
// next. So A,B then B,A then A,B and so on — no team is ever two picks ahead.
func TeamForPick(p int) Side {
	round := (p - 1) / 2
	slot := (p - 1) % 2

	if round%2 == 0 {
		if slot == 0 {
			return SideA
		}
		return SideB
	}
	if slot == 0 {
		return SideB
	}
	return SideA
}

// AssignSnakeDraft deals the already-ordered player pool onto the two teams
// using snake turn order, starting at startPick (1 unless earlier picks have
// already been recorded, e.g. pre-seeded captains). The ordering policy —
// random shuffle, handicap sort, or a human captain choosing — is the
// caller's concern; this function only applies the turn-order rule.
func AssignSnakeDraft(ordered []DraftPlayer, startPick int) DraftResult {
	if startPick < 1 {
		startPick = 1
	}

	result := DraftResult{Picks: make([]Pick, 0, len(ordered))}
	for i, player := range ordered {
		pickNumber := startPick + i
		team := TeamForPick(pickNumber)

		if team == SideA {
			result.TeamA = append(result.TeamA, player.ID)
		} else {
			result.TeamB = append(result.TeamB, player.ID)
		}

		result.Picks = append(result.Picks, Pick{
			Player:     player,
			Team:       team,
			PickNumber: pickNumber,
		})
	}
	return result
}

// RandomOrder returns a uniform shuffle of the pool. The rand source is
// injected so a draft can be replayed deterministically in tests; handlers
// pass a time-seeded source.
func RandomOrder(players []DraftPlayer, rng *rand.Rand) []DraftPlayer {
	shuffled := make([]DraftPlayer, len(players))
	copy(shuffled, players)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// BalancedOrder sorts the pool by handicap, best (lowest) first, so the snake
// rule spreads skill as evenly as possible between the teams. Players with no
// handicap sort as missingHandicap and draft last. The sort is stable so
// equal handicaps keep their roster order and the draft stays reproducible.
func BalancedOrder(players []DraftPlayer) []DraftPlayer {
	sorted := make([]DraftPlayer, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return handicapKey(sorted[i]) < handicapKey(sorted[j])
	})
	return sorted
}

func handicapKey(p DraftPlayer) float64 {
	if p.Handicap == nil {
		return missingHandicap
	}
	return *p.Handicap
}
