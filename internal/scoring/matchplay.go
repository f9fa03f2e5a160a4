// Package scoring contains the pure tournament logic: the match-play
// calculator, the snake-draft assigner, and the team standings aggregator.
//
// Everything in this package is a plain function over values — no database,
// no HTTP, no clocks. Handlers load the current state (holes, players,
// matches) from Postgres, hand it to these functions, and persist whatever
// comes back. Keeping the logic here means a hole result recorded over HTTP
// and a hole result replayed in a unit test go through the exact same code.
package scoring

import "fmt"

// Side identifies one of the two teams in a Ryder-Cup-style game.
// Hole and match winners are either a Side or the special "halved" value.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"

	// WinnerHalved marks a hole (or a full match) shared by both sides.
	WinnerHalved = "halved"
)

// MatchStatus is the lifecycle of a single head-to-head match.
type MatchStatus string

const (
	MatchNotStarted MatchStatus = "not_started" // no holes recorded yet
	MatchInProgress MatchStatus = "in_progress" // some holes recorded, outcome still open
	MatchCompleted  MatchStatus = "completed"   // decided: full round played or clinched early
)

// HolesPerRound is the default round length. Callers can pass a different
// length to ScoreMatch (e.g. a 9-hole format), but the API always uses 18.
const HolesPerRound = 18

// HoleResult is one recorded hole of a match. Hole numbers are unique per
// match — the database enforces that with a composite unique index, so this
// package does not re-validate it.
type HoleResult struct {
	HoleNumber int
	Winner     string // "A", "B", or "halved"
}

// Result is the derived state of a match: the cached columns the handlers
// write back onto the matches row after every hole mutation.
type Result struct {
	TeamAScore  int         // holes won by team A (halves count for neither)
	TeamBScore  int         // holes won by team B
	HolesPlayed int
	Status      MatchStatus
	Winner      string // "A", "B", "halved", or "" while undecided
}

// ScoreMatch computes a match's running score, status, and winner from the
// full set of recorded holes. It is a total function: any well-formed set of
// hole results produces a Result, and recomputing over the same set always
// yields the same answer. That makes it safe to call after an upsert AND
// after an undo — both paths just re-derive from whatever holes remain.
//
// Match-play rules applied, in order:
//   - no holes recorded          → not_started
//   - |lead| > holes remaining   → completed, leader wins (the "dormie" /
//     early-clinch rule: the trailing side can no longer catch up)
//   - all holes played           → completed; higher score wins, equal is halved
//   - otherwise                  → in_progress
func ScoreMatch(holes []HoleResult, holesInRound int) Result {
	r := Result{HolesPlayed: len(holes)}

	for _, h := range holes {
		switch h.Winner {
		case string(SideA):
			r.TeamAScore++
		case string(SideB):
			r.TeamBScore++
		}
		// Halved holes move neither score.
	}

	diff := r.TeamAScore - r.TeamBScore
	remaining := holesInRound - r.HolesPlayed

	switch {
	case r.HolesPlayed == 0:
		r.Status = MatchNotStarted

	case abs(diff) > remaining && remaining > 0:
		// Clinched before the round is over. The match ends "N & M".
		r.Status = MatchCompleted
		r.Winner = leader(diff)

	case r.HolesPlayed == holesInRound:
		r.Status = MatchCompleted
		if diff == 0 {
			r.Winner = WinnerHalved
		} else {
			r.Winner = leader(diff)
		}

	default:
		r.Status = MatchInProgress
	}

	return r
}

// UndoFromHole removes every hole result with hole number >= from and
// re-scores the remainder. Recording holes 1..5 and undoing from hole 3
// leaves exactly the state of having recorded holes 1..2.
func UndoFromHole(holes []HoleResult, from, holesInRound int) ([]HoleResult, Result) {
	kept := make([]HoleResult, 0, len(holes))
	for _, h := range holes {
		if h.HoleNumber < from {
			kept = append(kept, h)
		}
	}
	return kept, ScoreMatch(kept, holesInRound)
}

// Margin renders the traditional match-play result line for a decided match:
// "3 & 2" for an early clinch (up by 3 with 2 to play), "2 up" for a match
// decided on the final hole, "halved" for a tie. Undecided matches render
// the current state: "2 up thru 6" or "all square".
func (r Result) Margin(holesInRound int) string {
	diff := abs(r.TeamAScore - r.TeamBScore)
	remaining := holesInRound - r.HolesPlayed

	if r.Status == MatchCompleted {
		if r.Winner == WinnerHalved {
			return "halved"
		}
		if remaining > 0 {
			return fmt.Sprintf("%d & %d", diff, remaining)
		}
		return fmt.Sprintf("%d up", diff)
	}

	if r.HolesPlayed == 0 {
		return ""
	}
	if diff == 0 {
		return "all square"
	}
	return fmt.Sprintf("%d up thru %d", diff, r.HolesPlayed)
}

func leader(diff int) string {
	if diff > 0 {
		return string(SideA)
	}
	return string(SideB)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
