package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/trentd187/open-invitational/internal/models"
)

func TestNewGameCodeShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := newGameCode()
		assert.Len(t, code, gameCodeLength)
		for _, ch := range code {
			assert.Contains(t, gameCodeAlphabet, string(ch),
				"code %q contains a character outside the alphabet", code)
		}
		seen[code] = true
	}
	// 200 random draws from a 32^6 space should essentially never collide.
	assert.Greater(t, len(seen), 195)
}

func TestGameCodeAlphabetAvoidsAmbiguousCharacters(t *testing.T) {
	for _, ch := range "0O1I" {
		assert.NotContains(t, gameCodeAlphabet, string(ch))
	}
}

func TestScoringOpenWindow(t *testing.T) {
	unlocks := time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)
	expires := time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC)
	game := &models.Game{UnlocksAt: unlocks, ExpiresAt: expires}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before window", unlocks.Add(-time.Minute), false},
		{"at unlock", unlocks, true},
		{"mid window", unlocks.Add(48 * time.Hour), true},
		{"at expiry", expires, true},
		{"after window", expires.Add(time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoringOpen(game, tt.now))
		})
	}
}

func TestScoringWindowDerivedFromTournamentDays(t *testing.T) {
	// The window constants are what CreateGame applies to the first and last
	// day: open 24h before, close 7 days after.
	first := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	last := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)

	unlocks := first.Add(-scoringLeadTime)
	expires := last.Add(scoringGraceTime)

	assert.Equal(t, time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC), unlocks)
	assert.Equal(t, time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC), expires)
}

func TestDraftResetVoidsTheWholeDraft(t *testing.T) {
	// A reset must return every player to the undrafted pool — captains
	// included, since the voided draft is what made them captains.
	players := draftResetPlayerUpdates()
	assert.Contains(t, players, "team")
	assert.Nil(t, players["team"])
	assert.Equal(t, false, players["is_captain"])

	// The game forgets how its teams were assembled so the next draft
	// records its own mode, and the cached totals go back to zero.
	game := draftResetGameUpdates()
	assert.Contains(t, game, "draft_mode")
	assert.Nil(t, game["draft_mode"])
	assert.Equal(t, models.GameStatusLobby, game["status"])
	assert.Equal(t, 0, game["team_a_score"])
	assert.Equal(t, 0, game["team_b_score"])
}

func TestRandomHexToken(t *testing.T) {
	token := randomHexToken(32)
	assert.Len(t, token, 64)
	assert.Equal(t, strings.ToLower(token), token)
	assert.NotEqual(t, token, randomHexToken(32))
}
