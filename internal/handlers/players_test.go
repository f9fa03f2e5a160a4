package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/trentd187/open-invitational/internal/models"
)

func TestGameExpiredClosesRosterEdits(t *testing.T) {
	expires := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	game := &models.Game{ExpiresAt: expires}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"well before expiry", expires.Add(-72 * time.Hour), false},
		{"at expiry", expires, false},
		{"just after expiry", expires.Add(time.Minute), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gameExpired(game, tt.now))
		})
	}
}

func TestShouldSendInviteDefaultsToYes(t *testing.T) {
	yes, no := true, false
	assert.True(t, shouldSendInvite(nil), "absent flag means send")
	assert.True(t, shouldSendInvite(&yes))
	assert.False(t, shouldSendInvite(&no), "only an explicit false suppresses the invite")
}

func TestHoursUntilStart(t *testing.T) {
	start := time.Date(2026, 9, 12, 8, 0, 0, 0, time.UTC)
	game := &models.Game{TournamentDate: start}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"day before", start.Add(-24 * time.Hour), 24},
		{"ninety minutes out", start.Add(-90 * time.Minute), 2},
		{"twenty minutes out", start.Add(-20 * time.Minute), 0},
		{"already started", start.Add(3 * time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hoursUntilStart(game, tt.now))
		})
	}
}
