package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/trentd187/open-invitational/internal/models"
	"github.com/trentd187/open-invitational/internal/scoring"
)

func TestMatchResponseResolvesNamesAndMargin(t *testing.T) {
	a1, a2 := uuid.New(), uuid.New()
	b1, b2 := uuid.New(), uuid.New()
	names := map[uuid.UUID]string{
		a1: "Seve", a2: "Ollie",
		b1: "Jack", b2: "Arnie",
	}

	match := models.Match{
		Format:         models.MatchFormatFourball,
		TeamAPlayer1ID: &a1,
		TeamAPlayer2ID: &a2,
		TeamBPlayer1ID: &b1,
		TeamBPlayer2ID: &b2,
		TeamAScore:     3,
		TeamBScore:     1,
		HolesPlayed:    4,
		Status:         models.MatchStatusInProgress,
	}

	resp := matchResponse(&match, names)
	assert.Equal(t, []string{"Seve", "Ollie"}, resp.TeamAPlayers)
	assert.Equal(t, []string{"Jack", "Arnie"}, resp.TeamBPlayers)
	assert.Equal(t, "2 up thru 4", resp.Margin)
}

func TestMatchResponseSingles(t *testing.T) {
	a1, b1 := uuid.New(), uuid.New()
	names := map[uuid.UUID]string{a1: "Seve", b1: "Jack"}
	winner := "A"

	match := models.Match{
		Format:         models.MatchFormatSingles,
		TeamAPlayer1ID: &a1,
		TeamBPlayer1ID: &b1,
		TeamAScore:     11,
		TeamBScore:     2,
		HolesPlayed:    15,
		Status:         models.MatchStatusCompleted,
		Winner:         &winner,
	}

	resp := matchResponse(&match, names)
	assert.Equal(t, []string{"Seve"}, resp.TeamAPlayers)
	assert.Equal(t, []string{"Jack"}, resp.TeamBPlayers)
	assert.Equal(t, "11 & 3", resp.Margin)
}

func TestToOutcomesCarriesStatusAndWinner(t *testing.T) {
	winA := "A"
	halved := "halved"
	matches := []models.Match{
		{Status: models.MatchStatusCompleted, Winner: &winA},
		{Status: models.MatchStatusCompleted, Winner: &halved},
		{Status: models.MatchStatusInProgress},
	}

	outcomes := toOutcomes(matches)
	standings := scoring.AggregateScores(outcomes)
	assert.Equal(t, 1.5, standings.TeamAPoints)
	assert.Equal(t, 0.5, standings.TeamBPoints)
	assert.Equal(t, 2, scoring.CompletedCount(outcomes))
}
