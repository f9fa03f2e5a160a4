// matches.go — the scoring half of the API: building the day's matches,
// recording holes, undoing mistakes, and the live leaderboard.
//
// Match scores are never edited directly. Holes are the source of truth; a
// match's score, status, and winner are recomputed from its holes on every
// mutation, and the game's team totals are recomputed from its matches. That
// makes every write idempotent and every undo exact.
package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/trentd187/open-invitational/internal/models"
	"github.com/trentd187/open-invitational/internal/scoring"
	"github.com/trentd187/open-invitational/internal/websocket"
	"gorm.io/gorm"
)

// PairingRequest is one match's lineup in a create-matches request. Singles
// matches carry one ID per side; foursomes and fourball carry two.
type PairingRequest struct {
	TeamA []string `json:"teamA"`
	TeamB []string `json:"teamB"`
}

// CreateMatchesRequest is the JSON body for POST /api/games/:gameId/create-matches.
type CreateMatchesRequest struct {
	DayNumber int              `json:"dayNumber"`
	Format    string           `json:"format"`
	Pairings  []PairingRequest `json:"pairings"`
}

// CreateMatches builds the matches for one day of the tournament. Creator
// only. Match numbers continue after any matches the day already has.
func CreateMatches(db *gorm.DB, hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		game, ok := loadOwnedGame(c, db, "gameId")
		if !ok {
			return nil
		}

		var req CreateMatchesRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		if req.DayNumber < 1 {
			return badRequest(c, "dayNumber must be at least 1")
		}
		format := models.MatchFormat(req.Format)
		switch format {
		case models.MatchFormatSingles, models.MatchFormatFoursomes, models.MatchFormatFourball:
		default:
			return badRequest(c, "format must be singles, foursomes, or fourball")
		}
		if len(req.Pairings) == 0 {
			return badRequest(c, "at least one pairing is required")
		}

		playersPerSide := 2
		if format == models.MatchFormatSingles {
			playersPerSide = 1
		}

		var nextNumber int64
		err := db.Model(&models.Match{}).
			Where("game_id = ? AND day_number = ?", game.ID, req.DayNumber).
			Count(&nextNumber).Error
		if err != nil {
			return serverError(c)
		}

		matches := make([]models.Match, 0, len(req.Pairings))
		for i, pairing := range req.Pairings {
			if len(pairing.TeamA) != playersPerSide || len(pairing.TeamB) != playersPerSide {
				return badRequest(c, "each side needs exactly the number of players the format calls for")
			}

			match := models.Match{
				GameID:      game.ID,
				DayNumber:   req.DayNumber,
				MatchNumber: int(nextNumber) + i + 1,
				Format:      format,
				Status:      models.MatchStatusNotStarted,
			}

			ids, err := parsePlayerIDs(append(pairing.TeamA, pairing.TeamB...))
			if err != nil {
				return badRequest(c, "invalid player id in pairing")
			}
			match.TeamAPlayer1ID = &ids[0]
			if playersPerSide == 2 {
				match.TeamAPlayer2ID = &ids[1]
				match.TeamBPlayer1ID = &ids[2]
				match.TeamBPlayer2ID = &ids[3]
			} else {
				match.TeamBPlayer1ID = &ids[1]
			}

			matches = append(matches, match)
		}

		if err := db.Create(&matches).Error; err != nil {
			return serverError(c)
		}

		broadcastScoreUpdate(db, hub, game.ID)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Matches created",
			"matches": matches,
		})
	}
}

func parsePlayerIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// MatchResponse is a match decorated with player names and the display
// margin, so the client never has to join rosters itself.
type MatchResponse struct {
	models.Match
	TeamAPlayers []string `json:"teamAPlayers"`
	TeamBPlayers []string `json:"teamBPlayers"`
	Margin       string   `json:"margin"`
}

// matchResponse resolves the lineup names through the roster map and formats
// the margin from the match's recomputed result.
func matchResponse(m *models.Match, names map[uuid.UUID]string) MatchResponse {
	resp := MatchResponse{Match: *m}
	for _, id := range []*uuid.UUID{m.TeamAPlayer1ID, m.TeamAPlayer2ID} {
		if id != nil {
			resp.TeamAPlayers = append(resp.TeamAPlayers, names[*id])
		}
	}
	for _, id := range []*uuid.UUID{m.TeamBPlayer1ID, m.TeamBPlayer2ID} {
		if id != nil {
			resp.TeamBPlayers = append(resp.TeamBPlayers, names[*id])
		}
	}
	resp.Margin = matchResult(m).Margin(scoring.HolesPerRound)
	return resp
}

// matchResult reconstructs a scoring.Result from the match's stored fields.
func matchResult(m *models.Match) scoring.Result {
	result := scoring.Result{
		TeamAScore:  m.TeamAScore,
		TeamBScore:  m.TeamBScore,
		HolesPlayed: m.HolesPlayed,
		Status:      scoring.MatchStatus(m.Status),
	}
	if m.Winner != nil {
		result.Winner = *m.Winner
	}
	return result
}

// rosterNames maps player IDs to names for one game.
func rosterNames(db *gorm.DB, gameID uuid.UUID) (map[uuid.UUID]string, error) {
	var players []models.GamePlayer
	if err := db.Where("game_id = ?", gameID).Find(&players).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names, nil
}

// GetMatches lists a game's matches in day and match order.
func GetMatches(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID, ok := parseUUIDParam(c, "gameId")
		if !ok {
			return badRequest(c, "invalid game id")
		}

		var matches []models.Match
		err := db.Where("game_id = ?", gameID).
			Order("day_number ASC, match_number ASC").
			Find(&matches).Error
		if err != nil {
			return serverError(c)
		}

		names, err := rosterNames(db, gameID)
		if err != nil {
			return serverError(c)
		}

		responses := make([]MatchResponse, len(matches))
		for i := range matches {
			responses[i] = matchResponse(&matches[i], names)
		}

		return c.JSON(fiber.Map{"matches": responses})
	}
}

// GetMatch returns one match with its holes, in hole order.
func GetMatch(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, ok := parseUUIDParam(c, "matchId")
		if !ok {
			return badRequest(c, "invalid match id")
		}

		var match models.Match
		if err := db.First(&match, "id = ?", matchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "match not found")
			}
			return serverError(c)
		}

		var holes []models.Hole
		err := db.Where("match_id = ?", match.ID).
			Order("hole_number ASC").
			Find(&holes).Error
		if err != nil {
			return serverError(c)
		}

		names, err := rosterNames(db, match.GameID)
		if err != nil {
			return serverError(c)
		}

		return c.JSON(fiber.Map{
			"match": matchResponse(&match, names),
			"holes": holes,
		})
	}
}

// DeleteMatch removes one match, renumbers the rest of its day, and
// recomputes the team totals. Creator only.
func DeleteMatch(db *gorm.DB, hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		game, ok := loadOwnedGame(c, db, "gameId")
		if !ok {
			return nil
		}
		matchID, ok := parseUUIDParam(c, "matchId")
		if !ok {
			return badRequest(c, "invalid match id")
		}

		var match models.Match
		if err := db.First(&match, "id = ? AND game_id = ?", matchID, game.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "match not found")
			}
			return serverError(c)
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&match).Error; err != nil {
				return err
			}
			// Close the gap so the day's matches stay numbered 1..n.
			return tx.Model(&models.Match{}).
				Where("game_id = ? AND day_number = ? AND match_number > ?",
					game.ID, match.DayNumber, match.MatchNumber).
				UpdateColumn("match_number", gorm.Expr("match_number - 1")).Error
		})
		if txErr != nil {
			return serverError(c)
		}

		if err := refreshTeamTotals(db, game.ID); err != nil {
			return serverError(c)
		}
		broadcastScoreUpdate(db, hub, game.ID)

		return c.JSON(fiber.Map{"message": "Match deleted"})
	}
}

// DeleteAllMatches clears every match in a game. Creator only.
func DeleteAllMatches(db *gorm.DB, hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		game, ok := loadOwnedGame(c, db, "gameId")
		if !ok {
			return nil
		}

		if err := db.Where("game_id = ?", game.ID).Delete(&models.Match{}).Error; err != nil {
			return serverError(c)
		}

		if err := refreshTeamTotals(db, game.ID); err != nil {
			return serverError(c)
		}
		broadcastScoreUpdate(db, hub, game.ID)

		return c.JSON(fiber.Map{"message": "All matches deleted"})
	}
}

// RecordHoleRequest is the JSON body for POST /api/games/match/:matchId/record-hole.
type RecordHoleRequest struct {
	HoleNumber int    `json:"holeNumber"`
	Winner     string `json:"winner"` // "A", "B", or "halved"
}

// RecordHole stores one hole's outcome and recomputes the match from its
// holes. Recording the same hole again overwrites it, which is how score
// corrections work. Rejected outside the game's scoring window.
func RecordHole(db *gorm.DB, hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, ok := parseUUIDParam(c, "matchId")
		if !ok {
			return badRequest(c, "invalid match id")
		}

		var req RecordHoleRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		if req.HoleNumber < 1 || req.HoleNumber > scoring.HolesPerRound {
			return badRequest(c, "holeNumber must be between 1 and 18")
		}
		switch req.Winner {
		case string(scoring.SideA), string(scoring.SideB), scoring.WinnerHalved:
		default:
			return badRequest(c, `winner must be "A", "B", or "halved"`)
		}

		var match models.Match
		if err := db.First(&match, "id = ?", matchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "match not found")
			}
			return serverError(c)
		}

		var game models.Game
		if err := db.First(&game, "id = ?", match.GameID).Error; err != nil {
			return serverError(c)
		}
		now := time.Now()
		if !scoringOpen(&game, now) {
			if now.Before(game.UnlocksAt) {
				return forbidden(c, "scoring hasn't opened for this game yet")
			}
			return forbidden(c, "scoring has closed for this game")
		}

		var result scoring.Result
		txErr := db.Transaction(func(tx *gorm.DB) error {
			var hole models.Hole
			err := tx.First(&hole, "match_id = ? AND hole_number = ?", match.ID, req.HoleNumber).Error
			switch {
			case err == nil:
				if err := tx.Model(&hole).Update("winner", req.Winner).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				hole = models.Hole{MatchID: match.ID, HoleNumber: req.HoleNumber, Winner: req.Winner}
				if err := tx.Create(&hole).Error; err != nil {
					return err
				}
			default:
				return err
			}

			result, err = recomputeMatch(tx, &match)
			return err
		})
		if txErr != nil {
			return serverError(c)
		}

		if err := refreshTeamTotals(db, match.GameID); err != nil {
			return serverError(c)
		}
		broadcastScoreUpdate(db, hub, match.GameID)

		return c.JSON(fiber.Map{
			"message": "Hole recorded",
			"match":   match,
			"result":  result,
			"margin":  result.Margin(scoring.HolesPerRound),
		})
	}
}

// DeleteFromHoleRequest is the JSON body for POST /api/games/match/:matchId/delete-from-hole.
type DeleteFromHoleRequest struct {
	FromHole int `json:"fromHole"`
}

// DeleteFromHole erases a hole and everything after it, then recomputes the
// match. This is the undo for "we entered the back nine against the wrong
// match". A completed match reopens if its clinching holes are erased.
func DeleteFromHole(db *gorm.DB, hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, ok := parseUUIDParam(c, "matchId")
		if !ok {
			return badRequest(c, "invalid match id")
		}

		var req DeleteFromHoleRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		if req.FromHole < 1 {
			return badRequest(c, "fromHole must be at least 1")
		}

		var match models.Match
		if err := db.First(&match, "id = ?", matchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "match not found")
			}
			return serverError(c)
		}

		var result scoring.Result
		txErr := db.Transaction(func(tx *gorm.DB) error {
			err := tx.Where("match_id = ? AND hole_number >= ?", match.ID, req.FromHole).
				Delete(&models.Hole{}).Error
			if err != nil {
				return err
			}
			result, err = recomputeMatch(tx, &match)
			return err
		})
		if txErr != nil {
			return serverError(c)
		}

		if err := refreshTeamTotals(db, match.GameID); err != nil {
			return serverError(c)
		}
		broadcastScoreUpdate(db, hub, match.GameID)

		return c.JSON(fiber.Map{
			"message": "Holes deleted",
			"match":   match,
			"result":  result,
			"margin":  result.Margin(scoring.HolesPerRound),
		})
	}
}

// recomputeMatch rereads a match's holes, scores them, and persists the
// derived fields back onto the match row (and the passed struct).
func recomputeMatch(tx *gorm.DB, match *models.Match) (scoring.Result, error) {
	var holes []models.Hole
	err := tx.Where("match_id = ?", match.ID).
		Order("hole_number ASC").
		Find(&holes).Error
	if err != nil {
		return scoring.Result{}, err
	}

	holeResults := make([]scoring.HoleResult, len(holes))
	for i, h := range holes {
		holeResults[i] = scoring.HoleResult{HoleNumber: h.HoleNumber, Winner: h.Winner}
	}

	result := scoring.ScoreMatch(holeResults, scoring.HolesPerRound)

	updates := map[string]interface{}{
		"team_a_score": result.TeamAScore,
		"team_b_score": result.TeamBScore,
		"holes_played": result.HolesPlayed,
		"status":       string(result.Status),
	}
	if result.Winner != "" {
		updates["winner"] = result.Winner
	} else {
		updates["winner"] = nil
	}
	if err := tx.Model(match).Updates(updates).Error; err != nil {
		return scoring.Result{}, err
	}

	match.TeamAScore = result.TeamAScore
	match.TeamBScore = result.TeamBScore
	match.HolesPlayed = result.HolesPlayed
	match.Status = models.MatchStatus(result.Status)
	if result.Winner != "" {
		w := result.Winner
		match.Winner = &w
	} else {
		match.Winner = nil
	}
	return result, nil
}

// gameStandings aggregates a game's matches into team points.
func gameStandings(db *gorm.DB, gameID uuid.UUID) (scoring.Standings, []models.Match, error) {
	var matches []models.Match
	err := db.Where("game_id = ?", gameID).
		Order("day_number ASC, match_number ASC").
		Find(&matches).Error
	if err != nil {
		return scoring.Standings{}, nil, err
	}

	return scoring.AggregateScores(toOutcomes(matches)), matches, nil
}

// refreshTeamTotals recomputes the game's cached team points from its
// matches. The cache only exists so game lists can show scores without
// loading matches; reads that matter recompute.
func refreshTeamTotals(db *gorm.DB, gameID uuid.UUID) error {
	standings, _, err := gameStandings(db, gameID)
	if err != nil {
		return err
	}
	return db.Model(&models.Game{}).Where("id = ?", gameID).Updates(map[string]interface{}{
		"team_a_score": standings.TeamAPoints,
		"team_b_score": standings.TeamBPoints,
	}).Error
}

// GetLeaderboard returns the game's team points and per-match summaries.
func GetLeaderboard(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID, ok := parseUUIDParam(c, "gameId")
		if !ok {
			return badRequest(c, "invalid game id")
		}

		var game models.Game
		if err := db.First(&game, "id = ?", gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "game not found")
			}
			return serverError(c)
		}

		standings, matches, err := gameStandings(db, gameID)
		if err != nil {
			return serverError(c)
		}

		names, err := rosterNames(db, gameID)
		if err != nil {
			return serverError(c)
		}
		responses := make([]MatchResponse, len(matches))
		for i := range matches {
			responses[i] = matchResponse(&matches[i], names)
		}

		return c.JSON(fiber.Map{
			"teamA": fiber.Map{
				"name":   game.TeamAName,
				"color":  game.TeamAColor,
				"points": standings.TeamAPoints,
			},
			"teamB": fiber.Map{
				"name":   game.TeamBName,
				"color":  game.TeamBColor,
				"points": standings.TeamBPoints,
			},
			"completedMatches": scoring.CompletedCount(toOutcomes(matches)),
			"totalMatches":     len(matches),
			"matches":          responses,
		})
	}
}

func toOutcomes(matches []models.Match) []scoring.MatchOutcome {
	outcomes := make([]scoring.MatchOutcome, len(matches))
	for i, m := range matches {
		outcomes[i] = scoring.MatchOutcome{Status: scoring.MatchStatus(m.Status)}
		if m.Winner != nil {
			outcomes[i].Winner = *m.Winner
		}
	}
	return outcomes
}

// broadcastScoreUpdate pushes the fresh standings to everyone watching the
// game. Failures are ignored; the next poll or mutation catches watchers up.
func broadcastScoreUpdate(db *gorm.DB, hub *websocket.Hub, gameID uuid.UUID) {
	standings, matches, err := gameStandings(db, gameID)
	if err != nil {
		return
	}
	data, err := json.Marshal(fiber.Map{
		"type":             "score",
		"teamAPoints":      standings.TeamAPoints,
		"teamBPoints":      standings.TeamBPoints,
		"completedMatches": scoring.CompletedCount(toOutcomes(matches)),
		"totalMatches":     len(matches),
	})
	if err != nil {
		return
	}
	hub.BroadcastToGame(gameID.String(), data)
}
