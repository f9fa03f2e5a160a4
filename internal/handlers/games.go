// games.go — lifecycle of a tournament: create, look up, delete, reset the
// draft, rename teams, and check whether the scoring window is open.
package handlers

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/trentd187/open-invitational/internal/models"
	"gorm.io/gorm"
)

const (
	// gameCodeAlphabet omits 0/O/1/I so codes read unambiguously off a phone
	// screen or a scorecard.
	gameCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	gameCodeLength   = 6

	// Scoring opens 24 hours before the first round and closes a week after
	// the last, so late score corrections are still possible but a game can't
	// be edited forever.
	scoringLeadTime  = 24 * time.Hour
	scoringGraceTime = 7 * 24 * time.Hour

	dateLayout = "2006-01-02"
)

// newGameCode returns a random 6-character join code. Uniqueness is enforced
// by the database; CreateGame retries on the (rare) collision.
func newGameCode() string {
	buf := make([]byte, gameCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	code := make([]byte, gameCodeLength)
	for i, b := range buf {
		code[i] = gameCodeAlphabet[int(b)%len(gameCodeAlphabet)]
	}
	return string(code)
}

// DayRequest describes one round of the tournament in a create request.
type DayRequest struct {
	Date       string   `json:"date"`    // "2006-01-02"
	Formats    []string `json:"formats"` // e.g. ["fourball", "singles"]
	NumMatches int      `json:"numMatches"`
}

// CreateGameRequest is the JSON body for POST /api/games/create.
type CreateGameRequest struct {
	Name       string       `json:"name"`
	Days       []DayRequest `json:"days"`
	DraftMode  string       `json:"draftMode"`
	MaxPlayers *int         `json:"maxPlayers"`
	TeamAName  string       `json:"teamAName"`
	TeamBName  string       `json:"teamBName"`
	TeamAColor string       `json:"teamAColor"`
	TeamBColor string       `json:"teamBColor"`
}

// CreateGame creates a tournament with its days and join code. The creator
// becomes the game's owner; the scoring window is derived from the first and
// last day.
func CreateGame(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := currentUser(c)
		if !ok {
			return unauthorized(c, "authentication required")
		}

		var req CreateGameRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		if req.Name == "" {
			return badRequest(c, "game name is required")
		}
		if len(req.Days) == 0 {
			return badRequest(c, "at least one tournament day is required")
		}

		var draftMode *models.DraftMode
		if req.DraftMode != "" {
			mode := models.DraftMode(req.DraftMode)
			switch mode {
			case models.DraftModeCaptains, models.DraftModeRandom, models.DraftModeBalanced:
				draftMode = &mode
			default:
				return badRequest(c, "draftMode must be captains, random, or balanced")
			}
		}

		days := make([]models.GameDay, 0, len(req.Days))
		for i, d := range req.Days {
			date, err := time.Parse(dateLayout, d.Date)
			if err != nil {
				return badRequest(c, "day dates must be YYYY-MM-DD")
			}
			days = append(days, models.GameDay{
				DayNumber:  i + 1,
				Date:       date,
				Format:     strings.Join(d.Formats, ","),
				NumMatches: d.NumMatches,
			})
		}

		firstDay := days[0].Date
		lastDay := days[len(days)-1].Date

		game := models.Game{
			Name:           req.Name,
			CreatedBy:      userID,
			NumDays:        len(days),
			Status:         models.GameStatusLobby,
			DraftMode:      draftMode,
			TournamentDate: firstDay,
			UnlocksAt:      firstDay.Add(-scoringLeadTime),
			ExpiresAt:      lastDay.Add(scoringGraceTime),
			MaxPlayers:     req.MaxPlayers,
			Days:           days,
		}
		if req.TeamAName != "" {
			game.TeamAName = req.TeamAName
		}
		if req.TeamBName != "" {
			game.TeamBName = req.TeamBName
		}
		if req.TeamAColor != "" {
			game.TeamAColor = req.TeamAColor
		}
		if req.TeamBColor != "" {
			game.TeamBColor = req.TeamBColor
		}

		// Retry a handful of times in case the random code collides with an
		// existing game. With a 32^6 code space collisions are vanishingly
		// rare, but the unique index makes sure we never hand out a dup.
		var createErr error
		for attempt := 0; attempt < 5; attempt++ {
			game.GameCode = newGameCode()
			createErr = db.Create(&game).Error
			if createErr == nil {
				break
			}
		}
		if createErr != nil {
			return serverError(c)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Game created successfully",
			"game":    game,
		})
	}
}

// GetGame returns one game with its days and players.
func GetGame(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID, ok := parseUUIDParam(c, "id")
		if !ok {
			return badRequest(c, "invalid game id")
		}

		var game models.Game
		err := db.Preload("Days").Preload("Players").First(&game, "id = ?", gameID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "game not found")
			}
			return serverError(c)
		}

		return c.JSON(fiber.Map{"game": game})
	}
}

// GetGameByCode looks a game up by its join code. This route is public so
// players without accounts can reach the lobby.
func GetGameByCode(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.ToUpper(strings.TrimSpace(c.Params("code")))
		if len(code) != gameCodeLength {
			return badRequest(c, "invalid game code")
		}

		var game models.Game
		err := db.Preload("Days").Preload("Players").First(&game, "game_code = ?", code).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "game not found")
			}
			return serverError(c)
		}

		return c.JSON(fiber.Map{"game": game})
	}
}

// GameSummary is one entry in the my-games list: the game plus the derived
// bits the dashboard shows without loading the full roster.
type GameSummary struct {
	models.Game
	PlayerCount int              `json:"playerCount"`
	Phase       models.GamePhase `json:"phase"`
}

// GetMyGames lists the games the authenticated user created, newest first,
// with roster size and scoring-window phase.
func GetMyGames(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := currentUser(c)
		if !ok {
			return unauthorized(c, "authentication required")
		}

		var games []models.Game
		err := db.Preload("Days").Preload("Players").
			Where("created_by = ?", userID).
			Order("tournament_date DESC").
			Find(&games).Error
		if err != nil {
			return serverError(c)
		}

		now := time.Now()
		summaries := make([]GameSummary, len(games))
		for i, g := range games {
			summaries[i] = GameSummary{
				Game:        g,
				PlayerCount: len(g.Players),
				Phase:       g.Phase(now),
			}
		}

		return c.JSON(fiber.Map{"games": summaries})
	}
}

// loadOwnedGame fetches a game and checks the requester created it. It writes
// the error response itself and returns ok=false when the caller should bail.
func loadOwnedGame(c *fiber.Ctx, db *gorm.DB, paramName string) (*models.Game, bool) {
	gameID, ok := parseUUIDParam(c, paramName)
	if !ok {
		_ = badRequest(c, "invalid game id")
		return nil, false
	}
	userID, ok := currentUser(c)
	if !ok {
		_ = unauthorized(c, "authentication required")
		return nil, false
	}

	var game models.Game
	if err := db.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = notFound(c, "game not found")
		} else {
			_ = serverError(c)
		}
		return nil, false
	}
	if game.CreatedBy != userID {
		_ = forbidden(c, "only the game creator can do that")
		return nil, false
	}
	return &game, true
}

// DeleteGame removes a game and everything under it. Creator only.
func DeleteGame(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		game, ok := loadOwnedGame(c, db, "id")
		if !ok {
			return nil
		}

		// Child rows (days, players, picks, matches, holes) go via ON DELETE
		// CASCADE in the schema.
		if err := db.Delete(game).Error; err != nil {
			return serverError(c)
		}

		return c.JSON(fiber.Map{"message": "Game deleted"})
	}
}

// draftResetPlayerUpdates clears one player's draft state. Captain flags go
// too: the draft being voided is the one that made them captains.
func draftResetPlayerUpdates() map[string]interface{} {
	return map[string]interface{}{
		"team":       nil,
		"is_captain": false,
	}
}

// draftResetGameUpdates returns a game to an undrafted lobby. draft_mode is
// nulled so the next draft records its own mode instead of inheriting the
// voided one.
func draftResetGameUpdates() map[string]interface{} {
	return map[string]interface{}{
		"status":       models.GameStatusLobby,
		"draft_mode":   nil,
		"team_a_score": 0,
		"team_b_score": 0,
	}
}

// ResetDraft throws the game back to the lobby: matches (and their holes, via
// cascade), draft picks, team assignments, and captain flags are wiped, the
// draft mode is cleared, and the cached team scores zeroed.
func ResetDraft(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		game, ok := loadOwnedGame(c, db, "id")
		if !ok {
			return nil
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("game_id = ?", game.ID).Delete(&models.Match{}).Error; err != nil {
				return err
			}
			if err := tx.Where("game_id = ?", game.ID).Delete(&models.DraftPick{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.GamePlayer{}).
				Where("game_id = ?", game.ID).
				Updates(draftResetPlayerUpdates()).Error; err != nil {
				return err
			}
			return tx.Model(game).Updates(draftResetGameUpdates()).Error
		})
		if err != nil {
			return serverError(c)
		}

		return c.JSON(fiber.Map{"message": "Draft reset", "status": models.GameStatusLobby})
	}
}

// UpdateTeamsRequest carries optional team cosmetics; only fields present in
// the body are changed.
type UpdateTeamsRequest struct {
	TeamAName  *string `json:"teamAName"`
	TeamBName  *string `json:"teamBName"`
	TeamAColor *string `json:"teamAColor"`
	TeamBColor *string `json:"teamBColor"`
}

// UpdateTeams renames or recolors the two teams. Creator only.
func UpdateTeams(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		game, ok := loadOwnedGame(c, db, "gameId")
		if !ok {
			return nil
		}

		var req UpdateTeamsRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}

		updates := map[string]interface{}{}
		if req.TeamAName != nil {
			updates["team_a_name"] = *req.TeamAName
		}
		if req.TeamBName != nil {
			updates["team_b_name"] = *req.TeamBName
		}
		if req.TeamAColor != nil {
			updates["team_a_color"] = *req.TeamAColor
		}
		if req.TeamBColor != nil {
			updates["team_b_color"] = *req.TeamBColor
		}
		if len(updates) == 0 {
			return badRequest(c, "no team fields to update")
		}

		if err := db.Model(game).Updates(updates).Error; err != nil {
			return serverError(c)
		}

		var fresh models.Game
		if err := db.First(&fresh, "id = ?", game.ID).Error; err != nil {
			return serverError(c)
		}
		return c.JSON(fiber.Map{"message": "Teams updated", "game": fresh})
	}
}

// CheckScoringAccess tells the client whether scores can be entered right now
// and, if not, when the window opens or when it closed.
func CheckScoringAccess(db *gorm.DB) fiber.Handler {
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

		now := time.Now()
		reason := ""
		switch {
		case now.Before(game.UnlocksAt):
			reason = "scoring opens 24 hours before the tournament"
		case now.After(game.ExpiresAt):
			reason = "this game has ended"
		}

		return c.JSON(fiber.Map{
			"canScore":  scoringOpen(&game, now),
			"reason":    reason,
			"phase":     game.Phase(now),
			"unlocksAt": game.UnlocksAt,
			"expiresAt": game.ExpiresAt,
		})
	}
}

// scoringOpen reports whether the scoring window is open at the given time.
func scoringOpen(game *models.Game, now time.Time) bool {
	return !now.Before(game.UnlocksAt) && !now.After(game.ExpiresAt)
}
