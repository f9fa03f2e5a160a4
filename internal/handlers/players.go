// players.go — roster management: adding players to a game, editing them,
// check-in via emailed invite links, and the lobby's check-in stats.
package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/trentd187/open-invitational/internal/email"
	"github.com/trentd187/open-invitational/internal/models"
	"gorm.io/gorm"
)

// AddPlayerRequest is the JSON body for POST /api/games/add-player.
// SendInvite is a tri-state: nil (absent) means yes, so the common path needs
// no flag and organizers can still stage a roster quietly with false.
type AddPlayerRequest struct {
	GameID     string   `json:"gameId"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Handicap   *float64 `json:"handicap"`
	IsCaptain  bool     `json:"isCaptain"`
	SendInvite *bool    `json:"sendInvite"`
}

// shouldSendInvite resolves the tri-state invite toggle: only an explicit
// false suppresses the invite email.
func shouldSendInvite(flag *bool) bool {
	return flag == nil || *flag
}

// gameExpired reports whether a game's edit window has closed. Roster
// mutations are rejected afterwards.
func gameExpired(game *models.Game, now time.Time) bool {
	return now.After(game.ExpiresAt)
}

// AddPlayer puts a player on a game's roster and sends their invite with the
// check-in link.
func AddPlayer(db *gorm.DB, mailer *email.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req AddPlayerRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.GameID == "" || req.Name == "" || req.Email == "" {
			return badRequest(c, "gameId, name, and email are required")
		}
		gameID, err := uuid.Parse(req.GameID)
		if err != nil {
			return badRequest(c, "invalid game id")
		}

		var game models.Game
		if err := db.First(&game, "id = ?", gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "game not found")
			}
			return serverError(c)
		}
		if gameExpired(&game, time.Now()) {
			return badRequest(c, "this game has ended")
		}

		var count int64
		if err := db.Model(&models.GamePlayer{}).Where("game_id = ?", game.ID).Count(&count).Error; err != nil {
			return serverError(c)
		}
		if game.MaxPlayers != nil && count >= int64(*game.MaxPlayers) {
			return badRequest(c, "this game is full")
		}

		var existing models.GamePlayer
		err = db.Where("game_id = ? AND email = ?", game.ID, req.Email).First(&existing).Error
		if err == nil {
			return badRequest(c, "that email is already on the roster")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return serverError(c)
		}

		player := models.GamePlayer{
			GameID:      game.ID,
			Name:        req.Name,
			Email:       req.Email,
			Handicap:    req.Handicap,
			IsCaptain:   req.IsCaptain,
			InviteToken: randomHexToken(32),
		}
		if userID, ok := currentUser(c); ok {
			player.UserID = &userID
		}
		if err := db.Create(&player).Error; err != nil {
			return serverError(c)
		}

		// The invite is best-effort: a mail failure shouldn't undo the roster
		// add, so it only shows up as a missing invite_sent_at.
		if shouldSendInvite(req.SendInvite) {
			if err := mailer.SendPlayerInvite(&player, &game); err == nil {
				now := time.Now()
				player.InviteSentAt = &now
				db.Model(&player).Update("invite_sent_at", now)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Player added",
			"player":  player,
		})
	}
}

// UpdatePlayerRequest carries optional player fields; only fields present in
// the body are changed.
type UpdatePlayerRequest struct {
	Name      *string  `json:"name"`
	Email     *string  `json:"email"`
	Handicap  *float64 `json:"handicap"`
	Team      *string  `json:"team"`
	IsCaptain *bool    `json:"isCaptain"`
}

// UpdatePlayer edits a roster entry. Setting team to "" clears the
// assignment; otherwise team must be "A" or "B".
func UpdatePlayer(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerID, ok := parseUUIDParam(c, "playerId")
		if !ok {
			return badRequest(c, "invalid player id")
		}

		var req UpdatePlayerRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}

		var player models.GamePlayer
		if err := db.First(&player, "id = ?", playerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "player not found")
			}
			return serverError(c)
		}

		var game models.Game
		if err := db.First(&game, "id = ?", player.GameID).Error; err != nil {
			return serverError(c)
		}
		if gameExpired(&game, time.Now()) {
			return badRequest(c, "this game has ended and can no longer be edited")
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Email != nil {
			addr := strings.ToLower(strings.TrimSpace(*req.Email))
			if addr == "" {
				return badRequest(c, "email cannot be empty")
			}
			updates["email"] = addr
		}
		if req.Handicap != nil {
			updates["handicap"] = *req.Handicap
		}
		if req.Team != nil {
			switch *req.Team {
			case "":
				updates["team"] = nil
			case "A", "B":
				updates["team"] = *req.Team
			default:
				return badRequest(c, `team must be "A", "B", or empty`)
			}
		}
		if req.IsCaptain != nil {
			updates["is_captain"] = *req.IsCaptain
		}
		if len(updates) == 0 {
			return badRequest(c, "no player fields to update")
		}

		if err := db.Model(&player).Updates(updates).Error; err != nil {
			return serverError(c)
		}

		var fresh models.GamePlayer
		if err := db.First(&fresh, "id = ?", playerID).Error; err != nil {
			return serverError(c)
		}
		return c.JSON(fiber.Map{"message": "Player updated", "player": fresh})
	}
}

// DeletePlayer removes a player from the roster. Their draft pick, if any,
// goes with them via the schema's cascade. Completed games keep their roster
// for the record books.
func DeletePlayer(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerID, ok := parseUUIDParam(c, "playerId")
		if !ok {
			return badRequest(c, "invalid player id")
		}

		var player models.GamePlayer
		if err := db.First(&player, "id = ?", playerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "player not found")
			}
			return serverError(c)
		}

		var game models.Game
		if err := db.First(&game, "id = ?", player.GameID).Error; err != nil {
			return serverError(c)
		}
		if game.Status == models.GameStatusCompleted {
			return badRequest(c, "cannot remove players from a completed game")
		}

		if err := db.Delete(&player).Error; err != nil {
			return serverError(c)
		}

		return c.JSON(fiber.Map{"message": "Player removed"})
	}
}

// CheckInStats summarises lobby progress for the roster view.
type CheckInStats struct {
	Total     int `json:"total"`
	CheckedIn int `json:"checkedIn"`
	Pending   int `json:"pending"`
}

// GetPlayers lists a game's roster with check-in stats, captains first.
func GetPlayers(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID, ok := parseUUIDParam(c, "gameId")
		if !ok {
			return badRequest(c, "invalid game id")
		}

		var players []models.GamePlayer
		err := db.Where("game_id = ?", gameID).
			Order("is_captain DESC, created_at ASC").
			Find(&players).Error
		if err != nil {
			return serverError(c)
		}

		stats := CheckInStats{Total: len(players)}
		for _, p := range players {
			if p.CheckedIn {
				stats.CheckedIn++
			}
		}
		stats.Pending = stats.Total - stats.CheckedIn

		return c.JSON(fiber.Map{"players": players, "checkInStats": stats})
	}
}

// CheckInPlayer marks a player as checked in via their invite-token link.
// Public route; the token is the authentication. Checking in twice is fine,
// the first timestamp is kept.
func CheckInPlayer(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Params("token")

		var player models.GamePlayer
		if err := db.First(&player, "invite_token = ?", token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "invite not found")
			}
			return serverError(c)
		}

		if !player.CheckedIn {
			now := time.Now()
			updates := map[string]interface{}{
				"checked_in":    true,
				"checked_in_at": now,
			}
			if err := db.Model(&player).Updates(updates).Error; err != nil {
				return serverError(c)
			}
			player.CheckedIn = true
			player.CheckedInAt = &now
		}

		var game models.Game
		if err := db.First(&game, "id = ?", player.GameID).Error; err != nil {
			return serverError(c)
		}

		return c.JSON(fiber.Map{
			"message": "You're checked in!",
			"player":  player,
			"game":    game,
		})
	}
}

// SendInvite (re)sends a player's invite email on demand.
func SendInvite(db *gorm.DB, mailer *email.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerID, ok := parseUUIDParam(c, "playerId")
		if !ok {
			return badRequest(c, "invalid player id")
		}

		var player models.GamePlayer
		if err := db.First(&player, "id = ?", playerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "player not found")
			}
			return serverError(c)
		}
		if player.Email == "" {
			return badRequest(c, "player has no email address")
		}

		var game models.Game
		if err := db.First(&game, "id = ?", player.GameID).Error; err != nil {
			return serverError(c)
		}

		if err := mailer.SendPlayerInvite(&player, &game); err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to send invite"})
		}

		now := time.Now()
		if err := db.Model(&player).Update("invite_sent_at", now).Error; err != nil {
			return serverError(c)
		}

		return c.JSON(fiber.Map{"message": "Invite sent", "sentAt": now})
	}
}

// hoursUntilStart rounds the time to the first tee to whole hours for the
// reminder copy, with a floor of zero once the tournament is underway.
func hoursUntilStart(game *models.Game, now time.Time) int {
	hours := int(game.TournamentDate.Sub(now).Round(time.Hour).Hours())
	if hours < 0 {
		return 0
	}
	return hours
}

// SendReminders nudges every player who hasn't checked in yet. Creator only;
// typically fired the day before the tournament. Individual mail failures
// are skipped so one bad address doesn't stop the rest of the roster's
// reminders.
func SendReminders(db *gorm.DB, mailer *email.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		game, ok := loadOwnedGame(c, db, "gameId")
		if !ok {
			return nil
		}

		var pending []models.GamePlayer
		err := db.Where("game_id = ? AND checked_in = false", game.ID).
			Find(&pending).Error
		if err != nil {
			return serverError(c)
		}

		now := time.Now()
		hours := hoursUntilStart(game, now)
		sent := 0
		for i := range pending {
			player := &pending[i]
			if err := mailer.SendReminder(player, game, hours); err != nil {
				continue
			}
			if err := db.Model(player).Update("reminder_sent_at", now).Error; err != nil {
				return serverError(c)
			}
			sent++
		}

		return c.JSON(fiber.Map{
			"message": "Reminders sent",
			"sent":    sent,
			"pending": len(pending),
		})
	}
}
