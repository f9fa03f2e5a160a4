// draft.go — dividing the roster onto the two teams: manual captain picks,
// the two auto-draft modes, and locking the result in.
package handlers

import (
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/trentd187/open-invitational/internal/models"
	"github.com/trentd187/open-invitational/internal/scoring"
	"github.com/trentd187/open-invitational/internal/websocket"
	"gorm.io/gorm"
)

// DraftPickRequest is the JSON body for POST /api/games/:gameId/draft-pick.
type DraftPickRequest struct {
	PlayerID   string `json:"playerId"`
	PickNumber int    `json:"pickNumber"`
}

// SaveDraftPick records one captain's pick. The team is derived from the pick
// number by the snake order, never trusted from the client. Replaying the
// same pick is a no-op so a double-tap can't corrupt the draft.
func SaveDraftPick(db *gorm.DB, hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID, ok := parseUUIDParam(c, "gameId")
		if !ok {
			return badRequest(c, "invalid game id")
		}

		var req DraftPickRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		playerID, err := uuid.Parse(req.PlayerID)
		if err != nil {
			return badRequest(c, "invalid player id")
		}
		if req.PickNumber < 1 {
			return badRequest(c, "pickNumber must be at least 1")
		}

		var player models.GamePlayer
		if err := db.First(&player, "id = ? AND game_id = ?", playerID, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "player not found in this game")
			}
			return serverError(c)
		}

		team := string(scoring.TeamForPick(req.PickNumber))

		// If this pick number was already recorded, accept the replay when it
		// names the same player and reject it otherwise.
		var existing models.DraftPick
		err = db.First(&existing, "game_id = ? AND pick_number = ?", gameID, req.PickNumber).Error
		if err == nil {
			if existing.PlayerID == playerID {
				return c.JSON(fiber.Map{"message": "Pick already recorded", "team": team})
			}
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "that pick number has already been used",
			})
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return serverError(c)
		}

		pick := models.DraftPick{
			GameID:     gameID,
			PlayerID:   playerID,
			PickNumber: req.PickNumber,
			Team:       team,
		}
		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&pick).Error; err != nil {
				return err
			}
			return tx.Model(&player).Update("team", team).Error
		})
		if txErr != nil {
			return serverError(c)
		}

		broadcastDraftUpdate(hub, gameID, "pick", pick)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Pick recorded",
			"pick":    pick,
			"team":    team,
		})
	}
}

// AutoDraftRandom shuffles the unassigned players and snake-drafts them onto
// the teams. Creator only.
func AutoDraftRandom(db *gorm.DB, hub *websocket.Hub) fiber.Handler {
	return autoDraft(db, hub, models.DraftModeRandom, func(pool []scoring.DraftPlayer) []scoring.DraftPlayer {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		return scoring.RandomOrder(pool, rng)
	})
}

// AutoDraftBalanced orders the unassigned players by handicap, best first,
// and snake-drafts them so the two teams end up with similar playing
// strength. Creator only.
func AutoDraftBalanced(db *gorm.DB, hub *websocket.Hub) fiber.Handler {
	return autoDraft(db, hub, models.DraftModeBalanced, scoring.BalancedOrder)
}

// autoDraft is the shared engine behind both auto-draft modes. The ordering
// policy decides who drafts when; everything else is identical: loading the
// unassigned pool, continuing the pick sequence after any manual picks, and
// persisting picks and team assignments.
func autoDraft(db *gorm.DB, hub *websocket.Hub, mode models.DraftMode, order func([]scoring.DraftPlayer) []scoring.DraftPlayer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		game, ok := loadOwnedGame(c, db, "gameId")
		if !ok {
			return nil
		}

		var unassigned []models.GamePlayer
		err := db.Where("game_id = ? AND team IS NULL", game.ID).
			Order("created_at ASC").
			Find(&unassigned).Error
		if err != nil {
			return serverError(c)
		}
		if len(unassigned) < 2 {
			return badRequest(c, "need at least 2 unassigned players to auto-draft")
		}

		var pickCount int64
		if err := db.Model(&models.DraftPick{}).Where("game_id = ?", game.ID).Count(&pickCount).Error; err != nil {
			return serverError(c)
		}

		pool := make([]scoring.DraftPlayer, len(unassigned))
		byID := make(map[uuid.UUID]*models.GamePlayer, len(unassigned))
		for i := range unassigned {
			p := &unassigned[i]
			pool[i] = scoring.DraftPlayer{ID: p.ID, Name: p.Name, Handicap: p.Handicap}
			byID[p.ID] = p
		}

		result := scoring.AssignSnakeDraft(order(pool), int(pickCount)+1)

		picks := make([]models.DraftPick, 0, len(result.Picks))
		txErr := db.Transaction(func(tx *gorm.DB) error {
			for _, pick := range result.Picks {
				row := models.DraftPick{
					GameID:     game.ID,
					PlayerID:   pick.Player.ID,
					PickNumber: pick.PickNumber,
					Team:       string(pick.Team),
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
				if err := tx.Model(byID[pick.Player.ID]).Update("team", string(pick.Team)).Error; err != nil {
					return err
				}
				picks = append(picks, row)
			}
			return tx.Model(game).Update("draft_mode", mode).Error
		})
		if txErr != nil {
			return serverError(c)
		}

		broadcastDraftUpdate(hub, game.ID, "auto_draft", picks)

		return c.JSON(fiber.Map{
			"message": "Auto-draft complete",
			"picks":   picks,
			"teamA":   result.TeamA,
			"teamB":   result.TeamB,
		})
	}
}

// FinalizeDraft locks the draft in once every player has a team and moves the
// game out of the lobby. Creator only.
func FinalizeDraft(db *gorm.DB, hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		game, ok := loadOwnedGame(c, db, "gameId")
		if !ok {
			return nil
		}

		var unassigned int64
		err := db.Model(&models.GamePlayer{}).
			Where("game_id = ? AND team IS NULL", game.ID).
			Count(&unassigned).Error
		if err != nil {
			return serverError(c)
		}
		if unassigned > 0 {
			return badRequest(c, "every player needs a team before the draft can be finalized")
		}

		updates := map[string]interface{}{"status": models.GameStatusDraftComplete}
		// An auto-draft already stamped its mode; a finished manual draft
		// means the captains ran it.
		if game.DraftMode == nil {
			updates["draft_mode"] = models.DraftModeCaptains
		}
		if err := db.Model(game).Updates(updates).Error; err != nil {
			return serverError(c)
		}

		var players []models.GamePlayer
		if err := db.Where("game_id = ?", game.ID).Find(&players).Error; err != nil {
			return serverError(c)
		}

		broadcastDraftUpdate(hub, game.ID, "draft_complete", nil)

		return c.JSON(fiber.Map{
			"message": "Draft finalized",
			"status":  models.GameStatusDraftComplete,
			"players": players,
		})
	}
}

// broadcastDraftUpdate pushes a draft event to everyone watching the game's
// lobby so all captains see picks land in real time.
func broadcastDraftUpdate(hub *websocket.Hub, gameID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(fiber.Map{
		"type":    "draft",
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		return
	}
	hub.BroadcastToGame(gameID.String(), data)
}
