// Entry point for the Open Invitational API server: loads config, connects
// to Postgres, runs migrations, starts the WebSocket hub, and wires every
// route to its handler.
package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/trentd187/open-invitational/internal/config"
	"github.com/trentd187/open-invitational/internal/database"
	"github.com/trentd187/open-invitational/internal/email"
	"github.com/trentd187/open-invitational/internal/handlers"
	"github.com/trentd187/open-invitational/internal/logging"
	"github.com/trentd187/open-invitational/internal/middleware"
	"github.com/trentd187/open-invitational/internal/websocket"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	// Migrations run on every boot so the schema is always in sync with the
	// code that's about to serve traffic.
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	// The Hub fans score and draft updates out to everyone watching a game.
	hub := websocket.NewHub()
	go hub.Run()

	mailer := email.NewService(cfg, log)

	app := fiber.New(fiber.Config{
		AppName: "Open Invitational API",
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", handlers.HealthCheck)

	// --- Auth ---
	auth := app.Group("/api/auth")
	auth.Post("/register", handlers.Register(db, cfg))
	auth.Post("/login", handlers.Login(db, cfg))
	auth.Post("/forgot-password", handlers.ForgotPassword(db, mailer))
	auth.Post("/reset-password", handlers.ResetPassword(db))
	auth.Get("/verify-reset-token/:token", handlers.VerifyResetToken(db))

	// --- Games ---
	// Creator-only routes carry Auth; lobby and scoring routes stay open so
	// invited players can participate without an account. Static-prefix
	// routes are registered before the :id/:gameId wildcards so Fiber never
	// swallows "my-games" or "code" as a game id.
	games := app.Group("/api/games")

	games.Get("/my-games", middleware.Auth(cfg), handlers.GetMyGames(db))
	games.Get("/code/:code", handlers.GetGameByCode(db))
	games.Post("/checkin/:token", handlers.CheckInPlayer(db))
	games.Post("/add-player", middleware.OptionalAuth(cfg), handlers.AddPlayer(db, mailer))

	games.Put("/player/:playerId", handlers.UpdatePlayer(db))
	games.Delete("/player/:playerId", handlers.DeletePlayer(db))
	games.Post("/player/:playerId/send-invite", handlers.SendInvite(db, mailer))
	games.Post("/:gameId/send-reminders", middleware.Auth(cfg), handlers.SendReminders(db, mailer))

	games.Get("/match/:matchId", handlers.GetMatch(db))
	games.Post("/match/:matchId/record-hole", handlers.RecordHole(db, hub))
	games.Post("/match/:matchId/delete-from-hole", handlers.DeleteFromHole(db, hub))

	games.Post("/create", middleware.Auth(cfg), handlers.CreateGame(db))
	games.Get("/:id", handlers.GetGame(db))
	games.Delete("/:id", middleware.Auth(cfg), handlers.DeleteGame(db))
	games.Post("/:id/reset-draft", middleware.Auth(cfg), handlers.ResetDraft(db))

	games.Put("/:gameId/teams", middleware.Auth(cfg), handlers.UpdateTeams(db))
	games.Get("/:gameId/scoring-access", handlers.CheckScoringAccess(db))
	games.Get("/:gameId/players", handlers.GetPlayers(db))

	games.Post("/:gameId/draft-pick", handlers.SaveDraftPick(db, hub))
	games.Post("/:gameId/auto-draft-random", middleware.Auth(cfg), handlers.AutoDraftRandom(db, hub))
	games.Post("/:gameId/auto-draft-balanced", middleware.Auth(cfg), handlers.AutoDraftBalanced(db, hub))
	games.Post("/:gameId/finalize-draft", middleware.Auth(cfg), handlers.FinalizeDraft(db, hub))

	games.Post("/:gameId/create-matches", middleware.Auth(cfg), handlers.CreateMatches(db, hub))
	games.Get("/:gameId/matches", handlers.GetMatches(db))
	games.Delete("/:gameId/matches", middleware.Auth(cfg), handlers.DeleteAllMatches(db, hub))
	games.Delete("/:gameId/match/:matchId", middleware.Auth(cfg), handlers.DeleteMatch(db, hub))
	games.Get("/:gameId/leaderboard", handlers.GetLeaderboard(db))

	// --- Live updates ---
	app.Use("/ws", websocket.Upgrade)
	app.Get("/ws/games/:id", websocket.ServeGame(hub))

	log.WithField("port", cfg.Port).Info("starting server")
	log.Fatal(app.Listen(":" + cfg.Port))
}
