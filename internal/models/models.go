// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go
// values. The struct field tags (the backtick strings like `gorm:"..."`) tell GORM
// how to handle each field: its column type, constraints, defaults, and relations.
//
// The data model represents a Ryder-Cup-style golf weekend:
//   - Users create Games (tournaments) with a schedule of GameDays
//   - GamePlayers join a Game by email invite or game code and check in
//   - A draft assigns each GamePlayer to team A or B (DraftPick is the ledger)
//   - Matches pit up to two players per side against each other per day
//   - Holes record who won each hole; match scores and the game's team totals
//     are derived from them by the scoring package
//
// Match scores, match winners, and the game's team_a/team_b point totals are
// caches of the scoring package's output — recomputed on every hole mutation,
// never incremented in place.
package models

import (
	"time"

	// uuid provides universally unique identifiers for primary keys.
	// UUIDs are safe to generate anywhere and don't leak row counts.
	"github.com/google/uuid"
)

// --- Enums ---
// Go has no enum keyword, so we use named string types plus constants.
// The values stay human-readable in the database and in JSON.

// GameStatus tracks where a game is in its lifecycle.
type GameStatus string

const (
	GameStatusLobby         GameStatus = "lobby"          // collecting players, draft not done
	GameStatusDraftComplete GameStatus = "draft_complete" // teams locked in, matches being set up
	GameStatusCompleted     GameStatus = "completed"      // tournament finished
)

// GamePhase is derived from the scoring window, not stored: lobby before the
// window opens (24h before the tournament date), live inside it, expired
// after it closes (7 days after).
type GamePhase string

const (
	GamePhaseLobby   GamePhase = "lobby"
	GamePhaseLive    GamePhase = "live"
	GamePhaseExpired GamePhase = "expired"
)

// DraftMode records how the teams were assembled.
type DraftMode string

const (
	DraftModeCaptains DraftMode = "captains" // captains pick one player at a time
	DraftModeRandom   DraftMode = "random"   // seeded shuffle + snake assignment
	DraftModeBalanced DraftMode = "balanced" // handicap sort + snake assignment
)

// MatchFormat describes how many players per side play a match.
type MatchFormat string

const (
	MatchFormatSingles   MatchFormat = "singles"   // 1v1
	MatchFormatFoursomes MatchFormat = "foursomes" // 2v2, alternate shot
	MatchFormatFourball  MatchFormat = "fourball"  // 2v2, best ball
)

// MatchStatus mirrors scoring.MatchStatus; duplicated here so the models
// package doesn't need to import the scoring package.
type MatchStatus string

const (
	MatchStatusNotStarted MatchStatus = "not_started"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

// --- Models ---
// Each struct maps to a table: User -> users, Game -> games, and so on.

// User is a registered account. Only game creators need an account — invited
// players participate through their GamePlayer row and check-in token.
type User struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email             string    `gorm:"uniqueIndex;not null"`
	Name              string    `gorm:"not null"`
	PasswordHash      string    `gorm:"not null"` // bcrypt hash; never serialised to JSON
	ResetToken        *string   `gorm:"index"`    // password-reset token; nil unless a reset is pending
	ResetTokenExpires *time.Time // reset token valid until this time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Game is one tournament: a named event on a date with a day/session
// schedule, two teams, a shareable join code, and a scoring window.
type Game struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string     `gorm:"not null"`
	GameCode       string     `gorm:"uniqueIndex;not null"` // 6-char shareable code, e.g. "K7QWP3"
	CreatedBy      uuid.UUID  `gorm:"type:uuid;not null"`
	Creator        User       `gorm:"foreignKey:CreatedBy"`
	NumDays        int        `gorm:"not null;default:1"`
	Status         GameStatus `gorm:"type:game_status;not null;default:'lobby'"`
	DraftMode      *DraftMode `gorm:"type:draft_mode"` // how teams get assembled; nil = not chosen yet
	TournamentDate time.Time  `gorm:"not null"`
	UnlocksAt      time.Time  `gorm:"not null"` // scoring opens: tournament date minus 24h
	ExpiresAt      time.Time  `gorm:"not null"` // scoring closes: tournament date plus 7 days
	TeamAName      string     `gorm:"not null;default:'Team A'"`
	TeamBName      string     `gorm:"not null;default:'Team B'"`
	TeamAColor     string     `gorm:"not null;default:'#00205B'"`
	TeamBColor     string     `gorm:"not null;default:'#CE1126'"`
	TeamAScore     float64    `gorm:"type:decimal(5,1);not null;default:0"` // cached match points, derived
	TeamBScore     float64    `gorm:"type:decimal(5,1);not null;default:0"`
	MaxPlayers     *int       // optional roster cap
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Days           []GameDay    `gorm:"foreignKey:GameID"`
	Players        []GamePlayer `gorm:"foreignKey:GameID"`
}

// Phase derives the game's scoring-window phase at time now.
func (g *Game) Phase(now time.Time) GamePhase {
	switch {
	case now.Before(g.UnlocksAt):
		return GamePhaseLobby
	case now.Before(g.ExpiresAt):
		return GamePhaseLive
	default:
		return GamePhaseExpired
	}
}

// GameDay is one day of the schedule. A day can host multiple session
// formats (e.g. foursomes in the morning, singles in the afternoon); the
// formats are stored comma-joined with the total match count for the day.
type GameDay struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GameID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_game_day"`
	Game       Game      `gorm:"foreignKey:GameID"`
	DayNumber  int       `gorm:"not null;uniqueIndex:idx_game_day"`
	Date       time.Time `gorm:"not null"`
	Format     string    `gorm:"not null"` // comma-joined formats, e.g. "foursomes,singles"
	NumMatches int       `gorm:"not null"`
	CreatedAt  time.Time
}

// GamePlayer is a participant in one game. Players don't need a user
// account; the email + invite token is their identity. Team is nil until the
// draft assigns one, and only the draft (or a draft reset) mutates it.
type GamePlayer struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GameID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_game_player_email"`
	Game           Game       `gorm:"foreignKey:GameID"`
	UserID         *uuid.UUID `gorm:"type:uuid"` // set when the adder was logged in
	Email          string     `gorm:"not null;uniqueIndex:idx_game_player_email"`
	Name           string     `gorm:"not null"`
	Handicap       *float64   `gorm:"type:decimal(4,1)"` // nil = no card; lower is better
	Team           *string    `gorm:"type:varchar(1)"`   // "A", "B", or nil while undrafted
	IsCaptain      bool       `gorm:"not null;default:false"`
	InviteToken    string     `gorm:"uniqueIndex;not null"` // 64-char hex token for the check-in link
	InviteSentAt   *time.Time
	ReminderSentAt *time.Time
	CheckedIn      bool `gorm:"not null;default:false"`
	CheckedInAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DraftPick is the append-only draft ledger: pick N sent player P to team T.
// The unique index on (game_id, pick_number) is what makes pick recording
// idempotent — a retry of the same pick number cannot create a second row.
type DraftPick struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GameID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_game_pick"`
	Game       Game       `gorm:"foreignKey:GameID"`
	PickNumber int        `gorm:"not null;uniqueIndex:idx_game_pick"` // 1-based
	Team       string     `gorm:"type:varchar(1);not null"`
	PlayerID   uuid.UUID  `gorm:"type:uuid;not null"`
	Player     GamePlayer `gorm:"foreignKey:PlayerID"`
	CreatedAt  time.Time
}

// Match is one head-to-head tie: up to two players per side, on a given day.
// TeamAScore/TeamBScore/Status/Winner are caches of scoring.ScoreMatch over
// the match's Holes, refreshed on every hole write or undo.
type Match struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GameID         uuid.UUID   `gorm:"type:uuid;not null"`
	Game           Game        `gorm:"foreignKey:GameID"`
	DayNumber      int         `gorm:"not null"`
	MatchNumber    int         `gorm:"not null"`
	Format         MatchFormat `gorm:"type:match_format;not null"`
	TeamAPlayer1ID *uuid.UUID  `gorm:"type:uuid"`
	TeamAPlayer2ID *uuid.UUID  `gorm:"type:uuid"` // nil for singles
	TeamBPlayer1ID *uuid.UUID  `gorm:"type:uuid"`
	TeamBPlayer2ID *uuid.UUID  `gorm:"type:uuid"`
	TeamAScore     int         `gorm:"not null;default:0"` // holes won by A, derived
	TeamBScore     int         `gorm:"not null;default:0"`
	HolesPlayed    int         `gorm:"not null;default:0"`
	Status         MatchStatus `gorm:"type:match_status;not null;default:'not_started'"`
	Winner         *string     `gorm:"type:varchar(6)"` // "A", "B", "halved", or nil
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Holes          []Hole `gorm:"foreignKey:MatchID"`
}

// Hole is one recorded hole result of a match. The composite unique index
// enforces the at-most-one-result-per-hole invariant; re-recording a hole
// updates the existing row.
type Hole struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MatchID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_hole"`
	Match      Match     `gorm:"foreignKey:MatchID"`
	HoleNumber int       `gorm:"not null;uniqueIndex:idx_match_hole"` // 1-18
	Winner     string    `gorm:"type:varchar(6);not null"`            // "A", "B", or "halved"
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
