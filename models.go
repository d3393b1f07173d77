package main

import (
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlayerRecord is one roster entry from the players CSV.
type PlayerRecord struct {
	PlayerID   string
	PlayerName string
}

// GameRow is a single game participation from the games CSV.
type GameRow struct {
	PlayerID string
	Points   float64
}

// StandingEntry is the tournament's own view of a player. GamesPlayed and
// Position are nil when the API reports null.
type StandingEntry struct {
	PlayerID    string
	Points      float64
	GamesPlayed *int
	Position    *int
}

type AggregatedStat struct {
	Points      float64
	GamesPlayed int
}

type MergedEntry struct {
	PlayerID    string  `json:"playerId"`
	PlayerName  string  `json:"playerName"`
	Points      float64 `json:"points"`
	GamesPlayed *int    `json:"gamesPlayed"`
	Position    *int    `json:"position"`
}

type Credentials struct {
	APIToken     string
	TournamentID string
	JWTSecret    string
}

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type ScoreboardRun struct {
	gorm.Model
	RunID        string         `json:"runId" gorm:"uniqueIndex"`
	TournamentID string         `json:"tournamentId" gorm:"index"`
	PlayerCount  int            `json:"playerCount"`
	Entries      datatypes.JSON `json:"-"`
}

type ScoreboardRow struct {
	gorm.Model
	RunID        string  `json:"-"`
	TournamentID string  `json:"-" gorm:"index"`
	Rank         int     `json:"-"`
	PlayerID     string  `json:"playerId"`
	PlayerName   string  `json:"playerName"`
	Points       float64 `json:"points"`
	GamesPlayed  *int    `json:"gamesPlayed"`
	Position     *int    `json:"position"`
}

func (r *ScoreboardRow) Entry() MergedEntry {
	return MergedEntry{
		PlayerID:    r.PlayerID,
		PlayerName:  r.PlayerName,
		Points:      r.Points,
		GamesPlayed: r.GamesPlayed,
		Position:    r.Position,
	}
}
