package game

import (
	"math"
	"time"
)

const (
	StartingMoney = 1000.0
	// MoneyFloor is the least a player can be left with after losing a war.
	MoneyFloor = 100.0
)

// Game is the single game instance of a chat.
type Game struct {
	ChatId          int64
	CreatorId       int64
	WarActive       bool
	WarParticipants []int64
	WarStartTime    *time.Time
	LastWarEndTime  *time.Time
	// WarId identifies the current war so a stale resolution timer can't
	// resolve a war it wasn't armed for. Empty while idle.
	WarId string
}

// Attacker returns the declaring side of the current war, or 0.
func (g *Game) Attacker() int64 {
	if len(g.WarParticipants) != 2 {
		return 0
	}
	return g.WarParticipants[0]
}

// Defender returns the targeted side of the current war, or 0.
func (g *Game) Defender() int64 {
	if len(g.WarParticipants) != 2 {
		return 0
	}
	return g.WarParticipants[1]
}

// WarConsistent reports whether the war flag agrees with the participant list.
func (g *Game) WarConsistent() bool {
	return g.WarActive == (len(g.WarParticipants) == 2)
}

// CooldownRemaining is the time left before a new war may be declared.
func (g *Game) CooldownRemaining(now time.Time, cooldown time.Duration) time.Duration {
	if g.LastWarEndTime == nil {
		return 0
	}
	left := cooldown - now.Sub(*g.LastWarEndTime)
	if left < 0 {
		return 0
	}
	return left
}

// Player is a user's nation inside one chat.
type Player struct {
	UserId     int64
	ChatId     int64
	Username   string
	CountryId  string
	Money      float64
	ArmyLevel  int
	CityLevel  int
	LastIncome time.Time
	Wins       int
	Losses     int
}

// NewPlayer creates a fresh player with the starting balance and levels.
func NewPlayer(userId, chatId int64, username, countryId string, now time.Time) *Player {
	return &Player{
		UserId:     userId,
		ChatId:     chatId,
		Username:   username,
		CountryId:  countryId,
		Money:      StartingMoney,
		ArmyLevel:  1,
		CityLevel:  1,
		LastIncome: now,
	}
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
