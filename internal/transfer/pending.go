package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/pixil98/go-nations/internal/game"
)

// Kind is what a transfer moves between two players.
type Kind string

const (
	KindMoney Kind = "money"
	KindArmy  Kind = "army"
)

// DefaultTTL is how long a confirmation waits for its amount.
const DefaultTTL = 5 * time.Minute

// ParseKind validates a kind received from an action id.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindMoney, KindArmy:
		return k, nil
	default:
		return "", game.NewUserError(game.ErrInvalidAction, "unknown transfer kind %q", s)
	}
}

// Pending is a transfer waiting for its amount. It is keyed by the initiator.
type Pending struct {
	TargetId int64 `json:"target_id"`
	Kind     Kind  `json:"kind"`
	ChatId   int64 `json:"chat_id"`
}

func (p Pending) String() string {
	return fmt.Sprintf("%s to %d in chat %d", p.Kind, p.TargetId, p.ChatId)
}

// PendingStore keeps at most one pending transfer per initiator. Entries
// expire after the store's TTL and are single-use.
type PendingStore interface {
	// Put stores p for initiator, replacing any earlier entry.
	Put(ctx context.Context, initiator int64, p Pending) error
	// Take removes and returns the initiator's entry, or nil when there is none.
	Take(ctx context.Context, initiator int64) (*Pending, error)
	Delete(ctx context.Context, initiator int64) error
}
