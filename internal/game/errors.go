package game

import (
	"errors"
	"fmt"
)

var (
	// Validation
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrUnknownCountry = errors.New("unknown country")
	ErrInvalidAction  = errors.New("invalid action")

	// Precondition
	ErrAlreadyExists      = errors.New("game already exists")
	ErrWarInProgress      = errors.New("war in progress")
	ErrCooldown           = errors.New("war cooldown active")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientLevels = errors.New("insufficient army levels")
	ErrCountryTaken       = errors.New("country already taken")
	ErrNotEnoughPlayers   = errors.New("not enough players")
	ErrSelfTarget         = errors.New("cannot target yourself")
	ErrNotElevated        = errors.New("requester is not a chat admin")
	ErrNotOwner           = errors.New("action belongs to another user")
	ErrNoPendingTransfer  = errors.New("no pending transfer")

	// NotFound
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindPrecondition
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

var kinds = map[error]Kind{
	ErrInvalidAmount:      KindValidation,
	ErrUnknownCountry:     KindValidation,
	ErrInvalidAction:      KindValidation,
	ErrAlreadyExists:      KindPrecondition,
	ErrWarInProgress:      KindPrecondition,
	ErrCooldown:           KindPrecondition,
	ErrInsufficientFunds:  KindPrecondition,
	ErrInsufficientLevels: KindPrecondition,
	ErrCountryTaken:       KindPrecondition,
	ErrNotEnoughPlayers:   KindPrecondition,
	ErrSelfTarget:         KindPrecondition,
	ErrNotElevated:        KindPrecondition,
	ErrNotOwner:           KindPrecondition,
	ErrNoPendingTransfer:  KindPrecondition,
	ErrGameNotFound:       KindNotFound,
	ErrPlayerNotFound:     KindNotFound,
}

// KindOf classifies err. Anything not rooted in one of the sentinels above is
// internal, persistence failures included.
func KindOf(err error) Kind {
	for sentinel, k := range kinds {
		if errors.Is(err, sentinel) {
			return k
		}
	}
	return KindInternal
}

// UserError represents an error that should be displayed to the user.
// These are not system failures - just rejected input or actions.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a user-facing rejection for reason err.
func NewUserError(err error, format string, args ...any) *UserError {
	return &UserError{
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// InsufficientFunds is a rejection carrying the amount required.
func InsufficientFunds(need, have float64) *UserError {
	return NewUserError(ErrInsufficientFunds, "not enough money: need %.0f, have %.0f", need, have)
}
