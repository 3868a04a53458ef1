package dispatch

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/pixil98/go-nations/internal/game"
)

const internalMessage = "⚠️ Something went wrong, please try again later."

// Messages for sentinels that reach the chat without a UserError around them.
var sentinelMessages = []struct {
	err error
	msg string
}{
	{game.ErrGameNotFound, "There is no game in this chat yet! Create one with /game"},
	{game.ErrPlayerNotFound, "You are not in the game! Use /join"},
	{game.ErrWarInProgress, "A war is under way! Wait for it to end"},
	{game.ErrNotOwner, "This is not your button!"},
	{game.ErrInvalidAction, "Unknown action"},
	{game.ErrNoPendingTransfer, "You have no active transfer"},
}

// describe turns err into the text shown to the user. internal reports
// whether the error is a failure worth logging rather than a rejection.
func describe(err error) (text string, internal bool) {
	var ue *game.UserError
	if errors.As(err, &ue) {
		return "❌ " + sentence(ue.Message), false
	}
	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return "❌ " + s.msg, false
		}
	}
	if game.KindOf(err) != game.KindInternal {
		return "❌ " + sentence(err.Error()), false
	}
	return internalMessage, true
}

// sentence capitalizes the first letter of s.
func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
