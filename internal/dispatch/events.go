// Package dispatch turns normalized chat events into engine operations and
// the engine's answers into rendering instructions for the chat binding.
package dispatch

// ChatPrivate is the chat type the binding reports for direct messages.
const ChatPrivate = "private"

// Command is a slash command typed in a chat.
type Command struct {
	Name     string   `json:"name"`
	Args     []string `json:"args,omitempty"`
	ChatId   int64    `json:"chatId"`
	UserId   int64    `json:"userId"`
	Username string   `json:"username"`
	ChatType string   `json:"chatType"`
}

// Action is a press of one of the options offered in a menu.
type Action struct {
	ActionId string `json:"actionId"`
	ChatId   int64  `json:"chatId"`
	UserId   int64  `json:"userId"`
	Username string `json:"username"`
	// Payload is opaque to the engine and echoed in the acknowledgement so
	// the binding can match it to the press.
	Payload    string `json:"payload,omitempty"`
	MessageRef string `json:"messageRef,omitempty"`
	ChatType   string `json:"chatType,omitempty"`

	// gameChat is the chat whose game the press operates on. Presses in a
	// private chat act on the game the user plays in.
	gameChat int64
}

// gameChatId is the chat the engine operates on. Rendering always goes to
// ChatId.
func (a *Action) gameChatId() int64 {
	if a.gameChat != 0 {
		return a.gameChat
	}
	return a.ChatId
}

// FreeText is any non-command message.
type FreeText struct {
	ChatId   int64  `json:"chatId"`
	UserId   int64  `json:"userId"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

// Option is a selectable button.
type Option struct {
	Label    string `json:"label"`
	ActionId string `json:"actionId"`
}

// Menu asks the binding to show text with options. A set MessageRef means
// the referenced message is replaced.
type Menu struct {
	ChatId     int64    `json:"chatId"`
	MessageRef string   `json:"messageRef,omitempty"`
	Text       string   `json:"text"`
	Options    []Option `json:"options,omitempty"`
}

// Notification is a plain message, optionally with an image.
type Notification struct {
	ChatId   int64  `json:"chatId"`
	Text     string `json:"text"`
	ImageRef string `json:"imageRef,omitempty"`
}

// Ack answers an Action with a short toast.
type Ack struct {
	ActionId  string `json:"actionId"`
	Payload   string `json:"payload,omitempty"`
	Text      string `json:"text,omitempty"`
	Emphasize bool   `json:"emphasize,omitempty"`
}
