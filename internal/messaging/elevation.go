package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const DefaultElevationTimeout = 2 * time.Second

// Requester is a request/reply transport.
type Requester interface {
	Request(ctx context.Context, subject string, data []byte) ([]byte, error)
}

type ElevationRequest struct {
	ChatId int64 `json:"chatId"`
	UserId int64 `json:"userId"`
}

type ElevationReply struct {
	Elevated bool `json:"elevated"`
}

// ElevationClient asks the chat binding whether a user is a chat admin.
type ElevationClient struct {
	requester Requester
	timeout   time.Duration
}

func NewElevationClient(requester Requester, timeout time.Duration) *ElevationClient {
	if timeout <= 0 {
		timeout = DefaultElevationTimeout
	}
	return &ElevationClient{requester: requester, timeout: timeout}
}

// IsElevated returns an error when the binding can't be asked or doesn't
// answer in time. Callers treat that as not elevated.
func (c *ElevationClient) IsElevated(ctx context.Context, chatId, userId int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(ElevationRequest{ChatId: chatId, UserId: userId})
	if err != nil {
		return false, err
	}

	data, err := c.requester.Request(ctx, SubjectElevated, body)
	if err != nil {
		return false, fmt.Errorf("requesting elevation: %w", err)
	}

	var reply ElevationReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return false, fmt.Errorf("decoding elevation reply: %w", err)
	}
	return reply.Elevated, nil
}
