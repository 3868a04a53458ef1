package dispatch

import (
	"context"

	"github.com/pixil98/go-nations/internal/messaging"
)

// Outbound delivers rendering instructions to the chat binding.
type Outbound interface {
	RenderMenu(ctx context.Context, m *Menu) error
	SendNotification(ctx context.Context, n *Notification) error
	Acknowledge(ctx context.Context, a *Ack) error
}

type JSONPublisher interface {
	PublishJSON(subject string, v any) error
}

// BusOutbound publishes rendering instructions on the message bus.
type BusOutbound struct {
	pub JSONPublisher
}

func NewBusOutbound(pub JSONPublisher) *BusOutbound {
	return &BusOutbound{pub: pub}
}

func (o *BusOutbound) RenderMenu(_ context.Context, m *Menu) error {
	return o.pub.PublishJSON(messaging.SubjectMenu, m)
}

func (o *BusOutbound) SendNotification(_ context.Context, n *Notification) error {
	return o.pub.PublishJSON(messaging.SubjectNotify, n)
}

func (o *BusOutbound) Acknowledge(_ context.Context, a *Ack) error {
	return o.pub.PublishJSON(messaging.SubjectAck, a)
}
