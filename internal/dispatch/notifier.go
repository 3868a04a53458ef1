package dispatch

import (
	"context"

	"github.com/pixil98/go-nations/internal/war"
)

// WarNotifier announces resolved wars in their chat.
type WarNotifier struct {
	render *Renderer
	out    Outbound
}

func NewWarNotifier(render *Renderer, out Outbound) *WarNotifier {
	return &WarNotifier{render: render, out: out}
}

func (n *WarNotifier) WarResolved(ctx context.Context, r *war.Resolution) error {
	text, err := n.render.Render("war_over", r)
	if err != nil {
		return err
	}
	return n.out.SendNotification(ctx, &Notification{ChatId: r.ChatId, Text: text})
}

var _ war.Notifier = (*WarNotifier)(nil)
