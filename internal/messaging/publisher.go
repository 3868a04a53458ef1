package messaging

import (
	"encoding/json"
	"fmt"
)

// Subjects shared with the chat binding.
const (
	SubjectCommand = "nations.in.command"
	SubjectAction  = "nations.in.action"
	SubjectText    = "nations.in.text"

	SubjectMenu   = "nations.out.menu"
	SubjectNotify = "nations.out.notify"
	SubjectAck    = "nations.out.ack"

	SubjectElevated = "nations.rpc.elevated"
)

// RawPublisher sends bytes to a subject.
type RawPublisher interface {
	Publish(subject string, data []byte) error
}

// JSONPublisher encodes outbound events as JSON before publishing them.
type JSONPublisher struct {
	pub RawPublisher
}

func NewJSONPublisher(pub RawPublisher) *JSONPublisher {
	return &JSONPublisher{pub: pub}
}

func (p *JSONPublisher) PublishJSON(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", subject, err)
	}
	return p.pub.Publish(subject, data)
}
