package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// NatsServer embeds a NATS server and the client connection the process
// talks through. Chat bindings connect to the same server from outside.
type NatsServer struct {
	ns   *server.Server
	conn atomic.Pointer[nats.Conn]

	ready     chan struct{}
	readyOnce sync.Once

	startupTimeout time.Duration
	host           string
	port           int
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
		ready:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, err
	}
	s.ns = ns

	return s, nil
}

func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	conn, err := nats.Connect(n.ns.ClientURL())
	if err != nil {
		return fmt.Errorf("creating nats client connection: %w", err)
	}
	n.conn.Store(conn)
	n.readyOnce.Do(func() { close(n.ready) })

	slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr())

	<-ctx.Done()
	conn.Drain()
	n.ns.Shutdown()
	n.ns.WaitForShutdown()

	return nil
}

// Ready is closed once the server accepts connections and the internal
// client is connected.
func (n *NatsServer) Ready() <-chan struct{} {
	return n.ready
}

// Subscribe creates a subscription on the given subject.
// The handler is called for each message received.
// Returns an unsubscribe function to remove the subscription.
func (n *NatsServer) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	conn := n.conn.Load()
	if conn == nil {
		return nil, fmt.Errorf("nats server not started")
	}
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() { sub.Unsubscribe() }, nil
}

// Respond answers requests on subject with the handler's reply. A handler
// error leaves the request unanswered so the caller times out.
func (n *NatsServer) Respond(subject string, handler func(data []byte) ([]byte, error)) (func(), error) {
	conn := n.conn.Load()
	if conn == nil {
		return nil, fmt.Errorf("nats server not started")
	}
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		reply, err := handler(msg.Data)
		if err != nil {
			slog.Warn("request handler failed", "subject", subject, "error", err)
			return
		}
		if err := msg.Respond(reply); err != nil {
			slog.Warn("sending reply", "subject", subject, "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return func() { sub.Unsubscribe() }, nil
}

// Publish sends a message to the given subject
func (n *NatsServer) Publish(subject string, data []byte) error {
	conn := n.conn.Load()
	if conn == nil {
		return fmt.Errorf("nats server not started")
	}
	return conn.Publish(subject, data)
}

// Request sends data to subject and waits for a single reply until ctx ends.
func (n *NatsServer) Request(ctx context.Context, subject string, data []byte) ([]byte, error) {
	conn := n.conn.Load()
	if conn == nil {
		return nil, fmt.Errorf("nats server not started")
	}
	msg, err := conn.RequestWithContext(ctx, subject, data)
	if err != nil {
		return nil, err
	}
	return msg.Data, nil
}
