package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("buddy"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

// Handler answers a request. The returned bytes are sent back as the reply.
type Handler func(subject string, data []byte) ([]byte, error)

// Handle serves request/reply on subject through a queue group, so several
// instances share the load. A handler error is answered with an ErrorReply.
func (c *Client) Handle(subject, queue string, handler Handler) error {
	sub, err := c.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		reply, err := handler(msg.Subject, msg.Data)
		if err != nil {
			c.logger.Warn("request failed", "subject", msg.Subject, "error", err)
			reply, _ = json.Marshal(ErrorReply{Error: err.Error()})
		}
		if msg.Reply == "" {
			return
		}
		if err := msg.Respond(reply); err != nil {
			c.logger.Error("respond failed", "subject", msg.Subject, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("handle %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("handling requests", "subject", subject, "queue", queue)
	return nil
}

// Request sends req as JSON and decodes the reply into resp.
func (c *Client) Request(ctx context.Context, subject string, req, resp any) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	msg, err := c.conn.RequestWithContext(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("request %s: %w", subject, err)
	}
	if err := json.Unmarshal(msg.Data, resp); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	return nil
}

func (c *Client) Connected() bool {
	return c.conn.IsConnected()
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
