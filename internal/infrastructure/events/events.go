package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// 社交图事件类型
const (
	UserFollowed   = "social.followed"
	UserUnfollowed = "social.unfollowed"
	UserBlocked    = "social.blocked"
	UserUnblocked  = "social.unblocked"
)

// SocialEvent 事件载荷
type SocialEvent struct {
	Type     string    `json:"type"`
	ActorID  uint      `json:"actor_id"`
	TargetID uint      `json:"target_id"`
	At       time.Time `json:"at"`
}

// Publisher 发布领域事件
type Publisher interface {
	Publish(ctx context.Context, event SocialEvent) error
}

// NopPublisher 未配置消息总线时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, SocialEvent) error { return nil }

// NATSPublisher 发布到 <prefix>.<event type>
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// ConnectNATS 建立连接，断线自动重连
func ConnectNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("hamhama"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return nc, nil
}

func NewNATSPublisher(conn *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix}
}

func (p *NATSPublisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

func (p *NATSPublisher) Publish(_ context.Context, event SocialEvent) error {
	if p.conn == nil || !p.conn.IsConnected() {
		return nats.ErrConnectionClosed
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.Subject(event.Type), data)
}
