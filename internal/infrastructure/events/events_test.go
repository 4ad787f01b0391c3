package events

import (
	"context"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
)

func TestNATSPublisher_Subject(t *testing.T) {
	assert.Equal(t, "hamhama.social.followed", NewNATSPublisher(nil, "hamhama").Subject(UserFollowed))
	assert.Equal(t, "social.blocked", NewNATSPublisher(nil, "").Subject(UserBlocked))
}

func TestNATSPublisher_NotConnected(t *testing.T) {
	err := NewNATSPublisher(nil, "hamhama").Publish(context.Background(), SocialEvent{Type: UserFollowed})
	assert.ErrorIs(t, err, nats.ErrConnectionClosed)
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), SocialEvent{}))
}
