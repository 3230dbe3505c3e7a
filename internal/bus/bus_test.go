package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBus_RoundTrip(t *testing.T) {
	b := NewMessageBus(2)
	ctx := context.Background()

	require.NoError(t, b.PublishInbound(ctx, NewInboundMessage(ChannelWindow, "user", "ui-session-1", "hello")))
	assert.Equal(t, 1, b.InboundSize())
	in := <-b.InboundChan()
	assert.Equal(t, "hello", in.Content)
	assert.False(t, in.Timestamp.IsZero())

	out := NewOutboundMessage(ChannelWindow, "ui-session-1", "hi")
	out.Metadata = map[string]any{MetaProgress: true}
	require.NoError(t, b.PublishOutbound(ctx, out))
	got := <-b.OutboundChan()
	assert.True(t, got.IsProgress())
	assert.False(t, got.IsError())
}

func TestMessageBus_PublishRespectsContext(t *testing.T) {
	b := NewMessageBus(1)
	require.NoError(t, b.PublishOutbound(context.Background(), NewOutboundMessage(ChannelCron, "", "a")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := b.PublishOutbound(ctx, NewOutboundMessage(ChannelCron, "", "b"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "ui-session-9", NewInboundMessage(ChannelWindow, "u", "ui-session-9", "").SessionKey())
	assert.Equal(t, "cli:direct", NewInboundMessage(ChannelCLI, "u", ChatIDDirect, "").SessionKey())
	assert.Equal(t, "cron", NewInboundMessage(ChannelCron, "u", "", "").SessionKey())
}

func TestParseRoutingKey(t *testing.T) {
	ch, id := ParseRoutingKey("cron:morning:brief")
	assert.Equal(t, ChannelCron, ch)
	assert.Equal(t, "morning:brief", id)

	ch, id = ParseRoutingKey("cli")
	assert.Equal(t, ChannelCLI, ch)
	assert.Empty(t, id)
}

func TestThreadRoute_SessionKeyMatchesThreadID(t *testing.T) {
	for _, id := range []string{"ui-session-abc", "cli:direct", "cron:morning"} {
		ch, chatID := ThreadRoute(id)
		assert.Equal(t, id, NewInboundMessage(ch, "user", chatID, "").SessionKey(), id)
	}

	ch, chatID := ThreadRoute("ui-session-abc")
	assert.Equal(t, ChannelWindow, ch)
	assert.Equal(t, "ui-session-abc", chatID)
}
