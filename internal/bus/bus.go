// Package bus defines the messages that flow between chat windows and the agent.
package bus

import "context"

// Channel names the surface a message came from or goes to.
type Channel string

const (
	ChannelCLI    Channel = "cli"
	ChannelWindow Channel = "window"
	ChannelTUI    Channel = "tui"
	ChannelCron   Channel = "cron"
)

const ChatIDDirect = "direct"

// Bus is the contract between chat windows and the agent core.
// Implementations may use buffered channels, pub/sub systems, or any other transport.
type Bus interface {
	// PublishInbound delivers a message from a window to the agent.
	PublishInbound(ctx context.Context, msg InboundMessage) error
	// PublishOutbound delivers a response from the agent to a window.
	PublishOutbound(ctx context.Context, msg OutboundMessage) error
	// InboundChan returns a receive-only channel for the agent to consume.
	InboundChan() <-chan InboundMessage
	// OutboundChan returns a receive-only channel for the window hub to consume.
	OutboundChan() <-chan OutboundMessage
}

// MessageBus is the default in-process Bus implementation backed by buffered Go channels.
//
// Windows push InboundMessages; the agent consumes them, processes, and
// pushes OutboundMessages back for the hub to route.
type MessageBus struct {
	inbound  chan InboundMessage  // windows -> agent
	outbound chan OutboundMessage // agent -> windows
}

func NewMessageBus(bufSize int) *MessageBus {
	return &MessageBus{
		inbound:  make(chan InboundMessage, bufSize),
		outbound: make(chan OutboundMessage, bufSize),
	}
}

// PublishInbound sends an InboundMessage to the agent, blocking while the
// buffer is full until ctx is done.
func (b *MessageBus) PublishInbound(ctx context.Context, msg InboundMessage) error {
	select {
	case b.inbound <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishOutbound sends an OutboundMessage to the hub, blocking while the
// buffer is full until ctx is done.
func (b *MessageBus) PublishOutbound(ctx context.Context, msg OutboundMessage) error {
	select {
	case b.outbound <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InboundChan returns a receive-only view of the inbound channel.
func (b *MessageBus) InboundChan() <-chan InboundMessage { return b.inbound }

// OutboundChan returns a receive-only view of the outbound channel.
func (b *MessageBus) OutboundChan() <-chan OutboundMessage { return b.outbound }

func (b *MessageBus) InboundSize() int { return len(b.inbound) }

func (b *MessageBus) OutboundSize() int { return len(b.outbound) }
