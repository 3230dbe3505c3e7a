package bus

import (
	"strings"
)

// RoutingKey joins a channel and chat id as "channel:chatID".
func RoutingKey(channel Channel, chatID string) string {
	if chatID == "" {
		return string(channel)
	}

	return string(channel) + ":" + chatID
}

// ParseRoutingKey splits a routing key into channel and chat ID.
func ParseRoutingKey(key string) (channel Channel, chatID string) {
	if i := strings.Index(key, ":"); i >= 0 {
		return Channel(key[:i]), key[i+1:]
	}

	return Channel(key), ""
}

// ThreadRoute returns the channel and chat id an inbound message needs so
// that its SessionKey equals threadID. Ids without a channel prefix are
// window threads.
func ThreadRoute(threadID string) (Channel, string) {
	if ch, chatID := ParseRoutingKey(threadID); chatID != "" {
		return ch, chatID
	}
	return ChannelWindow, threadID
}
