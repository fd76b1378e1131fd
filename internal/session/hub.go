package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"survival-coach/internal/models"
)

// EventType classifies a coaching session event.
type EventType string

const (
	EventTradeOpened         EventType = "TRADE_OPENED"
	EventTradeClosed         EventType = "TRADE_CLOSED"
	EventReflectionSubmitted EventType = "REFLECTION_SUBMITTED"
	EventCheckinLogged       EventType = "CHECKIN_LOGGED"
	EventMasteryUpdated      EventType = "MASTERY_UPDATED"
)

// Event is a session state-change notification delivered to subscribers.
type Event struct {
	Type    EventType
	TradeID string
	Mastery *models.MasteryData
	At      time.Time
}

// hubConfig holds fan-out tuning knobs.
type hubConfig struct {
	subscriberBufferSize      int
	slowConsumerDropThreshold int
}

func defaultHubConfig() hubConfig {
	return hubConfig{
		subscriberBufferSize:      16,
		slowConsumerDropThreshold: 10,
	}
}

// Subscriber represents a channel subscriber with metadata.
type Subscriber struct {
	ID           string
	Channel      chan Event
	DroppedCount int
	CreatedAt    time.Time
}

// hub fans session events out to subscriber channels. Sends never block: a
// subscriber whose buffer is full has the event dropped and its drop counter
// incremented.
type hub struct {
	config      hubConfig
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	nextID      int
	logger      zerolog.Logger
}

func newHub(logger zerolog.Logger) *hub {
	return &hub{
		config:      defaultHubConfig(),
		subscribers: make(map[string]*Subscriber),
		logger:      logger,
	}
}

// subscribe registers a new subscriber and returns it.
func (h *hub) subscribe() *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscriber{
		ID:        fmt.Sprintf("sub-%d", h.nextID),
		Channel:   make(chan Event, h.config.subscriberBufferSize),
		CreatedAt: time.Now(),
	}
	h.subscribers[sub.ID] = sub
	return sub
}

// unsubscribe removes a subscriber and closes its channel.
func (h *hub) unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(sub.Channel)
	}
}

// publish delivers the event to every subscriber without blocking.
func (h *hub) publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subscribers {
		select {
		case sub.Channel <- event:
		default:
			sub.DroppedCount++
			if sub.DroppedCount%h.config.slowConsumerDropThreshold == 0 {
				h.logger.Warn().
					Str("subscriber", sub.ID).
					Int("dropped", sub.DroppedCount).
					Msg("Slow event subscriber dropping events")
			}
		}
	}
}

// close closes all subscriber channels.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subscribers {
		delete(h.subscribers, id)
		close(sub.Channel)
	}
}
