// Package notify delivers coaching alerts to local notification channels.
package notify

import (
	"context"
	"sync"
	"time"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTrade   NotificationType = "trade"
	NotificationLevelUp NotificationType = "level_up"
	NotificationQuest   NotificationType = "quest"
	NotificationInfo    NotificationType = "info"
)

// Notification represents a notification message.
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string
	Timestamp time.Time
}

// Channel defines the interface for a notification channel.
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	IsEnabled() bool
}

// Manager fans notifications out to all enabled channels. A channel failure
// does not stop delivery to the others.
type Manager struct {
	mu       sync.RWMutex
	channels []Channel
}

// NewManager creates a notification manager with the given channels.
func NewManager(channels ...Channel) *Manager {
	return &Manager{channels: channels}
}

// AddChannel registers an additional channel.
func (m *Manager) AddChannel(ch Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = append(m.channels, ch)
}

// Send delivers the notification to every enabled channel, returning the
// first error encountered.
func (m *Manager) Send(ctx context.Context, n Notification) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	var firstErr error
	for _, ch := range m.channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(ctx, n); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
