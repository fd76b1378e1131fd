package notify

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"time"
)

// TerminalChannel prints notifications to the given writer and, when a
// desktop notifier is available, mirrors them to the OS notification center.
type TerminalChannel struct {
	out        io.Writer
	timeFormat string
	desktop    bool
	enabled    bool
}

// NewTerminalChannel creates a terminal notification channel. An empty
// timeFormat falls back to HH:MM:SS.
func NewTerminalChannel(out io.Writer, timeFormat string, desktop bool) *TerminalChannel {
	if timeFormat == "" {
		timeFormat = "15:04:05"
	}
	return &TerminalChannel{out: out, timeFormat: timeFormat, desktop: desktop, enabled: true}
}

// Name returns the channel name.
func (c *TerminalChannel) Name() string {
	return "terminal"
}

// IsEnabled reports whether the channel is active.
func (c *TerminalChannel) IsEnabled() bool {
	return c.enabled
}

// Send writes the notification to the terminal and optionally the desktop.
func (c *TerminalChannel) Send(ctx context.Context, n Notification) error {
	ts := n.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	icon := "•"
	switch n.Type {
	case NotificationLevelUp:
		icon = "★"
	case NotificationQuest:
		icon = "✓"
	case NotificationTrade:
		icon = "⇄"
	}

	if _, err := fmt.Fprintf(c.out, "[%s] %s %s: %s\n",
		ts.Format(c.timeFormat), icon, n.Title, n.Message); err != nil {
		return err
	}

	if c.desktop {
		// Desktop delivery is best effort; a missing notifier binary is not
		// an error.
		_ = c.sendDesktop(ctx, n)
	}
	return nil
}

func (c *TerminalChannel) sendDesktop(ctx context.Context, n Notification) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, n.Message, n.Title)
		return exec.CommandContext(ctx, "osascript", "-e", script).Run()
	case "linux":
		return exec.CommandContext(ctx, "notify-send", n.Title, n.Message).Run()
	default:
		return nil
	}
}
