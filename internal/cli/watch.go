package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"survival-coach/internal/models"
	"survival-coach/internal/notify"
	"survival-coach/internal/session"
)

// addWatchCommand adds the live journal watcher. Each coach invocation is its
// own process, so the watcher polls the shared database and republishes any
// changes other invocations made as session events.
func addWatchCommand(rootCmd *cobra.Command, app *App) {
	var (
		desktop  bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch journal events live",
		Long: `Poll the journal for changes made by other coach commands and stream the
resulting trade, reflection, and mastery events until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)

			manager := notify.NewManager(notify.NewTerminalChannel(os.Stdout, app.Config.UI.TimeFormat, desktop))

			sub := app.Session.Subscribe()
			defer app.Session.Unsubscribe(sub.ID)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if interval <= 0 {
				interval = 2 * time.Second
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			output.Info("Watching journal events. Press Ctrl+C to stop.")

			lastLevel := app.Session.Mastery().Level
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := app.Session.Refresh(ctx); err != nil {
						app.Logger.Warn().Err(err).Msg("Failed to refresh session from store")
					}
				case event, ok := <-sub.Channel:
					if !ok {
						return nil
					}
					n, levelNow := watchNotification(event, lastLevel)
					if levelNow != "" {
						lastLevel = levelNow
					}
					if n == nil {
						continue
					}
					if err := manager.Send(ctx, *n); err != nil {
						app.Logger.Warn().Err(err).Msg("Failed to deliver notification")
					}
				}
			}
		},
	}

	cmd.Flags().BoolVar(&desktop, "desktop", false, "Mirror events to desktop notifications")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Journal polling interval")

	rootCmd.AddCommand(cmd)
}

// watchNotification maps a session event to a notification. Mastery updates
// only surface when the level actually changed; the returned level tracks the
// latest observed one.
func watchNotification(event session.Event, lastLevel models.MasteryLevel) (*notify.Notification, models.MasteryLevel) {
	switch event.Type {
	case session.EventTradeOpened:
		return &notify.Notification{
			Type:      notify.NotificationTrade,
			Title:     "Trade opened",
			Message:   fmt.Sprintf("Trade %s recorded.", event.TradeID),
			Timestamp: event.At,
		}, ""
	case session.EventTradeClosed:
		return &notify.Notification{
			Type:      notify.NotificationTrade,
			Title:     "Trade closed",
			Message:   fmt.Sprintf("Trade %s closed. Reflect on it to earn process XP.", event.TradeID),
			Timestamp: event.At,
		}, ""
	case session.EventReflectionSubmitted:
		return &notify.Notification{
			Type:      notify.NotificationInfo,
			Title:     "Reflection recorded",
			Message:   fmt.Sprintf("Process evaluation stored for trade %s.", event.TradeID),
			Timestamp: event.At,
		}, ""
	case session.EventCheckinLogged:
		return &notify.Notification{
			Type:      notify.NotificationQuest,
			Title:     "Check-in logged",
			Message:   "Daily check-in recorded.",
			Timestamp: event.At,
		}, ""
	case session.EventMasteryUpdated:
		if event.Mastery == nil || event.Mastery.Level == lastLevel {
			return nil, ""
		}
		return &notify.Notification{
			Type:      notify.NotificationLevelUp,
			Title:     "Level up",
			Message:   fmt.Sprintf("You reached %s (%d XP).", event.Mastery.LevelTitle, event.Mastery.XP),
			Timestamp: event.At,
		}, event.Mastery.Level
	default:
		return nil, ""
	}
}
