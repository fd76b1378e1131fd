package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"survival-coach/internal/config"
	"survival-coach/internal/security"
	"survival-coach/internal/session"
	"survival-coach/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.DataStore
	Session *session.Session
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "coach",
		Short: "Survival Coach - trading psychology coaching CLI",
		Long: `Survival Coach keeps a retail trader alive - solvent and disciplined -
rather than chasing maximum profit.

It journals trades, scores process quality after every reflection, mines a
behavioral graph for repeating patterns, and turns discipline into XP, levels,
and quests.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.initSession(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.shutdown()
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	addTradeCommands(rootCmd, app)
	addReflectCommand(rootCmd, app)
	addCheckinCommand(rootCmd, app)
	addReportCommand(rootCmd, app)
	addMasteryCommand(rootCmd, app)
	addPatternCommands(rootCmd, app)
	addWatchCommand(rootCmd, app)

	return rootCmd
}

// initSession opens the store and builds the per-user session.
func (a *App) initSession(ctx context.Context) error {
	if a.Session != nil {
		return nil
	}

	dataStore, err := store.NewSQLiteStore(a.Config.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	a.Store = dataStore
	a.Logger.Debug().Str("path", a.Config.Storage.DatabasePath).Msg("SQLite store initialized")

	validator := security.NewInputValidator(a.Config.Coaching.StrictValidation)
	sess, err := session.New(ctx, a.Config.Coaching.UserID, dataStore, validator, a.Config.Coaching.CheckinWindow, a.Logger)
	if err != nil {
		dataStore.Close()
		return fmt.Errorf("initializing session: %w", err)
	}
	a.Session = sess

	return nil
}

func (a *App) shutdown() {
	if a.Session != nil {
		a.Session.Close()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close store")
		}
	}
}
