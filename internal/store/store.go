// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"survival-coach/internal/models"
)

// DataStore defines the interface for data persistence. Trades are
// append-only: closing a trade and attaching evaluations mutate an existing
// row, but rows are never deleted.
type DataStore interface {
	// Trades
	SaveTrade(ctx context.Context, trade *models.Trade) error
	CloseTrade(ctx context.Context, tradeID string, pnl float64) error
	GetTrade(ctx context.Context, tradeID string) (*models.Trade, error)
	GetTrades(ctx context.Context, filter TradeFilter) ([]*models.Trade, error)

	// Reflections
	SaveUserEvaluation(ctx context.Context, tradeID string, eval *models.UserProcessEvaluation) error
	SaveProcessEvaluation(ctx context.Context, tradeID string, eval *models.ProcessEvaluation) error
	SaveShadowScore(ctx context.Context, tradeID string, score *models.ShadowScore) error

	// Check-ins
	LogCheckin(ctx context.Context, day time.Time) error
	CountRecentCheckins(ctx context.Context, days int) (int, error)

	// Detected patterns (written by the external analysis service)
	SavePattern(ctx context.Context, pattern *models.DetectedPattern) error
	GetLatestPattern(ctx context.Context) (*models.DetectedPattern, error)

	// Mastery snapshots
	SaveMasterySnapshot(ctx context.Context, data *models.MasteryData) error

	// Lifecycle
	Close() error
}

// TradeFilter represents filters for querying trades. Results are always
// ordered newest-first, the ordering the coaching engines expect.
type TradeFilter struct {
	Asset     string
	Status    models.TradeStatus
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}
