package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "survival-coach/internal/errors"
	"survival-coach/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "coach_test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func openTrade(id string, ts time.Time) *models.Trade {
	return &models.Trade{
		ID:           id,
		Timestamp:    ts,
		Asset:        "BTC/USDT",
		Direction:    models.DirectionBuy,
		EntryPrice:   50000,
		PositionSize: 100,
		Reasoning:    "breakout play",
		Status:       models.TradeOpen,
		Decision:     models.DecisionAllow,
	}
}

func TestCloseTradeLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveTrade(ctx, openTrade("t1", time.Now())); err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}

	if err := store.CloseTrade(ctx, "t1", -42.5); err != nil {
		t.Fatalf("CloseTrade: %v", err)
	}

	got, err := store.GetTrade(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTrade: %v", err)
	}
	if got.Status != models.TradeClosed {
		t.Errorf("status = %s, want CLOSED", got.Status)
	}
	if got.PnL != -42.5 {
		t.Errorf("pnl = %.2f, want -42.5", got.PnL)
	}

	// A second close finds no OPEN row to flip.
	err = store.CloseTrade(ctx, "t1", 10)
	if !apperrors.Is(err, apperrors.ErrTradeNotFound) {
		t.Errorf("second close: got %v, want trade-not-found", err)
	}

	err = store.CloseTrade(ctx, "missing", 10)
	if !apperrors.Is(err, apperrors.ErrTradeNotFound) {
		t.Errorf("close of unknown trade: got %v, want trade-not-found", err)
	}
}

func TestGetTradeNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetTrade(context.Background(), "nope")
	if !apperrors.Is(err, apperrors.ErrTradeNotFound) {
		t.Errorf("got %v, want trade-not-found", err)
	}
}

func TestSaveUserEvaluationRejectsDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveTrade(ctx, openTrade("t1", time.Now())); err != nil {
		t.Fatalf("SaveTrade: %v", err)
	}

	eval := &models.UserProcessEvaluation{
		SetupClarity: 5, FollowedPositionSizing: 5, PlanAdherence: 5,
		ImpulsiveActions: 5, EmotionalInfluence: 5, DominantEmotion: models.EmotionNeutral,
	}
	if err := store.SaveUserEvaluation(ctx, "t1", eval); err != nil {
		t.Fatalf("first submission: %v", err)
	}

	err := store.SaveUserEvaluation(ctx, "t1", eval)
	if !apperrors.Is(err, apperrors.ErrEvaluationExists) {
		t.Errorf("second submission: got %v, want evaluation-exists", err)
	}
}

func TestGetTradesFilterAndOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"t1", "t2", "t3"} {
		trade := openTrade(id, base.Add(time.Duration(i)*time.Hour))
		if id == "t2" {
			trade.Asset = "ETH/USDT"
		}
		if err := store.SaveTrade(ctx, trade); err != nil {
			t.Fatalf("SaveTrade %s: %v", id, err)
		}
	}

	trades, err := store.GetTrades(ctx, TradeFilter{})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(trades) != 3 {
		t.Fatalf("got %d trades, want 3", len(trades))
	}
	for i, want := range []string{"t3", "t2", "t1"} {
		if trades[i].ID != want {
			t.Errorf("trades[%d] = %s, want %s (newest first)", i, trades[i].ID, want)
		}
	}

	byAsset, err := store.GetTrades(ctx, TradeFilter{Asset: "ETH/USDT"})
	if err != nil {
		t.Fatalf("GetTrades by asset: %v", err)
	}
	if len(byAsset) != 1 || byAsset[0].ID != "t2" {
		t.Errorf("asset filter: got %+v, want only t2", byAsset)
	}

	limited, err := store.GetTrades(ctx, TradeFilter{Limit: 2})
	if err != nil {
		t.Fatalf("GetTrades with limit: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "t3" {
		t.Errorf("limit filter: got %d trades starting %s", len(limited), limited[0].ID)
	}
}

func TestCheckinIdempotentPerDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	today := time.Now()
	for i := 0; i < 3; i++ {
		if err := store.LogCheckin(ctx, today); err != nil {
			t.Fatalf("LogCheckin: %v", err)
		}
	}
	if err := store.LogCheckin(ctx, today.AddDate(0, 0, -1)); err != nil {
		t.Fatalf("LogCheckin yesterday: %v", err)
	}

	count, err := store.CountRecentCheckins(ctx, 3)
	if err != nil {
		t.Fatalf("CountRecentCheckins: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2 (one per calendar day)", count)
	}
}

func TestPatternRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.GetLatestPattern(ctx)
	if err != nil {
		t.Fatalf("GetLatestPattern on empty store: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil pattern on empty store, got %+v", got)
	}

	first := &models.DetectedPattern{
		PatternName:      "The Revenge Spiral",
		Summary:          "Losses trigger oversized follow-up trades.",
		Evidence:         []string{"t1", "t2"},
		Impact:           "Account drawdown accelerates after losing streaks.",
		Psychology:       "Loss aversion flips into urgency.",
		BreakingStrategy: []string{"30 minute cool-down after each loss"},
		SuccessMetric:    "Cool-down adherence",
	}
	if err := store.SavePattern(ctx, first); err != nil {
		t.Fatalf("SavePattern: %v", err)
	}
	second := &models.DetectedPattern{PatternName: "FOMO Chaser"}
	if err := store.SavePattern(ctx, second); err != nil {
		t.Fatalf("SavePattern: %v", err)
	}

	got, err = store.GetLatestPattern(ctx)
	if err != nil {
		t.Fatalf("GetLatestPattern: %v", err)
	}
	if got == nil || got.PatternName != "FOMO Chaser" {
		t.Errorf("latest pattern = %+v, want FOMO Chaser", got)
	}
}

func TestSaveMasterySnapshot(t *testing.T) {
	store := newTestStore(t)

	data := &models.MasteryData{Level: models.LevelApprentice, XP: 1150}
	if err := store.SaveMasterySnapshot(context.Background(), data); err != nil {
		t.Fatalf("SaveMasterySnapshot: %v", err)
	}
}
