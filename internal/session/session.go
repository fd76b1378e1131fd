// Package session owns the per-user coaching state: the behavior graph
// engine, cached trade history, and the reactive mastery projection.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"survival-coach/internal/coach/graph"
	"survival-coach/internal/coach/mastery"
	"survival-coach/internal/coach/scoring"
	"survival-coach/internal/coach/shadow"
	apperrors "survival-coach/internal/errors"
	"survival-coach/internal/logging"
	"survival-coach/internal/models"
	"survival-coach/internal/security"
	"survival-coach/internal/store"
)

// defaultCheckinWindowDays is the trailing window the check-in streak quest
// counts over when the caller does not configure one.
const defaultCheckinWindowDays = 3

// Session is the application-side owner of one trader's coaching state. One
// session exists per authenticated user; it is created on login and
// discarded on logout, giving the graph engine the per-user lifecycle the
// engines themselves do not manage.
//
// All mutation goes through the session, which serializes calls into the
// graph engine and recomputes mastery from scratch after every trade
// mutation.
type Session struct {
	userID        string
	store         store.DataStore
	scorer        *scoring.ProcessScorer
	shadow        *shadow.Engine
	graph         *graph.Engine
	validator     *security.InputValidator
	logger        zerolog.Logger
	hub           *hub
	checkinWindow int

	mu         sync.RWMutex
	trades     []*models.Trade // newest-first, mirroring the store ordering
	ingested   map[string]struct{}
	checkins   int
	pattern    *models.DetectedPattern
	lastShadow *models.ShadowScore
	mastery    models.MasteryData
}

// New creates a session for the given user, loading history from the store
// and building the behavior graph from it. checkinWindowDays is the trailing
// window the check-in quest counts over; values below 1 fall back to the
// default.
func New(ctx context.Context, userID string, ds store.DataStore, validator *security.InputValidator, checkinWindowDays int, logger zerolog.Logger) (*Session, error) {
	logger = logger.With().Str("component", "session").Str("user_id", userID).Logger()

	if checkinWindowDays < 1 {
		checkinWindowDays = defaultCheckinWindowDays
	}

	s := &Session{
		userID:        userID,
		store:         ds,
		scorer:        scoring.NewProcessScorer(),
		shadow:        shadow.NewEngine(),
		graph:         graph.NewEngine(logger),
		validator:     validator,
		logger:        logger,
		hub:           newHub(logger),
		checkinWindow: checkinWindowDays,
		ingested:      make(map[string]struct{}),
	}

	trades, err := ds.GetTrades(ctx, store.TradeFilter{})
	if err != nil {
		return nil, err
	}
	s.trades = trades

	s.graph.BuildFromHistory(trades)
	for _, t := range trades {
		if t.Status == models.TradeClosed && t.UserEvaluation != nil {
			s.ingested[t.ID] = struct{}{}
		}
		if s.lastShadow == nil && t.Shadow != nil {
			s.lastShadow = t.Shadow
		}
	}

	if s.checkins, err = ds.CountRecentCheckins(ctx, s.checkinWindow); err != nil {
		return nil, err
	}
	if s.pattern, err = ds.GetLatestPattern(ctx); err != nil {
		return nil, err
	}

	s.recomputeMastery()

	logger.Debug().
		Int("trades", len(trades)).
		Int("checkins", s.checkins).
		Msg("Session initialized")

	return s, nil
}

// OpenTrade records a new trade, snapshotting the current streak counters at
// entry time.
func (s *Session) OpenTrade(ctx context.Context, asset string, direction models.Direction, entryPrice, positionSize float64, reasoning string, decision models.Decision) (*models.Trade, error) {
	if err := s.validator.ValidateAsset(asset); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.statsLocked()
	trade := &models.Trade{
		ID:           uuid.NewString(),
		Timestamp:    time.Now(),
		Asset:        strings.ToUpper(strings.TrimSpace(asset)),
		Direction:    direction,
		EntryPrice:   entryPrice,
		PositionSize: positionSize,
		Reasoning:    reasoning,
		Status:       models.TradeOpen,
		Decision:     decision,
		StatsAtEntry: models.StatsAtEntry{
			ConsecutiveLosses: stats.ConsecutiveLosses,
			ConsecutiveWins:   stats.ConsecutiveWins,
		},
	}

	if err := s.store.SaveTrade(ctx, trade); err != nil {
		return nil, err
	}

	s.trades = append([]*models.Trade{trade}, s.trades...)
	logging.LogTrade(s.logger, trade.ID, trade.Asset, string(trade.Direction), string(trade.Status), 0)
	s.hub.publish(Event{Type: EventTradeOpened, TradeID: trade.ID, At: time.Now()})

	return trade, nil
}

// CloseTrade attaches the realized P&L and recomputes mastery.
func (s *Session) CloseTrade(ctx context.Context, tradeID string, pnl float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trade := s.findTradeLocked(tradeID)
	if trade == nil {
		return apperrors.ErrTradeNotFound
	}
	if trade.Status == models.TradeClosed {
		return apperrors.ErrTradeAlreadyClosed
	}

	if err := s.store.CloseTrade(ctx, tradeID, pnl); err != nil {
		return err
	}

	trade.PnL = pnl
	trade.Status = models.TradeClosed

	s.recomputeMastery()
	s.snapshotMastery(ctx)

	logging.LogTrade(s.logger, trade.ID, trade.Asset, string(trade.Direction), string(trade.Status), pnl)
	s.hub.publish(Event{Type: EventTradeClosed, TradeID: tradeID, At: time.Now()})
	s.publishMasteryLocked()

	return nil
}

// SubmitReflection processes the trader's self-evaluation of a closed trade:
// it validates the report, derives the process evaluation and shadow score,
// persists all three, feeds the trade into the behavior graph exactly once,
// and recomputes mastery.
func (s *Session) SubmitReflection(ctx context.Context, tradeID string, eval *models.UserProcessEvaluation, interaction models.DojoInteractionData) (*models.ProcessEvaluation, *models.ShadowScore, error) {
	if eval == nil {
		return nil, nil, apperrors.NewReflectionError(tradeID, "missing self-report", apperrors.ErrNilSelfReport)
	}
	if err := s.validator.ValidateSelfReport(eval); err != nil {
		return nil, nil, apperrors.NewReflectionError(tradeID, "invalid self-report", err)
	}
	if err := s.validator.ValidateInteraction(interaction); err != nil {
		return nil, nil, apperrors.NewReflectionError(tradeID, "invalid interaction timing", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	trade := s.findTradeLocked(tradeID)
	if trade == nil {
		return nil, nil, apperrors.ErrTradeNotFound
	}
	if trade.Status != models.TradeClosed {
		return nil, nil, apperrors.ErrTradeStillOpen
	}
	if trade.UserEvaluation != nil {
		return nil, nil, apperrors.ErrEvaluationExists
	}

	processEval := s.scorer.Evaluate(trade, eval)

	if err := s.store.SaveUserEvaluation(ctx, tradeID, eval); err != nil {
		return nil, nil, err
	}
	if err := s.store.SaveProcessEvaluation(ctx, tradeID, &processEval); err != nil {
		return nil, nil, err
	}

	trade.UserEvaluation = eval
	trade.ProcessEvaluation = &processEval

	// The shadow score compares the self-report against the evaluation just
	// derived, so it is computed after the evaluation is attached.
	shadowScore := s.shadow.Calculate(trade, eval, interaction)
	if err := s.store.SaveShadowScore(ctx, tradeID, &shadowScore); err != nil {
		return nil, nil, err
	}
	trade.Shadow = &shadowScore
	s.lastShadow = &shadowScore

	// The graph engine double-counts on re-ingestion, so the session tracks
	// which trades it has already fed in.
	if _, done := s.ingested[tradeID]; !done {
		s.graph.AddTrade(trade)
		s.ingested[tradeID] = struct{}{}
	}

	s.recomputeMastery()
	s.snapshotMastery(ctx)

	logging.LogEvaluation(s.logger, tradeID, processEval.TotalProcessScore, string(processEval.WeakestArea))
	logging.LogShadow(s.logger, tradeID, shadowScore.RawScore, string(shadowScore.TrustLevel))
	tradeLogger := logging.WithTradeID(s.logger, tradeID)
	tradeLogger.Debug().
		Str("reflection", security.SanitizeForLog(eval.Reflection)).
		Msg("Reflection recorded")

	s.hub.publish(Event{Type: EventReflectionSubmitted, TradeID: tradeID, At: time.Now()})
	s.publishMasteryLocked()

	return &processEval, &shadowScore, nil
}

// Checkin records a daily check-in and refreshes the quest state.
func (s *Session) Checkin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.LogCheckin(ctx, time.Now()); err != nil {
		return err
	}

	count, err := s.store.CountRecentCheckins(ctx, s.checkinWindow)
	if err != nil {
		return err
	}
	s.checkins = count

	s.recomputeMastery()
	s.hub.publish(Event{Type: EventCheckinLogged, At: time.Now()})
	s.publishMasteryLocked()

	return nil
}

// Refresh reloads state from the store and publishes events for any changes
// found, so a long-lived watcher observes mutations other coach processes
// made against the same database. A refresh that finds nothing new publishes
// nothing.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trades, err := s.store.GetTrades(ctx, store.TradeFilter{})
	if err != nil {
		return err
	}

	prev := make(map[string]*models.Trade, len(s.trades))
	for _, t := range s.trades {
		prev[t.ID] = t
	}

	// Walk oldest-first so subscribers see changes in journal order. A trade
	// that was opened, closed, and reflected on between refreshes yields all
	// three events.
	now := time.Now()
	var events []Event
	for i := len(trades) - 1; i >= 0; i-- {
		t := trades[i]
		old, known := prev[t.ID]
		if !known {
			events = append(events, Event{Type: EventTradeOpened, TradeID: t.ID, At: now})
		}
		if t.Status == models.TradeClosed && (!known || old.Status != models.TradeClosed) {
			events = append(events, Event{Type: EventTradeClosed, TradeID: t.ID, At: now})
		}
		if t.UserEvaluation != nil && (!known || old.UserEvaluation == nil) {
			events = append(events, Event{Type: EventReflectionSubmitted, TradeID: t.ID, At: now})
		}
	}

	checkins, err := s.store.CountRecentCheckins(ctx, s.checkinWindow)
	if err != nil {
		return err
	}
	if checkins != s.checkins {
		events = append(events, Event{Type: EventCheckinLogged, At: now})
	}

	pattern, err := s.store.GetLatestPattern(ctx)
	if err != nil {
		return err
	}
	patternChanged := (pattern == nil) != (s.pattern == nil) ||
		(pattern != nil && s.pattern != nil && pattern.PatternName != s.pattern.PatternName)

	s.trades = trades
	s.checkins = checkins
	s.pattern = pattern

	if len(events) == 0 && !patternChanged {
		return nil
	}

	s.graph.BuildFromHistory(trades)
	s.ingested = make(map[string]struct{})
	s.lastShadow = nil
	for _, t := range trades {
		if t.Status == models.TradeClosed && t.UserEvaluation != nil {
			s.ingested[t.ID] = struct{}{}
		}
		if s.lastShadow == nil && t.Shadow != nil {
			s.lastShadow = t.Shadow
		}
	}

	s.recomputeMastery()

	for _, event := range events {
		s.hub.publish(event)
	}
	s.publishMasteryLocked()

	s.logger.Debug().Int("events", len(events)).Msg("Session refreshed from store")

	return nil
}

// Report mines the behavior graph into a behavioral fingerprint.
func (s *Session) Report() models.BehavioralReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Report()
}

// Mastery returns the current mastery projection, quests included.
func (s *Session) Mastery() models.MasteryData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mastery
}

// ProcessStats aggregates process quality across the trade history.
func (s *Session) ProcessStats() models.ProcessStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scoring.AggregateStats(s.trades)
}

// Stats derives the aggregate trader stats from the cached history.
func (s *Session) Stats() models.TraderStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statsLocked()
}

// Trades returns the cached trade history, newest-first.
func (s *Session) Trades() []*models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Trade, len(s.trades))
	copy(out, s.trades)
	return out
}

// Pattern returns the currently detected behavioral pattern, if any.
func (s *Session) Pattern() *models.DetectedPattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pattern
}

// Subscribe registers an event subscriber.
func (s *Session) Subscribe() *Subscriber {
	return s.hub.subscribe()
}

// Unsubscribe removes an event subscriber.
func (s *Session) Unsubscribe(id string) {
	s.hub.unsubscribe(id)
}

// Close releases the session's subscribers. The store is owned by the caller
// and is not closed here.
func (s *Session) Close() {
	s.hub.close()
}

func (s *Session) findTradeLocked(tradeID string) *models.Trade {
	for _, t := range s.trades {
		if t.ID == tradeID {
			return t
		}
	}
	return nil
}

// statsLocked derives TraderStats from the newest-first history. Survival
// days count calendar days from the first recorded trade through today,
// inclusive.
func (s *Session) statsLocked() models.TraderStats {
	stats := models.TraderStats{}
	if len(s.trades) == 0 {
		return stats
	}

	first := s.trades[len(s.trades)-1].Timestamp
	stats.SurvivalDays = int(time.Since(first).Hours()/24) + 1

	disciplined := 0
	for _, t := range s.trades {
		if t.Decision != models.DecisionWarn && t.Decision != models.DecisionBlock {
			disciplined++
		}
	}
	stats.DisciplineScore = float64(disciplined) / float64(len(s.trades)) * 100

	for _, t := range s.trades {
		if t.Status != models.TradeClosed {
			continue
		}
		if t.IsWin() {
			if stats.ConsecutiveLosses > 0 {
				break
			}
			stats.ConsecutiveWins++
		} else {
			if stats.ConsecutiveWins > 0 {
				break
			}
			stats.ConsecutiveLosses++
		}
	}

	return stats
}

// recomputeMastery rebuilds the mastery projection from scratch. Quest
// generation scans the history oldest-first so that the warn-free streak is
// counted from the most recent trades backwards.
func (s *Session) recomputeMastery() {
	md := mastery.CalculateMastery(s.statsLocked(), s.trades, s.lastShadow)

	chronological := make([]*models.Trade, len(s.trades))
	for i, t := range s.trades {
		chronological[len(s.trades)-1-i] = t
	}
	md.Quests = mastery.GenerateQuests(s.pattern, s.checkins, chronological)

	s.mastery = md
	logging.LogMastery(s.logger, string(md.Level), md.XP)
}

func (s *Session) snapshotMastery(ctx context.Context) {
	if err := s.store.SaveMasterySnapshot(ctx, &s.mastery); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to snapshot mastery")
	}
}

func (s *Session) publishMasteryLocked() {
	md := s.mastery
	s.hub.publish(Event{Type: EventMasteryUpdated, Mastery: &md, At: time.Now()})
}
