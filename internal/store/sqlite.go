package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "survival-coach/internal/errors"
	"survival-coach/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Trades table; rows are never deleted
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		asset TEXT NOT NULL,
		direction TEXT NOT NULL,
		entry_price REAL NOT NULL,
		position_size REAL NOT NULL,
		pnl REAL,
		reasoning TEXT,
		status TEXT NOT NULL,
		decision TEXT,
		losses_at_entry INTEGER DEFAULT 0,
		wins_at_entry INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Trader self-reports, one per trade, immutable after submission
	CREATE TABLE IF NOT EXISTS user_evaluations (
		trade_id TEXT PRIMARY KEY,
		setup_clarity INTEGER NOT NULL,
		had_predefined_entry INTEGER NOT NULL,
		had_predefined_sl INTEGER NOT NULL,
		had_predefined_tp INTEGER NOT NULL,
		followed_position_sizing INTEGER NOT NULL,
		plan_adherence INTEGER NOT NULL,
		impulsive_actions INTEGER NOT NULL,
		emotional_influence INTEGER NOT NULL,
		dominant_emotion TEXT NOT NULL,
		reflection TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (trade_id) REFERENCES trades(id)
	);

	-- Derived process evaluations, one per trade
	CREATE TABLE IF NOT EXISTS process_evaluations (
		trade_id TEXT PRIMARY KEY,
		setup_score REAL NOT NULL,
		risk_score REAL NOT NULL,
		emotion_score REAL NOT NULL,
		execution_score REAL NOT NULL,
		weakest_area TEXT NOT NULL,
		total_score INTEGER NOT NULL,
		summary TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (trade_id) REFERENCES trades(id)
	);

	-- Shadow scores, one per trade
	CREATE TABLE IF NOT EXISTS shadow_scores (
		trade_id TEXT PRIMARY KEY,
		raw_score INTEGER NOT NULL,
		trust_level TEXT NOT NULL,
		response_authenticity REAL NOT NULL,
		behavior_gap REAL NOT NULL,
		xp_multiplier REAL NOT NULL,
		verification_level TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (trade_id) REFERENCES trades(id)
	);

	-- Daily check-ins, one row per calendar day
	CREATE TABLE IF NOT EXISTS checkins (
		day TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Behavioral patterns detected by the external analysis service
	CREATE TABLE IF NOT EXISTS detected_patterns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pattern_name TEXT NOT NULL,
		summary TEXT,
		evidence TEXT,
		impact TEXT,
		psychology TEXT,
		breaking_strategy TEXT,
		success_metric TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Mastery snapshots for history
	CREATE TABLE IF NOT EXISTS mastery_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		level TEXT NOT NULL,
		xp INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);
	CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status);
	CREATE INDEX IF NOT EXISTS idx_patterns_created ON detected_patterns(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveTrade inserts a new trade.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (id, timestamp, asset, direction, entry_price, position_size,
			pnl, reasoning, status, decision, losses_at_entry, wins_at_entry)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trade.ID, trade.Timestamp, trade.Asset, string(trade.Direction),
		trade.EntryPrice, trade.PositionSize, trade.PnL, trade.Reasoning,
		string(trade.Status), string(trade.Decision),
		trade.StatsAtEntry.ConsecutiveLosses, trade.StatsAtEntry.ConsecutiveWins)
	if err != nil {
		return apperrors.NewStoreError("save_trade", trade.ID, err)
	}
	return nil
}

// CloseTrade attaches the realized P&L and flips the status to CLOSED.
func (s *SQLiteStore) CloseTrade(ctx context.Context, tradeID string, pnl float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE trades SET pnl = ?, status = ? WHERE id = ? AND status = ?`,
		pnl, string(models.TradeClosed), tradeID, string(models.TradeOpen))
	if err != nil {
		return apperrors.NewStoreError("close_trade", tradeID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("close_trade", tradeID, err)
	}
	if affected == 0 {
		return apperrors.NewStoreError("close_trade", tradeID, apperrors.ErrTradeNotFound)
	}
	return nil
}

// GetTrade returns one trade with its evaluations attached, if present.
func (s *SQLiteStore) GetTrade(ctx context.Context, tradeID string) (*models.Trade, error) {
	trades, err := s.GetTrades(ctx, TradeFilter{})
	if err != nil {
		return nil, err
	}
	for _, t := range trades {
		if t.ID == tradeID {
			return t, nil
		}
	}
	return nil, apperrors.NewStoreError("get_trade", tradeID, apperrors.ErrTradeNotFound)
}

// GetTrades returns trades matching the filter, newest-first, with any
// recorded evaluations and shadow scores attached.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]*models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT t.id, t.timestamp, t.asset, t.direction, t.entry_price, t.position_size,
			t.pnl, t.reasoning, t.status, t.decision, t.losses_at_entry, t.wins_at_entry,
			ue.setup_clarity, ue.had_predefined_entry, ue.had_predefined_sl, ue.had_predefined_tp,
			ue.followed_position_sizing, ue.plan_adherence, ue.impulsive_actions,
			ue.emotional_influence, ue.dominant_emotion, ue.reflection,
			pe.setup_score, pe.risk_score, pe.emotion_score, pe.execution_score,
			pe.weakest_area, pe.total_score, pe.summary,
			ss.raw_score, ss.trust_level, ss.response_authenticity, ss.behavior_gap,
			ss.xp_multiplier, ss.verification_level
		FROM trades t
		LEFT JOIN user_evaluations ue ON ue.trade_id = t.id
		LEFT JOIN process_evaluations pe ON pe.trade_id = t.id
		LEFT JOIN shadow_scores ss ON ss.trade_id = t.id`

	var conditions []string
	var args []any
	if filter.Asset != "" {
		conditions = append(conditions, "t.asset = ?")
		args = append(args, filter.Asset)
	}
	if filter.Status != "" {
		conditions = append(conditions, "t.status = ?")
		args = append(args, string(filter.Status))
	}
	if !filter.StartDate.IsZero() {
		conditions = append(conditions, "t.timestamp >= ?")
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		conditions = append(conditions, "t.timestamp <= ?")
		args = append(args, filter.EndDate)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("get_trades", "", err)
	}
	defer rows.Close()

	var trades []*models.Trade
	for rows.Next() {
		trade, err := scanTradeRow(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("get_trades", "", err)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("get_trades", "", err)
	}
	return trades, nil
}

func scanTradeRow(rows *sql.Rows) (*models.Trade, error) {
	var (
		trade     models.Trade
		direction string
		status    string
		decision  sql.NullString
		pnl       sql.NullFloat64
		reasoning sql.NullString

		ueClarity, ueEntry, ueSL, ueTP         sql.NullInt64
		ueSizing, ueAdherence, ueImpulsive     sql.NullInt64
		ueInfluence                            sql.NullInt64
		ueEmotion, ueReflection                sql.NullString
		peSetup, peRisk, peEmotion, peExec     sql.NullFloat64
		peWeakest, peSummary                   sql.NullString
		peTotal                                sql.NullInt64
		ssRaw                                  sql.NullInt64
		ssTrust, ssVerification                sql.NullString
		ssAuthenticity, ssGap, ssXPMultiplier  sql.NullFloat64
	)

	err := rows.Scan(&trade.ID, &trade.Timestamp, &trade.Asset, &direction,
		&trade.EntryPrice, &trade.PositionSize, &pnl, &reasoning, &status, &decision,
		&trade.StatsAtEntry.ConsecutiveLosses, &trade.StatsAtEntry.ConsecutiveWins,
		&ueClarity, &ueEntry, &ueSL, &ueTP, &ueSizing, &ueAdherence, &ueImpulsive,
		&ueInfluence, &ueEmotion, &ueReflection,
		&peSetup, &peRisk, &peEmotion, &peExec, &peWeakest, &peTotal, &peSummary,
		&ssRaw, &ssTrust, &ssAuthenticity, &ssGap, &ssXPMultiplier, &ssVerification)
	if err != nil {
		return nil, err
	}

	trade.Direction = models.Direction(direction)
	trade.Status = models.TradeStatus(status)
	trade.Decision = models.Decision(decision.String)
	trade.PnL = pnl.Float64
	trade.Reasoning = reasoning.String

	if ueClarity.Valid {
		trade.UserEvaluation = &models.UserProcessEvaluation{
			SetupClarity:           int(ueClarity.Int64),
			HadPredefinedEntry:     ueEntry.Int64 != 0,
			HadPredefinedSL:        ueSL.Int64 != 0,
			HadPredefinedTP:        ueTP.Int64 != 0,
			FollowedPositionSizing: int(ueSizing.Int64),
			PlanAdherence:          int(ueAdherence.Int64),
			ImpulsiveActions:       int(ueImpulsive.Int64),
			EmotionalInfluence:     int(ueInfluence.Int64),
			DominantEmotion:        models.Emotion(ueEmotion.String),
			Reflection:             ueReflection.String,
		}
	}

	if peTotal.Valid {
		trade.ProcessEvaluation = &models.ProcessEvaluation{
			TotalProcessScore: int(peTotal.Int64),
			Scores: models.DimensionScores{
				Setup:     peSetup.Float64,
				Risk:      peRisk.Float64,
				Emotion:   peEmotion.Float64,
				Execution: peExec.Float64,
			},
			WeakestArea: models.ProcessArea(peWeakest.String),
			Summary:     peSummary.String,
		}
	}

	if ssRaw.Valid {
		trade.Shadow = &models.ShadowScore{
			RawScore:   int(ssRaw.Int64),
			TrustLevel: models.TrustLevel(ssTrust.String),
			Breakdown: models.ShadowBreakdown{
				ResponseAuthenticity: ssAuthenticity.Float64,
				BehaviorGap:          ssGap.Float64,
			},
			AdjustmentFactors: models.AdjustmentFactors{
				XPMultiplier:      ssXPMultiplier.Float64,
				VerificationLevel: models.VerificationLevel(ssVerification.String),
			},
		}
	}

	return &trade, nil
}

// SaveUserEvaluation records the trader's self-report for a trade. A second
// submission for the same trade is rejected.
func (s *SQLiteStore) SaveUserEvaluation(ctx context.Context, tradeID string, eval *models.UserProcessEvaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_evaluations (trade_id, setup_clarity, had_predefined_entry,
			had_predefined_sl, had_predefined_tp, followed_position_sizing,
			plan_adherence, impulsive_actions, emotional_influence, dominant_emotion, reflection)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tradeID, eval.SetupClarity, boolToInt(eval.HadPredefinedEntry),
		boolToInt(eval.HadPredefinedSL), boolToInt(eval.HadPredefinedTP),
		eval.FollowedPositionSizing, eval.PlanAdherence, eval.ImpulsiveActions,
		eval.EmotionalInfluence, string(eval.DominantEmotion), eval.Reflection)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return apperrors.NewStoreError("save_user_evaluation", tradeID, apperrors.ErrEvaluationExists)
		}
		return apperrors.NewStoreError("save_user_evaluation", tradeID, err)
	}
	return nil
}

// SaveProcessEvaluation records the derived process evaluation for a trade.
func (s *SQLiteStore) SaveProcessEvaluation(ctx context.Context, tradeID string, eval *models.ProcessEvaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO process_evaluations (trade_id, setup_score, risk_score,
			emotion_score, execution_score, weakest_area, total_score, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tradeID, eval.Scores.Setup, eval.Scores.Risk, eval.Scores.Emotion,
		eval.Scores.Execution, string(eval.WeakestArea), eval.TotalProcessScore, eval.Summary)
	if err != nil {
		return apperrors.NewStoreError("save_process_evaluation", tradeID, err)
	}
	return nil
}

// SaveShadowScore records the shadow score for a trade.
func (s *SQLiteStore) SaveShadowScore(ctx context.Context, tradeID string, score *models.ShadowScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO shadow_scores (trade_id, raw_score, trust_level,
			response_authenticity, behavior_gap, xp_multiplier, verification_level)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tradeID, score.RawScore, string(score.TrustLevel),
		score.Breakdown.ResponseAuthenticity, score.Breakdown.BehaviorGap,
		score.AdjustmentFactors.XPMultiplier, string(score.AdjustmentFactors.VerificationLevel))
	if err != nil {
		return apperrors.NewStoreError("save_shadow_score", tradeID, err)
	}
	return nil
}

// LogCheckin records a daily check-in. Repeat check-ins on the same calendar
// day are idempotent.
func (s *SQLiteStore) LogCheckin(ctx context.Context, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO checkins (day) VALUES (?)`,
		day.Format("2006-01-02"))
	if err != nil {
		return apperrors.NewStoreError("log_checkin", "", err)
	}
	return nil
}

// CountRecentCheckins counts check-ins within the trailing window.
func (s *SQLiteStore) CountRecentCheckins(ctx context.Context, days int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM checkins WHERE day > ?`, cutoff).Scan(&count)
	if err != nil {
		return 0, apperrors.NewStoreError("count_checkins", "", err)
	}
	return count, nil
}

// SavePattern records a behavioral pattern detected by the external analysis
// service.
func (s *SQLiteStore) SavePattern(ctx context.Context, pattern *models.DetectedPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	evidence, err := json.Marshal(pattern.Evidence)
	if err != nil {
		return apperrors.NewStoreError("save_pattern", pattern.PatternName, err)
	}
	strategy, err := json.Marshal(pattern.BreakingStrategy)
	if err != nil {
		return apperrors.NewStoreError("save_pattern", pattern.PatternName, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO detected_patterns (pattern_name, summary, evidence, impact,
			psychology, breaking_strategy, success_metric)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pattern.PatternName, pattern.Summary, string(evidence), pattern.Impact,
		pattern.Psychology, string(strategy), pattern.SuccessMetric)
	if err != nil {
		return apperrors.NewStoreError("save_pattern", pattern.PatternName, err)
	}
	return nil
}

// GetLatestPattern returns the most recently detected pattern, or nil when
// none has been recorded yet; an undetected pattern is an expected steady
// state, not an error.
func (s *SQLiteStore) GetLatestPattern(ctx context.Context) (*models.DetectedPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pattern models.DetectedPattern
	var evidence, strategy sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT pattern_name, summary, evidence, impact, psychology, breaking_strategy, success_metric
		FROM detected_patterns ORDER BY created_at DESC, id DESC LIMIT 1`).
		Scan(&pattern.PatternName, &pattern.Summary, &evidence, &pattern.Impact,
			&pattern.Psychology, &strategy, &pattern.SuccessMetric)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get_latest_pattern", "", err)
	}

	if evidence.Valid {
		_ = json.Unmarshal([]byte(evidence.String), &pattern.Evidence)
	}
	if strategy.Valid {
		_ = json.Unmarshal([]byte(strategy.String), &pattern.BreakingStrategy)
	}
	return &pattern, nil
}

// SaveMasterySnapshot appends a mastery snapshot.
func (s *SQLiteStore) SaveMasterySnapshot(ctx context.Context, data *models.MasteryData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mastery_snapshots (level, xp) VALUES (?, ?)`,
		string(data.Level), data.XP)
	if err != nil {
		return apperrors.NewStoreError("save_mastery_snapshot", "", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
