package graph

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"survival-coach/internal/models"
)

// minReportNodes is the data-volume gate below which the report degrades to
// the fixed "not enough data" output.
const minReportNodes = 5

// highRiskAvgSize is the mean position size above which the risk tendency is
// phrased as high-risk.
const highRiskAvgSize = 150.0

// Engine ingests evaluated trades into a behavior graph and mines it on
// demand. One engine instance is owned per user session; the caller is
// responsible for serializing mutation calls and for re-initializing the
// engine per authenticated user.
//
// Ingestion is not idempotent: adding the same trade twice double-counts.
// Callers needing exactly-once semantics must track ingested trade ids
// themselves (see session.Session).
type Engine struct {
	graph  *Graph
	logger zerolog.Logger
}

// NewEngine creates an engine with an empty graph.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{
		graph:  NewGraph(),
		logger: logger.With().Str("component", "behavior_graph").Logger(),
	}
}

// Graph exposes the underlying graph for inspection.
func (e *Engine) Graph() *Graph {
	return e.graph
}

// BuildFromHistory clears the graph and replays the history in chronological
// order. The input is assumed newest-first, the application state ordering,
// and is reversed before replay. Trades that are not CLOSED or lack a
// self-evaluation are skipped. A nil history is a logged no-op.
func (e *Engine) BuildFromHistory(trades []*models.Trade) {
	e.graph.Clear()

	if trades == nil {
		e.logger.Debug().Msg("No valid trade history to build behavior graph from")
		return
	}

	for i := len(trades) - 1; i >= 0; i-- {
		trade := trades[i]
		if trade == nil {
			continue
		}
		if trade.Status == models.TradeClosed && trade.UserEvaluation != nil {
			e.AddTrade(trade)
		}
	}

	e.logger.Debug().
		Int("nodes", e.graph.NodeCount()).
		Int("edges", e.graph.EdgeCount()).
		Msg("Behavior graph built from history")
}

// AddTrade ingests one evaluated trade, inserting or incrementing the five
// nodes of its behavior chain and the four edges connecting them. Trades
// lacking either evaluation object are skipped.
func (e *Engine) AddTrade(trade *models.Trade) {
	if trade == nil || trade.UserEvaluation == nil || trade.ProcessEvaluation == nil {
		return
	}

	contextLabel := "Neutral Context"
	if losses := trade.StatsAtEntry.ConsecutiveLosses; losses > 1 {
		contextLabel = fmt.Sprintf("%d Losses", losses)
	}
	contextNode := e.graph.addOrUpdateNode("context_"+sanitizeID(contextLabel), NodeContext, contextLabel, nil)

	emotion := string(trade.UserEvaluation.DominantEmotion)
	emotionNode := e.graph.addOrUpdateNode("emotion_"+emotion, NodeEmotion, emotion, nil)

	intent := trade.Reasoning
	if intent == "" {
		intent = "No specific intent"
	}
	category := intentCategory(intent)
	intentNode := e.graph.addOrUpdateNode("intent_"+category, NodeIntent, category,
		map[string]any{"fullText": intent})

	actionLabel := fmt.Sprintf("%s %s", trade.Direction, trade.Asset)
	actionNode := e.graph.addOrUpdateNode("action_"+strings.ReplaceAll(actionLabel, "/", "_"), NodeAction, actionLabel,
		map[string]any{"size": trade.PositionSize})

	outcome := "Loss"
	if trade.IsWin() {
		outcome = "Win"
	}
	process := "Bad Process"
	if trade.ProcessEvaluation.TotalProcessScore > 70 {
		process = "Good Process"
	}
	outcomeLabel := outcome + " / " + process
	outcomeID := "outcome_" + sanitizeID(strings.ReplaceAll(outcomeLabel, " / ", "_"))
	outcomeNode := e.graph.addOrUpdateNode(outcomeID, NodeOutcome, outcomeLabel,
		map[string]any{"pnl": trade.PnL})

	e.graph.addOrUpdateEdge(contextNode.ID, emotionNode.ID, EdgeTriggers)
	e.graph.addOrUpdateEdge(emotionNode.ID, intentNode.ID, EdgeLeadsTo)
	e.graph.addOrUpdateEdge(intentNode.ID, actionNode.ID, EdgeLeadsTo)
	e.graph.addOrUpdateEdge(actionNode.ID, outcomeNode.ID, EdgeLeadsTo)
}

// intentCategory keyword-matches the entry reasoning, case-insensitively.
// Check order matters: the support/retest test runs after the breakout test
// and overwrites it when both match.
func intentCategory(reasoning string) string {
	lower := strings.ToLower(reasoning)
	category := "Other"
	if strings.Contains(lower, "breakout") {
		category = "Breakout"
	}
	if strings.Contains(lower, "support") || strings.Contains(lower, "retest") {
		category = "Support/Retest"
	}
	return category
}

// Report synthesizes the behavioral fingerprint from graph statistics. It is
// read-only: repeated calls with no intervening mutation return identical
// output. Insufficient data degrades to fixed placeholder text, never an
// error.
func (e *Engine) Report() models.BehavioralReport {
	report := defaultReport()

	if e.graph.NodeCount() < minReportNodes {
		return report
	}

	// Not yet data-driven beyond the node-count gate; kept as a fixed label.
	report.Fingerprint.PrimaryDriver = "Profit Seeking"

	// Retain the structured labels of the strongest trigger edge so the
	// prediction and recommendation sentences can reuse them directly.
	var triggerContext, triggerEmotion string
	if edge := e.graph.strongestEdgeFrom(NodeContext, EdgeTriggers); edge != nil {
		triggerContext = e.graph.nodes[edge.Source].Label
		triggerEmotion = e.graph.nodes[edge.Target].Label
		report.Fingerprint.EmotionalTrigger = fmt.Sprintf(
			"The context of '%s' often triggers '%s'.", triggerContext, triggerEmotion)
	}

	if actions := e.graph.nodesOfType(NodeAction); len(actions) > 0 {
		var sum float64
		for _, node := range actions {
			if size, ok := node.Data["size"].(float64); ok {
				sum += size
			}
		}
		if sum/float64(len(actions)) > highRiskAvgSize {
			report.Fingerprint.RiskTendency = "Tends toward high-risk setups."
		} else {
			report.Fingerprint.RiskTendency = "Generally maintains controlled risk."
		}
	}

	patternFound := false
	if path := e.strongestPath(); len(path) >= 4 {
		contextNode := e.graph.nodes[path[0]]
		emotionNode := e.graph.nodes[path[1]]
		outcomeNode := e.graph.nodes[path[3]]
		report.ActivePattern = models.ActivePattern{
			Name: fmt.Sprintf("Pattern: %s Trading", emotionNode.Label),
			Description: fmt.Sprintf(
				"When in a '%s' state, you tend to feel '%s', which often results in a '%s'.",
				contextNode.Label, emotionNode.Label, outcomeNode.Label),
			Impact: "This pattern can lead to predictable outcomes. Understanding it is the first step to changing it.",
		}
		patternFound = true
	}

	if patternFound {
		report.Predictions.NextWeekFocus = fmt.Sprintf("Interrupting the '%s' pattern.", report.ActivePattern.Name)
		if triggerContext != "" {
			report.Predictions.PotentialRisk = fmt.Sprintf(
				"When you notice the '%s' context, be mindful of the urge to act.", triggerContext)
		}
		if triggerEmotion != "" {
			report.Recommendations.Action = fmt.Sprintf(
				"When you feel '%s', pause for 5 minutes before deciding on an action.", triggerEmotion)
		}
		report.Recommendations.Metric = "Instances of this pattern occurring."
	}

	return report
}

// strongestPath starts at the highest-count CONTEXT node and greedily walks
// up to 3 hops, following the highest-weight outgoing edge at each step.
// Paths of 2 or fewer nodes are discarded.
func (e *Engine) strongestPath() []string {
	contexts := e.graph.nodesOfType(NodeContext)
	if len(contexts) == 0 {
		return nil
	}

	start := contexts[0]
	for _, node := range contexts[1:] {
		if node.Count > start.Count {
			start = node
		}
	}

	path := []string{start.ID}
	current := start.ID
	for i := 0; i < 3; i++ {
		edge := e.graph.strongestOutgoing(current)
		if edge == nil {
			break
		}
		path = append(path, edge.Target)
		current = edge.Target
	}

	if len(path) <= 2 {
		return nil
	}
	return path
}

func defaultReport() models.BehavioralReport {
	return models.BehavioralReport{
		Fingerprint: models.Fingerprint{
			PrimaryDriver:    "Not enough data.",
			EmotionalTrigger: "Not enough data.",
			RiskTendency:     "Not enough data.",
		},
		ActivePattern: models.ActivePattern{
			Name:        "No significant pattern detected.",
			Description: "Your behavior appears consistent without strong repeating patterns.",
			Impact:      "N/A",
		},
		Predictions: models.Predictions{
			NextWeekFocus: "Maintain current process discipline.",
			PotentialRisk: "Be aware of any emerging emotional triggers.",
		},
		Recommendations: models.Recommendations{
			Action: "Continue with daily check-ins to build a stronger data profile.",
			Metric: "Discipline Score",
		},
	}
}
