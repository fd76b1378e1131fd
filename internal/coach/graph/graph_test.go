package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrUpdateNodeKeepsFirstLabelAndData(t *testing.T) {
	g := NewGraph()

	first := g.addOrUpdateNode("intent_Breakout", NodeIntent, "Breakout", map[string]any{"fullText": "breakout play"})
	second := g.addOrUpdateNode("intent_Breakout", NodeIntent, "Breakout", map[string]any{"fullText": "another breakout"})

	assert.Same(t, first, second)
	assert.Equal(t, 2, second.Count)
	assert.Equal(t, "breakout play", second.Data["fullText"], "first insertion wins")
}

func TestStrongestLookupsTieBreakToEarliestInserted(t *testing.T) {
	g := NewGraph()

	g.addOrUpdateNode("context_A", NodeContext, "A", nil)
	g.addOrUpdateNode("emotion_X", NodeEmotion, "X", nil)
	g.addOrUpdateNode("emotion_Y", NodeEmotion, "Y", nil)

	g.addOrUpdateEdge("context_A", "emotion_X", EdgeTriggers)
	g.addOrUpdateEdge("context_A", "emotion_Y", EdgeTriggers)

	edge := g.strongestEdgeFrom(NodeContext, EdgeTriggers)
	require.NotNil(t, edge)
	assert.Equal(t, "emotion_X", edge.Target, "equal weights resolve to the earliest edge")

	// A heavier edge overtakes regardless of insertion order.
	g.addOrUpdateEdge("context_A", "emotion_Y", EdgeTriggers)
	edge = g.strongestOutgoing("context_A")
	require.NotNil(t, edge)
	assert.Equal(t, "emotion_Y", edge.Target)
	assert.Equal(t, 2, edge.Weight)
}

func TestClearResetsAllState(t *testing.T) {
	g := NewGraph()
	g.addOrUpdateNode("context_A", NodeContext, "A", nil)
	g.addOrUpdateNode("emotion_X", NodeEmotion, "X", nil)
	g.addOrUpdateEdge("context_A", "emotion_X", EdgeTriggers)

	g.Clear()

	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
	assert.Nil(t, g.Node("context_A"))
	assert.Nil(t, g.Edge("context_A", EdgeTriggers, "emotion_X"))
	assert.Empty(t, g.nodesOfType(NodeContext))
}
