// Package graph maintains a running causal graph of trading behavior and
// mines it into a structured behavioral fingerprint report.
package graph

import (
	"fmt"
	"strings"
)

// NodeType classifies a graph node.
type NodeType string

const (
	NodeContext NodeType = "CONTEXT"
	NodeEmotion NodeType = "EMOTION"
	NodeIntent  NodeType = "INTENT"
	NodeAction  NodeType = "ACTION"
	NodeOutcome NodeType = "OUTCOME"
)

// EdgeType classifies a graph edge.
type EdgeType string

const (
	EdgeTriggers EdgeType = "TRIGGERS"
	EdgeLeadsTo  EdgeType = "LEADS_TO"
)

// Node is a typed graph node. Count is a monotonically non-decreasing
// occurrence counter, incremented by exactly 1 per qualifying trade.
type Node struct {
	ID    string
	Type  NodeType
	Label string
	Data  map[string]any
	Count int
}

// Edge is a weighted directed edge. Weight is a monotonically non-decreasing
// counter keyed by the (source, type, target) triple.
type Edge struct {
	Source string
	Target string
	Type   EdgeType
	Weight int
}

// Graph holds the mutable behavior graph. Insertion order is retained so
// that highest-weight lookups resolve ties deterministically, matching the
// order trades were ingested.
type Graph struct {
	nodes     map[string]*Node
	edges     map[string]*Edge
	nodeOrder []string
	edgeOrder []string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string]*Edge),
	}
}

// Clear removes all nodes and edges.
func (g *Graph) Clear() {
	g.nodes = make(map[string]*Node)
	g.edges = make(map[string]*Edge)
	g.nodeOrder = g.nodeOrder[:0]
	g.edgeOrder = g.edgeOrder[:0]
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// Edge returns the edge for the given (source, type, target) triple, or nil.
func (g *Graph) Edge(source string, edgeType EdgeType, target string) *Edge {
	return g.edges[edgeKey(source, edgeType, target)]
}

// addOrUpdateNode inserts the node or increments its occurrence counter.
func (g *Graph) addOrUpdateNode(id string, nodeType NodeType, label string, data map[string]any) *Node {
	if node, ok := g.nodes[id]; ok {
		node.Count++
		return node
	}
	node := &Node{ID: id, Type: nodeType, Label: label, Data: data, Count: 1}
	g.nodes[id] = node
	g.nodeOrder = append(g.nodeOrder, id)
	return node
}

// addOrUpdateEdge inserts the edge or increments its weight.
func (g *Graph) addOrUpdateEdge(source, target string, edgeType EdgeType) {
	key := edgeKey(source, edgeType, target)
	if edge, ok := g.edges[key]; ok {
		edge.Weight++
		return
	}
	g.edges[key] = &Edge{Source: source, Target: target, Type: edgeType, Weight: 1}
	g.edgeOrder = append(g.edgeOrder, key)
}

func edgeKey(source string, edgeType EdgeType, target string) string {
	return fmt.Sprintf("%s-%s->%s", source, edgeType, target)
}

// nodesOfType returns nodes of the given type in insertion order.
func (g *Graph) nodesOfType(nodeType NodeType) []*Node {
	var out []*Node
	for _, id := range g.nodeOrder {
		if n := g.nodes[id]; n.Type == nodeType {
			out = append(out, n)
		}
	}
	return out
}

// strongestEdgeFrom returns the highest-weight edge of the given type whose
// source node has the given type, or nil. Ties resolve to the earliest
// inserted edge.
func (g *Graph) strongestEdgeFrom(nodeType NodeType, edgeType EdgeType) *Edge {
	var best *Edge
	for _, key := range g.edgeOrder {
		edge := g.edges[key]
		if edge.Type != edgeType {
			continue
		}
		source := g.nodes[edge.Source]
		if source == nil || source.Type != nodeType {
			continue
		}
		if best == nil || edge.Weight > best.Weight {
			best = edge
		}
	}
	return best
}

// strongestOutgoing returns the highest-weight edge leaving the given node,
// or nil. Ties resolve to the earliest inserted edge.
func (g *Graph) strongestOutgoing(nodeID string) *Edge {
	var best *Edge
	for _, key := range g.edgeOrder {
		edge := g.edges[key]
		if edge.Source != nodeID {
			continue
		}
		if best == nil || edge.Weight > best.Weight {
			best = edge
		}
	}
	return best
}

// sanitizeID makes a label usable as a node id component.
func sanitizeID(label string) string {
	return strings.ReplaceAll(label, " ", "_")
}
