package cpm

import (
	"maps"
	"slices"

	errs "github.com/matzehuels/critpath/pkg/errors"
)

// NodeID indexes a [Node] in its [Graph]'s arena. IDs follow code order.
type NodeID int

// Node is a task placed in the graph together with its CPM metrics.
//
// EarliestStart and EarliestFinish are valid once ResolvedForward is set;
// LatestStart, LatestFinish and Slack once ResolvedBackward is set.
type Node struct {
	Task     Task
	Duration int

	EarliestStart   int
	EarliestFinish  int
	ResolvedForward bool

	LatestStart      int
	LatestFinish     int
	Slack            int
	ResolvedBackward bool

	id    NodeID
	preds []NodeID
	succs []NodeID
}

// ID returns the node's arena index.
func (n *Node) ID() NodeID { return n.id }

// Code returns the code of the node's task.
func (n *Node) Code() string { return n.Task.Code }

// IsAnchor reports whether n is START or END.
func (n *Node) IsAnchor() bool { return n.Task.IsAnchor() }

// IsCritical reports whether n is resolved and has zero slack.
func (n *Node) IsCritical() bool { return n.ResolvedBackward && n.Slack == 0 }

// Graph is the bidirectional dependency graph of one computation.
//
// Nodes live in a single slice ordered by code; edges are stored as
// [NodeID] slices on both endpoints. A Graph is built once per computation
// and must not be mutated concurrently.
type Graph struct {
	nodes        []Node
	index        map[string]NodeID
	start, end   NodeID
	forwardDone  bool
	backwardDone bool
}

// NewGraph creates one node per plan task and links them through the
// plan's predecessor and successor indexes.
func NewGraph(p *Plan) (*Graph, error) {
	if p == nil {
		return nil, errs.New(errs.ErrCodeInvariantViolation, "nil plan")
	}
	codes := slices.Sorted(maps.Keys(p.Tasks))
	g := &Graph{
		nodes: make([]Node, len(codes)),
		index: make(map[string]NodeID, len(codes)),
	}
	for i, code := range codes {
		t := p.Tasks[code]
		g.nodes[i] = Node{Task: t, Duration: t.Duration, id: NodeID(i)}
		g.index[code] = NodeID(i)
	}

	var ok bool
	if g.start, ok = g.index[StartCode]; !ok {
		return nil, errs.New(errs.ErrCodeInvariantViolation, "plan has no %s anchor", StartCode)
	}
	if g.end, ok = g.index[EndCode]; !ok {
		return nil, errs.New(errs.ErrCodeInvariantViolation, "plan has no %s anchor", EndCode)
	}
	g.nodes[g.start].Duration = 0
	g.nodes[g.end].Duration = 0

	for i := range g.nodes {
		n := &g.nodes[i]
		var err error
		if n.preds, err = g.lookup(n.Code(), p.Predecessors[n.Code()]); err != nil {
			return nil, err
		}
		if n.succs, err = g.lookup(n.Code(), p.Successors[n.Code()]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// lookup resolves codes to IDs in ascending order.
func (g *Graph) lookup(owner string, codes []string) ([]NodeID, error) {
	ids := make([]NodeID, 0, len(codes))
	for _, c := range codes {
		id, ok := g.index[c]
		if !ok {
			return nil, errs.New(errs.ErrCodeInvariantViolation,
				"index of %q names unknown task %q", owner, c).ForTask(owner)
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// Start returns the START anchor.
func (g *Graph) Start() *Node { return &g.nodes[g.start] }

// End returns the END anchor.
func (g *Graph) End() *Node { return &g.nodes[g.end] }

// Node returns the node with the given code.
func (g *Graph) Node(code string) (*Node, bool) {
	id, ok := g.index[code]
	if !ok {
		return nil, false
	}
	return &g.nodes[id], true
}

// Nodes returns every node, anchors included, in code order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	for i := range g.nodes {
		out[i] = &g.nodes[i]
	}
	return out
}

// Len returns the number of nodes, anchors included.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of dependency edges, anchor edges included.
func (g *Graph) EdgeCount() int {
	n := 0
	for i := range g.nodes {
		n += len(g.nodes[i].succs)
	}
	return n
}

// Predecessors returns the direct predecessors of n in code order.
func (g *Graph) Predecessors(n *Node) []*Node { return g.resolveIDs(n.preds) }

// Successors returns the direct successors of n in code order.
func (g *Graph) Successors(n *Node) []*Node { return g.resolveIDs(n.succs) }

func (g *Graph) resolveIDs(ids []NodeID) []*Node {
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = &g.nodes[id]
	}
	return out
}
