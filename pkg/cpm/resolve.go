package cpm

import (
	"container/heap"
	"math"
	"slices"
	"strings"

	errs "github.com/matzehuels/critpath/pkg/errors"
)

// idHeap is a min-heap of node IDs. Since IDs follow code order, popping
// yields the ready node with the smallest code.
type idHeap []NodeID

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x any)        { *h = append(*h, x.(NodeID)) }
func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// ResolveForward computes EarliestStart and EarliestFinish for every node.
//
// Nodes are processed once all their predecessors are resolved, starting
// from START at day 0. If some nodes can never become ready the graph
// contains a cycle and CYCLE_DETECTED is returned with one of them. A task
// whose finish day does not fit in an int is INVALID_INPUT.
func (g *Graph) ResolveForward() error {
	g.forwardDone, g.backwardDone = false, false
	pending := make([]int, len(g.nodes))
	for i := range g.nodes {
		g.nodes[i].ResolvedForward = false
		g.nodes[i].ResolvedBackward = false
		pending[i] = len(g.nodes[i].preds)
	}
	if pending[g.start] != 0 {
		return errs.New(errs.ErrCodeInvariantViolation, "%s has predecessors", StartCode)
	}

	ready := &idHeap{g.start}
	resolved := 0
	for ready.Len() > 0 {
		n := &g.nodes[heap.Pop(ready).(NodeID)]
		es := 0
		for _, p := range n.preds {
			es = max(es, g.nodes[p].EarliestFinish)
		}
		if n.Duration > math.MaxInt-es {
			return errs.New(errs.ErrCodeInvalidInput,
				"task %q finishes after day %d, too far to schedule", n.Code(), math.MaxInt).ForTask(n.Code())
		}
		n.EarliestStart = es
		n.EarliestFinish = es + n.Duration
		n.ResolvedForward = true
		resolved++

		for _, s := range n.succs {
			if pending[s]--; pending[s] == 0 {
				heap.Push(ready, s)
			}
		}
	}

	if resolved != len(g.nodes) {
		return g.cycleError("forward", resolved, func(n *Node) []NodeID { return n.preds },
			func(n *Node) bool { return !n.ResolvedForward }, true)
	}
	g.forwardDone = true
	return nil
}

// ResolveBackward computes LatestStart, LatestFinish and Slack for every
// node. It requires a completed forward pass.
func (g *Graph) ResolveBackward() error {
	if !g.forwardDone {
		return errs.New(errs.ErrCodeInvariantViolation, "backward pass requires a completed forward pass")
	}
	g.backwardDone = false
	pending := make([]int, len(g.nodes))
	for i := range g.nodes {
		if !g.nodes[i].ResolvedForward {
			return errs.New(errs.ErrCodeInvariantViolation,
				"node %q not resolved by forward pass", g.nodes[i].Code()).ForTask(g.nodes[i].Code())
		}
		g.nodes[i].ResolvedBackward = false
		pending[i] = len(g.nodes[i].succs)
	}
	if pending[g.end] != 0 {
		return errs.New(errs.ErrCodeInvariantViolation, "%s has successors", EndCode)
	}

	ready := &idHeap{g.end}
	resolved := 0
	for ready.Len() > 0 {
		id := heap.Pop(ready).(NodeID)
		n := &g.nodes[id]
		lf := n.EarliestFinish
		if id != g.end {
			lf = g.nodes[n.succs[0]].LatestStart
			for _, s := range n.succs[1:] {
				lf = min(lf, g.nodes[s].LatestStart)
			}
		}
		n.LatestFinish = lf
		n.LatestStart = lf - n.Duration
		n.Slack = lf - n.EarliestFinish
		n.ResolvedBackward = true
		resolved++

		for _, p := range n.preds {
			if pending[p]--; pending[p] == 0 {
				heap.Push(ready, p)
			}
		}
	}

	if resolved != len(g.nodes) {
		return g.cycleError("backward", resolved, func(n *Node) []NodeID { return n.succs },
			func(n *Node) bool { return !n.ResolvedBackward }, false)
	}
	g.backwardDone = true
	return nil
}

// cycleError builds the CYCLE_DETECTED error for a pass that stalled.
func (g *Graph) cycleError(pass string, resolved int, next func(*Node) []NodeID, open func(*Node) bool, reverse bool) error {
	// An anchor may be unresolved without waiting on anything (END has no
	// predecessors when no terminal exists), so start at a waiting node.
	var first NodeID = -1
	for i := range g.nodes {
		n := &g.nodes[i]
		if open(n) && slices.ContainsFunc(next(n), func(id NodeID) bool { return open(&g.nodes[id]) }) {
			first = NodeID(i)
			break
		}
	}
	cycle := g.traceCycle(first, next, open)
	if reverse {
		slices.Reverse(cycle)
	}
	// Rotate so the smallest code leads; the message then does not depend
	// on where the trace entered the cycle.
	if n := len(cycle); n > 1 && cycle[0] == cycle[n-1] {
		ring := cycle[:n-1]
		at := slices.Index(ring, slices.Min(ring))
		cycle = append(slices.Concat(ring[at:], ring[:at]), ring[at])
	}
	task := ""
	if len(cycle) > 0 {
		task = cycle[0]
	}
	return errs.New(errs.ErrCodeCycleDetected, "%s pass resolved %d of %d nodes: dependency cycle %s",
		pass, resolved, len(g.nodes), strings.Join(cycle, " -> ")).ForTask(task)
}

// traceCycle follows unresolved neighbours from the given node until a node
// repeats. Every unresolved node waits on at least one other unresolved
// node, so the walk closes a cycle; the returned codes start and end with
// the same task.
func (g *Graph) traceCycle(from NodeID, next func(*Node) []NodeID, open func(*Node) bool) []string {
	if from < 0 {
		return nil
	}
	pos := make(map[NodeID]int)
	var path []NodeID
	cur := from
	for {
		if at, seen := pos[cur]; seen {
			path = append(path[at:], cur)
			break
		}
		pos[cur] = len(path)
		path = append(path, cur)

		nxt := NodeID(-1)
		for _, id := range next(&g.nodes[cur]) {
			if open(&g.nodes[id]) {
				nxt = id
				break
			}
		}
		if nxt < 0 {
			break
		}
		cur = nxt
	}
	codes := make([]string, len(path))
	for i, id := range path {
		codes[i] = g.nodes[id].Code()
	}
	return codes
}
