package cpm

import (
	"cmp"
	"slices"

	errs "github.com/matzehuels/critpath/pkg/errors"
)

// Window selects the interval during which a task's crew counts as on site.
type Window string

const (
	// WindowLatest counts a task on days ES <= d < LF, i.e. across its whole
	// float. This is the default.
	WindowLatest Window = "latest"
	// WindowEarliest counts a task on days ES <= d < EF, i.e. only while it
	// runs in the earliest schedule.
	WindowEarliest Window = "earliest"
)

// ParseWindow converts a config or flag value into a Window. The empty
// string selects [WindowLatest].
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case "", WindowLatest:
		return WindowLatest, nil
	case WindowEarliest:
		return WindowEarliest, nil
	}
	return "", errs.New(errs.ErrCodeInvalidOption, "unknown crew window %q (want latest or earliest)", s)
}

// Profile is the crew demand per day, indexed by day.
type Profile []int

// Peak returns the earliest day with the highest demand. An empty profile
// yields (0, 0).
func (p Profile) Peak() (day, crew int) {
	for d, c := range p {
		if c > crew {
			day, crew = d, c
		}
	}
	return day, crew
}

// Map returns the profile as a day -> crew map.
func (p Profile) Map() map[int]int {
	m := make(map[int]int, len(p))
	for d, c := range p {
		m[d] = c
	}
	return m
}

// Interval is a closed range of days.
type Interval struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// EnrichedTask is an input task annotated with its schedule windows.
// Start is [EarliestStart, LatestStart] and Finish is
// [EarliestFinish, LatestFinish].
type EnrichedTask struct {
	Task     Task     `json:"task"`
	Start    Interval `json:"start_interval"`
	Finish   Interval `json:"finish_interval"`
	Slack    int      `json:"slack"`
	Critical bool     `json:"critical"`
}

func (g *Graph) requireResolved() error {
	if !g.backwardDone {
		return errs.New(errs.ErrCodeInvariantViolation, "graph is not fully resolved")
	}
	return nil
}

// CriticalPath walks from START to END along zero-slack successors and
// returns the codes of the tasks visited, anchors excluded. When several
// successors have zero slack the smallest code wins.
func (g *Graph) CriticalPath() ([]string, error) {
	if err := g.requireResolved(); err != nil {
		return nil, err
	}
	path := []string{}
	cur := g.start
	for steps := 0; cur != g.end; steps++ {
		if steps > len(g.nodes) {
			return nil, errs.New(errs.ErrCodeInvalidGraph, "critical path walk did not reach %s", EndCode)
		}
		next := NodeID(-1)
		for _, s := range g.nodes[cur].succs {
			if g.nodes[s].Slack == 0 {
				next = s
				break
			}
		}
		if next < 0 {
			code := g.nodes[cur].Code()
			return nil, errs.New(errs.ErrCodeInvalidGraph, "node %q has no zero-slack successor", code).ForTask(code)
		}
		if next != g.end {
			path = append(path, g.nodes[next].Code())
		}
		cur = next
	}
	return path, nil
}

// Horizon limits, in days. The crew profile holds one entry per day, so
// projects longer than the limit are rejected before it is built.
const (
	DefaultMaxHorizon = 36_500 // 100 years
	MaxHorizon        = 1 << 20
)

// ParseMaxHorizon resolves a configured horizon limit: zero means
// DefaultMaxHorizon, anything outside [1, MaxHorizon] is INVALID_OPTION.
func ParseMaxHorizon(n int) (int, error) {
	switch {
	case n == 0:
		return DefaultMaxHorizon, nil
	case n < 0 || n > MaxHorizon:
		return 0, errs.New(errs.ErrCodeInvalidOption, "max horizon %d out of range (1 to %d days)", n, MaxHorizon)
	}
	return n, nil
}

// checkHorizon rejects a project that takes longer than limit days.
func (g *Graph) checkHorizon(limit int) error {
	if d := g.nodes[g.end].LatestFinish; d > limit {
		return errs.New(errs.ErrCodeInvalidInput,
			"project takes %d days, more than the limit of %d", d, limit)
	}
	return nil
}

// CrewDemand returns the crew on site for every day from 0 to END's
// LatestFinish inclusive. Projects longer than MaxHorizon days are
// INVALID_INPUT.
func (g *Graph) CrewDemand(w Window) (Profile, error) {
	if err := g.requireResolved(); err != nil {
		return nil, err
	}
	w, err := ParseWindow(string(w))
	if err != nil {
		return nil, err
	}
	if err := g.checkHorizon(MaxHorizon); err != nil {
		return nil, err
	}
	horizon := g.nodes[g.end].LatestFinish
	diff := make([]int, horizon+2)
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.IsAnchor() || n.Task.Crew.Size == 0 {
			continue
		}
		hi := n.LatestFinish
		if w == WindowEarliest {
			hi = n.EarliestFinish
		}
		if hi <= n.EarliestStart {
			continue
		}
		diff[n.EarliestStart] += n.Task.Crew.Size
		diff[hi] -= n.Task.Crew.Size
	}

	p := make(Profile, horizon+1)
	running := 0
	for d := range p {
		running += diff[d]
		p[d] = running
	}
	return p, nil
}

// EnrichedTasks returns every input task with its schedule windows, ordered
// by EarliestStart and then by code. Dependencies are the derived ones with
// the anchors removed, so roots report none.
func (g *Graph) EnrichedTasks() []EnrichedTask {
	out := make([]EnrichedTask, 0, len(g.nodes))
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.IsAnchor() {
			continue
		}
		t := n.Task.clone()
		t.Dependencies = slices.DeleteFunc(t.Dependencies, IsAnchorCode)
		out = append(out, EnrichedTask{
			Task:     t,
			Start:    Interval{From: n.EarliestStart, To: n.LatestStart},
			Finish:   Interval{From: n.EarliestFinish, To: n.LatestFinish},
			Slack:    n.Slack,
			Critical: n.IsCritical(),
		})
	}
	slices.SortStableFunc(out, func(a, b EnrichedTask) int {
		if c := cmp.Compare(a.Start.From, b.Start.From); c != 0 {
			return c
		}
		return cmp.Compare(a.Task.Code, b.Task.Code)
	})
	return out
}
