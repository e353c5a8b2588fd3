// Package cpm computes Critical Path Method schedule metrics for a set of
// interdependent tasks.
//
// # Overview
//
// A computation runs a fixed pipeline:
//
//  1. [Build] validates the tasks, finds root and terminal tasks, adds the
//     synthetic START and END anchors and indexes predecessors/successors.
//  2. [NewGraph] turns the [Plan] into an arena of [Node] values linked by
//     [NodeID] indices.
//  3. [Graph.ResolveForward] assigns earliest start/finish.
//  4. [Graph.ResolveBackward] assigns latest start/finish and slack.
//  5. [Graph.CriticalPath], [Graph.CrewDemand] and [Graph.EnrichedTasks]
//     extract the results.
//
// [Analyze] runs all of it and returns a [Result].
//
// # Basic Usage
//
//	res, err := cpm.Analyze([]cpm.Task{
//	    {Code: "dig", Duration: 2, Crew: cpm.Crew{Size: 3}},
//	    {Code: "pour", Duration: 1, Crew: cpm.Crew{Size: 2}, Dependencies: []string{"dig"}},
//	}, cpm.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Duration, res.CriticalPath) // 3 [dig pour]
//
// # Determinism
//
// Nodes are stored in code order, ready queues pop the smallest code first,
// and the critical path walk breaks ties between zero-slack successors by
// choosing the lexicographically smallest code. Equal inputs always yield
// equal results, independent of input order.
//
// # Errors
//
// Failures carry a code from [github.com/matzehuels/critpath/pkg/errors]:
//   - INVALID_INPUT: empty input, duplicate or reserved codes, negative
//     values, self or dangling dependencies, no root tasks
//   - CYCLE_DETECTED: a pass could not resolve every node
//   - INVARIANT_VIOLATION: an internal contract was broken (missing anchor,
//     backward pass before forward pass)
//   - INVALID_GRAPH: the critical path walk reached a dead end
//
// # Concurrency
//
// The package holds no global mutable state. Each computation owns its
// [Plan] and [Graph], and input tasks are copied before use, so concurrent
// calls over a shared input slice are safe. A single [Graph] is not safe for
// concurrent mutation.
package cpm
