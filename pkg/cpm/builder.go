package cpm

import (
	"maps"
	"slices"

	errs "github.com/matzehuels/critpath/pkg/errors"
)

// DanglingPolicy decides what happens to a dependency code that names no
// task in the input.
type DanglingPolicy string

const (
	// DanglingReject fails the build with INVALID_INPUT.
	DanglingReject DanglingPolicy = "reject"
	// DanglingIgnore drops the code from the derived dependency view and
	// records it in [Plan.Dropped].
	DanglingIgnore DanglingPolicy = "ignore"
)

// ParseDanglingPolicy converts a config or flag value into a policy.
// The empty string selects [DanglingReject].
func ParseDanglingPolicy(s string) (DanglingPolicy, error) {
	switch DanglingPolicy(s) {
	case "", DanglingReject:
		return DanglingReject, nil
	case DanglingIgnore:
		return DanglingIgnore, nil
	}
	return "", errs.New(errs.ErrCodeInvalidOption, "unknown dangling dependency policy %q (want reject or ignore)", s)
}

// BuildOptions configures [Build].
type BuildOptions struct {
	Dangling DanglingPolicy
}

// DroppedDependency records a dependency code removed under [DanglingIgnore].
type DroppedDependency struct {
	Task       string `json:"task"`
	Dependency string `json:"dependency"`
}

// Plan is the validated, anchor-augmented task set produced by [Build].
//
// Tasks holds copies of the input tasks plus START and END; root tasks carry
// the derived dependency list [START]. Predecessors and Successors map every
// code in Tasks to a sorted list of codes (empty, never missing).
type Plan struct {
	Tasks        map[string]Task
	Roots        []string
	Terminals    []string
	Predecessors map[string][]string
	Successors   map[string][]string
	Dropped      []DroppedDependency
}

// Build validates tasks and prepares them for graph construction.
//
// The caller's slice and the tasks' dependency slices are never modified.
// Validation errors have code INVALID_INPUT and name the offending task.
func Build(tasks []Task, opts BuildOptions) (*Plan, error) {
	if len(tasks) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "task collection must contain at least one task")
	}
	policy, err := ParseDanglingPolicy(string(opts.Dangling))
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]Task, len(tasks)+2)
	for _, t := range tasks {
		if err := validateTask(t); err != nil {
			return nil, err
		}
		if _, dup := byCode[t.Code]; dup {
			return nil, errs.New(errs.ErrCodeInvalidInput, "duplicate task code %q", t.Code).ForTask(t.Code)
		}
		byCode[t.Code] = t.clone()
	}

	codes := slices.Sorted(maps.Keys(byCode))
	plan := &Plan{}

	// Derive dependency lists: drop duplicates, reject self-loops, apply the
	// dangling policy.
	for _, code := range codes {
		t := byCode[code]
		deps := make([]string, 0, len(t.Dependencies))
		for _, dep := range t.Dependencies {
			if dep == code {
				return nil, errs.New(errs.ErrCodeInvalidInput, "task %q depends on itself", code).ForTask(code)
			}
			if slices.Contains(deps, dep) {
				continue
			}
			if _, ok := byCode[dep]; !ok {
				if policy == DanglingReject {
					return nil, errs.New(errs.ErrCodeInvalidInput,
						"dangling dependency: task %q depends on unknown task %q", code, dep).ForTask(code)
				}
				plan.Dropped = append(plan.Dropped, DroppedDependency{Task: code, Dependency: dep})
				continue
			}
			deps = append(deps, dep)
		}
		slices.Sort(deps)
		t.Dependencies = deps
		byCode[code] = t
	}

	named := make(map[string]bool, len(byCode))
	for _, code := range codes {
		for _, dep := range byCode[code].Dependencies {
			named[dep] = true
		}
	}
	for _, code := range codes {
		if len(byCode[code].Dependencies) == 0 {
			plan.Roots = append(plan.Roots, code)
		}
		if !named[code] {
			plan.Terminals = append(plan.Terminals, code)
		}
	}
	if len(plan.Roots) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no root tasks: every task depends on another task")
	}

	for _, code := range plan.Roots {
		t := byCode[code]
		t.Dependencies = []string{StartCode}
		byCode[code] = t
	}
	byCode[StartCode] = anchorTask(StartCode, nil)
	byCode[EndCode] = anchorTask(EndCode, slices.Clone(plan.Terminals))

	plan.Tasks = byCode
	plan.Predecessors, plan.Successors = indexEdges(byCode)
	return plan, nil
}

func validateTask(t Task) error {
	if err := errs.ValidateTaskCode(t.Code); err != nil {
		return err
	}
	if IsAnchorCode(t.Code) {
		return errs.New(errs.ErrCodeInvalidInput, "task code %q is reserved", t.Code).ForTask(t.Code)
	}
	if t.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "task %q has negative duration %d", t.Code, t.Duration).ForTask(t.Code)
	}
	if t.Crew.Size < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "task %q has negative crew size %d", t.Code, t.Crew.Size).ForTask(t.Code)
	}
	return nil
}

// indexEdges builds the predecessor and successor indexes from the derived
// dependency lists. Both maps hold an entry for every task.
func indexEdges(tasks map[string]Task) (preds, succs map[string][]string) {
	preds = make(map[string][]string, len(tasks))
	succs = make(map[string][]string, len(tasks))
	for code := range tasks {
		preds[code] = []string{}
		succs[code] = []string{}
	}
	for code, t := range tasks {
		for _, dep := range t.Dependencies {
			if _, ok := tasks[dep]; !ok {
				continue
			}
			preds[code] = append(preds[code], dep)
			succs[dep] = append(succs[dep], code)
		}
	}
	for code := range tasks {
		slices.Sort(preds[code])
		slices.Sort(succs[code])
	}
	return preds, succs
}
