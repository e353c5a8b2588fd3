package cpm

// Options configures [Analyze].
type Options struct {
	// Dangling decides how unknown dependency codes are handled.
	// Defaults to DanglingReject.
	Dangling DanglingPolicy
	// Window selects the crew-demand window. Defaults to WindowLatest.
	Window Window
	// MaxHorizon is the longest project accepted, in days. Defaults to
	// DefaultMaxHorizon and may not exceed MaxHorizon.
	MaxHorizon int
}

// Result is the outcome of one CPM computation.
type Result struct {
	Duration     int                 `json:"duration"`
	PeakDay      int                 `json:"most_busy_day"`
	PeakCrew     int                 `json:"max_crew_on_site"`
	CriticalPath []string            `json:"critical_path"`
	Tasks        []EnrichedTask      `json:"tasks"`
	Demand       Profile             `json:"crew_demand"`
	Window       Window              `json:"crew_window"`
	Roots        []string            `json:"roots"`
	Terminals    []string            `json:"terminals"`
	Dropped      []DroppedDependency `json:"dropped_dependencies,omitempty"`
}

// Analyze runs the full computation over tasks: build, graph, forward and
// backward pass, extraction.
func Analyze(tasks []Task, opts Options) (*Result, error) {
	res, _, err := AnalyzeGraph(tasks, opts)
	return res, err
}

// AnalyzeGraph is like [Analyze] but also returns the resolved graph, which
// renderers use to draw the network diagram.
func AnalyzeGraph(tasks []Task, opts Options) (*Result, *Graph, error) {
	window, err := ParseWindow(string(opts.Window))
	if err != nil {
		return nil, nil, err
	}
	limit, err := ParseMaxHorizon(opts.MaxHorizon)
	if err != nil {
		return nil, nil, err
	}
	plan, err := Build(tasks, BuildOptions{Dangling: opts.Dangling})
	if err != nil {
		return nil, nil, err
	}
	g, err := NewGraph(plan)
	if err != nil {
		return nil, nil, err
	}
	if err := g.ResolveForward(); err != nil {
		return nil, nil, err
	}
	if err := g.ResolveBackward(); err != nil {
		return nil, nil, err
	}
	if err := g.checkHorizon(limit); err != nil {
		return nil, nil, err
	}

	path, err := g.CriticalPath()
	if err != nil {
		return nil, nil, err
	}
	demand, err := g.CrewDemand(window)
	if err != nil {
		return nil, nil, err
	}
	day, crew := demand.Peak()

	return &Result{
		Duration:     g.End().LatestFinish,
		PeakDay:      day,
		PeakCrew:     crew,
		CriticalPath: path,
		Tasks:        g.EnrichedTasks(),
		Demand:       demand,
		Window:       window,
		Roots:        plan.Roots,
		Terminals:    plan.Terminals,
		Dropped:      plan.Dropped,
	}, g, nil
}
