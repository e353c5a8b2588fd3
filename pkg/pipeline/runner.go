package pipeline

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/critpath/pkg/cache"
	"github.com/matzehuels/critpath/pkg/cpm"
	taskio "github.com/matzehuels/critpath/pkg/io"
	"github.com/matzehuels/critpath/pkg/observability"
	"github.com/matzehuels/critpath/pkg/render/nodelink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long rendered artifacts stay cached. Zero keeps them
	// until the cache is cleared.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLArtifact,
	}
}

// Execute runs the complete load → analyze → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	tasks, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Tasks = tasks
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.TaskCount = len(tasks)

	planHash, err := PlanHash(tasks)
	if err != nil {
		return nil, err
	}
	result.PlanHash = planHash

	// Stage 2: Analyze
	analyzeStart := time.Now()
	res, g, err := r.Analyze(ctx, tasks, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Analysis = res
	result.Graph = g
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.Stats.NodeCount = g.Len()
	result.Stats.EdgeCount = g.EdgeCount()

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, planHash, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	return result, nil
}

// Load decodes the tasks named by opts, from Path or from Input.
func (r *Runner) Load(ctx context.Context, opts Options) ([]cpm.Task, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	source := opts.Source()
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	var (
		tasks []cpm.Task
		err   error
	)
	if opts.Path != "" {
		tasks, err = taskio.ImportTasks(opts.Path)
	} else {
		tasks, err = taskio.ReadTasks(bytes.NewReader(opts.Input), taskio.Format(opts.InputFormat))
	}
	hooks.OnLoadComplete(ctx, source, len(tasks), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("loaded tasks",
		"source", source,
		"tasks", len(tasks),
		"duration", time.Since(start))
	return tasks, nil
}

// Analyze builds and resolves the CPM graph and extracts the schedule.
func (r *Runner) Analyze(ctx context.Context, tasks []cpm.Task, opts Options) (*cpm.Result, *cpm.Graph, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForAnalyze(); err != nil {
		return nil, nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, len(tasks))
	start := time.Now()

	res, g, err := cpm.AnalyzeGraph(tasks, opts.CPMOptions())
	duration := 0
	if res != nil {
		duration = res.Duration
	}
	hooks.OnAnalyzeComplete(ctx, len(tasks), duration, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}

	for _, d := range res.Dropped {
		opts.Logger.Warn("ignored dangling dependency", "task", d.Task, "dependency", d.Dependency)
	}
	opts.Logger.Info("analyzed schedule",
		"tasks", len(tasks),
		"project_duration", res.Duration,
		"critical", len(res.CriticalPath),
		"duration", time.Since(start))
	return res, g, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// planHash identifies the tasks g was built from (see [PlanHash]).
func (r *Runner) RenderWithCacheInfo(ctx context.Context, planHash string, g *cpm.Graph, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	opts.SetAnalyzeDefaults()

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		if !allCached {
			break
		}
		cacheKey := r.Keyer.ArtifactKey(planHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			allCached = false
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		opts.Logger.Debug("artifacts from cache", "formats", opts.Formats)
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, g, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(planHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	opts.Logger.Info("rendered diagrams",
		"formats", opts.Formats,
		"duration", time.Since(start))
	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, planHash string, g *cpm.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, planHash, g, opts)
	return artifacts, err
}

// Render draws g in every requested format without touching a cache.
func Render(ctx context.Context, g *cpm.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := nodelink.Render(ctx, dot, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// PlanHash returns a content hash of tasks that does not depend on their
// order, since the schedule does not either.
func PlanHash(tasks []cpm.Task) (string, error) {
	sorted := slices.SortedFunc(slices.Values(tasks), func(a, b cpm.Task) int {
		return cmp.Compare(a.Code, b.Code)
	})
	var buf bytes.Buffer
	if err := taskio.WriteTasks(&buf, sorted); err != nil {
		return "", fmt.Errorf("serialize tasks for cache key: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
