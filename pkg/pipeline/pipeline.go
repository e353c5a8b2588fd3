// Package pipeline provides the load → analyze → render pipeline for critpath.
//
// This package implements the complete pipeline that the CLI and the HTTP
// API both run. By centralizing this logic, both entry points share option
// defaults, cache keys and instrumentation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode a task file (JSON, YAML, TOML or HCL) from disk or from
//     an in-memory request body
//  2. Analyze: Build and resolve the CPM graph and extract the schedule
//  3. Render: Draw the resolved graph as a network diagram (SVG, PNG, PDF, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
// Only rendered artifacts are cached; analysis is cheap enough to repeat.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path:    "site.yaml",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	tasks, err := runner.Load(ctx, opts)
//	res, g, err := runner.Analyze(ctx, tasks, opts)
//	hash, err := pipeline.PlanHash(tasks)
//	artifacts, err := runner.Render(ctx, hash, g, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/critpath/pkg/cache"
	"github.com/matzehuels/critpath/pkg/cpm"
	errs "github.com/matzehuels/critpath/pkg/errors"
	taskio "github.com/matzehuels/critpath/pkg/io"
	"github.com/matzehuels/critpath/pkg/render/nodelink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultDangling rejects dependencies on unknown task codes.
	DefaultDangling = cpm.DanglingReject

	// DefaultWindow counts a crew from earliest start to latest finish.
	DefaultWindow = cpm.WindowLatest

	// DefaultFormat is the diagram format rendered when none is requested.
	DefaultFormat = nodelink.FormatSVG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	nodelink.FormatSVG: true,
	nodelink.FormatPNG: true,
	nodelink.FormatPDF: true,
	nodelink.FormatDOT: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Path names a task file; otherwise Input holds the raw
	// document encoded as InputFormat.
	Path        string `json:"path,omitempty"`
	Input       []byte `json:"-"`
	InputFormat string `json:"input_format,omitempty"`

	// Analysis options
	Dangling   string `json:"dangling,omitempty"`
	Window     string `json:"window,omitempty"`
	MaxHorizon int    `json:"max_horizon,omitempty"` // days; 0 means cpm.DefaultMaxHorizon

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"` // bypass cached artifacts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tasks are the loaded tasks, as decoded.
	Tasks []cpm.Task

	// PlanHash is the content hash of the tasks, independent of their order.
	PlanHash string

	// Analysis is the extracted schedule.
	Analysis *cpm.Result

	// Graph is the resolved graph the diagrams were drawn from.
	Graph *cpm.Graph

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TaskCount   int
	NodeCount   int
	EdgeCount   int
	LoadTime    time.Duration
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidOption, "invalid format: %q (must be one of: %s)",
			format, strings.Join(nodelink.Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateInputFormat checks that a task file format is valid.
func ValidateInputFormat(format string) error {
	switch taskio.Format(format) {
	case taskio.FormatJSON, taskio.FormatYAML, taskio.FormatTOML, taskio.FormatHCL:
		return nil
	}
	return errs.New(errs.ErrCodeInvalidOption, "invalid input format: %q (must be one of: json, yaml, toml, hcl)", format)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForAnalyze(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that exactly one input source is set.
func (o *Options) ValidateForLoad() error {
	if o.Path == "" && o.Input == nil {
		return errs.New(errs.ErrCodeInvalidInput, "path or input is required")
	}
	if o.Path != "" && o.Input != nil {
		return errs.New(errs.ErrCodeInvalidInput, "path and input are mutually exclusive")
	}
	if o.Input != nil {
		if o.InputFormat == "" {
			o.InputFormat = string(taskio.FormatJSON)
		}
		if err := ValidateInputFormat(o.InputFormat); err != nil {
			return err
		}
	}
	o.setLogger()
	return nil
}

// SetAnalyzeDefaults sets default values for analysis.
func (o *Options) SetAnalyzeDefaults() {
	if o.Dangling == "" {
		o.Dangling = string(DefaultDangling)
	}
	if o.Window == "" {
		o.Window = string(DefaultWindow)
	}
	o.setLogger()
}

// ValidateForAnalyze validates and sets defaults for analysis.
func (o *Options) ValidateForAnalyze() error {
	o.SetAnalyzeDefaults()
	if _, err := cpm.ParseDanglingPolicy(o.Dangling); err != nil {
		return err
	}
	if _, err := cpm.ParseWindow(o.Window); err != nil {
		return err
	}
	_, err := cpm.ParseMaxHorizon(o.MaxHorizon)
	return err
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	o.Formats = slices.Compact(slices.Sorted(slices.Values(o.Formats)))
	return ValidateFormats(o.Formats)
}

// CPMOptions returns the analysis options. Call after ValidateForAnalyze.
func (o *Options) CPMOptions() cpm.Options {
	return cpm.Options{
		Dangling:   cpm.DanglingPolicy(o.Dangling),
		Window:     cpm.Window(o.Window),
		MaxHorizon: o.MaxHorizon,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
		Dangling: o.Dangling,
	}
}

// Source names the input for logs and metrics.
func (o *Options) Source() string {
	if o.Path != "" {
		return o.Path
	}
	return "request"
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
