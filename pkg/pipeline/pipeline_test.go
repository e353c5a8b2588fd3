package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/critpath/pkg/cache"
	"github.com/matzehuels/critpath/pkg/cpm"
	errs "github.com/matzehuels/critpath/pkg/errors"
	"github.com/matzehuels/critpath/pkg/observability"
)

const siteJSON = `[
  {"taskCode": "excavate", "duration": 2, "crew": {"name": "earthworks", "assignment": 3}},
  {"taskCode": "slab", "duration": 1, "crew": {"name": "concrete", "assignment": 4}, "dependencies": ["excavate"]},
  {"taskCode": "walls", "duration": 3, "crew": {"name": "masonry", "assignment": 2}, "dependencies": ["slab"]},
  {"taskCode": "wiring", "duration": 1, "crew": {"name": "electric", "assignment": 1}, "dependencies": ["slab"]}
]`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidOption) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_OPTION", tt.format, errs.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateInputFormat(t *testing.T) {
	for _, f := range []string{"json", "yaml", "toml", "hcl"} {
		if err := ValidateInputFormat(f); err != nil {
			t.Errorf("ValidateInputFormat(%q) = %v", f, err)
		}
	}
	if err := ValidateInputFormat("xml"); err == nil {
		t.Error("ValidateInputFormat(xml) should fail")
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	// Missing input
	opts := Options{}
	if err := opts.ValidateForLoad(); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Missing input error = %v, want INVALID_INPUT", err)
	}

	// Both sources
	opts = Options{Path: "site.json", Input: []byte("[]")}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Path with input should fail")
	}

	// Input defaults to JSON
	opts = Options{Input: []byte("[]")}
	if err := opts.ValidateForLoad(); err != nil {
		t.Fatalf("Valid input options should pass: %v", err)
	}
	if opts.InputFormat != "json" {
		t.Errorf("InputFormat should default to json, got %q", opts.InputFormat)
	}
	if opts.Logger == nil {
		t.Error("Logger should be defaulted")
	}

	opts = Options{Input: []byte("[]"), InputFormat: "xml"}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Unknown input format should fail")
	}
}

func TestOptionsValidateForAnalyze(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForAnalyze(); err != nil {
		t.Fatalf("Empty analysis options should pass: %v", err)
	}
	if opts.Dangling != string(DefaultDangling) {
		t.Errorf("Dangling should be %s, got %s", DefaultDangling, opts.Dangling)
	}
	if opts.Window != string(DefaultWindow) {
		t.Errorf("Window should be %s, got %s", DefaultWindow, opts.Window)
	}

	opts = Options{Window: "sometime"}
	if err := opts.ValidateForAnalyze(); !errs.Is(err, errs.ErrCodeInvalidOption) {
		t.Errorf("Unknown window error = %v, want INVALID_OPTION", err)
	}
	opts = Options{Dangling: "maybe"}
	if err := opts.ValidateForAnalyze(); !errs.Is(err, errs.ErrCodeInvalidOption) {
		t.Errorf("Unknown dangling error = %v, want INVALID_OPTION", err)
	}
	opts = Options{MaxHorizon: -1}
	if err := opts.ValidateForAnalyze(); !errs.Is(err, errs.ErrCodeInvalidOption) {
		t.Errorf("Negative horizon error = %v, want INVALID_OPTION", err)
	}
}

func TestRunnerAnalyzeAppliesMaxHorizon(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{Input: []byte(siteJSON), MaxHorizon: 5}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	tasks, err := r.Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, _, err := r.Analyze(context.Background(), tasks, opts); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Analyze() error = %v, want INVALID_INPUT for a 6-day project", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Path: "site.json"}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalFormats := opts.Formats
	originalWindow := opts.Window

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if len(opts.Formats) != len(originalFormats) {
		t.Error("Formats changed on second call")
	}
	if opts.Window != originalWindow {
		t.Error("Window changed on second call")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}

	opts = Options{Formats: []string{"svg", "dot", "svg"}}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	if strings.Join(opts.Formats, ",") != "dot,svg" {
		t.Errorf("Formats should be deduplicated, got %v", opts.Formats)
	}
}

func TestOptionsSource(t *testing.T) {
	if got := (&Options{Path: "a.yaml"}).Source(); got != "a.yaml" {
		t.Errorf("Source() = %q", got)
	}
	if got := (&Options{Input: []byte("[]")}).Source(); got != "request" {
		t.Errorf("Source() = %q", got)
	}
}

func TestPlanHash(t *testing.T) {
	a := []cpm.Task{{Code: "a", Duration: 1}, {Code: "b", Duration: 2, Dependencies: []string{"a"}}}
	b := []cpm.Task{a[1], a[0]}

	ha, err := PlanHash(a)
	if err != nil {
		t.Fatal(err)
	}
	hb, _ := PlanHash(b)
	if ha != hb {
		t.Error("PlanHash should not depend on task order")
	}

	c := []cpm.Task{{Code: "a", Duration: 1}, {Code: "b", Duration: 3, Dependencies: []string{"a"}}}
	if hc, _ := PlanHash(c); hc == ha {
		t.Error("PlanHash should change with task content")
	}
	if a[0].Code != "a" {
		t.Error("PlanHash reordered its input")
	}
}

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Input:   []byte(siteJSON),
		Formats: []string{"dot"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Analysis.Duration != 6 {
		t.Errorf("Duration = %d, want 6", res.Analysis.Duration)
	}
	if got := strings.Join(res.Analysis.CriticalPath, " "); got != "excavate slab walls" {
		t.Errorf("CriticalPath = %s", got)
	}
	if res.Stats.TaskCount != 4 || res.Stats.NodeCount != 6 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.PlanHash == "" {
		t.Error("PlanHash not set")
	}
	if !strings.Contains(string(res.Artifacts["dot"]), `"excavate" -> "slab"`) {
		t.Errorf("dot artifact = %s", res.Artifacts["dot"])
	}
	if res.CacheInfo.RenderHit {
		t.Error("NullCache should never hit")
	}
}

func TestRunnerExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"no input", Options{}, errs.ErrCodeInvalidInput},
		{"bad format", Options{Input: []byte(siteJSON), Formats: []string{"gif"}}, errs.ErrCodeInvalidOption},
		{"malformed", Options{Input: []byte("[{")}, errs.ErrCodeInvalidFormat},
		{"cycle", Options{
			Input:   []byte(`[{"taskCode":"a","dependencies":["b"]},{"taskCode":"b","dependencies":["a"]}]`),
			Formats: []string{"dot"},
		}, errs.ErrCodeCycleDetected},
		{"dangling", Options{
			Input:   []byte(`[{"taskCode":"a","dependencies":["ghost"]}]`),
			Formats: []string{"dot"},
		}, errs.ErrCodeInvalidInput},
		{"missing file", Options{Path: "testdata/nope.json"}, errs.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tt.opts)
			if !errs.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRunnerDanglingIgnore(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	opts := Options{Input: []byte(`[{"taskCode":"a","duration":2,"dependencies":["ghost"]}]`), Dangling: "ignore"}

	tasks, err := r.Load(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	res, _, err := r.Analyze(ctx, tasks, opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Dropped) != 1 || res.Dropped[0].Dependency != "ghost" {
		t.Errorf("Dropped = %v", res.Dropped)
	}
}

func TestRunnerArtifactCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()
	ctx := context.Background()
	opts := Options{Input: []byte(siteJSON), Formats: []string{"dot"}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit")
	}
	if string(second.Artifacts["dot"]) != string(first.Artifacts["dot"]) {
		t.Error("cached artifact differs from rendered one")
	}

	detailed := opts
	detailed.Detailed = true
	third, err := r.Execute(ctx, detailed)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("detailed render should not reuse plain artifact")
	}

	refresh := opts
	refresh.Refresh = true
	fourth, err := r.Execute(ctx, refresh)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
}

func (h *recordingHooks) OnLoadComplete(_ context.Context, _ string, tasks int, _ time.Duration, _ error) {
	h.events = append(h.events, "load")
}

func (h *recordingHooks) OnAnalyzeComplete(_ context.Context, _, duration int, _ time.Duration, err error) {
	if err != nil {
		h.events = append(h.events, "analyze-error")
		return
	}
	h.events = append(h.events, "analyze")
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, _ error) {
	h.events = append(h.events, "render:"+strings.Join(formats, ","))
}

func TestRunnerHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{Input: []byte(siteJSON), Formats: []string{"dot"}}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(h.events, " "); got != "load analyze render:dot" {
		t.Errorf("events = %s", got)
	}
}
