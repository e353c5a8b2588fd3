package metrics

import (
	"context"
	"strconv"
	"strings"
	"time"

	errs "github.com/matzehuels/critpath/pkg/errors"
	"github.com/matzehuels/critpath/pkg/observability"
)

// Hooks records observability events into [Metrics].
type Hooks struct {
	m *Metrics
}

// NewHooks returns hooks backed by m.
func NewHooks(m *Metrics) *Hooks { return &Hooks{m: m} }

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
)

func (h *Hooks) OnLoadStart(context.Context, string) {}

func (h *Hooks) OnLoadComplete(_ context.Context, _ string, taskCount int, _ time.Duration, err error) {
	h.m.Loads.WithLabelValues(success(err)).Inc()
	if err == nil {
		h.m.LoadTasks.Observe(float64(taskCount))
	}
}

func (h *Hooks) OnAnalyzeStart(context.Context, int) {}

func (h *Hooks) OnAnalyzeComplete(_ context.Context, _, projectDuration int, elapsed time.Duration, err error) {
	h.m.Analyses.WithLabelValues(success(err)).Inc()
	h.m.AnalysisDuration.Observe(elapsed.Seconds())
	if err != nil {
		h.m.AnalysisErrors.WithLabelValues(errorCode(err)).Inc()
		return
	}
	h.m.ProjectDuration.Observe(float64(projectDuration))
}

func (h *Hooks) OnRenderStart(context.Context, []string) {}

func (h *Hooks) OnRenderComplete(_ context.Context, formats []string, elapsed time.Duration, err error) {
	for _, f := range formats {
		h.m.Renders.WithLabelValues(f, success(err)).Inc()
	}
	h.m.RenderDuration.WithLabelValues(strings.Join(formats, ",")).Observe(elapsed.Seconds())
}

func (h *Hooks) OnCacheHit(_ context.Context, kind string) {
	h.m.CacheHits.WithLabelValues(kind).Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, kind string) {
	h.m.CacheMisses.WithLabelValues(kind).Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.m.CacheWritten.WithLabelValues(kind).Add(float64(size))
}

func (h *Hooks) OnRequest(context.Context, string, string) {
	h.m.InFlight.Inc()
}

func (h *Hooks) OnResponse(_ context.Context, method, route string, statusCode int, elapsed time.Duration) {
	h.m.InFlight.Dec()
	h.m.Requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	h.m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func success(err error) string {
	return strconv.FormatBool(err == nil)
}

func errorCode(err error) string {
	if code := errs.GetCode(err); code != "" {
		return string(code)
	}
	return string(errs.ErrCodeInternal)
}
