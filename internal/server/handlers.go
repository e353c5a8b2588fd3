package server

import (
	"bytes"
	"io"
	"net/http"
	"slices"
	"strconv"

	"github.com/matzehuels/critpath/pkg/buildinfo"
	errs "github.com/matzehuels/critpath/pkg/errors"
	taskio "github.com/matzehuels/critpath/pkg/io"
	"github.com/matzehuels/critpath/pkg/pipeline"
	"github.com/matzehuels/critpath/pkg/render"
	"github.com/matzehuels/critpath/pkg/render/nodelink"
)

var contentTypes = map[string]string{
	nodelink.FormatSVG: "image/svg+xml",
	nodelink.FormatPNG: "image/png",
	nodelink.FormatPDF: "application/pdf",
	nodelink.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

type indexResponse struct {
	Name      string         `json:"name"`
	Build     buildinfo.Info `json:"build"`
	Endpoints []string       `json:"endpoints"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	endpoints := []string{"GET /healthz", "POST /v1/schedule", "POST /v1/render"}
	if s.cfg.Metrics != nil {
		endpoints = append(endpoints, "GET /metrics")
	}
	writeJSON(w, http.StatusOK, indexResponse{
		Name:      "critpath",
		Build:     buildinfo.Get(),
		Endpoints: endpoints,
	})
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.IsShuttingDown() {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "shutting_down", Version: buildinfo.Version})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

// handleSchedule analyzes the uploaded task file.
// POST /v1/schedule?dangling=reject|ignore&window=latest|earliest
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts, err := s.requestOptions(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tasks, err := s.runner.Load(ctx, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, _, err := s.runner.Analyze(ctx, tasks, opts)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := taskio.WriteResult(&buf, res); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleRender analyzes the uploaded task file and draws it.
// POST /v1/render?format=svg|png|pdf|dot&detailed=true&dangling=...&window=...
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts, err := s.requestOptions(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
		if len(opts.Formats) > 0 {
			format = opts.Formats[0]
		}
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}
	if format == nodelink.FormatPDF && !render.HasConverter() {
		writeErrorStatus(w, r, http.StatusNotImplemented,
			errs.New(errs.ErrCodeUnsupported, "pdf output is not available on this server"))
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(ctx, opts)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	cacheState := "miss"
	if result.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheState)
	w.Header().Set("X-Project-Duration", strconv.Itoa(result.Analysis.Duration))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// requestOptions reads the body and merges query parameters over the
// server defaults.
func (s *Server) requestOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	inputFormat, err := taskio.FormatFromContentType(r.Header.Get("Content-Type"))
	if err != nil {
		return pipeline.Options{}, err
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return pipeline.Options{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return pipeline.Options{}, errs.New(errs.ErrCodeInvalidInput, "empty request body")
	}

	opts := s.cfg.Defaults
	opts.Path = ""
	opts.Input = body
	opts.InputFormat = string(inputFormat)
	opts.Formats = slices.Clone(opts.Formats)
	opts.Logger = loggerFromContext(r.Context())

	q := r.URL.Query()
	if v := q.Get("dangling"); v != "" {
		opts.Dangling = v
	}
	if v := q.Get("window"); v != "" {
		opts.Window = v
	}
	if v := q.Get("detailed"); v != "" {
		detailed, err := strconv.ParseBool(v)
		if err != nil {
			return pipeline.Options{}, errs.New(errs.ErrCodeInvalidOption, "detailed must be a boolean, got %q", v)
		}
		opts.Detailed = detailed
	}
	if v := q.Get("refresh"); v != "" {
		opts.Refresh = v == "true" || v == "1"
	}
	return opts, nil
}
