package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/chart"
	"github.com/launchdash/launchdash/server/internal/dataset"
	"github.com/launchdash/launchdash/server/internal/metrics"
	"github.com/launchdash/launchdash/server/internal/view"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads the immutable dataset and returns JSON or chart images.
type Handler struct {
	ds      *dataset.Dataset
	charts  *chart.Renderer
	metrics *metrics.Metrics
	slider  Slider
	router  chi.Router
}

// New creates a Handler over ds and registers all routes. m may be nil.
func New(ds *dataset.Dataset, charts *chart.Renderer, m *metrics.Metrics, slider Slider) *Handler {
	h := &Handler{ds: ds, charts: charts, metrics: m, slider: slider, router: chi.NewRouter()}

	h.router.Use(middleware.Recoverer)
	h.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonErr(w, http.StatusNotFound, "not found")
	})
	h.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	h.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/summary", h.summary)
		r.Get("/records", h.records)
		r.Get("/pie", h.pie)
		r.Get("/scatter", h.scatter)
		r.Get("/views", h.views)
		r.Get("/charts/{file}", h.chart)
	})

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// summary returns GET /api/v1/summary: table statistics and control setup.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sites := h.ds.Sites()
	opts := make([]Option, 0, len(sites)+1)
	opts = append(opts, Option{Label: "All Sites", Value: types.AllSites})
	for _, s := range sites {
		opts = append(opts, Option{Label: s, Value: s})
	}

	marks := make([]SliderMark, 0, len(h.slider.Marks))
	for _, v := range h.slider.Marks {
		marks = append(marks, SliderMark{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}

	def := view.DefaultSelection(h.ds)
	jsonResp(w, http.StatusOK, SummaryResponse{
		Source:      h.ds.Source(),
		RecordCount: h.ds.Len(),
		Sites:       sites,
		MinPayload:  h.ds.MinPayload(),
		MaxPayload:  h.ds.MaxPayload(),
		SiteOptions: opts,
		Slider: SliderResponse{
			Min:   h.slider.Min,
			Max:   h.slider.Max,
			Step:  h.slider.Step,
			Marks: marks,
			Value: def.Range,
		},
		DefaultSelection: def,
	})
}

// records returns GET /api/v1/records: the full table in file order.
func (h *Handler) records(w http.ResponseWriter, r *http.Request) {
	recs := h.ds.Records()
	out := make([]RecordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, RecordResponse{
			FlightNumber:    rec.FlightNumber,
			Site:            rec.Site,
			PayloadMassKg:   rec.PayloadMassKg,
			Class:           rec.Class,
			BoosterVersion:  rec.BoosterVersion,
			BoosterCategory: rec.BoosterCategory,
		})
	}
	jsonResp(w, http.StatusOK, out)
}

// pie returns GET /api/v1/pie?site=: the aggregation view.
func (h *Handler) pie(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r, h.ds)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResp(w, http.StatusOK, PieResponse{
		Site:   sel.Site,
		Title:  view.PieTitle(sel.Site),
		Slices: Pie(h.ds, h.metrics, sel.Site),
	})
}

// scatter returns GET /api/v1/scatter?site=&low=&high=: the filter view.
func (h *Handler) scatter(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r, h.ds)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResp(w, http.StatusOK, ScatterResponse{
		Site:       sel.Site,
		Range:      sel.Range,
		Title:      view.ScatterTitle(sel.Site),
		YAxisLabel: view.ScatterYAxisLabel,
		Points:     Scatter(h.ds, h.metrics, sel),
	})
}

// views returns GET /api/v1/views: both views for one selection.
func (h *Handler) views(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r, h.ds)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResp(w, http.StatusOK, BuildViews(h.ds, h.metrics, sel))
}

// chart returns GET /api/v1/charts/{pie|scatter}.{png|svg}.
func (h *Handler) chart(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	ext := path.Ext(file)
	name := strings.TrimSuffix(file, ext)

	format, err := chart.ParseFormat(ext)
	if err != nil {
		jsonErr(w, http.StatusNotFound, "unknown chart format")
		return
	}
	sel, err := ParseSelection(r, h.ds)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	switch name {
	case metrics.ViewPie:
		err = h.charts.Pie(&buf, format, view.PieTitle(sel.Site), Pie(h.ds, h.metrics, sel.Site))
	case metrics.ViewScatter:
		err = h.charts.Scatter(&buf, format, view.ScatterTitle(sel.Site), view.ScatterYAxisLabel,
			sel.Range, Scatter(h.ds, h.metrics, sel))
	default:
		jsonErr(w, http.StatusNotFound, "unknown chart")
		return
	}
	if err != nil {
		slog.Error("api: chart render failed", "chart", name, "format", format, "err", err)
		jsonErr(w, http.StatusInternalServerError, "chart render failed")
		return
	}
	h.metrics.ChartRendered(name, string(format))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}

// --- view evaluation --------------------------------------------------------

// Pie computes the aggregation view for site and records its cost.
func Pie(ds *dataset.Dataset, m *metrics.Metrics, site string) []types.PieSlice {
	start := time.Now()
	out := view.Aggregate(ds.Records(), site)
	m.ObserveView(metrics.ViewPie, time.Since(start))
	return out
}

// Scatter computes the filter view for sel and records its cost.
func Scatter(ds *dataset.Dataset, m *metrics.Metrics, sel types.Selection) []types.ScatterPoint {
	start := time.Now()
	out := view.Filter(ds.Records(), sel.Range, sel.Site)
	m.ObserveView(metrics.ViewScatter, time.Since(start))
	return out
}

// BuildViews evaluates both views for sel. The WebSocket session answers
// every input event with its result.
func BuildViews(ds *dataset.Dataset, m *metrics.Metrics, sel types.Selection) types.Views {
	return types.Views{
		Selection:    sel,
		PieTitle:     view.PieTitle(sel.Site),
		Pie:          Pie(ds, m, sel.Site),
		ScatterTitle: view.ScatterTitle(sel.Site),
		Scatter:      Scatter(ds, m, sel),
	}
}

// ParseSelection reads site, low and high from the query string. Missing
// values default to all sites and the table's full payload range.
func ParseSelection(r *http.Request, ds *dataset.Dataset) (types.Selection, error) {
	q := r.URL.Query()
	sel := view.DefaultSelection(ds)
	if s := strings.TrimSpace(q.Get("site")); s != "" {
		sel.Site = s
	}
	var err error
	if sel.Range.Low, err = floatParam(q.Get("low"), sel.Range.Low); err != nil {
		return sel, fmt.Errorf("low: %w", err)
	}
	if sel.Range.High, err = floatParam(q.Get("high"), sel.Range.High); err != nil {
		return sel, fmt.Errorf("high: %w", err)
	}
	if err := view.Validate(sel); err != nil {
		return sel, err
	}
	return sel, nil
}

func floatParam(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) {
			return 0, fmt.Errorf("%q is not a number", raw)
		}
		return 0, err
	}
	return v, nil
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
