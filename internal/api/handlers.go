package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/panchanga-api/internal/calendar"
	"github.com/zapponejosh/panchanga-api/internal/config"
	"github.com/zapponejosh/panchanga-api/internal/logger"
	"github.com/zapponejosh/panchanga-api/internal/panchanga"
	"github.com/zapponejosh/panchanga-api/internal/telemetry"
)

// MaxRangeDays is the longest span the range endpoint computes.
const MaxRangeDays = 31

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	engines map[string]*panchanga.Engine // keyed by lower-case location name
	cfg     *config.Config
	logger  *slog.Logger
	now     func() time.Time
}

// NewHandlers creates an engine for every configured location.
func NewHandlers(src panchanga.Source, cfg *config.Config, log *slog.Logger) (*Handlers, error) {
	if log == nil {
		log = slog.Default()
	}

	engines := make(map[string]*panchanga.Engine, len(cfg.Locations))
	for _, loc := range cfg.Locations {
		e, err := panchanga.NewEngine(src, loc, log)
		if err != nil {
			return nil, err
		}
		engines[strings.ToLower(loc.Name)] = e
	}
	if _, ok := engines[strings.ToLower(cfg.Location.Name)]; !ok {
		e, err := panchanga.NewEngine(src, cfg.Location, log)
		if err != nil {
			return nil, err
		}
		engines[strings.ToLower(cfg.Location.Name)] = e
	}

	return &Handlers{
		engines: engines,
		cfg:     cfg,
		logger:  log,
		now:     time.Now,
	}, nil
}

// LocationInfo describes a location preset.
type LocationInfo struct {
	panchanga.Location
	Zone    string `json:"zone"`
	Default bool   `json:"default"`
}

// RangeResponse is the body of the range and year endpoints.
type RangeResponse struct {
	Location string              `json:"location"`
	Start    string              `json:"start"`
	End      string              `json:"end"`
	Days     []panchanga.Record  `json:"days"`
	Failed   []panchanga.Failure `json:"failed"`
}

// HealthCheck handles GET /health. It resolves today's sunrise at the
// default location to prove the ephemeris is answering.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	e := h.engines[strings.ToLower(h.cfg.Location.Name)]
	if _, err := e.Windows().Sunrise(h.now().In(e.Zone())); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteUnavailable(w, "Ephemeris unhealthy")
		return
	}

	WriteSuccess(w, map[string]string{
		"status":        "healthy",
		"engine":        h.cfg.EphemerisEngine,
		"sidereal_mode": h.cfg.SiderealMode,
	})
}

// ListLocations handles GET /api/v1/locations
func (h *Handlers) ListLocations(w http.ResponseWriter, r *http.Request) {
	out := make([]LocationInfo, 0, len(h.cfg.Locations))
	for _, loc := range h.cfg.Locations {
		out = append(out, LocationInfo{
			Location: loc,
			Zone:     calendar.OffsetName(loc.UTCOffset),
			Default:  strings.EqualFold(loc.Name, h.cfg.Location.Name),
		})
	}
	WriteSuccess(w, out)
}

// GetToday handles GET /api/v1/panchanga/today
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	e, r, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	h.writeDay(w, r, e, h.now().In(e.Zone()))
}

// GetDate handles GET /api/v1/panchanga/date/{YYYY-MM-DD}
func (h *Handlers) GetDate(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	if dateStr == "" {
		WriteBadRequest(w, "Date parameter is required")
		return
	}

	date, err := calendar.ParseDateString(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}
	if !inSupportedRange(date.Year()) {
		WriteBadRequest(w, fmt.Sprintf("Date must be between %d and %d", config.MinYear, config.MaxYear))
		return
	}

	e, r, ok := h.engineFor(w, r)
	if !ok {
		return
	}
	h.writeDay(w, r, e, calendar.DateIn(date, e.Zone()))
}

// GetRange handles GET /api/v1/panchanga/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetRange(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end date parameters are required")
		return
	}

	startDate, err := calendar.ParseDateString(startStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", startStr))
		return
	}

	endDate, err := calendar.ParseDateString(endStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", endStr))
		return
	}

	if startDate.After(endDate) {
		WriteBadRequest(w, "Start date must be before or equal to end date")
		return
	}
	if calendar.DaysInclusive(startDate, endDate) > MaxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range cannot exceed %d days", MaxRangeDays))
		return
	}
	if !inSupportedRange(startDate.Year()) || !inSupportedRange(endDate.Year()) {
		WriteBadRequest(w, fmt.Sprintf("Dates must be between %d and %d", config.MinYear, config.MaxYear))
		return
	}

	e, r, ok := h.engineFor(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result, err := e.Range(r.Context(), calendar.DateIn(startDate, e.Zone()), calendar.DateIn(endDate, e.Zone()))
	telemetry.ObserveRange(e.Location().Name, start, result)
	if err != nil {
		logger.Error(r.Context(), "range computation stopped", err,
			slog.String("start", startStr),
			slog.String("end", endStr))
		WriteInternalError(w, "Failed to compute panchanga")
		return
	}

	WriteSuccess(w, newRangeResponse(e, startStr, endStr, result))
}

// GetYear handles GET /api/v1/panchanga/year/{year}
func (h *Handlers) GetYear(w http.ResponseWriter, r *http.Request) {
	yearStr := chi.URLParam(r, "year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", yearStr))
		return
	}
	if !inSupportedRange(year) {
		WriteBadRequest(w, fmt.Sprintf("Year must be between %d and %d", config.MinYear, config.MaxYear))
		return
	}

	e, r, ok := h.engineFor(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result, err := e.Year(r.Context(), year)
	telemetry.ObserveRange(e.Location().Name, start, result)
	if err != nil {
		logger.Error(r.Context(), "year computation stopped", err, slog.Int("year", year))
		WriteInternalError(w, "Failed to compute panchanga")
		return
	}

	first, last := calendar.YearBounds(year)
	WriteSuccess(w, newRangeResponse(e, calendar.FormatDate(first), calendar.FormatDate(last), result))
}

// engineFor resolves the ?location= parameter, writing a 404 when it
// names no preset. The returned request carries the location for logging.
func (h *Handlers) engineFor(w http.ResponseWriter, r *http.Request) (*panchanga.Engine, *http.Request, bool) {
	loc, err := h.cfg.FindLocation(r.URL.Query().Get("location"))
	if err != nil {
		if errors.Is(err, config.ErrUnknownLocation) {
			WriteNotFound(w, fmt.Sprintf("Unknown location: %s", r.URL.Query().Get("location")))
			return nil, r, false
		}
		WriteBadRequest(w, err.Error())
		return nil, r, false
	}

	e, ok := h.engines[strings.ToLower(loc.Name)]
	if !ok {
		WriteNotFound(w, fmt.Sprintf("Unknown location: %s", loc.Name))
		return nil, r, false
	}
	return e, r.WithContext(logger.WithLocation(r.Context(), e.Location().Name)), true
}

// writeDay computes one date and writes its record.
func (h *Handlers) writeDay(w http.ResponseWriter, r *http.Request, e *panchanga.Engine, date time.Time) {
	start := time.Now()
	day, err := e.Day(r.Context(), date)
	telemetry.ObserveDay(e.Location().Name, start, day, err)
	if err != nil {
		logger.Error(r.Context(), "failed to compute panchanga", err,
			slog.String("date", calendar.FormatDate(date)))
		WriteInternalError(w, "Failed to compute panchanga")
		return
	}

	WriteSuccess(w, panchanga.NewRecord(day))
}

func newRangeResponse(e *panchanga.Engine, start, end string, result *panchanga.RangeResult) RangeResponse {
	failed := result.Failed
	if failed == nil {
		failed = []panchanga.Failure{}
	}
	return RangeResponse{
		Location: e.Location().Name,
		Start:    start,
		End:      end,
		Days:     panchanga.NewRecords(result.Days),
		Failed:   failed,
	}
}

func inSupportedRange(year int) bool {
	return year >= config.MinYear && year <= config.MaxYear
}
