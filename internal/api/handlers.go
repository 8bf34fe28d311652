package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/julian/internal/calendar"
	"github.com/zapponejosh/julian/internal/config"
	"github.com/zapponejosh/julian/internal/convert"
	"github.com/zapponejosh/julian/internal/database"
	"github.com/zapponejosh/julian/internal/format"
	applog "github.com/zapponejosh/julian/internal/logger"
	"github.com/zapponejosh/julian/internal/parse"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db     *database.DB
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:     db,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// log returns the handler logger tagged with the request ID.
func (h *Handlers) log(ctx context.Context) *slog.Logger {
	return applog.FromContext(ctx, h.logger)
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Health(ctx); err != nil {
		h.log(ctx).Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnhealthy)
		return
	}

	stats, err := h.db.GetAdoptionStats(ctx)
	if err != nil {
		h.log(ctx).Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnhealthy)
		return
	}

	version, err := h.db.SchemaVersion(ctx)
	if err != nil {
		h.log(ctx).Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnhealthy)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"status":         "healthy",
		"schema_version": version,
		"adoptions":      stats,
	})
}

// =============================================================================
// Conversions
// =============================================================================

// GetNow handles GET /api/v1/now
func (h *Handlers) GetNow(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.converter(w, r)
	if !ok {
		return
	}

	result, err := conv.Now(h.now())
	if err != nil {
		h.writeConversionError(w, r, "", err)
		return
	}
	WriteSuccess(w, result)
}

// GetJulian handles GET /api/v1/jd/{jd}
func (h *Handlers) GetJulian(w http.ResponseWriter, r *http.Request) {
	h.convertPath(w, r, chi.URLParam(r, "jd"), parse.KindJulian)
}

// GetDate handles GET /api/v1/date/{date}
func (h *Handlers) GetDate(w http.ResponseWriter, r *http.Request) {
	h.convertPath(w, r, chi.URLParam(r, "date"), parse.KindCalendar)
}

// Convert handles GET /api/v1/convert/{arg}
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	input := chi.URLParam(r, "arg")
	arg, err := parse.Parse(input)
	if err != nil {
		h.writeConversionError(w, r, input, err)
		return
	}
	h.convertArgument(w, r, arg)
}

func (h *Handlers) convertPath(w http.ResponseWriter, r *http.Request, input string, want parse.Kind) {
	arg, err := parse.Parse(input)
	if err != nil {
		h.writeConversionError(w, r, input, err)
		return
	}
	if arg.Kind != want {
		WriteBadRequest(w, fmt.Sprintf("%q is not a %s date", input, want))
		return
	}
	h.convertArgument(w, r, arg)
}

func (h *Handlers) convertArgument(w http.ResponseWriter, r *http.Request, arg parse.Argument) {
	conv, ok := h.converter(w, r)
	if !ok {
		return
	}

	result, err := conv.Convert(arg)
	if err != nil {
		h.writeConversionError(w, r, arg.Input, err)
		return
	}
	WriteSuccess(w, result)
}

// converter builds a Converter from the configured defaults and the request's
// query parameters. It writes an error response and returns false when a
// parameter is invalid.
func (h *Handlers) converter(w http.ResponseWriter, r *http.Request) (*convert.Converter, bool) {
	q := r.URL.Query()
	opts := format.Options{Places: h.cfg.Precision}

	if s := q.Get("places"); s != "" {
		places, err := strconv.Atoi(s)
		if err != nil || places < 0 || places > config.MaxPrecision {
			WriteBadRequest(w, fmt.Sprintf("places must be between 0 and %d", config.MaxPrecision))
			return nil, false
		}
		opts.Places = places
	}
	for name, flag := range map[string]*bool{"yday": &opts.DayOfYear, "integer_seconds": &opts.IntegerSeconds} {
		if s := q.Get(name); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				WriteBadRequest(w, fmt.Sprintf("%s must be true or false", name))
				return nil, false
			}
			*flag = v
		}
	}

	mode, err := convert.ParseMode(h.cfg.OldStyle)
	if err != nil {
		mode = convert.ModeOff
	}
	if s := q.Get("old_style"); s != "" {
		if mode, err = convert.ParseMode(s); err != nil {
			WriteBadRequest(w, err.Error())
			return nil, false
		}
	}
	policy := convert.OldStyle{Mode: mode}

	if code := q.Get("region"); code != "" {
		adoption, err := h.db.GetAdoption(r.Context(), code)
		if err != nil {
			if database.IsNotFound(err) {
				WriteNotFound(w, fmt.Sprintf("Unknown region %q", code))
				return nil, false
			}
			h.log(r.Context()).Error("failed to get region", slog.String("code", code), slog.Any("error", err))
			WriteInternalError(w, "Failed to retrieve region")
			return nil, false
		}
		policy = convert.ForRegion(*adoption)
	}

	return convert.New(opts, policy), true
}

// writeConversionError maps parse and calendar errors to 400 responses.
func (h *Handlers) writeConversionError(w http.ResponseWriter, r *http.Request, input string, err error) {
	switch {
	case errors.Is(err, calendar.ErrReformationGap):
		WriteConversionError(w, input, CodeReformationGap, err)
	case calendar.IsOutOfRange(err):
		WriteConversionError(w, input, CodeOutOfRange, err)
	case calendar.IsInvalidDate(err), errors.Is(err, calendar.ErrInvalidTime), errors.Is(err, parse.ErrInvalidArgument):
		WriteConversionError(w, input, CodeInvalidDate, err)
	default:
		h.log(r.Context()).Error("conversion failed", slog.String("input", input), slog.Any("error", err))
		WriteInternalError(w, "Conversion failed")
	}
}

// =============================================================================
// Regions
// =============================================================================

// ListRegions handles GET /api/v1/regions
func (h *Handlers) ListRegions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	adoptions, err := h.db.ListAdoptions(ctx)
	if err != nil {
		h.log(ctx).Error("failed to list regions", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve regions")
		return
	}

	regions := make([]convert.Region, 0, len(adoptions))
	for _, a := range adoptions {
		region, err := convert.NewRegion(a)
		if err != nil {
			h.log(ctx).Warn("skipping region", slog.String("code", a.Code), slog.Any("error", err))
			continue
		}
		regions = append(regions, region)
	}

	WriteSuccess(w, map[string]interface{}{
		"regions": regions,
		"count":   len(regions),
	})
}

// GetRegion handles GET /api/v1/regions/{code}
func (h *Handlers) GetRegion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")

	a, err := h.db.GetAdoption(ctx, code)
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, fmt.Sprintf("Unknown region %q", code))
			return
		}
		h.log(ctx).Error("failed to get region", slog.String("code", code), slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve region")
		return
	}

	h.writeRegion(w, r, *a)
}

// PutRegion handles PUT /api/v1/regions/{code}
//
// The body names the first Gregorian day either as a day number or as a
// calendar date:
//
//	{"name": "Sweden", "first_gregorian_jdn": 2361390}
//	{"name": "Sweden", "first_gregorian": "1753-03-01"}
func (h *Handlers) PutRegion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")

	var req struct {
		Name              string  `json:"name"`
		FirstGregorianJDN int     `json:"first_gregorian_jdn"`
		FirstGregorian    string  `json:"first_gregorian"`
		Notes             *string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	jdn := req.FirstGregorianJDN
	if req.FirstGregorian != "" {
		arg, err := parse.Parse(req.FirstGregorian)
		if err != nil || arg.Kind != parse.KindCalendar {
			WriteBadRequest(w, fmt.Sprintf("first_gregorian %q is not a calendar date", req.FirstGregorian))
			return
		}
		jm, err := calendar.ToJulianMoment(arg.Calendar.Date())
		if err != nil {
			h.writeConversionError(w, r, req.FirstGregorian, err)
			return
		}
		jdn = jm.DayNumber
	}

	a := &database.Adoption{Code: code, Name: req.Name, FirstGregorianJDN: jdn, Notes: req.Notes}
	if err := a.Validate(); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	if err := h.db.UpsertAdoption(ctx, a); err != nil {
		h.log(ctx).Error("failed to save region", slog.String("code", code), slog.Any("error", err))
		WriteInternalError(w, "Failed to save region")
		return
	}

	h.log(ctx).Info("region saved", slog.String("code", code), slog.Int("first_gregorian_jdn", jdn))
	h.writeRegion(w, r, *a)
}

// DeleteRegion handles DELETE /api/v1/regions/{code}
func (h *Handlers) DeleteRegion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")

	if err := h.db.DeleteAdoption(ctx, code); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, fmt.Sprintf("Unknown region %q", code))
			return
		}
		h.log(ctx).Error("failed to delete region", slog.String("code", code), slog.Any("error", err))
		WriteInternalError(w, "Failed to delete region")
		return
	}

	h.log(ctx).Info("region deleted", slog.String("code", code))
	WriteSuccess(w, map[string]string{"deleted": code})
}

func (h *Handlers) writeRegion(w http.ResponseWriter, r *http.Request, a database.Adoption) {
	region, err := convert.NewRegion(a)
	if err != nil {
		h.log(r.Context()).Error("failed to render region", slog.String("code", a.Code), slog.Any("error", err))
		WriteInternalError(w, "Failed to render region")
		return
	}
	WriteSuccess(w, region)
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
