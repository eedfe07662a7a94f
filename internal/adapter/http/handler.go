// Package http exposes the ingestion pipeline and derived views over REST.
package http

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/simaogato/fliptrack-backend/internal/domain"
	"github.com/simaogato/fliptrack-backend/internal/parser"
	"github.com/simaogato/fliptrack-backend/internal/usecase/analytics"
	"github.com/simaogato/fliptrack-backend/internal/usecase/importer"
)

// Handler serves the flip API.
type Handler struct {
	flipRepo  domain.FlipRepository
	importer  *importer.Service
	analytics *analytics.Service
	logger    *slog.Logger
	validate  *validator.Validate
}

// NewHandler creates a new API handler.
func NewHandler(
	flipRepo domain.FlipRepository,
	importerService *importer.Service,
	analyticsService *analytics.Service,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		flipRepo:  flipRepo,
		importer:  importerService,
		analytics: analyticsService,
		logger:    logger.With(slog.String("component", "api_handler")),
		validate:  validator.New(),
	}
}

// Routes returns the flip API routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/flips", func(r chi.Router) {
		r.Get("/", h.ListFlips)
		r.Post("/", h.CreateFlip)
		r.Delete("/", h.ResetFlips)
	})
	r.Post("/imports", h.ImportFlips)
	r.Get("/summaries/daily", h.GetDailySummaries)
	r.Get("/leaderboard", h.GetLeaderboard)
	r.Get("/projection", h.GetProjection)

	return r
}

type manualEntryRequest struct {
	Item      string  `json:"item" validate:"required"`
	Qty       int64   `json:"qty"`
	BuyPrice  float64 `json:"buy_price"`
	SellPrice float64 `json:"sell_price"`
}

type importRequest struct {
	Source string   `json:"source" validate:"required,oneof=csv runelite"`
	Raw    string   `json:"raw" validate:"required"`
	TaxPct *float64 `json:"tax_pct" validate:"omitempty,gte=0,lte=100"`
}

type flipResponse struct {
	ID        string  `json:"id"`
	Item      string  `json:"item"`
	Qty       int64   `json:"qty"`
	BuyPrice  float64 `json:"buy_price"`
	SellPrice float64 `json:"sell_price"`
	Ts        int64   `json:"ts"` // epoch milliseconds
	Profit    int64   `json:"profit"`
}

type importResponse struct {
	Imported int            `json:"imported"`
	Flips    []flipResponse `json:"flips"`
}

type dailySummaryResponse struct {
	Date        string `json:"date"`
	Flips       int    `json:"flips"`
	Items       int    `json:"items"`
	Profit      int64  `json:"profit"`
	NetWorth    int64  `json:"net_worth"`
	GrowthPct   string `json:"growth_pct"`
	ProgressPct string `json:"progress_pct"`
}

type leaderboardRowResponse struct {
	Item   string `json:"item"`
	Flips  int    `json:"flips"`
	Profit int64  `json:"profit"`
	RoiPct string `json:"roi_pct"`
}

type projectionResponse struct {
	Days    int64 `json:"days"`
	Defined bool  `json:"defined"`
}

// CreateFlip handles POST /flips (manual entry).
func (h *Handler) CreateFlip(w http.ResponseWriter, r *http.Request) {
	var req manualEntryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.clientError(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.clientError(w, r, "item is required")
		return
	}

	flip, err := h.importer.AddManual(r.Context(), parser.ManualEntry{
		Item:      req.Item,
		Qty:       req.Qty,
		BuyPrice:  req.BuyPrice,
		SellPrice: req.SellPrice,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "manual flip recorded",
		slog.String("item", flip.Item), slog.Int64("qty", flip.Qty))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toFlipResponse(flip))
}

// ImportFlips handles POST /imports.
func (h *Handler) ImportFlips(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.clientError(w, r, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.clientError(w, r, "source and raw are required; tax_pct must be 0-100")
		return
	}

	flips, err := h.importer.Import(r.Context(), importer.ImportInput{
		Source: importer.Source(req.Source),
		Raw:    req.Raw,
		TaxPct: req.TaxPct,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "import completed",
		slog.String("source", req.Source), slog.Int("flips", len(flips)))

	out := importResponse{Imported: len(flips), Flips: make([]flipResponse, 0, len(flips))}
	for _, f := range flips {
		out.Flips = append(out.Flips, toFlipResponse(f))
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, out)
}

// ListFlips handles GET /flips.
func (h *Handler) ListFlips(w http.ResponseWriter, r *http.Request) {
	flips, err := h.flipRepo.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]flipResponse, 0, len(flips))
	for _, f := range flips {
		out = append(out, toFlipResponse(f))
	}
	render.JSON(w, r, out)
}

// ResetFlips handles DELETE /flips, the only removal path.
func (h *Handler) ResetFlips(w http.ResponseWriter, r *http.Request) {
	if err := h.flipRepo.Reset(r.Context()); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "flip collection reset")
	render.NoContent(w, r)
}

// GetDailySummaries handles GET /summaries/daily.
func (h *Handler) GetDailySummaries(w http.ResponseWriter, r *http.Request) {
	flips, err := h.flipRepo.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	daily := h.analytics.DailySummaries(flips)
	out := make([]dailySummaryResponse, 0, len(daily))
	for _, d := range daily {
		out = append(out, dailySummaryResponse{
			Date:        d.Date,
			Flips:       d.Flips,
			Items:       d.Items,
			Profit:      d.Profit,
			NetWorth:    d.NetWorth,
			GrowthPct:   d.GrowthPct.String(),
			ProgressPct: d.ProgressPct.String(),
		})
	}
	render.JSON(w, r, out)
}

// GetLeaderboard handles GET /leaderboard with presentation-layer
// filtering: ?sort=profit|roi&winners=true&q=search.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	flips, err := h.flipRepo.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	filter := analytics.LeaderboardFilter{
		Search: r.URL.Query().Get("q"),
		SortBy: r.URL.Query().Get("sort"),
	}
	if winners, err := strconv.ParseBool(r.URL.Query().Get("winners")); err == nil {
		filter.WinnersOnly = winners
	}

	rows := analytics.ApplyLeaderboardFilter(h.analytics.Leaderboard(flips), filter)
	out := make([]leaderboardRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboardRowResponse{
			Item:   row.Item,
			Flips:  row.Flips,
			Profit: row.Profit,
			RoiPct: row.RoiPct.String(),
		})
	}
	render.JSON(w, r, out)
}

// GetProjection handles GET /projection.
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	flips, err := h.flipRepo.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	days, defined := h.analytics.ProjectionHorizon(h.analytics.DailySummaries(flips))
	render.JSON(w, r, projectionResponse{Days: days, Defined: defined})
}

func toFlipResponse(f domain.Flip) flipResponse {
	return flipResponse{
		ID:        f.ID.String(),
		Item:      f.Item,
		Qty:       f.Qty,
		BuyPrice:  jsonSafe(f.BuyPrice),
		SellPrice: jsonSafe(f.SellPrice),
		Ts:        f.Ts.UnixMilli(),
		Profit:    f.Profit(),
	}
}

// jsonSafe maps NaN/Inf prices (tolerated by the generic importer) to 0,
// since JSON has no representation for them.
func jsonSafe(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// handleError maps pipeline errors to HTTP statuses. All parse failures
// are client errors; anything else is a 500.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, parser.ErrMissingItem),
		errors.Is(err, parser.ErrUnrecognizedFormat),
		errors.Is(err, parser.ErrEmptyInput),
		errors.Is(err, importer.ErrUnknownSource),
		isRowError(err):
		h.clientError(w, r, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "request failed", slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "internal error"})
	}
}

// isRowError recognizes malformed-row errors from the generic importer.
func isRowError(err error) bool {
	var rowErr *parser.RowError
	return errors.As(err, &rowErr)
}

func (h *Handler) clientError(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, map[string]string{"error": msg})
}
