package httpapi

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-results/internal/platform/logging"
	"github.com/riskibarqy/league-results/internal/report"
	"github.com/riskibarqy/league-results/internal/usecase"
)

const maxRequestBody = 64 << 10

type Handler struct {
	resultsService    *usecase.ResultsService
	standingService   *usecase.StandingService
	statisticsService *usecase.StatisticsService
	overviewService   *usecase.OverviewService
	exportService     *usecase.ExportService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	resultsService *usecase.ResultsService,
	standingService *usecase.StandingService,
	statisticsService *usecase.StatisticsService,
	overviewService *usecase.OverviewService,
	exportService *usecase.ExportService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		resultsService:    resultsService,
		standingService:   standingService,
		statisticsService: statisticsService,
		overviewService:   overviewService,
		exportService:     exportService,
		logger:            logger,
		validator:         validator.New(),
	}
}

type selectMatchdayRequest struct {
	Matchday int `json:"matchday" validate:"required,gt=0"`
}

type exportRequest struct {
	Matchdays []int  `json:"matchdays" validate:"required,min=1,max=100,dive,gt=0"`
	Format    string `json:"format" validate:"omitempty,oneof=pdf text txt"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{
		"status":  "ok",
		"results": string(h.resultsService.Snapshot().Status),
	})
}

func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetResults")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.resultsService.Snapshot())
}

func (h *Handler) RefreshResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshResults")
	defer span.End()

	snapshot, err := h.resultsService.Load(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh results failed", "error", err)
		writeErrorMessage(ctx, w, err, usecase.LoadFailureMessage)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshot)
}

func (h *Handler) GetMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchday")
	defer span.End()

	number, err := parsePositiveInt(r.PathValue("matchday"), "matchday")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	span.SetAttributes(attrMatchday.Int(number))

	item, err := h.resultsService.Matchday(number)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, item)
}

func (h *Handler) SelectActiveMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectActiveMatchday")
	defer span.End()

	var req selectMatchdayRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	span.SetAttributes(attrMatchday.Int(req.Matchday))

	item, err := h.resultsService.Select(req.Matchday)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, item)
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	table, err := h.standingService.Table(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, table)
}

func (h *Handler) ListTopScorers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTopScorers")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	items, err := h.statisticsService.TopScorers(ctx, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOverview")
	defer span.End()

	overview, err := h.overviewService.Get(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get overview failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, overview)
}

func (h *Handler) CreateExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateExport")
	defer span.End()

	var req exportRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	format, err := report.ParseFormat(req.Format)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	span.SetAttributes(attrMatchdays.IntSlice(req.Matchdays), attrFormat.String(string(format)))

	result, err := h.exportService.Export(ctx, usecase.ExportRequest{
		Matchdays: req.Matchdays,
		Format:    format,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create export failed", "matchdays", req.Matchdays, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Content)))
	w.Header().Set("X-Report-Pages", strconv.Itoa(result.Pages))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}

func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parsePositiveInt(raw, name string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
