package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/analysis"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// HealthCheck probes one backing dependency.
type HealthCheck func(ctx context.Context) error

// StocksHandler exposes the analysis API over Echo.
type StocksHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.StockAnalyzer
	checks   map[string]HealthCheck
}

func NewStocksHandler(logger *xlogger.Logger, analyzer *usecase.StockAnalyzer) *StocksHandler {
	return &StocksHandler{
		logger:   logger,
		analyzer: analyzer,
		checks:   make(map[string]HealthCheck),
	}
}

// AddHealthCheck registers a dependency probe reported by /healthz.
func (h *StocksHandler) AddHealthCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

func (h *StocksHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/dashboard", h.Dashboard)
	g.GET("/stock/:symbol", h.Stock)
	g.GET("/sentiment/:symbol", h.Sentiment)
	g.GET("/scenarios/:symbol", h.Scenarios)
	g.GET("/metrics/:symbol", h.Metrics)
	g.GET("/recommendations/:symbol", h.Recommendations)
	g.GET("/history/:symbol", h.History)
	g.GET("/calendar", h.Calendar)
	g.GET("/search", h.Search)
	g.GET("/news/recent", h.RecentNews)
}

func (h *StocksHandler) Dashboard(c echo.Context) error {
	dash, err := h.analyzer.Dashboard(c.Request().Context())
	if err != nil {
		h.logger.Error("dashboard usecase error", xlogger.Error(err))
		return h.errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, dash)
}

func (h *StocksHandler) Stock(c echo.Context) error {
	req := &models.StockRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := util.NormalizeSymbol(req.Symbol)

	details, err := h.analyzer.StockDetails(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("stock details usecase error",
			xlogger.String("symbol", symbol), xlogger.Error(err))
		return h.errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, details)
}

func (h *StocksHandler) Sentiment(c echo.Context) error {
	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := util.NormalizeSymbol(req.Symbol)

	report, err := h.analyzer.Sentiment(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("sentiment usecase error",
			xlogger.String("symbol", symbol), xlogger.Error(err))
		return h.errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *StocksHandler) Scenarios(c echo.Context) error {
	req := &models.ScenariosRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := util.NormalizeSymbol(req.Symbol)

	set, err := h.analyzer.Scenarios(c.Request().Context(), symbol, models.Timeframe(req.Timeframe))
	if err != nil {
		h.logger.Error("scenarios usecase error",
			xlogger.String("symbol", symbol), xlogger.Error(err))
		return h.errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, set)
}

func (h *StocksHandler) Metrics(c echo.Context) error {
	req := &models.MetricsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := util.NormalizeSymbol(req.Symbol)

	report, err := h.analyzer.Metrics(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("metrics usecase error",
			xlogger.String("symbol", symbol), xlogger.Error(err))
		return h.errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *StocksHandler) Recommendations(c echo.Context) error {
	req := &models.RecommendationsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := util.NormalizeSymbol(req.Symbol)

	report, err := h.analyzer.Recommendations(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("recommendations usecase error",
			xlogger.String("symbol", symbol), xlogger.Error(err))
		return h.errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *StocksHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := util.NormalizeSymbol(req.Symbol)
	from, _ := time.Parse(util.APIDateLayout, req.From)
	to, _ := time.Parse(util.APIDateLayout, req.To)

	snaps, err := h.analyzer.History(c.Request().Context(), symbol, from, to, req.Limit)
	if err != nil {
		h.logger.Error("history usecase error",
			xlogger.String("symbol", symbol), xlogger.Error(err))
		return h.errorResponse(c, err)
	}
	return xhttp.ListResponse(c, snaps, int64(len(snaps)))
}

func (h *StocksHandler) Calendar(c echo.Context) error {
	req := &models.CalendarRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, _ := time.Parse(util.APIDateLayout, req.From)
	to, _ := time.Parse(util.APIDateLayout, req.To)

	events, err := h.analyzer.Calendar(c.Request().Context(), from, to)
	if err != nil {
		h.logger.Error("calendar usecase error", xlogger.Error(err))
		return h.errorResponse(c, err)
	}
	return xhttp.ListResponse(c, events, int64(len(events)))
}

func (h *StocksHandler) Search(c echo.Context) error {
	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	matches, err := h.analyzer.Search(c.Request().Context(), req.Query)
	if err != nil {
		h.logger.Error("search usecase error",
			xlogger.String("query", req.Query), xlogger.Error(err))
		return h.errorResponse(c, err)
	}
	return xhttp.ListResponse(c, matches, int64(len(matches)))
}

func (h *StocksHandler) RecentNews(c echo.Context) error {
	req := &models.RecentNewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := util.NormalizeSymbol(req.Symbol)

	articles := h.analyzer.RecentNews(c.Request().Context(), symbol, req.Limit)
	return xhttp.ListResponse(c, articles, int64(len(articles)))
}

func (h *StocksHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	status := map[string]string{"status": "ok"}
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status[name] = err.Error()
			healthy = false
		} else {
			status[name] = "ok"
		}
	}
	if !healthy {
		status["status"] = "degraded"
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, status)
	}
	return xhttp.DataResponse(c, http.StatusOK, status)
}

// errorResponse maps domain errors onto HTTP statuses before falling
// back to the generic AppError handling.
func (h *StocksHandler) errorResponse(c echo.Context, err error) error {
	var invalid *analysis.InvalidInputError
	switch {
	case errors.Is(err, analysis.ErrInsufficientSignals):
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("all sentiment sources failed").WithError(err))
	case errors.As(err, &invalid):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(invalid.Field).WithError(err))
	default:
		return xhttp.AppErrorResponse(c, err)
	}
}
