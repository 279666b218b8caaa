package api

import (
	"errors"

	models "CoinLake/internal/domain/models"
	"CoinLake/internal/usecase"
	xhttp "CoinLake/pkg/http"
	xlogger "CoinLake/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardHandler exposes the aggregate tables over Echo-based HTTP.
type DashboardHandler struct {
	logger *xlogger.Logger
	query  *usecase.QueryService
}

func NewDashboardHandler(logger *xlogger.Logger, query *usecase.QueryService) *DashboardHandler {
	return &DashboardHandler{logger: logger, query: query}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/assets/:asset/history", h.AssetHistory)
	g.GET("/gaps", h.Gaps)
}

// Signals returns the latest aggregate row per asset.
func (h *DashboardHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows, err := h.query.LatestSignals(c.Request().Context(), req.Actionable)
	if err != nil {
		h.logger.Error("signals query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// AssetHistory returns trailing aggregate rows for one asset.
func (h *DashboardHandler) AssetHistory(c echo.Context) error {
	req := &models.AssetHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows, err := h.query.AssetHistory(c.Request().Context(), req.Asset, req.Limit)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownAsset) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("asset %s has no aggregate rows", req.Asset))
		}
		h.logger.Error("asset history query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, &models.AssetHistoryResponse{AssetID: req.Asset, Rows: rows})
}

// Gaps reports missing-date runs in the reconciled history.
func (h *DashboardHandler) Gaps(c echo.Context) error {
	gaps, err := h.query.Gaps(c.Request().Context())
	if err != nil {
		h.logger.Error("gaps query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, gaps, int64(len(gaps)))
}
