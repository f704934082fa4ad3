package http

import (
	"net/http"

	"signal-brain/internal/dto"
	"signal-brain/internal/model"
	"signal-brain/internal/service"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(e *echo.Echo, validator *goValidator.Validate, svc *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      e,
		validator: validator,
		service:   svc,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	v1 := base.Group("/v1")
	{
		v1.GET("/analysis/latest", h.GetLatestAnalysis)
		v1.GET("/analysis/history", h.GetAnalysisHistory)
		v1.POST("/analyze", h.RunAnalysis)
	}
}

// GetLatestAnalysis returns the most recent synthesis, preferring the
// in-memory result over the persisted one.
func (h *HttpAPIHandler) GetLatestAnalysis(c echo.Context) error {
	if result := h.service.AnalysisService.LatestResult(); result != nil {
		return c.JSON(http.StatusOK, dto.BaseResponse{Message: "ok", Data: result})
	}

	// Fall back to the last persisted cycle, e.g. right after a restart.
	history, err := h.service.AnalysisService.LatestPersisted(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.BaseResponse{Message: err.Error()})
	}
	if history == nil {
		return c.JSON(http.StatusNotFound, dto.BaseResponse{Message: "no synthesis available yet"})
	}
	return c.JSON(http.StatusOK, dto.BaseResponse{Message: "ok", Data: history})
}

// GetAnalysisHistory returns persisted cycles, newest first.
func (h *HttpAPIHandler) GetAnalysisHistory(c echo.Context) error {
	var req dto.HistoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.BaseResponse{Message: "invalid query parameters"})
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	histories, err := h.service.AnalysisService.History(c.Request().Context(), model.GetSynthesisHistoryParam{
		PrimarySymbol: req.Symbol,
		AlertedOnly:   req.AlertedOnly,
		Limit:         req.Limit,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.BaseResponse{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.BaseResponse{Message: "ok", Data: histories})
}

// RunAnalysis triggers one cycle with caller-supplied macro flags. The
// sentiment subsystem is the authority on these; they are never inferred.
func (h *HttpAPIHandler) RunAnalysis(c echo.Context) error {
	var req dto.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.BaseResponse{Message: "invalid request body"})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.BaseResponse{Message: err.Error()})
	}

	result, err := h.service.AnalysisService.RunAnalysis(
		c.Request().Context(),
		dto.FedSentiment(req.FedSentiment),
		dto.PolicyRisk(req.PolicyRisk),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.BaseResponse{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.BaseResponse{Message: "ok", Data: result})
}
