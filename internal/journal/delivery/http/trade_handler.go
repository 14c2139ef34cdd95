package http

import (
	"errors"
	"net/http"
	"strconv"

	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/repository"
	"trading-journal/internal/journal/service"
	"trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TradeHandler handles HTTP requests for trades.
type TradeHandler struct {
	tradeService service.TradeService
	logger       *logger.Logger
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeService service.TradeService, logger *logger.Logger) *TradeHandler {
	return &TradeHandler{tradeService: tradeService, logger: logger}
}

// RegisterRoutes registers the trade routes to the Echo group.
func (h *TradeHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListTrades)
	g.POST("", h.SaveTrade)
	g.PATCH("/:id", h.AmendTrade)
}

// ListTrades godoc
// @Summary List all trades
// @Description Get all trades ordered by entry date descending
// @Tags trades
// @Produce  json
// @Success 200 {array} dto.TradeResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades [get]
func (h *TradeHandler) ListTrades(c echo.Context) error {
	trades, err := h.tradeService.List(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get trades", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch trades. Please try again."})
	}
	return c.JSON(http.StatusOK, trades)
}

// SaveTrade godoc
// @Summary Save the draft as a new trade
// @Description Promote the session's draft to a persisted trade. The draft is cleared on success and left intact on failure.
// @Tags trades
// @Accept  json
// @Produce  json
// @Param   request  body    dto.CreateTradeRequest   true    "Draft session to save"
// @Success 201 {object} dto.SaveTradeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades [post]
func (h *TradeHandler) SaveTrade(c echo.Context) error {
	var req dto.CreateTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "session_id is required"})
	}

	trade, err := h.tradeService.Create(c.Request().Context(), req.SessionID)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			return c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
				Error:         "Please fill in all required fields",
				MissingFields: vErr.Missing,
			})
		}
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to save trade. Please try again."})
	}

	return c.JSON(http.StatusCreated, dto.SaveTradeResponse{
		Message: "Trade saved successfully.",
		Trade:   *trade,
	})
}

// AmendTrade godoc
// @Summary Amend an outcome field
// @Description Update profitloss or finalstoploss on a persisted trade. Non-numeric values coerce to 0.
// @Tags trades
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Trade ID"
// @Param   request  body    dto.AmendTradeRequest   true    "Field and raw value"
// @Success 200 {object} dto.SaveTradeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades/{id} [patch]
func (h *TradeHandler) AmendTrade(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid trade ID"})
	}

	var req dto.AmendTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	trade, err := h.tradeService.Amend(c.Request().Context(), id, req.Field, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFieldNotAmendable):
			return c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, repository.ErrTradeNotFound):
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Trade not found"})
		default:
			return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update trade. Please try again."})
		}
	}

	return c.JSON(http.StatusOK, dto.SaveTradeResponse{
		Message: "Trade updated successfully.",
		Trade:   *trade,
	})
}
