package http

import (
	"net/http"

	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/service"
	"trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WidgetHandler serves the calculator widget configurations.
type WidgetHandler struct {
	widgetService service.WidgetService
	logger        *logger.Logger
}

// NewWidgetHandler creates a new WidgetHandler.
func NewWidgetHandler(widgetService service.WidgetService, logger *logger.Logger) *WidgetHandler {
	return &WidgetHandler{widgetService: widgetService, logger: logger}
}

// RegisterRoutes registers the widget routes to the Echo group.
func (h *WidgetHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetWidgets)
}

// GetWidgets godoc
// @Summary Get the calculator widget configurations
// @Description Fixed, write-only options blobs for the embedded position-size and profit calculators.
// @Tags widgets
// @Produce  json
// @Success 200 {array} dto.WidgetResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /widgets [get]
func (h *WidgetHandler) GetWidgets(c echo.Context) error {
	widgets, err := h.widgetService.GetAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get widget configs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch widgets"})
	}
	return c.JSON(http.StatusOK, widgets)
}
