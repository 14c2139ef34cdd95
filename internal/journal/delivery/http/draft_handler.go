package http

import (
	"errors"
	"net/http"

	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/service"
	"trading-journal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DraftHandler handles HTTP requests for in-progress trade drafts.
type DraftHandler struct {
	draftService service.DraftService
	logger       *logger.Logger
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(draftService service.DraftService, logger *logger.Logger) *DraftHandler {
	return &DraftHandler{draftService: draftService, logger: logger}
}

// RegisterRoutes registers the draft routes to the Echo group.
func (h *DraftHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateDraft)
	g.GET("/:id", h.GetDraft)
	g.PUT("/:id/fields/:key", h.SetField)
	g.GET("/:id/query", h.GetQueryString)
	g.PUT("/:id/query", h.RestoreFromQuery)
	g.DELETE("/:id", h.ClearDraft)
	g.POST("/:id/image", h.UploadImage)
}

// CreateDraft godoc
// @Summary Start a new draft session
// @Tags drafts
// @Produce  json
// @Success 201 {object} dto.CreateDraftResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /drafts [post]
func (h *DraftHandler) CreateDraft(c echo.Context) error {
	session, err := h.draftService.CreateSession(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to create draft session", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create draft"})
	}
	return c.JSON(http.StatusCreated, dto.CreateDraftResponse{SessionID: session})
}

// GetDraft godoc
// @Summary Get the full draft state
// @Description Returns the draft fields, image URL, upload status, the sma100/sma200 visibility flag, and the query string encoding.
// @Tags drafts
// @Produce  json
// @Param   id  path    string true    "Draft session ID"
// @Success 200 {object} dto.DraftStateResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /drafts/{id} [get]
func (h *DraftHandler) GetDraft(c echo.Context) error {
	state, err := h.draftService.State(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to read draft", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to read draft"})
	}
	return c.JSON(http.StatusOK, state)
}

// SetField godoc
// @Summary Set one draft field
// @Description Overwrites the field named by the key path parameter. The same path sets the direction field to "long" or "short".
// @Tags drafts
// @Accept  json
// @Produce  json
// @Param   id  path    string true    "Draft session ID"
// @Param   key path    string true    "Field key"
// @Param   request  body    dto.SetFieldRequest   true    "Field value"
// @Success 200 {object} dto.DraftStateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /drafts/{id}/fields/{key} [put]
func (h *DraftHandler) SetField(c echo.Context) error {
	var req dto.SetFieldRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	session := c.Param("id")
	ctx := c.Request().Context()
	if err := h.draftService.SetField(ctx, session, c.Param("key"), req.Value); err != nil {
		if errors.Is(err, service.ErrReservedFieldKey) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid field key"})
		}
		h.logger.Error("Failed to set draft field", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to set field"})
	}

	state, err := h.draftService.State(ctx, session)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to read draft"})
	}
	return c.JSON(http.StatusOK, state)
}

// GetQueryString godoc
// @Summary Get the draft encoded as a query string
// @Tags drafts
// @Produce  plain
// @Param   id  path    string true    "Draft session ID"
// @Success 200 {string} string
// @Failure 500 {object} dto.ErrorResponse
// @Router /drafts/{id}/query [get]
func (h *DraftHandler) GetQueryString(c echo.Context) error {
	query, err := h.draftService.QueryString(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to encode draft", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to encode draft"})
	}
	return c.String(http.StatusOK, query)
}

// RestoreFromQuery godoc
// @Summary Restore draft fields from a query string
// @Tags drafts
// @Accept  json
// @Produce  json
// @Param   id  path    string true    "Draft session ID"
// @Param   request  body    dto.RestoreDraftRequest   true    "Encoded query string"
// @Success 200 {object} dto.DraftStateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /drafts/{id}/query [put]
func (h *DraftHandler) RestoreFromQuery(c echo.Context) error {
	var req dto.RestoreDraftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	session := c.Param("id")
	ctx := c.Request().Context()
	if err := h.draftService.Restore(ctx, session, req.Query); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query string"})
	}

	state, err := h.draftService.State(ctx, session)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to read draft"})
	}
	return c.JSON(http.StatusOK, state)
}

// ClearDraft godoc
// @Summary Clear the draft
// @Description Drops every field and the uploaded image URL.
// @Tags drafts
// @Param   id  path    string true    "Draft session ID"
// @Success 204 {object} nil
// @Failure 500 {object} dto.ErrorResponse
// @Router /drafts/{id} [delete]
func (h *DraftHandler) ClearDraft(c echo.Context) error {
	if err := h.draftService.Clear(c.Request().Context(), c.Param("id")); err != nil {
		h.logger.Error("Failed to clear draft", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to clear draft"})
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage godoc
// @Summary Upload a chart screenshot
// @Description Sends the file to the media store and records the returned URL on the draft. A second upload is rejected while one is in flight.
// @Tags drafts
// @Accept  mpfd
// @Produce  json
// @Param   id  path    string true    "Draft session ID"
// @Param   file formData file true    "Image file"
// @Success 200 {object} dto.UploadImageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /drafts/{id}/image [post]
func (h *DraftHandler) UploadImage(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to retrieve file from request. Ensure the 'file' field is used."})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to open uploaded file"})
	}
	defer file.Close()

	imageURL, err := h.draftService.UploadImage(c.Request().Context(), c.Param("id"), fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, service.ErrUploadInFlight) {
			return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to upload image. Please try again."})
	}

	return c.JSON(http.StatusOK, dto.UploadImageResponse{
		Message:  "Image uploaded successfully.",
		ImageURL: imageURL,
	})
}
