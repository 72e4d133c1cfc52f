package presence

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhizano/era-beacon-api/internal/shared/errors"
	"github.com/rhizano/era-beacon-api/internal/shared/utils"
	"github.com/rhizano/era-beacon-api/internal/shared/validator"
)

// Handler handles HTTP requests for presence logs
type Handler struct {
	service *Service
}

// NewHandler creates a new presence handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary Record a presence detection
// @Description Records a beacon detection event for an employee device
// @Tags Presence
// @Accept json
// @Produce json
// @Param body body CreatePresenceLogRequest true "Detection event"
// @Success 201 {object} utils.Response{data=PresenceLogResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Security     Bearer
// @Router /presence-logs [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePresenceLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.service.validator.Validate(req); err != nil {
		validationErrors := validator.TranslateValidationErrors(err)
		utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validationErrors))
		return
	}

	log, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusCreated, log)
}

// List godoc
// @Summary List presence logs
// @Description Returns filtered, paginated presence detections
// @Tags Presence
// @Produce json
// @Param user_id query string false "Filter by user"
// @Param beacon_id query string false "Filter by beacon"
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.Response{data=PresenceLogListResponse}
// @Failure 400 {object} utils.Response
// @Security     Bearer
// @Router /presence-logs [get]
func (h *Handler) List(c *gin.Context) {
	var req ListPresenceLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid query parameters"))
		return
	}

	if err := h.service.validator.Validate(req); err != nil {
		validationErrors := validator.TranslateValidationErrors(err)
		utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validationErrors))
		return
	}

	logs, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, logs)
}

// Get godoc
// @Summary Get a presence log
// @Description Returns one presence detection by UUID
// @Tags Presence
// @Produce json
// @Param id path string true "Presence log UUID"
// @Success 200 {object} utils.Response{data=PresenceLogResponse}
// @Failure 404 {object} utils.Response
// @Security     Bearer
// @Router /presence-logs/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	log, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, log)
}

// Delete godoc
// @Summary Delete a presence log
// @Description Removes one presence detection
// @Tags Presence
// @Produce json
// @Param id path string true "Presence log UUID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Security     Bearer
// @Router /presence-logs/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"deleted": true})
}
