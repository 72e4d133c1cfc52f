package notifications

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhizano/era-beacon-api/internal/shared/errors"
	"github.com/rhizano/era-beacon-api/internal/shared/utils"
	"github.com/rhizano/era-beacon-api/internal/shared/validator"
)

// Handler handles HTTP requests for absence notifications
type Handler struct {
	service *Service
}

// NewHandler creates a new notifications handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// NotifyAbsence godoc
// @Summary Trigger absence detection
// @Description Runs one absence detection pass and pushes notifications to every absent employee
// @Tags Notifications
// @Accept json
// @Produce json
// @Param body body NotifyAbsenceRequest false "Optional threshold override"
// @Success 200 {object} scheduler.CycleSummary
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Security     Bearer
// @Router /notifications/notify-absence [post]
func (h *Handler) NotifyAbsence(c *gin.Context) {
	var req NotifyAbsenceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
			return
		}
		if err := h.service.validator.Validate(req); err != nil {
			validationErrors := validator.TranslateValidationErrors(err)
			utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validationErrors))
			return
		}
	}

	summary := h.service.NotifyAbsence(c.Request.Context(), req)

	// The cycle report is the response body itself, not wrapped in the
	// standard envelope. Callers key off the top-level success flag.
	c.JSON(http.StatusOK, summary)
}

// AbsentDetail godoc
// @Summary Get employee absence detail
// @Description Returns shift, store and last detection info for one employee
// @Tags Notifications
// @Produce json
// @Param employee_id path string true "Employee ID"
// @Success 200 {object} utils.Response{data=AbsentDetailResponse}
// @Failure 404 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Security     Bearer
// @Router /absent-detail/{employee_id} [get]
func (h *Handler) AbsentDetail(c *gin.Context) {
	detail, err := h.service.AbsentDetail(c.Request.Context(), c.Param("employee_id"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, detail)
}
