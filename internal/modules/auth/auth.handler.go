package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/observability"
	"github.com/rhizano/era-beacon-api/internal/shared/errors"
	"github.com/rhizano/era-beacon-api/internal/shared/utils"
	"github.com/rhizano/era-beacon-api/internal/shared/validator"
)

// Handler handles HTTP requests for authentication
type Handler struct {
	service   *Service
	v         *validator.Validator
	serverLog *observability.ServerLog
	metrics   *observability.Metrics
}

// NewHandler creates a new auth handler
func NewHandler(service *Service, v *validator.Validator, serverLog *observability.ServerLog, metrics *observability.Metrics) *Handler {
	return &Handler{
		service:   service,
		v:         v,
		serverLog: serverLog,
		metrics:   metrics,
	}
}

// Register godoc
// @Summary Register an account
// @Description Creates a new API account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Account details"
// @Success 201 {object} utils.Response{data=UserResponse}
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.v.Validate(req); err != nil {
		utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validator.TranslateValidationErrors(err)))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	h.serverLog.Record(c.Request.Context(), observability.Event{
		Component: "auth",
		Action:    "account_registered",
		UserID:    user.ID,
		Success:   true,
		IPAddress: c.ClientIP(),
	})

	utils.Success(c, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Authenticates an account and grants a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	clientIP := c.ClientIP()
	h.metrics.AuthenticationAttempts.WithLabelValues("password").Inc()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.AuthenticationFailures.WithLabelValues("password", "invalid_request").Inc()
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.v.Validate(req); err != nil {
		h.metrics.AuthenticationFailures.WithLabelValues("password", "validation_failed").Inc()
		utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validator.TranslateValidationErrors(err)))
		return
	}

	tokens, userID, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.metrics.AuthenticationFailures.WithLabelValues("password", "invalid_credentials").Inc()
		h.serverLog.Record(c.Request.Context(), observability.Event{
			Component: "auth",
			Action:    "login_failed",
			UserID:    userID,
			Success:   false,
			IPAddress: clientIP,
		})
		utils.Error(c, err)
		return
	}

	h.serverLog.Record(c.Request.Context(), observability.Event{
		Component: "auth",
		Action:    "login",
		UserID:    userID,
		Success:   true,
		IPAddress: clientIP,
	})

	// Token grants use the OAuth-style flat shape, not the envelope.
	c.JSON(http.StatusOK, tokens)
}
