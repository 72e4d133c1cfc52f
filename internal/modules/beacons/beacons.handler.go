package beacons

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhizano/era-beacon-api/internal/shared/errors"
	"github.com/rhizano/era-beacon-api/internal/shared/utils"
	"github.com/rhizano/era-beacon-api/internal/shared/validator"
)

// Handler handles HTTP requests for beacons
type Handler struct {
	service *Service
}

// NewHandler creates a new beacon handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary Register a beacon
// @Description Registers a new BLE beacon with its location
// @Tags Beacons
// @Accept json
// @Produce json
// @Param body body CreateBeaconRequest true "Beacon details"
// @Success 201 {object} utils.Response{data=BeaconResponse}
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Security     Bearer
// @Router /beacons [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateBeaconRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.service.validator.Validate(req); err != nil {
		validationErrors := validator.TranslateValidationErrors(err)
		utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validationErrors))
		return
	}

	beacon, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusCreated, beacon)
}

// List godoc
// @Summary List beacons
// @Description Returns all registered beacons
// @Tags Beacons
// @Produce json
// @Success 200 {object} utils.Response{data=[]BeaconResponse}
// @Failure 401 {object} utils.Response
// @Security     Bearer
// @Router /beacons [get]
func (h *Handler) List(c *gin.Context) {
	beacons, err := h.service.List(c.Request.Context())
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, beacons)
}

// Get godoc
// @Summary Get a beacon
// @Description Returns one beacon by UUID
// @Tags Beacons
// @Produce json
// @Param id path string true "Beacon UUID"
// @Success 200 {object} utils.Response{data=BeaconResponse}
// @Failure 404 {object} utils.Response
// @Security     Bearer
// @Router /beacons/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	beacon, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, beacon)
}

// Update godoc
// @Summary Update a beacon
// @Description Applies partial changes to a beacon
// @Tags Beacons
// @Accept json
// @Produce json
// @Param id path string true "Beacon UUID"
// @Param body body UpdateBeaconRequest true "Fields to update"
// @Success 200 {object} utils.Response{data=BeaconResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Security     Bearer
// @Router /beacons/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req UpdateBeaconRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.service.validator.Validate(req); err != nil {
		validationErrors := validator.TranslateValidationErrors(err)
		utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validationErrors))
		return
	}

	beacon, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, beacon)
}

// Delete godoc
// @Summary Delete a beacon
// @Description Removes a beacon registration
// @Tags Beacons
// @Produce json
// @Param id path string true "Beacon UUID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Security     Bearer
// @Router /beacons/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"deleted": true})
}
