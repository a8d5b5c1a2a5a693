package handler

import (
	"net/http"

	"clinicpos/internal/middleware"
	"clinicpos/internal/service"
	"clinicpos/pkg/pagination"
	"clinicpos/pkg/response"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	patientService service.PatientService
}

func NewPatientHandler(patientService service.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

func (h *PatientHandler) RegisterRoutes(router *gin.RouterGroup) {
	patients := router.Group("/api/patients", middleware.RequireAuth())
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
	}
}

// CreatePatient registers a patient
// @Summary      Create patient
// @Tags         patients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.PatientRequest  true  "Patient Payload"
// @Success      201      {object}  response.Response{data=service.PatientResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/patients [post]
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req service.PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	patient, err := h.patientService.CreatePatient(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, patient))
}

// ListPatients returns a paginated patient list
// @Summary      List patients
// @Tags         patients
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Search by name or phone"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/patients [get]
func (h *PatientHandler) ListPatients(c *gin.Context) {
	params := pagination.Parse(c)

	patients, total, err := h.patientService.ListPatients(c.Request.Context(), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"patients": patients,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetPatient returns one patient
// @Summary      Get patient
// @Tags         patients
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Patient ID"
// @Success      200  {object}  response.Response{data=service.PatientResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/patients/{id} [get]
func (h *PatientHandler) GetPatient(c *gin.Context) {
	patient, err := h.patientService.GetPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, patient))
}

// UpdatePatient updates a patient
// @Summary      Update patient
// @Tags         patients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Patient ID"
// @Param        payload  body      service.PatientRequest  true  "Patient Payload"
// @Success      200      {object}  response.Response{data=service.PatientResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/patients/{id} [put]
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var req service.PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	patient, err := h.patientService.UpdatePatient(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, patient))
}

// DeletePatient soft-deletes a patient
// @Summary      Delete patient
// @Tags         patients
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Patient ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/patients/{id} [delete]
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.patientService.DeletePatient(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}
