package handler

import (
	"net/http"

	"clinicpos/internal/middleware"
	"clinicpos/internal/service"
	"clinicpos/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports", middleware.RequireAuth())
	{
		reports.GET("/collections", h.GetCollections)
	}
}

// GetCollections returns collections grouped by payment method
// @Summary      Collections report
// @Description  Aggregates payment records by method over a date range and reports the outstanding balance of invoices issued in the range
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD, default start of current month)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD, inclusive)"
// @Success      200         {object}  response.Response{data=service.CollectionsReport}
// @Failure      400         {object}  response.Response
// @Router       /api/reports/collections [get]
func (h *ReportHandler) GetCollections(c *gin.Context) {
	filter := service.CollectionsFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}

	report, err := h.reportService.GetCollections(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
