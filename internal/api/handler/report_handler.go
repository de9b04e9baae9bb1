package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/helpdeskhq/helpdesk-api/internal/api/metrics"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

// ReportHandler handles the ticket report export endpoint.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Export handles GET /v1/reports. format=xlsx streams a workbook; anything
// else returns the rows as JSON. due_date (YYYY-MM-DD) limits rows to tickets
// due that day.
//
// @Summary      Export the ticket report
// @Tags         reports
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        format    query  string  false  "xlsx or json (default json)"
// @Param        due_date  query  string  false  "Limit to tickets due on this date (YYYY-MM-DD)"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Router       /v1/reports [get]
func (h *ReportHandler) Export(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var dueDate time.Time
	if raw := c.QueryParam("due_date"); raw != "" {
		dueDate, err = parseDate(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "due_date must be formatted as YYYY-MM-DD")
		}
	}

	if c.QueryParam("format") == "xlsx" {
		data, err := h.service.Excel(c.Request().Context(), p, dueDate)
		if err != nil {
			return err
		}
		metrics.ReportExportsTotal.WithLabelValues("xlsx").Inc()
		filename := "tickets-" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	}

	rows, err := h.service.Rows(c.Request().Context(), p, dueDate)
	if err != nil {
		return err
	}
	metrics.ReportExportsTotal.WithLabelValues("json").Inc()
	return c.JSON(http.StatusOK, listResponse[ports.ReportRow]{Data: rows, Count: len(rows)})
}
