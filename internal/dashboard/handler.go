package dashboard

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	httperr "github.com/idp-analytics/identity-reports/internal/core/errors"
	"github.com/idp-analytics/identity-reports/internal/core/funnel"
	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/idp-analytics/identity-reports/internal/core/table"
)

// RegisterRoutes registers the report API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/reports/:report", s.HandleReport)
	r.GET("/v1/agencies", s.HandleAgencies)
}

// HandleReport handles GET /v1/reports/:report
// Query parameters: start, finish, env, agency, ial, funnel_mode, scale, time_bucket,
// by_agency, cumulative, format (json|csv)
func (s *Service) HandleReport(c *gin.Context) {
	var query ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	outputFormat := query.Format
	if outputFormat == "" {
		outputFormat = FormatJSON
	}
	if outputFormat != FormatJSON && outputFormat != FormatCSV {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   fmt.Sprintf("format must be %s or %s", FormatJSON, FormatCSV),
		})
		return
	}

	name := c.Param("report")
	resp, err := s.Table(c.Request.Context(), name, query.Filter())
	if err != nil {
		writeError(c, err)
		return
	}

	if outputFormat == FormatCSV {
		if err := resp.Table.Validate(); err != nil {
			writeError(c, err)
			return
		}
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, table.Filename(name, query.Start, query.Finish)))
		c.Status(http.StatusOK)
		if err := table.WriteCSV(c.Writer, resp.Table); err != nil {
			slog.Error("[Dashboard] CSV write failed", "report", name, "error", err)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleAgencies handles GET /v1/agencies
// Query parameters: start, finish, env
func (s *Service) HandleAgencies(c *gin.Context) {
	var query struct {
		Start  string `form:"start" binding:"required"`
		Finish string `form:"finish" binding:"required"`
		Env    string `form:"env"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	start, startErr := report.ParseDay(query.Start)
	finish, finishErr := report.ParseDay(query.Finish)
	if err := errors.Join(startErr, finishErr); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.Agencies(c.Request.Context(), report.Filter{Start: start, Finish: finish, Env: query.Env})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Filter converts the query into a report filter. Values are validated by the service.
func (q ReportQuery) Filter() report.Filter {
	return report.Filter{
		Start:      q.Start,
		Finish:     q.Finish,
		Env:        q.Env,
		Agency:     q.Agency,
		IAL:        q.IAL,
		FunnelMode: funnel.Mode(q.FunnelMode),
		Scale:      report.Scale(q.Scale),
		TimeBucket: report.TimeBucket(q.TimeBucket),
		ByAgency:   q.ByAgency,
		Cumulative: q.Cumulative,
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid report query",
			Details:   err.Error(),
		})
	case errors.Is(err, ErrUnknownReport):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpReportNotFoundError,
			Message:   "Unknown report",
			Details:   Reports(),
		})
	case errors.Is(err, ErrUpstream):
		c.JSON(http.StatusBadGateway, httperr.ErrorResponse{
			ErrorType: httperr.HttpUpstreamError,
			Message:   "Failed to read published report",
			Details:   err.Error(),
		})
	default:
		slog.Error("[Dashboard] Report query failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, httperr.New(httperr.HttpInternalError, "Failed to render report"))
	}
}
