package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/XiongPengNUS/canvasplus/internal/app/metrics"
	"github.com/XiongPengNUS/canvasplus/internal/app/models"
	"github.com/XiongPengNUS/canvasplus/internal/app/models/dto"
	"github.com/XiongPengNUS/canvasplus/internal/app/services"
	"github.com/XiongPengNUS/canvasplus/internal/export"
	"github.com/XiongPengNUS/canvasplus/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RosterController handles roster exports and previews
type RosterController struct {
	rosterService services.RosterService
	exporter      *export.Exporter
	logger        zerolog.Logger
}

// NewRosterController creates a new RosterController
func NewRosterController(rosterService services.RosterService, exporter *export.Exporter, logger zerolog.Logger) *RosterController {
	return &RosterController{
		rosterService: rosterService,
		exporter:      exporter,
		logger:        logger,
	}
}

// buildRequest converts the wire request into a typed service request.
func buildRequest(courseID int64, req dto.RosterExportRequest) (services.RosterRequest, error) {
	fields := make([]models.InfoField, 0, len(req.InfoColumns))
	for _, name := range req.InfoColumns {
		field, err := models.ParseInfoField(name)
		if err != nil {
			return services.RosterRequest{}, err
		}
		fields = append(fields, field)
	}
	return services.RosterRequest{
		CourseID:         courseID,
		InfoFields:       fields,
		GroupCategoryIDs: req.GroupCategoryIDs,
		FilterCategoryID: req.FilterCategoryID,
	}, nil
}

// buildTable binds the request body and runs the aggregation pipeline.
func (c *RosterController) buildTable(ctx *gin.Context) (*models.ExportTable, bool) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return nil, false
	}

	var body dto.RosterExportRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid export request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}

	req, err := buildRequest(courseID, body)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid export request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}

	progress := func(done, total int) {
		c.logger.Debug().Int("done", done).Int("total", total).Msg("Roster build progress")
	}
	table, err := c.rosterService.BuildRoster(ctx, middleware.AccessToken(ctx), req, progress)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, false
	}
	return table, true
}

// ExportRoster downloads the roster as a spreadsheet
// @Summary Export roster spreadsheet
// @Description Builds the roster table and returns it as an xlsx attachment with embedded avatars
// @Tags roster
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.RosterExportRequest true "Export options"
// @Success 200 {file} binary "students.xlsx"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Invalid or missing access token"
// @Failure 502 {object} dto.ErrorResponse "Course directory unavailable"
// @Router /courses/{id}/roster/export [post]
func (c *RosterController) ExportRoster(ctx *gin.Context) {
	table, ok := c.buildTable(ctx)
	if !ok {
		return
	}

	result, err := c.exporter.Export(ctx, table)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	metrics.ExportsTotal.WithLabelValues("roster").Inc()

	if len(result.SkippedImages) > 0 {
		ctx.Header("X-Export-Diagnostics", strconv.Itoa(len(result.SkippedImages)))
	}
	ctx.Header("Content-Disposition", `attachment; filename="students.xlsx"`)
	ctx.Data(http.StatusOK, xlsxContentType, result.Data)
}

// PreviewRoster renders the roster as an HTML table
// @Summary Preview roster
// @Description Builds the roster table and renders it as HTML with linked avatar images
// @Tags roster
// @Accept json
// @Produce html
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.RosterExportRequest true "Export options"
// @Success 200 {string} string "HTML preview"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /courses/{id}/roster/preview [post]
func (c *RosterController) PreviewRoster(ctx *gin.Context) {
	table, ok := c.buildTable(ctx)
	if !ok {
		return
	}

	html, err := export.PreviewHTML(table)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// InvalidateCache drops the caller's cached roster results
// @Summary Invalidate cached rosters
// @Description Drops every cached roster result belonging to the caller's access token
// @Tags roster
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Cache invalidated"
// @Failure 401 {object} dto.ErrorResponse "Invalid or missing access token"
// @Router /cache [delete]
func (c *RosterController) InvalidateCache(ctx *gin.Context) {
	if err := c.rosterService.InvalidateCache(ctx, middleware.AccessToken(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Cache invalidated"}))
}
