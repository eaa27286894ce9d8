package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/XiongPengNUS/canvasplus/internal/app/metrics"
	"github.com/XiongPengNUS/canvasplus/internal/app/models/dto"
	"github.com/XiongPengNUS/canvasplus/internal/app/services"
	"github.com/XiongPengNUS/canvasplus/internal/export"
	"github.com/XiongPengNUS/canvasplus/internal/middleware"
)

// DiscussionController handles discussion summaries and exports
type DiscussionController struct {
	discussionService services.DiscussionService
	exporter          *export.Exporter
	logger            zerolog.Logger
}

// NewDiscussionController creates a new DiscussionController
func NewDiscussionController(discussionService services.DiscussionService, exporter *export.Exporter, logger zerolog.Logger) *DiscussionController {
	return &DiscussionController{
		discussionService: discussionService,
		exporter:          exporter,
		logger:            logger,
	}
}

// flatten binds the request body and runs the flattening pipeline.
func (c *DiscussionController) flatten(ctx *gin.Context) (*services.DiscussionResult, bool) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return nil, false
	}

	var body dto.DiscussionRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid discussion request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}

	progress := func(done, total int) {
		c.logger.Debug().Int("done", done).Int("total", total).Msg("Discussion flatten progress")
	}
	result, err := c.discussionService.Flatten(ctx, middleware.AccessToken(ctx), courseID, body.TopicIDs, progress)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, false
	}
	return result, true
}

// GetSummary reports per-topic post counts before a detailed export
// @Summary Summarize discussion activity
// @Description Flattens the selected topics and returns per-topic post counts plus dropped-author diagnostics
// @Tags discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.DiscussionRequest true "Selected topics"
// @Success 200 {object} dto.APIResponse{data=dto.DiscussionSummaryResponse} "Summary retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Router /courses/{id}/discussions/summary [post]
func (c *DiscussionController) GetSummary(ctx *gin.Context) {
	result, ok := c.flatten(ctx)
	if !ok {
		return
	}

	summary := dto.DiscussionSummaryResponse{
		Topics:         make([]dto.TopicReplyCount, 0, len(result.Counts)),
		DroppedAuthors: result.Dropped,
	}
	for _, count := range result.Counts {
		summary.Topics = append(summary.Topics, dto.TopicReplyCount{
			TopicTitle: count.TopicTitle,
			Posts:      count.Posts,
		})
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(summary))
}

// ExportDiscussion downloads the flattened records as a spreadsheet
// @Summary Export discussion spreadsheet
// @Description Flattens the selected topics and returns the records as an xlsx attachment
// @Tags discussions
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.DiscussionRequest true "Selected topics"
// @Success 200 {file} binary "discussion.xlsx"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Router /courses/{id}/discussions/export [post]
func (c *DiscussionController) ExportDiscussion(ctx *gin.Context) {
	result, ok := c.flatten(ctx)
	if !ok {
		return
	}

	exported, err := c.exporter.Export(ctx, result.Table)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	metrics.ExportsTotal.WithLabelValues("discussion").Inc()

	if len(result.Dropped) > 0 {
		ctx.Header("X-Export-Diagnostics", strconv.Itoa(len(result.Dropped)))
	}
	ctx.Header("Content-Disposition", `attachment; filename="discussion.xlsx"`)
	ctx.Data(http.StatusOK, xlsxContentType, exported.Data)
}
