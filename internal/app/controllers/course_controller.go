package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/XiongPengNUS/canvasplus/internal/app/models/dto"
	"github.com/XiongPengNUS/canvasplus/internal/app/services"
	"github.com/XiongPengNUS/canvasplus/internal/middleware"
)

// CourseController handles course directory listings
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// courseIDParam parses the :id path parameter.
func courseIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course ID")
		errorDetail = errorDetail.WithDetails("Course ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// GetCourses lists the courses visible to the caller's token
// @Summary List courses
// @Description Lists the courses the supplied access token can see
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse} "Courses retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Invalid or missing access token"
// @Failure 502 {object} dto.ErrorResponse "Course directory unavailable"
// @Router /courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(ctx, middleware.AccessToken(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, dto.CourseResponse{
			ID:         course.ID,
			Name:       course.Name,
			CourseCode: course.CourseCode,
		})
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(out))
}

// GetGroupCategories lists a course's group categories
// @Summary List group categories
// @Description Lists the group categories of a course, for building a roster export request
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.GroupCategoryResponse} "Categories retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/group-categories [get]
func (c *CourseController) GetGroupCategories(ctx *gin.Context) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	cats, err := c.courseService.ListGroupCategories(ctx, middleware.AccessToken(ctx), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.GroupCategoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, dto.GroupCategoryResponse{ID: cat.ID, Name: cat.Name})
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(out))
}

// GetDiscussionTopics lists a course's discussion topics
// @Summary List discussion topics
// @Description Lists the discussion topics of a course, for selecting export targets
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.TopicResponse} "Topics retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/discussion-topics [get]
func (c *CourseController) GetDiscussionTopics(ctx *gin.Context) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	topics, err := c.courseService.ListDiscussionTopics(ctx, middleware.AccessToken(ctx), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.TopicResponse, 0, len(topics))
	for _, t := range topics {
		out = append(out, dto.TopicResponse{ID: t.ID, Title: t.Title})
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(out))
}
