package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/XiongPengNUS/canvasplus/internal/app/models/dto"
	"github.com/XiongPengNUS/canvasplus/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to HTTP responses in one place, so
// controllers stay free of status-code switches.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidToken):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid access token")))
	case errors.Is(err, apperrors.ErrTokenMissing):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Access token required")))
	case errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrTopicNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")))
	case errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(400, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(err.Error())))
	case errors.Is(err, apperrors.ErrUpstreamFailure):
		c.JSON(502, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUpstreamFailure, "Course directory request failed")))
	case errors.Is(err, apperrors.ErrExportFailed):
		c.JSON(500, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExportFailed, "Spreadsheet export failed")))
	default:
		c.JSON(500, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
