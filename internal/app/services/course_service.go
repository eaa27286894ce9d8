package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/XiongPengNUS/canvasplus/internal/app/models"
	"github.com/XiongPengNUS/canvasplus/internal/canvas"
	"github.com/XiongPengNUS/canvasplus/internal/pkg/apperrors"
)

// courseScoped narrows a directory not-found on a course-scoped listing
// to the course sentinel, so callers can tell a bad course id apart
// from other missing resources.
func courseScoped(err error, courseID int64) error {
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return fmt.Errorf("%w: course %d", apperrors.ErrCourseNotFound, courseID)
	}
	return err
}

// CourseService exposes the directory listings the UI needs to build an
// export request: courses, group categories, discussion topics.
type CourseService interface {
	ListCourses(ctx context.Context, token string) ([]models.Course, error)
	ListGroupCategories(ctx context.Context, token string, courseID int64) ([]models.GroupCategory, error)
	ListDiscussionTopics(ctx context.Context, token string, courseID int64) ([]models.DiscussionTopic, error)
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	directory canvas.Directory
}

// NewCourseService creates a new course service instance
func NewCourseService(directory canvas.Directory) CourseService {
	return &courseServiceImpl{directory: directory}
}

// ListCourses returns the courses visible to the token
func (s *courseServiceImpl) ListCourses(ctx context.Context, token string) ([]models.Course, error) {
	courses, err := s.directory.ListCourses(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return courses, nil
}

// ListGroupCategories returns a course's group categories
func (s *courseServiceImpl) ListGroupCategories(ctx context.Context, token string, courseID int64) ([]models.GroupCategory, error) {
	if courseID <= 0 {
		return nil, fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}
	cats, err := s.directory.ListGroupCategories(ctx, token, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing group categories: %w", courseScoped(err, courseID))
	}
	return cats, nil
}

// ListDiscussionTopics returns a course's discussion topics
func (s *courseServiceImpl) ListDiscussionTopics(ctx context.Context, token string, courseID int64) ([]models.DiscussionTopic, error) {
	if courseID <= 0 {
		return nil, fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}
	topics, err := s.directory.ListDiscussionTopics(ctx, token, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing discussion topics: %w", courseScoped(err, courseID))
	}
	return topics, nil
}
