package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiongPengNUS/canvasplus/internal/pkg/apperrors"
)

func TestListCourses(t *testing.T) {
	svc := NewCourseService(&fakeDirectory{})

	courses, err := svc.ListCourses(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Decision Analytics", courses[0].Name)
}

func TestCourseListingsTranslateMissingCourse(t *testing.T) {
	t.Run("group categories", func(t *testing.T) {
		dir := (&fakeDirectory{}).failWith("ListGroupCategories", apperrors.ErrResourceNotFound)
		svc := NewCourseService(dir)

		_, err := svc.ListGroupCategories(context.Background(), "tok", 404)
		require.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})

	t.Run("discussion topics", func(t *testing.T) {
		dir := (&fakeDirectory{}).failWith("ListDiscussionTopics", apperrors.ErrResourceNotFound)
		svc := NewCourseService(dir)

		_, err := svc.ListDiscussionTopics(context.Background(), "tok", 404)
		require.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})
}

func TestCourseListingsKeepOtherUpstreamErrors(t *testing.T) {
	dir := (&fakeDirectory{}).failWith("ListGroupCategories", apperrors.ErrUpstreamFailure)
	svc := NewCourseService(dir)

	_, err := svc.ListGroupCategories(context.Background(), "tok", 1)
	require.ErrorIs(t, err, apperrors.ErrUpstreamFailure)
	assert.NotErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCourseListingsRejectInvalidCourseID(t *testing.T) {
	svc := NewCourseService(&fakeDirectory{})

	_, err := svc.ListGroupCategories(context.Background(), "tok", 0)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
