package canvas

import (
	"context"

	"github.com/XiongPengNUS/canvasplus/internal/app/models"
)

// Directory is the course directory consumed by the export pipeline.
// Every method returns fully materialized slices: pagination, retries
// and transient-failure translation happen behind this interface, so
// callers see complete data or a terminal error.
type Directory interface {
	ListCourses(ctx context.Context, token string) ([]models.Course, error)
	ListEnrollments(ctx context.Context, token string, courseID int64) ([]models.Enrollment, error)
	ListProfiles(ctx context.Context, token string, courseID int64) ([]models.Profile, error)
	ListGroupCategories(ctx context.Context, token string, courseID int64) ([]models.GroupCategory, error)
	// ListGroups returns the category's groups with member user ids
	// resolved, in the order the directory returns them.
	ListGroups(ctx context.Context, token string, categoryID int64) ([]models.Group, error)
	ListDiscussionTopics(ctx context.Context, token string, courseID int64) ([]models.DiscussionTopic, error)
	// ListDiscussionEntries returns top-level entries with one level of
	// replies attached.
	ListDiscussionEntries(ctx context.Context, token string, courseID, topicID int64) ([]models.DiscussionEntry, error)
}
