package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/XiongPengNUS/canvasplus/internal/app/models"
	"github.com/XiongPengNUS/canvasplus/internal/canvas"
	"github.com/XiongPengNUS/canvasplus/internal/pkg/apperrors"
)

// postedAtLayout is the timezone-naive wall-clock form timestamps take
// in exports. The offset is stripped, the wall-clock value kept.
const postedAtLayout = "2006-01-02 15:04:05"

// TopicCount is the per-topic post count shown before a detailed export
type TopicCount struct {
	TopicTitle string
	Posts      int
}

// DiscussionResult is everything the flattener produces for one
// selection of topics: the flat records, their tabular layout, the
// per-topic summary, and the authors whose posts were dropped.
type DiscussionResult struct {
	Records []models.PostRecord
	Table   *models.ExportTable
	Counts  []TopicCount
	// Dropped names authors whose student number could not be
	// resolved; their posts are skipped, not fatal.
	Dropped []string
}

// DiscussionService flattens topic threads into row-per-post tables
type DiscussionService interface {
	Flatten(ctx context.Context, token string, courseID int64, topicIDs []int64, progress ProgressFunc) (*DiscussionResult, error)
}

// discussionServiceImpl implements the DiscussionService interface
type discussionServiceImpl struct {
	directory canvas.Directory
	logger    zerolog.Logger
}

// NewDiscussionService creates a new discussion service instance
func NewDiscussionService(directory canvas.Directory, logger zerolog.Logger) DiscussionService {
	return &discussionServiceImpl{
		directory: directory,
		logger:    logger,
	}
}

// Flatten walks each selected topic's entries and their immediate
// replies into PostRecords. The thread model is two levels deep, so
// recursion stops at the first reply level.
func (s *discussionServiceImpl) Flatten(ctx context.Context, token string, courseID int64, topicIDs []int64, progress ProgressFunc) (*DiscussionResult, error) {
	if courseID <= 0 {
		return nil, fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}

	topics, err := s.directory.ListDiscussionTopics(ctx, token, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing discussion topics: %w", courseScoped(err, courseID))
	}
	titles := make(map[int64]string, len(topics))
	for _, t := range topics {
		titles[t.ID] = t.Title
	}
	for _, id := range topicIDs {
		if _, ok := titles[id]; !ok {
			return nil, fmt.Errorf("%w: topic %d", apperrors.ErrTopicNotFound, id)
		}
	}

	lookup, err := s.buildUserLookup(ctx, token, courseID)
	if err != nil {
		return nil, err
	}

	result := &DiscussionResult{}
	total := len(topicIDs)
	for i, topicID := range topicIDs {
		title := titles[topicID]
		entries, err := s.directory.ListDiscussionEntries(ctx, token, courseID, topicID)
		if err != nil {
			return nil, fmt.Errorf("listing entries for topic %d: %w", topicID, err)
		}
		for _, entry := range entries {
			s.appendPost(result, title, entry, lookup)
			for _, reply := range entry.Replies {
				s.appendPost(result, title, reply, lookup)
			}
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	if total == 0 && progress != nil {
		progress(0, 0)
	}

	result.Counts = countByTopic(topicIDs, titles, result.Records)
	result.Table = postTable(result.Records)

	s.logger.Debug().
		Int64("courseId", courseID).
		Int("posts", len(result.Records)).
		Int("dropped", len(result.Dropped)).
		Msg("Discussion records flattened")
	return result, nil
}

// appendPost resolves the author and emits one record, or drops the
// post with a named diagnostic when the author is unresolvable (for
// example a user who has left the course).
func (s *discussionServiceImpl) appendPost(result *DiscussionResult, topicTitle string, entry models.DiscussionEntry, lookup map[int64]string) {
	number, ok := lookup[entry.UserID]
	if !ok || number == "" {
		s.logger.Warn().
			Str("author", entry.UserName).
			Str("topic", topicTitle).
			Msg("Dropping post: author has no resolvable student number")
		result.Dropped = append(result.Dropped, entry.UserName)
		return
	}
	result.Records = append(result.Records, models.PostRecord{
		TopicTitle:    topicTitle,
		AuthorName:    entry.UserName,
		StudentNumber: number,
		PostedAt:      entry.CreatedAt.Format(postedAtLayout),
	})
}

// buildUserLookup maps user ids to student numbers from course profiles.
func (s *discussionServiceImpl) buildUserLookup(ctx context.Context, token string, courseID int64) (map[int64]string, error) {
	profiles, err := s.directory.ListProfiles(ctx, token, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	lookup := make(map[int64]string, len(profiles))
	for _, p := range profiles {
		lookup[p.UserID] = p.StudentNumber
	}
	return lookup, nil
}

// countByTopic groups records by topic title, preserving the selected
// topic order.
func countByTopic(topicIDs []int64, titles map[int64]string, records []models.PostRecord) []TopicCount {
	byTitle := make(map[string]int)
	for _, r := range records {
		byTitle[r.TopicTitle]++
	}
	counts := make([]TopicCount, 0, len(topicIDs))
	for _, id := range topicIDs {
		title := titles[id]
		counts = append(counts, TopicCount{TopicTitle: title, Posts: byTitle[title]})
	}
	return counts
}

// postTable lays records out in the discussion export column order.
func postTable(records []models.PostRecord) *models.ExportTable {
	table := &models.ExportTable{
		Columns: []string{"Topic", "Author", "Student Number", "Posted At"},
	}
	for _, r := range records {
		table.Rows = append(table.Rows, []models.Cell{
			models.TextCell(r.TopicTitle),
			models.TextCell(r.AuthorName),
			models.TextCell(r.StudentNumber),
			models.TextCell(r.PostedAt),
		})
	}
	return table
}
