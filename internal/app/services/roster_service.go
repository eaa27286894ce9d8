package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/XiongPengNUS/canvasplus/internal/app/metrics"
	"github.com/XiongPengNUS/canvasplus/internal/app/models"
	"github.com/XiongPengNUS/canvasplus/internal/cache"
	"github.com/XiongPengNUS/canvasplus/internal/canvas"
	"github.com/XiongPengNUS/canvasplus/internal/pkg/apperrors"
)

// ProgressFunc receives incremental progress while a table is built.
// It is feedback only; implementations must not affect correctness.
type ProgressFunc func(done, total int)

// RosterRequest captures every caller selection for a roster build.
type RosterRequest struct {
	CourseID int64
	// InfoFields are the optional columns, in requested order.
	InfoFields []models.InfoField
	// GroupCategoryIDs become one column each, in requested order.
	GroupCategoryIDs []int64
	// FilterCategoryID, when non-zero, restricts the row universe to
	// members of that category's groups before profiles are considered.
	FilterCategoryID int64
}

// RosterService builds the denormalized row-per-student table
type RosterService interface {
	BuildRoster(ctx context.Context, token string, req RosterRequest, progress ProgressFunc) (*models.ExportTable, error)
	InvalidateCache(ctx context.Context, token string) error
}

// rosterServiceImpl implements the RosterService interface
type rosterServiceImpl struct {
	directory canvas.Directory
	store     cache.Store
	logger    zerolog.Logger
}

// NewRosterService creates a roster service. store may be nil, in which
// case every request goes to the directory; results are identical
// either way.
func NewRosterService(directory canvas.Directory, store cache.Store, logger zerolog.Logger) RosterService {
	return &rosterServiceImpl{
		directory: directory,
		store:     store,
		logger:    logger,
	}
}

// validateRosterRequest validates a request before any directory call
func validateRosterRequest(req RosterRequest) error {
	if req.CourseID <= 0 {
		return fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}
	seen := make(map[models.InfoField]bool, len(req.InfoFields))
	for _, f := range req.InfoFields {
		if _, err := models.ParseInfoField(string(f)); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
		}
		if seen[f] {
			return fmt.Errorf("%w: duplicate info field %q", apperrors.ErrValidationFailed, f)
		}
		seen[f] = true
	}
	return nil
}

// BuildRoster joins enrollment roles, profile attributes and group
// memberships into one row-per-student table.
func (s *rosterServiceImpl) BuildRoster(ctx context.Context, token string, req RosterRequest, progress ProgressFunc) (*models.ExportTable, error) {
	if err := validateRosterRequest(req); err != nil {
		return nil, err
	}

	key := cache.Key{
		TokenFingerprint: cache.TokenFingerprint(token),
		CourseID:         req.CourseID,
		FilterCategoryID: req.FilterCategoryID,
		InfoColumns:      infoTitles(req.InfoFields),
		GroupCategoryIDs: req.GroupCategoryIDs,
	}
	if s.store != nil {
		if payload, ok := s.store.Get(ctx, key); ok {
			var table models.ExportTable
			if err := json.Unmarshal(payload, &table); err == nil {
				metrics.CacheHits.Inc()
				if progress != nil {
					progress(len(table.Rows), len(table.Rows))
				}
				return &table, nil
			}
			s.logger.Warn().Msg("Discarding undecodable cache entry")
		}
		metrics.CacheMisses.Inc()
	}

	table, err := s.buildRoster(ctx, token, req, progress)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if payload, err := json.Marshal(table); err == nil {
			_ = s.store.Set(ctx, key, payload)
		}
	}
	return table, nil
}

func (s *rosterServiceImpl) buildRoster(ctx context.Context, token string, req RosterRequest, progress ProgressFunc) (*models.ExportTable, error) {
	enrollments, err := s.directory.ListEnrollments(ctx, token, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("listing enrollments: %w", courseScoped(err, req.CourseID))
	}

	// Row universe: enrolled students, optionally narrowed to one
	// category's group members before profiles are pulled.
	studentIDs := make(map[int64]bool)
	for _, e := range enrollments {
		if e.Role == models.RoleStudentEnrollment {
			studentIDs[e.UserID] = true
		}
	}

	if req.FilterCategoryID != 0 {
		groups, err := s.directory.ListGroups(ctx, token, req.FilterCategoryID)
		if err != nil {
			return nil, fmt.Errorf("listing filter category groups: %w", err)
		}
		inCategory := make(map[int64]bool)
		for _, g := range groups {
			for _, id := range g.MemberIDs {
				inCategory[id] = true
			}
		}
		for id := range studentIDs {
			if !inCategory[id] {
				delete(studentIDs, id)
			}
		}
	}

	profiles, err := s.directory.ListProfiles(ctx, token, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}

	var roster []models.Profile
	for _, p := range profiles {
		if studentIDs[p.UserID] && p.Name != models.SentinelStudentName {
			roster = append(roster, p)
		}
	}

	// Resolve the selected category names up front; they become columns.
	catNames := make(map[int64]string)
	if len(req.GroupCategoryIDs) > 0 {
		cats, err := s.directory.ListGroupCategories(ctx, token, req.CourseID)
		if err != nil {
			return nil, fmt.Errorf("listing group categories: %w", err)
		}
		for _, c := range cats {
			catNames[c.ID] = c.Name
		}
		for _, id := range req.GroupCategoryIDs {
			if _, ok := catNames[id]; !ok {
				return nil, fmt.Errorf("%w: group category %d", apperrors.ErrResourceNotFound, id)
			}
		}
	}

	columns := append([]string{"Name"}, infoTitles(req.InfoFields)...)
	groupColStart := len(columns)
	for _, id := range req.GroupCategoryIDs {
		columns = append(columns, catNames[id])
	}

	table := &models.ExportTable{Columns: columns}
	rowByUser := make(map[int64]int, len(roster))
	total := len(roster)
	for i, p := range roster {
		row := make([]models.Cell, len(columns))
		row[0] = models.TextCell(p.Name)
		for j, f := range req.InfoFields {
			row[j+1] = f.CellValue(p)
		}
		table.Rows = append(table.Rows, row)
		rowByUser[p.UserID] = i
		if progress != nil {
			progress(i+1, total)
		}
	}
	if total == 0 && progress != nil {
		// An empty roster still completes; report a finished bar.
		progress(0, 0)
	}

	// Group columns: members of each group in a selected category get
	// that category's cell set to the group name. When memberships
	// overlap within a category, the last group in directory return
	// order wins.
	for colOffset, catID := range req.GroupCategoryIDs {
		groups, err := s.directory.ListGroups(ctx, token, catID)
		if err != nil {
			return nil, fmt.Errorf("listing groups for category %d: %w", catID, err)
		}
		col := groupColStart + colOffset
		for _, g := range groups {
			for _, userID := range g.MemberIDs {
				if rowIdx, ok := rowByUser[userID]; ok {
					table.Rows[rowIdx][col] = models.TextCell(g.Name)
				}
			}
		}
	}

	s.logger.Debug().
		Int64("courseId", req.CourseID).
		Int("rows", len(table.Rows)).
		Int("columns", len(table.Columns)).
		Msg("Roster table built")
	return table, nil
}

// InvalidateCache drops every cached roster belonging to the token.
func (s *rosterServiceImpl) InvalidateCache(ctx context.Context, token string) error {
	if s.store == nil {
		return nil
	}
	return s.store.InvalidateToken(ctx, cache.TokenFingerprint(token))
}

func infoTitles(fields []models.InfoField) []string {
	titles := make([]string, len(fields))
	for i, f := range fields {
		titles[i] = f.Title()
	}
	return titles
}
