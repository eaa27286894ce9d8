package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/XiongPengNUS/canvasplus/internal/app/models"
	"github.com/XiongPengNUS/canvasplus/internal/pkg/apperrors"
)

// Client calls the Canvas REST API. It authenticates every request with
// the caller's access token, so one client instance serves all users.
type Client struct {
	baseURL  string
	pageSize int
	http     *http.Client
	logger   zerolog.Logger
}

// NewClient creates a Canvas API client
func NewClient(baseURL string, timeout time.Duration, pageSize int, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: pageSize,
		http: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// enrollmentWire matches the Canvas enrollment payload; the user id is
// nested under "user".
type enrollmentWire struct {
	Role string `json:"role"`
	User struct {
		ID int64 `json:"id"`
	} `json:"user"`
}

type userWire struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	AvatarURL     string `json:"avatar_url"`
	IntegrationID string `json:"integration_id"`
	Email         string `json:"email"`
}

type entryWire struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"user_id"`
	UserName      string      `json:"user_name"`
	CreatedAt     time.Time   `json:"created_at"`
	RecentReplies []entryWire `json:"recent_replies"`
}

// ListCourses returns the courses visible to the token.
func (c *Client) ListCourses(ctx context.Context, token string) ([]models.Course, error) {
	var out []models.Course
	err := c.paginate(ctx, token, "/api/v1/courses", nil, func(page []byte) error {
		var wire []models.Course
		if err := json.Unmarshal(page, &wire); err != nil {
			return fmt.Errorf("decoding courses: %w", err)
		}
		out = append(out, wire...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListEnrollments returns (user, role) pairings for a course.
func (c *Client) ListEnrollments(ctx context.Context, token string, courseID int64) ([]models.Enrollment, error) {
	path := fmt.Sprintf("/api/v1/courses/%d/enrollments", courseID)
	var out []models.Enrollment
	err := c.paginate(ctx, token, path, nil, func(page []byte) error {
		var wire []enrollmentWire
		if err := json.Unmarshal(page, &wire); err != nil {
			return fmt.Errorf("decoding enrollments: %w", err)
		}
		for _, e := range wire {
			out = append(out, models.Enrollment{
				UserID: e.User.ID,
				Role:   models.EnrollmentRole(e.Role),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListProfiles returns the profiles of a course's users.
func (c *Client) ListProfiles(ctx context.Context, token string, courseID int64) ([]models.Profile, error) {
	path := fmt.Sprintf("/api/v1/courses/%d/users", courseID)
	query := url.Values{"include[]": []string{"avatar_url", "email"}}
	var out []models.Profile
	err := c.paginate(ctx, token, path, query, func(page []byte) error {
		var wire []userWire
		if err := json.Unmarshal(page, &wire); err != nil {
			return fmt.Errorf("decoding users: %w", err)
		}
		for _, u := range wire {
			out = append(out, models.Profile{
				UserID:        u.ID,
				Name:          u.Name,
				AvatarURL:     u.AvatarURL,
				StudentNumber: u.IntegrationID,
				Email:         u.Email,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListGroupCategories returns the group categories of a course.
func (c *Client) ListGroupCategories(ctx context.Context, token string, courseID int64) ([]models.GroupCategory, error) {
	path := fmt.Sprintf("/api/v1/courses/%d/group_categories", courseID)
	var out []models.GroupCategory
	err := c.paginate(ctx, token, path, nil, func(page []byte) error {
		var wire []models.GroupCategory
		if err := json.Unmarshal(page, &wire); err != nil {
			return fmt.Errorf("decoding group categories: %w", err)
		}
		out = append(out, wire...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListGroups returns a category's groups with membership resolved. The
// group order is the directory's return order; aggregation documents
// last-write-wins on that order for overlapping memberships.
func (c *Client) ListGroups(ctx context.Context, token string, categoryID int64) ([]models.Group, error) {
	path := fmt.Sprintf("/api/v1/group_categories/%d/groups", categoryID)
	var groups []models.Group
	err := c.paginate(ctx, token, path, nil, func(page []byte) error {
		var wire []models.Group
		if err := json.Unmarshal(page, &wire); err != nil {
			return fmt.Errorf("decoding groups: %w", err)
		}
		groups = append(groups, wire...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range groups {
		members, err := c.listGroupMembers(ctx, token, groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].CategoryID = categoryID
		groups[i].MemberIDs = members
	}
	return groups, nil
}

func (c *Client) listGroupMembers(ctx context.Context, token string, groupID int64) ([]int64, error) {
	path := fmt.Sprintf("/api/v1/groups/%d/users", groupID)
	var ids []int64
	err := c.paginate(ctx, token, path, nil, func(page []byte) error {
		var wire []userWire
		if err := json.Unmarshal(page, &wire); err != nil {
			return fmt.Errorf("decoding group members: %w", err)
		}
		for _, u := range wire {
			ids = append(ids, u.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListDiscussionTopics returns a course's discussion topics.
func (c *Client) ListDiscussionTopics(ctx context.Context, token string, courseID int64) ([]models.DiscussionTopic, error) {
	path := fmt.Sprintf("/api/v1/courses/%d/discussion_topics", courseID)
	var out []models.DiscussionTopic
	err := c.paginate(ctx, token, path, nil, func(page []byte) error {
		var wire []models.DiscussionTopic
		if err := json.Unmarshal(page, &wire); err != nil {
			return fmt.Errorf("decoding discussion topics: %w", err)
		}
		out = append(out, wire...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListDiscussionEntries returns a topic's top-level entries with their
// immediate replies.
func (c *Client) ListDiscussionEntries(ctx context.Context, token string, courseID, topicID int64) ([]models.DiscussionEntry, error) {
	path := fmt.Sprintf("/api/v1/courses/%d/discussion_topics/%d/entries", courseID, topicID)
	var out []models.DiscussionEntry
	err := c.paginate(ctx, token, path, nil, func(page []byte) error {
		var wire []entryWire
		if err := json.Unmarshal(page, &wire); err != nil {
			return fmt.Errorf("decoding discussion entries: %w", err)
		}
		for _, e := range wire {
			out = append(out, e.toModel())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e entryWire) toModel() models.DiscussionEntry {
	entry := models.DiscussionEntry{
		ID:        e.ID,
		UserID:    e.UserID,
		UserName:  e.UserName,
		CreatedAt: e.CreatedAt,
	}
	for _, r := range e.RecentReplies {
		// One level only; replies to replies are not part of the model
		entry.Replies = append(entry.Replies, models.DiscussionEntry{
			ID:        r.ID,
			UserID:    r.UserID,
			UserName:  r.UserName,
			CreatedAt: r.CreatedAt,
		})
	}
	return entry
}

// paginate fetches every page of a collection endpoint, invoking onPage
// with each raw page body, following Link rel="next" headers until the
// collection is exhausted.
func (c *Client) paginate(ctx context.Context, token, path string, query url.Values, onPage func([]byte) error) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("per_page", strconv.Itoa(c.pageSize))
	next := c.baseURL + path + "?" + query.Encode()

	for next != "" {
		body, nextLink, err := c.get(ctx, token, next)
		if err != nil {
			return err
		}
		if err := onPage(body); err != nil {
			return err
		}
		next = nextLink
	}
	return nil
}

// get performs one authenticated request and returns the body plus the
// next-page link, if any.
func (c *Client) get(ctx context.Context, token, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: building request: %v", apperrors.ErrUpstreamFailure, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading response: %v", apperrors.ErrUpstreamFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, "", apperrors.ErrInvalidToken
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", apperrors.ErrResourceNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Warn().Int("status", resp.StatusCode).Str("url", rawURL).Msg("Canvas request failed")
		return nil, "", fmt.Errorf("%w: status %d", apperrors.ErrUpstreamFailure, resp.StatusCode)
	}

	return body, nextPageLink(resp.Header.Get("Link")), nil
}
