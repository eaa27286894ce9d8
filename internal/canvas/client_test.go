package canvas

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiongPengNUS/canvasplus/internal/pkg/apperrors"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second, 2, zerolog.Nop())
}

func TestListEnrollmentsFollowsPagination(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/api/v1/courses/1/enrollments", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"role":"TeacherEnrollment","user":{"id":3}}]`)
			return
		}
		next := server.URL + "/api/v1/courses/1/enrollments?page=2"
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
		fmt.Fprint(w, `[{"role":"StudentEnrollment","user":{"id":1}},{"role":"StudentEnrollment","user":{"id":2}}]`)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL)
	enrollments, err := client.ListEnrollments(context.Background(), "secret-token", 1)
	require.NoError(t, err)

	require.Len(t, enrollments, 3)
	assert.Equal(t, int64(1), enrollments[0].UserID)
	assert.Equal(t, "StudentEnrollment", string(enrollments[0].Role))
	assert.Equal(t, int64(3), enrollments[2].UserID)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestListProfilesMapsWireFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/1/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":5,"name":"Jane Tan","avatar_url":"https://img/j.png","integration_id":"A0123456X","email":"jane@u.edu"}]`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL)
	profiles, err := client.ListProfiles(context.Background(), "tok", 1)
	require.NoError(t, err)

	require.Len(t, profiles, 1)
	assert.Equal(t, int64(5), profiles[0].UserID)
	assert.Equal(t, "Jane Tan", profiles[0].Name)
	assert.Equal(t, "https://img/j.png", profiles[0].AvatarURL)
	assert.Equal(t, "A0123456X", profiles[0].StudentNumber)
	assert.Equal(t, "jane@u.edu", profiles[0].Email)
}

func TestListGroupsResolvesMembers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/group_categories/10/groups", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":100,"name":"Team 01"},{"id":101,"name":"Team 02"}]`)
	})
	mux.HandleFunc("/api/v1/groups/100/users", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":1},{"id":2}]`)
	})
	mux.HandleFunc("/api/v1/groups/101/users", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":3}]`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL)
	groups, err := client.ListGroups(context.Background(), "tok", 10)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "Team 01", groups[0].Name)
	assert.Equal(t, []int64{1, 2}, groups[0].MemberIDs)
	assert.Equal(t, []int64{3}, groups[1].MemberIDs)
	assert.Equal(t, int64(10), groups[0].CategoryID)
}

func TestListDiscussionEntriesAttachesReplies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/1/discussion_topics/301/entries", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":1,"user_id":5,"user_name":"Jane","created_at":"2026-02-03T09:30:00+08:00",
			"recent_replies":[{"id":2,"user_id":6,"user_name":"Wei","created_at":"2026-02-03T10:00:00+08:00"}]}]`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL)
	entries, err := client.ListDiscussionEntries(context.Background(), "tok", 1, 301)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "Jane", entries[0].UserName)
	require.Len(t, entries[0].Replies, 1)
	assert.Equal(t, "Wei", entries[0].Replies[0].UserName)
	assert.Empty(t, entries[0].Replies[0].Replies, "replies never nest")
}

func TestErrorTranslation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: apperrors.ErrInvalidToken},
		{name: "not found", status: http.StatusNotFound, want: apperrors.ErrResourceNotFound},
		{name: "server error", status: http.StatusBadGateway, want: apperrors.ErrUpstreamFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.ListCourses(context.Background(), "tok")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNetworkFailureIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := newTestClient(server.URL)
	_, err := client.ListCourses(context.Background(), "tok")
	require.ErrorIs(t, err, apperrors.ErrUpstreamFailure)
}
