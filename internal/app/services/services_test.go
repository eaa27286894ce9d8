package services

import (
	"context"
	"fmt"

	"github.com/XiongPengNUS/canvasplus/internal/app/models"
)

// fakeDirectory serves canned data and counts calls, standing in for
// the Canvas client in service tests.
type fakeDirectory struct {
	enrollments []models.Enrollment
	profiles    []models.Profile
	categories  []models.GroupCategory
	groups      map[int64][]models.Group
	topics      []models.DiscussionTopic
	entries     map[int64][]models.DiscussionEntry

	// err, when set, fails the named method
	err map[string]error

	calls map[string]int
}

func (d *fakeDirectory) record(method string) error {
	if d.calls == nil {
		d.calls = make(map[string]int)
	}
	d.calls[method]++
	return d.err[method]
}

func (d *fakeDirectory) failWith(method string, err error) *fakeDirectory {
	if d.err == nil {
		d.err = make(map[string]error)
	}
	d.err[method] = err
	return d
}

func (d *fakeDirectory) ListCourses(context.Context, string) ([]models.Course, error) {
	if err := d.record("ListCourses"); err != nil {
		return nil, err
	}
	return []models.Course{{ID: 1, Name: "Decision Analytics"}}, nil
}

func (d *fakeDirectory) ListEnrollments(context.Context, string, int64) ([]models.Enrollment, error) {
	if err := d.record("ListEnrollments"); err != nil {
		return nil, err
	}
	return d.enrollments, nil
}

func (d *fakeDirectory) ListProfiles(context.Context, string, int64) ([]models.Profile, error) {
	if err := d.record("ListProfiles"); err != nil {
		return nil, err
	}
	return d.profiles, nil
}

func (d *fakeDirectory) ListGroupCategories(context.Context, string, int64) ([]models.GroupCategory, error) {
	if err := d.record("ListGroupCategories"); err != nil {
		return nil, err
	}
	return d.categories, nil
}

func (d *fakeDirectory) ListGroups(_ context.Context, _ string, categoryID int64) ([]models.Group, error) {
	if err := d.record("ListGroups"); err != nil {
		return nil, err
	}
	groups, ok := d.groups[categoryID]
	if !ok {
		return nil, fmt.Errorf("no groups for category %d", categoryID)
	}
	return groups, nil
}

func (d *fakeDirectory) ListDiscussionTopics(context.Context, string, int64) ([]models.DiscussionTopic, error) {
	if err := d.record("ListDiscussionTopics"); err != nil {
		return nil, err
	}
	return d.topics, nil
}

func (d *fakeDirectory) ListDiscussionEntries(_ context.Context, _ string, _ int64, topicID int64) ([]models.DiscussionEntry, error) {
	if err := d.record("ListDiscussionEntries"); err != nil {
		return nil, err
	}
	return d.entries[topicID], nil
}
