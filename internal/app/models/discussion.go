package models

import "time"

// DiscussionTopic is a discussion board within a course
type DiscussionTopic struct {
	ID    int64  `json:"id" example:"301"`
	Title string `json:"title" example:"Week 3 Case Discussion"`
}

// DiscussionEntry is a single post under a topic. The thread model is
// two levels deep: top-level entries carry their immediate replies and
// replies never nest further.
type DiscussionEntry struct {
	ID        int64             `json:"id" example:"9001"`
	UserID    int64             `json:"userId" example:"5"`
	UserName  string            `json:"userName" example:"Jane Tan"`
	CreatedAt time.Time         `json:"createdAt"`
	Replies   []DiscussionEntry `json:"replies,omitempty"`
}
