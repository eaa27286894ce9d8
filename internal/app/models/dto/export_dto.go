package dto

// RosterExportRequest captures every user selection for a roster export
// up front, so the pipeline runs once from a complete request object.
type RosterExportRequest struct {
	// InfoColumns is a subset of {"Avatar", "Student Number", "Email"},
	// in the order the caller wants the columns to appear.
	InfoColumns []string `json:"infoColumns" example:"Avatar,Student Number"`
	// GroupCategoryIDs selects the group categories to add as columns,
	// in the requested order.
	GroupCategoryIDs []int64 `json:"groupCategoryIds"`
	// FilterCategoryID, when set, restricts the row universe to members
	// of that category's groups before profiles are fetched. This
	// changes which students appear, not just which columns are filled.
	FilterCategoryID int64 `json:"filterCategoryId,omitempty"`
}

// DiscussionRequest selects the topics for a discussion summary or export
type DiscussionRequest struct {
	TopicIDs []int64 `json:"topicIds" binding:"required"`
}

// TopicReplyCount is the per-topic post count shown before a detailed export
type TopicReplyCount struct {
	TopicTitle string `json:"topicTitle" example:"Week 3 Case Discussion"`
	Posts      int    `json:"posts" example:"17"`
}

// DiscussionSummaryResponse reports post counts and any authors whose
// records were dropped because their student number could not be resolved
type DiscussionSummaryResponse struct {
	Topics         []TopicReplyCount `json:"topics"`
	DroppedAuthors []string          `json:"droppedAuthors,omitempty"`
}

// CourseResponse is one course in a course listing
type CourseResponse struct {
	ID         int64  `json:"id" example:"101"`
	Name       string `json:"name" example:"Decision Analytics"`
	CourseCode string `json:"courseCode,omitempty" example:"DBA3"`
}

// GroupCategoryResponse is one group category in a category listing
type GroupCategoryResponse struct {
	ID   int64  `json:"id" example:"12"`
	Name string `json:"name" example:"Project Teams"`
}

// TopicResponse is one discussion topic in a topic listing
type TopicResponse struct {
	ID    int64  `json:"id" example:"301"`
	Title string `json:"title" example:"Week 3 Case Discussion"`
}
