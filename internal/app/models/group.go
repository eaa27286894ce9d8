package models

// GroupCategory is a named partition of a course's students into groups.
// Category names are unique within a course and become column names on
// roster exports.
type GroupCategory struct {
	ID   int64  `json:"id" example:"12"`
	Name string `json:"name" example:"Project Teams"`
}

// Group is one group within a category
type Group struct {
	ID         int64   `json:"id" example:"77"`
	CategoryID int64   `json:"groupCategoryId" example:"12"`
	Name       string  `json:"name" example:"Team 04"`
	MemberIDs  []int64 `json:"memberIds"` // User ids of current members, in client return order
}
