package models

// Course represents a course visible to the supplied access token
type Course struct {
	ID         int64  `json:"id" example:"101"`                    // Canvas course identifier
	Name       string `json:"name" example:"Decision Analytics"`   // Full course name
	CourseCode string `json:"course_code,omitempty" example:"DBA3"` // Short course code, may be empty
}

// EnrollmentRole defines the role a user holds within a course
type EnrollmentRole string

const (
	RoleStudentEnrollment EnrollmentRole = "StudentEnrollment"
	RoleTeacherEnrollment EnrollmentRole = "TeacherEnrollment"
	RoleTaEnrollment      EnrollmentRole = "TaEnrollment"
)

// Enrollment is a (user, role) pairing within one course
type Enrollment struct {
	UserID int64          `json:"userId" example:"5"`
	Role   EnrollmentRole `json:"role" example:"StudentEnrollment"`
}

// SentinelStudentName is the placeholder account Canvas adds to every
// course; it is never part of an exported roster.
const SentinelStudentName = "Test student"

// Profile holds the user attributes needed for roster exports
type Profile struct {
	UserID        int64  `json:"id" example:"5"`                               // Join key across enrollments, profiles and groups
	Name          string `json:"name" example:"Jane Tan"`                      // Display name
	AvatarURL     string `json:"avatar_url,omitempty"`                         // Source URL of the avatar image
	StudentNumber string `json:"integration_id,omitempty" example:"A0123456X"` // Institutional student number
	Email         string `json:"primary_email,omitempty" example:"jane@u.edu"` // Primary email address
}
