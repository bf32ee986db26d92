package model

import "time"

// Minimum skill levels a course may require.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// IsValidSkill reports whether s is one of the allowed skill levels.
func IsValidSkill(s string) bool {
	return s == SkillBeginner || s == SkillIntermediate || s == SkillAdvanced
}

// Course represents a course in the database. Every course belongs to
// exactly one bootcamp and records the user who created it.
type Course struct {
	ID                   int64
	BootcampID           int64
	UserID               int64
	Title                string
	Description          string
	Weeks                string
	Tuition              int64
	MinimumSkill         string
	ScholarshipAvailable bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CreateCourseRequest represents a course draft posted under a bootcamp.
type CreateCourseRequest struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	Weeks                string `json:"weeks"`
	Tuition              int64  `json:"tuition"`
	MinimumSkill         string `json:"minimum_skill"`
	ScholarshipAvailable bool   `json:"scholarship_available"`
}

// UpdateCourseRequest is a partial update; nil fields are left untouched.
type UpdateCourseRequest struct {
	Title                *string `json:"title"`
	Description          *string `json:"description"`
	Weeks                *string `json:"weeks"`
	Tuition              *int64  `json:"tuition"`
	MinimumSkill         *string `json:"minimum_skill"`
	ScholarshipAvailable *bool   `json:"scholarship_available"`
}

// CourseResponse represents a course in API responses. Bootcamp carries
// the parent summary when the listing route asks for expansion.
type CourseResponse struct {
	ID                   int64            `json:"id"`
	BootcampID           int64            `json:"bootcamp_id"`
	UserID               int64            `json:"user_id"`
	Title                string           `json:"title"`
	Description          string           `json:"description"`
	Weeks                string           `json:"weeks"`
	Tuition              int64            `json:"tuition"`
	MinimumSkill         string           `json:"minimum_skill"`
	ScholarshipAvailable bool             `json:"scholarship_available"`
	Bootcamp             *BootcampSummary `json:"bootcamp,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// BootcampSummary is the subset of parent fields embedded into expanded
// course listings.
type BootcampSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToResponse shapes a course for the API envelope.
func (c *Course) ToResponse() CourseResponse {
	return CourseResponse{
		ID:                   c.ID,
		BootcampID:           c.BootcampID,
		UserID:               c.UserID,
		Title:                c.Title,
		Description:          c.Description,
		Weeks:                c.Weeks,
		Tuition:              c.Tuition,
		MinimumSkill:         c.MinimumSkill,
		ScholarshipAvailable: c.ScholarshipAvailable,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}
