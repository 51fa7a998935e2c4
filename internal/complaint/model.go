package complaint

import (
	"time"

	"discipline/internal/users"
)

// PlaceholderPhoto is stored when a complaint is filed without evidence.
const PlaceholderPhoto = "https://via.placeholder.com/150"

// ReasonOther marks a free-text reason; the stored reason is the text itself,
// never the literal "other".
const ReasonOther = "other"

// Complaint is one dress-code or behavior violation filed against a student.
// Complaints are append-only: once written they are never updated or deleted.
type Complaint struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Reason    string    `json:"reason"`
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentRecord pairs a student with their full complaint history, newest
// first. The admin dashboard renders these directly.
type StudentRecord struct {
	Student    users.User  `json:"student"`
	Complaints []Complaint `json:"complaints"`
}

// Filters narrow which students appear in an admin listing. They select
// students, not complaints: a matching student keeps their whole history.
type Filters struct {
	Department string // exact match
	Reason     string // student matches if any complaint has this reason
	Query      string // email substring
}
