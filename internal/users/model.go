package users

import "time"

// Roles a user can hold. Role is fixed at signup; there is no promotion flow.
const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

// Departments recognized at signup.
var Departments = []string{"CSE", "ECE", "EEE", "MECH", "CIVIL"}

// User is a person in the system, student or admin. The email doubles as the
// QR scan payload, so it is the only cross-system lookup identifier.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Department   string    `json:"department"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the two known roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleAdmin
}

// ValidDepartment reports whether dept is in the enumerated set.
func ValidDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}
