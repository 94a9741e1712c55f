package model

import "time"

// Role is the account role carried inside session tokens. Membership
// checks are exact: moderator does not imply admin.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ParseRole maps a stored or claimed role string onto the enumeration.
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleUser, RoleModerator, RoleAdmin:
		return Role(value), true
	default:
		return "", false
	}
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(value), true
	default:
		return "", false
	}
}

type User struct {
	ID            string
	Email         string
	PasswordHash  string
	Name          string
	Role          Role
	Status        Status
	EmailVerified *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// VerificationToken is a one-time email-verification credential. Only
// the SHA-256 hash of the handed-out value is stored.
type VerificationToken struct {
	TokenHash  string
	Identifier string
	Expires    time.Time
}

type Post struct {
	ID        string
	AuthorID  string
	Title     string
	Body      string
	Category  string
	ImageKey  *string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}

type Report struct {
	ID         string
	PostID     string
	ReporterID string
	Reason     string
	CreatedAt  time.Time
	ResolvedAt *time.Time
	ResolvedBy *string
}
