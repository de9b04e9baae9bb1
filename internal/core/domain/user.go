package domain

import "time"

// Role is the fixed role of a principal. Roles are mutually exclusive and
// never combined.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleTeknis  Role = "teknis"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleUser, RoleManager, RoleTeknis:
		return Role(s), true
	}
	return "", false
}

// Principal is the authenticated actor performing a request. It is resolved
// by the auth middleware and passed explicitly into every core call; the core
// never reads ambient session state.
type Principal struct {
	ID   string
	Role Role
}

// User models an account in the system.
type User struct {
	UUID           string      `json:"uuid" bson:"uuid"`
	Name           string      `json:"name" bson:"name"`
	Email          string      `json:"email" bson:"email"`
	PasswordHash   string      `json:"-" bson:"password_hash"`
	Role           Role        `json:"role" bson:"role"`
	Phone          string      `json:"phone,omitempty" bson:"phone,omitempty"`
	ProfilePicture *Attachment `json:"-" bson:"profile_picture,omitempty"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" bson:"updated_at"`
}

// Attachment is an inline binary blob with its original filename and MIME
// type. Used for ticket attachments, response attachments, and profile
// pictures.
type Attachment struct {
	Data     []byte `json:"-" bson:"data"`
	Filename string `json:"filename" bson:"filename"`
	MimeType string `json:"mime_type" bson:"mime_type"`
}
