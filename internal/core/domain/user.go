package domain

import "time"

// Role is the coarse permission class carried in a session token.
type Role string

const (
	RoleSheriff  Role = "sheriff"
	RoleAttorney Role = "attorney"
	RoleAdmin    Role = "admin"
)

// Roles lists every role the system knows about.
var Roles = []Role{RoleSheriff, RoleAttorney, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSheriff, RoleAttorney, RoleAdmin:
		return true
	}
	return false
}

// User models an authenticated actor in the system. Profile attributes are
// stored alongside the credentials.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         Role      `json:"role" bson:"role"`
	Name         string    `json:"name,omitempty" bson:"name,omitempty"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty"`
	PhoneNumber  string    `json:"phoneNumber,omitempty" bson:"phone_number,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// UserSummary is the read-time view of a user referenced from another record.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Summary returns the reference view of u.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Username: u.Username, Name: u.Name, Email: u.Email}
}

// Claims is the verified identity of a request. It is derived fresh from the
// bearer token on every request and never cached between requests.
type Claims struct {
	UserID    string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
