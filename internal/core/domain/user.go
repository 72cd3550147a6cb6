package domain

import "time"

// Role is the coarse-grained permission level of a user.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleVet      Role = "vet"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleVet, RoleAdmin:
		return true
	}
	return false
}

// Plural is used in role-gate denial messages ("only sellers can ...").
func (r Role) Plural() string {
	return string(r) + "s"
}

// User models a registered account. Role never changes after creation.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IdentityClaim is the identity embedded in an access token at login time.
// It is not refreshed from the store while the token lives, so a claim can be
// stale for at most the token TTL.
type IdentityClaim struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// ClaimFor derives the claim minted for u.
func ClaimFor(u *User) IdentityClaim {
	return IdentityClaim{ID: u.ID, Email: u.Email, Role: u.Role}
}
