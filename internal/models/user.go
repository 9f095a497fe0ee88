package models

import "time"

type UserRole string

const (
	UserRoleCustomer   UserRole = "customer"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "super_admin"
)

// IsAdmin reports whether the role grants back-office access.
func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin || r == UserRoleSuperAdmin
}

type Address struct {
	Label   string `json:"label"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// User is the single identity record for both storefront customers and
// back-office admins. Email is unique and stored lowercased.
type User struct {
	ID            string
	Email         string
	PasswordHash  []byte
	FirstName     string
	LastName      string
	Role          UserRole
	EmailVerified bool
	// ResetTokenHash holds the sha256 of an outstanding password-reset
	// token; both fields are cleared once the token is consumed.
	ResetTokenHash    []byte
	ResetTokenExpires *time.Time
	Wishlist          []string
	Addresses         []Address
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
