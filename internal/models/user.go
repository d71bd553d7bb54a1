package models

import "time"

// Membership tiers. Visitors are unauthenticated guests and never get a
// user row; "visitor" exists only as a limits tier in OfficeSettings.
const (
	RoleMember   = "member"
	RoleGolden   = "golden"
	RoleEmployee = "employee"
	RoleAdmin    = "admin" // platform operator
)

type User struct {
	ID                 int        `json:"id"`
	OfficeName         string     `json:"office_name"`
	Phone              string     `json:"phone"`
	PasswordHash       string     `json:"-"`                   // Never expose in JSON
	Role               string     `json:"role"`                // member, golden, employee or admin
	ParentID           *int       `json:"parent_id,omitempty"` // employees point at the owning golden account
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`
	AffiliateBalance   float64    `json:"affiliate_balance"`
	ReferredBy         *int       `json:"referred_by,omitempty"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// OfficeID returns the id of the office that owns this user's data.
// Employees work inside the parent account's office.
func (u *User) OfficeID() int {
	if u.Role == RoleEmployee && u.ParentID != nil {
		return *u.ParentID
	}
	return u.ID
}

// SignupRequest represents the request body for signup
type SignupRequest struct {
	OfficeName string `json:"office_name"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	ReferredBy *int   `json:"referred_by,omitempty"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CreateEmployeeRequest creates a sub-account under a golden member
type CreateEmployeeRequest struct {
	OfficeName string `json:"office_name"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
}
