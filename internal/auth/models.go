package auth

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the account role driving every authorization decision.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	return r == RoleStudent || r == RoleTeacher || r == RoleAdmin
}

// User is the identity record. The password hash and reset-token fields never
// serialize to JSON, so responses can embed the struct directly.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email                string             `bson:"email" json:"email"`
	Password             string             `bson:"password" json:"-"`
	Role                 Role               `bson:"role" json:"role"`
	FirstName            string             `bson:"firstName" json:"firstName"`
	LastName             string             `bson:"lastName" json:"lastName"`
	Phone                string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Image                string             `bson:"image,omitempty" json:"image,omitempty"`
	IsActive             bool               `bson:"isActive" json:"isActive"`
	LastLogin            *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	PasswordResetToken   string             `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires *time.Time         `bson:"passwordResetExpires,omitempty" json:"-"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FullName joins the name fields of a user record.
// NormalizeEmail canonicalizes an email for storage and lookup. Every path
// that stores or queries by email goes through this, so lookups stay
// case-insensitive against the lowercased stored value.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func FullName(u *User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// LoginRequest carries the login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token for clients that do not use the
// cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest carries a password change for the logged-in user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// ForgotPasswordRequest starts the reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the reset flow; the token travels in the URL.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}
