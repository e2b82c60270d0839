package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents the users table. The clock fields (IsClockedIn, ClockInTime,
// CurrentProjectID) are either all set or all clear: a clocked-in user always
// has a clock-in time, a current project and exactly one open time log.
type User struct {
	UserID           int             `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name             string          `gorm:"column:name" json:"name"`
	Email            string          `gorm:"column:email;unique" json:"email"`
	Password         string          `gorm:"column:password" json:"-"`
	RoleTitle        string          `gorm:"column:role_title" json:"role_title"`
	Role             string          `gorm:"column:role" json:"role"`
	HourlyRate       decimal.Decimal `gorm:"column:hourly_rate;type:decimal(20,4)" json:"hourly_rate"`
	AvatarURL        string          `gorm:"column:avatar_url" json:"avatar_url"`
	IsClockedIn      bool            `gorm:"column:is_clocked_in" json:"is_clocked_in"`
	ClockInTime      *time.Time      `gorm:"column:clock_in_time" json:"clock_in_time,omitempty"`
	CurrentProjectID *int            `gorm:"column:current_project_id" json:"current_project_id,omitempty"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has the admin role class.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserCreateRequest is the payload for creating a user. The id and clock
// fields are server-assigned.
type UserCreateRequest struct {
	Name       string          `json:"name" binding:"required"`
	Email      string          `json:"email" binding:"required"`
	Password   string          `json:"password"`
	RoleTitle  string          `json:"role_title"`
	Role       string          `json:"role"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	AvatarURL  string          `json:"avatar_url"`
}

// UserUpdateRequest is a partial update; nil fields are left unchanged.
type UserUpdateRequest struct {
	Name       *string          `json:"name,omitempty"`
	Email      *string          `json:"email,omitempty"`
	RoleTitle  *string          `json:"role_title,omitempty"`
	Role       *string          `json:"role,omitempty"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
	AvatarURL  *string          `json:"avatar_url,omitempty"`
}
