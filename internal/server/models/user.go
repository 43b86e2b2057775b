// Package models defines the domain entities held by the TaskHub store.
// The store hands out deep copies of these structs; the Clone methods below
// are what guarantees callers can never alias store-internal memory.
package models

import "time"

type UserRole int32

const (
	UserRoleUnspecified UserRole = iota
	UserRoleMember
	UserRoleManager
	UserRoleAdmin
)

type UserStatus int32

const (
	UserStatusUnspecified UserStatus = iota
	UserStatusActive
	UserStatusSuspended
	UserStatusDeactivated
)

type UserPreferences struct {
	Theme                string `json:"theme"`
	Language             string `json:"language"`
	Timezone             string `json:"timezone"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	EmailNotifications   bool   `json:"email_notifications"`
}

type UserProfile struct {
	AvatarURL  string `json:"avatar_url"`
	Bio        string `json:"bio"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
}

type User struct {
	ID          string           `json:"id"`
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	FullName    string           `json:"full_name"`
	Role        UserRole         `json:"role"`
	IsActive    bool             `json:"is_active"`
	Status      UserStatus       `json:"status"`
	Permissions []string         `json:"permissions"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	LastLogin   *time.Time       `json:"last_login,omitempty"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
	Profile     *UserProfile     `json:"profile,omitempty"`
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Permissions != nil {
		c.Permissions = append([]string(nil), u.Permissions...)
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	if u.Preferences != nil {
		p := *u.Preferences
		c.Preferences = &p
	}
	if u.Profile != nil {
		p := *u.Profile
		c.Profile = &p
	}
	return &c
}
