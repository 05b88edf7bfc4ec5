package domain

import (
	"context"
	"fmt"
	"strings"
)

type Role string

const (
	RoleGuest Role = "GUEST"
	RoleUser  Role = "USER"
)

// Key 授权判断用的角色键，例如 ROLE_USER
func (r Role) Key() string { return "ROLE_" + string(r) }

func (r Role) Title() string {
	switch r {
	case RoleGuest:
		return "손님"
	case RoleUser:
		return "일반 사용자"
	}
	return string(r)
}

func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_")) {
	case RoleGuest:
		return RoleGuest, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

type User struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"size:255;not null" json:"name"`
	Email   string `gorm:"size:191;not null;uniqueIndex" json:"email"`
	Picture string `gorm:"size:1024" json:"picture"`
	Role    Role   `gorm:"size:16;not null" json:"role"`
	BaseTimeEntity
}

func (User) TableName() string { return "users" }

// Update 再次登录时同步社交账号的昵称/头像
func (u *User) Update(name, picture string) *User {
	u.Name = name
	u.Picture = picture
	return u
}

type UserRepository interface {
	Save(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int, q string) ([]User, int64, error)
	Transaction(ctx context.Context, fn func(r UserRepository) error) error
}

// SessionUser 存入会话的登录用户快照
type SessionUser struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	Role    Role   `json:"role"`
}

func NewSessionUser(u *User) *SessionUser {
	return &SessionUser{ID: u.ID, Name: u.Name, Email: u.Email, Picture: u.Picture, Role: u.Role}
}
