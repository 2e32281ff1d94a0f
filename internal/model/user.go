package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered identity
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username string    `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email    string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password string    `json:"-" gorm:"size:255;not null"`
	Avatar   string    `json:"avatar" gorm:"size:500;default:''"` // empty = no avatar set
	LastRoom string    `json:"last_room" gorm:"size:100;default:''"`

	IsOnline  bool           `json:"is_online" gorm:"default:false"`
	LastSeen  *time.Time     `json:"last_seen"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserResponse is the safe version of User for API responses
type UserResponse struct {
	ID       uuid.UUID  `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Avatar   string     `json:"avatar"`
	LastRoom string     `json:"last_room"`
	IsOnline bool       `json:"is_online"`
	LastSeen *time.Time `json:"last_seen"`
}

// ToResponse converts User to safe UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		LastRoom: u.LastRoom,
		IsOnline: u.IsOnline,
		LastSeen: u.LastSeen,
	}
}
