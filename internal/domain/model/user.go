package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const DefaultAvatar = "/default_avatar.png"

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Fullname       string    `json:"fullname"`
	Avatar         string    `json:"avatar"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UserDisplay struct {
	Fullname string `json:"fullname"`
	Avatar   string `json:"avatar"`
}
