package domain

import "time"

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Name         string
	Phone        string
	Role         Role `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
