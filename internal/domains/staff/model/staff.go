package model

import (
	"time"

	"github.com/google/uuid"
)

// StaffRole represents valid staff roles
type StaffRole string

const (
	RoleAdmin     StaffRole = "admin"
	RoleTrainer   StaffRole = "trainer"
	RoleFrontDesk StaffRole = "front_desk"
)

func (r StaffRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleFrontDesk:
		return true
	}
	return false
}

// Staff represents a studio employee account
type Staff struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"full_name" db:"full_name"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	Role         StaffRole  `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// StaffDTO is the safe view returned to clients, without credentials
type StaffDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       *string    `json:"phone,omitempty"`
	Role        StaffRole  `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (s *Staff) ToDTO() StaffDTO {
	return StaffDTO{
		ID:          s.ID,
		Email:       s.Email,
		FullName:    s.FullName,
		Phone:       s.Phone,
		Role:        s.Role,
		IsActive:    s.IsActive,
		LastLoginAt: s.LastLoginAt,
		CreatedAt:   s.CreatedAt,
	}
}
