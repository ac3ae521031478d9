package models

import (
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleVendor   = "vendor"
	RoleCustomer = "customer"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	Role      string    `db:"role" json:"role"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the short profile embedded in order responses.
type UserSummary struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleVendor, RoleCustomer:
		return true
	}
	return false
}

func ValidUserStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}
