package models

import (
	"time"
)

// Profile roles
const (
	RoleUser     = "user"
	RoleBusiness = "business"
	RoleAdmin    = "admin"
)

// Profile represents an account profile. Authentication itself is handled
// by the hosted auth provider; the API only resolves its opaque session
// token to a profile row.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name,omitempty" db:"name"`
	Role      string    `json:"role" db:"role"`
	APIToken  string    `json:"-" db:"api_token"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FunnelResponse holds a user's funnel answers for one category.
// (profile_id, category_key) is unique; answers are upserted on change.
type FunnelResponse struct {
	ID          string            `json:"id" db:"id"`
	ProfileID   string            `json:"profile_id" db:"profile_id"`
	CategoryKey string            `json:"category_key" db:"category_key"`
	Answers     map[string]string `json:"answers" db:"answers"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}
