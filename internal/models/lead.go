package models

import (
	"time"
)

// Application statuses
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// BusinessApplication represents a business self-signup application
type BusinessApplication struct {
	ID           string     `json:"id" db:"id"`
	BusinessName string     `json:"business_name" db:"business_name"`
	CategoryKey  string     `json:"category_key" db:"category_key"`
	ContactName  string     `json:"contact_name" db:"contact_name"`
	Email        string     `json:"email" db:"email"`
	Phone        string     `json:"phone,omitempty" db:"phone"`
	Message      string     `json:"message,omitempty" db:"message"`
	Status       string     `json:"status" db:"status"`
	ReviewNotes  string     `json:"review_notes,omitempty" db:"review_notes"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
}

// Booking statuses
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a consultation request between a user and a provider
type Booking struct {
	ID          string    `json:"id" db:"id"`
	ProviderID  string    `json:"provider_id" db:"provider_id"`
	ProfileID   string    `json:"profile_id" db:"profile_id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone,omitempty" db:"phone"`
	RequestedAt time.Time `json:"requested_at" db:"requested_at"`
	Notes       string    `json:"notes,omitempty" db:"notes"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
