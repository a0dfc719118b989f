package models

import (
	"strings"
	"time"
)

// Provider represents a local business listed in the directory
type Provider struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	NormalizedName string    `json:"-" db:"normalized_name"`
	CategoryKey    string    `json:"category_key" db:"category_key"`
	Tags           []string  `json:"tags" db:"tags"`
	Rating         float64   `json:"rating" db:"rating"`
	Phone          string    `json:"phone,omitempty" db:"phone"`
	Email          string    `json:"email,omitempty" db:"email"`
	Website        string    `json:"website,omitempty" db:"website"`
	Address        string    `json:"address,omitempty" db:"address"`
	Description    string    `json:"description,omitempty" db:"description"`
	Images         []string  `json:"images" db:"images"`
	Badges         []string  `json:"badges" db:"badges"`
	Published      bool      `json:"published" db:"published"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// NormalizeName produces the canonical form used for seed idempotency:
// lowercase with runs of whitespace collapsed to a single space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// ProviderCSV represents a provider row from a seed CSV file
type ProviderCSV struct {
	Name        string
	CategoryKey string
	Tags        string // pipe-separated
	Rating      string
	Phone       string
	Email       string
	Website     string
	Address     string
	Description string
}

// Category represents a browsable directory category
type Category struct {
	Key         string `json:"key" db:"key"`
	Name        string `json:"name" db:"name"`
	Icon        string `json:"icon,omitempty" db:"icon"`
	Description string `json:"description,omitempty" db:"description"`
	SortOrder   int    `json:"sort_order" db:"sort_order"`
}
