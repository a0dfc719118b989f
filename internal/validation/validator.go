package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bonita-forward-api/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	keyRegex   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// ValidationError represents a single validation error
type ValidationError struct {
	Line    int         `json:"line,omitempty"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator provides validation for seed rows and user submissions
type Validator struct {
	categoryKeyCache    map[string]bool
	normalizedNameCache map[string]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		categoryKeyCache:    make(map[string]bool),
		normalizedNameCache: make(map[string]bool),
	}
}

// SetCategoryKeys sets the known category keys for FK validation
func (v *Validator) SetCategoryKeys(keys []string) {
	for _, k := range keys {
		v.categoryKeyCache[k] = true
	}
}

// AddNormalizedName adds a provider name to the duplicate cache
func (v *Validator) AddNormalizedName(categoryKey, name string) {
	v.normalizedNameCache[categoryKey+"|"+models.NormalizeName(name)] = true
}

// ValidateProviderRow validates one seed CSV row
func (v *Validator) ValidateProviderRow(row *models.ProviderCSV, lineNum int) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(row.Name) == "" {
		errors = append(errors, ValidationError{Line: lineNum, Field: "name", Message: "name is required"})
	}

	if row.CategoryKey == "" {
		errors = append(errors, ValidationError{Line: lineNum, Field: "category_key", Message: "category_key is required"})
	} else if !keyRegex.MatchString(row.CategoryKey) {
		errors = append(errors, ValidationError{Line: lineNum, Field: "category_key", Message: "invalid category key format", Value: row.CategoryKey})
	} else if len(v.categoryKeyCache) > 0 && !v.categoryKeyCache[row.CategoryKey] {
		errors = append(errors, ValidationError{Line: lineNum, Field: "category_key", Message: "unknown category", Value: row.CategoryKey})
	}

	if row.Rating != "" {
		rating, err := strconv.ParseFloat(row.Rating, 64)
		if err != nil {
			errors = append(errors, ValidationError{Line: lineNum, Field: "rating", Message: "rating must be numeric", Value: row.Rating})
		} else if rating < 0 || rating > 5 {
			errors = append(errors, ValidationError{Line: lineNum, Field: "rating", Message: "rating must be between 0 and 5", Value: row.Rating})
		}
	}

	if row.Email != "" && !emailRegex.MatchString(row.Email) {
		errors = append(errors, ValidationError{Line: lineNum, Field: "email", Message: "invalid email format", Value: row.Email})
	}

	if row.Website != "" && !strings.HasPrefix(row.Website, "http://") && !strings.HasPrefix(row.Website, "https://") {
		errors = append(errors, ValidationError{Line: lineNum, Field: "website", Message: "website must be an http(s) URL", Value: row.Website})
	}

	// Duplicate detection within the batch by normalized name
	if row.Name != "" && row.CategoryKey != "" {
		cacheKey := row.CategoryKey + "|" + models.NormalizeName(row.Name)
		if v.normalizedNameCache[cacheKey] {
			errors = append(errors, ValidationError{Line: lineNum, Field: "name", Message: "duplicate provider name in batch", Value: row.Name})
		}
	}

	return errors
}

// ValidateEventSubmission validates a user-submitted community event
func (v *Validator) ValidateEventSubmission(sub *models.EventSubmission) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(sub.Title) == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	} else if len(sub.Title) > 200 {
		errors = append(errors, ValidationError{Field: "title", Message: "title must be 200 characters or fewer"})
	}

	if sub.StartsAt == "" {
		errors = append(errors, ValidationError{Field: "starts_at", Message: "starts_at is required"})
	} else if _, err := ParseTimestamp(sub.StartsAt); err != nil {
		errors = append(errors, ValidationError{Field: "starts_at", Message: "starts_at must be RFC 3339 or YYYY-MM-DD", Value: sub.StartsAt})
	}

	if sub.EndsAt != "" {
		if _, err := ParseTimestamp(sub.EndsAt); err != nil {
			errors = append(errors, ValidationError{Field: "ends_at", Message: "ends_at must be RFC 3339 or YYYY-MM-DD", Value: sub.EndsAt})
		}
	}

	if sub.CategoryKey == "" {
		errors = append(errors, ValidationError{Field: "category_key", Message: "category_key is required"})
	} else if len(v.categoryKeyCache) > 0 && !v.categoryKeyCache[sub.CategoryKey] {
		errors = append(errors, ValidationError{Field: "category_key", Message: "unknown category", Value: sub.CategoryKey})
	}

	return errors
}

// ValidateApplication validates a business self-signup application
func (v *Validator) ValidateApplication(a *models.BusinessApplication) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(a.BusinessName) == "" {
		errors = append(errors, ValidationError{Field: "business_name", Message: "business_name is required"})
	}
	if strings.TrimSpace(a.ContactName) == "" {
		errors = append(errors, ValidationError{Field: "contact_name", Message: "contact_name is required"})
	}
	if a.Email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(a.Email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: a.Email})
	}
	if a.CategoryKey != "" && len(v.categoryKeyCache) > 0 && !v.categoryKeyCache[a.CategoryKey] {
		errors = append(errors, ValidationError{Field: "category_key", Message: "unknown category", Value: a.CategoryKey})
	}

	return errors
}

// ParseTimestamp accepts RFC 3339 or a bare date
func ParseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", raw)
}
