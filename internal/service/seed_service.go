package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bonita-forward-api/internal/models"
	"github.com/bonita-forward-api/internal/repository"
	"github.com/bonita-forward-api/internal/validation"
	"github.com/rs/zerolog"
)

// defaultCategories is the directory's browsable category set
var defaultCategories = []models.Category{
	{Key: "real-estate", Name: "Real Estate", Icon: "home", SortOrder: 1},
	{Key: "home-services", Name: "Home Services", Icon: "wrench", SortOrder: 2},
	{Key: "health-wellness", Name: "Health & Wellness", Icon: "heart", SortOrder: 3},
	{Key: "restaurants-cafes", Name: "Restaurants & Cafés", Icon: "utensils", SortOrder: 4},
	{Key: "professional-services", Name: "Professional Services", Icon: "briefcase", SortOrder: 5},
}

// seedService is the concrete implementation of SeedService
type seedService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newSeedService creates a new SeedService
func newSeedService(repos *repository.Repositories, log zerolog.Logger) *seedService {
	return &seedService{
		repos: repos,
		log:   log.With().Str("service", "seed").Logger(),
	}
}

// SeedProviders upserts providers from a CSV stream. Rows upsert on
// (category_key, normalized name), so re-running a seed against unchanged
// source data creates no duplicates. Invalid rows are counted and reported,
// not fatal.
func (s *seedService) SeedProviders(ctx context.Context, r io.Reader) (*SeedResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("CSV header is missing the name column")
	}
	if _, ok := cols["category_key"]; !ok {
		return nil, fmt.Errorf("CSV header is missing the category_key column")
	}

	validator := validation.NewValidator()
	if categories, err := s.repos.Category.List(ctx); err == nil {
		keys := make([]string, 0, len(categories))
		for _, c := range categories {
			keys = append(keys, c.Key)
		}
		validator.SetCategoryKeys(keys)
	}

	result := &SeedResult{}
	line := 1 // header

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, validation.ValidationError{
				Line: line, Field: "row", Message: err.Error(),
			})
			continue
		}
		result.Total++

		field := func(name string) string {
			if i, ok := cols[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		row := &models.ProviderCSV{
			Name:        field("name"),
			CategoryKey: field("category_key"),
			Tags:        field("tags"),
			Rating:      field("rating"),
			Phone:       field("phone"),
			Email:       field("email"),
			Website:     field("website"),
			Address:     field("address"),
			Description: field("description"),
		}

		if errs := validator.ValidateProviderRow(row, line); len(errs) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, errs...)
			continue
		}
		validator.AddNormalizedName(row.CategoryKey, row.Name)

		rating := 0.0
		if row.Rating != "" {
			rating, _ = strconv.ParseFloat(row.Rating, 64)
		}
		var tags []string
		if row.Tags != "" {
			for _, t := range strings.Split(row.Tags, "|") {
				if t = strings.TrimSpace(t); t != "" {
					tags = append(tags, t)
				}
			}
		}

		provider := &models.Provider{
			Name:        row.Name,
			CategoryKey: row.CategoryKey,
			Tags:        tags,
			Rating:      rating,
			Phone:       row.Phone,
			Email:       row.Email,
			Website:     row.Website,
			Address:     row.Address,
			Description: row.Description,
			Published:   true,
		}

		created, err := s.repos.Provider.Upsert(ctx, provider)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, validation.ValidationError{
				Line: line, Field: "row", Message: err.Error(), Value: row.Name,
			})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.log.Info().
		Int("total", result.Total).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("failed", result.Failed).
		Msg("Provider seed completed")
	return result, nil
}

// SeedCategories upserts the default category set
func (s *seedService) SeedCategories(ctx context.Context) error {
	for i := range defaultCategories {
		if err := s.repos.Category.Upsert(ctx, &defaultCategories[i]); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", defaultCategories[i].Key, err)
		}
	}
	s.log.Info().Int("count", len(defaultCategories)).Msg("Categories seeded")
	return nil
}
