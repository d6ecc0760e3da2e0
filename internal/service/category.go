package service

import (
	"context"
	"strings"
	"unicode"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type CategoryService struct {
	Categories repo.Categories
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.Categories.ListCategories(ctx, true)
}

func (s *CategoryService) Create(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, invalid("name is required", "name", "required")
	}
	name := strings.TrimSpace(*req.Name)

	slug := Slugify(name)
	if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
		slug = Slugify(*req.Slug)
	}
	if slug == "" {
		return nil, invalid("slug cannot be derived from name", "slug", "required")
	}

	c := &models.Category{Name: name, Slug: slug, IsActive: true}
	setIf(&c.IsActive, req.IsActive)

	if err := s.Categories.CreateCategory(ctx, c); err != nil {
		return nil, categoryErr(err)
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, rawID string, req transport.CategoryRequest) (*models.Category, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	c, err := s.Categories.GetCategory(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Category")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, invalid("name cannot be empty", "name", "required")
		}
		c.Name = name
	}
	if req.Slug != nil {
		slug := Slugify(*req.Slug)
		if slug == "" {
			return nil, invalid("slug cannot be empty", "slug", "required")
		}
		c.Slug = slug
	}
	setIf(&c.IsActive, req.IsActive)

	if err := s.Categories.SaveCategory(ctx, c); err != nil {
		return nil, categoryErr(err)
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, rawID string) error {
	id, err := parseID("id", rawID)
	if err != nil {
		return err
	}
	return fromRepo(s.Categories.DeleteCategory(ctx, id), "Category")
}

func categoryErr(err error) error {
	if isDuplicate(err) {
		return conflict("Slug already in use")
	}
	return fromRepo(err, "Category")
}

// Slugify lowercases and joins runs of letters and digits with single dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
