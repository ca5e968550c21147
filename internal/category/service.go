package category

import (
	"context"
	"strings"
	"time"

	"babelbox/internal/apperr"
)

type Prober interface {
	Available(ctx context.Context) bool
}

// Service fails every call with apperr.ErrUnavailable while the store is
// down. Unlike items there is no fallback collection for categories.
type Service struct {
	Repo  Repository
	Probe Prober
}

func (s *Service) ready(ctx context.Context) error {
	if s.Repo == nil || (s.Probe != nil && !s.Probe.Available(ctx)) {
		return apperr.ErrUnavailable
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	out, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Category{}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (Category, error) {
	if err := s.ready(ctx); err != nil {
		return Category{}, err
	}
	return s.Repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string, colorType *string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, apperr.Required("name")
	}
	if err := s.ready(ctx); err != nil {
		return Category{}, err
	}

	c := Category{
		Name:      name,
		ColorType: color(colorType),
		CreatedAt: time.Now(),
	}
	if err := s.Repo.Create(ctx, &c); err != nil {
		return Category{}, err
	}
	return c, nil
}

// Update changes the name and/or color. Omitted fields keep their value; a
// supplied name must not be blank.
func (s *Service) Update(ctx context.Context, id uint64, in UpdateInput) (Category, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return Category{}, apperr.Required("name")
	}
	if err := s.ready(ctx); err != nil {
		return Category{}, err
	}

	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.ColorType != nil {
		c.ColorType = color(in.ColorType)
	}

	if err := s.Repo.Update(ctx, &c); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *Service) DeleteByName(ctx context.Context, name string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.Repo.DeleteByName(ctx, name)
}

// ColorMap maps category name to color for bulk item enrichment.
func (s *Service) ColorMap(ctx context.Context) (map[string]string, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(all))
	for _, c := range all {
		m[c.Name] = c.ColorType
	}
	return m, nil
}

func (s *Service) ColorOf(ctx context.Context, name string) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	c, err := s.Repo.FindByName(ctx, name)
	if err != nil {
		return "", err
	}
	return c.ColorType, nil
}

func color(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return DefaultColor
	}
	return strings.TrimSpace(*v)
}
