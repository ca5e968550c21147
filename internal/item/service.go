package item

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"babelbox/internal/apperr"
)

const DefaultColor = "primary"

// Prober reports whether the relational store is reachable.
type Prober interface {
	Available(ctx context.Context) bool
}

// Colors resolves category display colors by category name.
type Colors interface {
	ColorMap(ctx context.Context) (map[string]string, error)
	ColorOf(ctx context.Context, name string) (string, error)
}

// Service picks the store or the in-memory fallback per request and
// enriches every returned item with its category color.
type Service struct {
	Store    Repository
	Fallback Repository
	Probe    Prober
	Colors   Colors

	Now func() time.Time
}

type CreateInput struct {
	Title    string
	Content  string
	Category string
	Example  *string
}

// UpdateInput fields left nil are not changed.
type UpdateInput struct {
	Title    *string
	Content  *string
	Category *string
	Example  *string
}

func (s *Service) repo(ctx context.Context) (Repository, bool) {
	if s.Store != nil && (s.Probe == nil || s.Probe.Available(ctx)) {
		return s.Store, true
	}
	return s.Fallback, false
}

// List never fails because of the store: on any store error it serves the
// fallback collection with the same filter and paging.
func (s *Service) List(ctx context.Context, f Filter, p Paging) (Page, error) {
	repo, primary := s.repo(ctx)

	rows, total, err := repo.List(ctx, f, p.Offset(), p.PageSize)
	if err != nil && primary {
		log.Printf("item list from store failed, using fallback: %v\n", err)
		rows, total, err = s.Fallback.List(ctx, f, p.Offset(), p.PageSize)
	}
	if err != nil {
		return Page{}, err
	}

	s.colorize(ctx, rows, primary)
	if rows == nil {
		rows = []Item{}
	}
	return Page{Items: rows, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (Item, error) {
	repo, primary := s.repo(ctx)

	it, err := repo.Get(ctx, id)
	if err != nil && primary && !errors.Is(err, apperr.ErrNotFound) {
		log.Printf("item get from store failed, using fallback: %v\n", err)
		it, err = s.Fallback.Get(ctx, id)
	}
	if err != nil {
		return Item{}, err
	}

	it.CategoryColor = s.colorOf(ctx, it.Category, primary)
	return it, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Item, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Item{}, apperr.Required("title")
	}
	if strings.TrimSpace(in.Content) == "" {
		return Item{}, apperr.Required("content")
	}
	if strings.TrimSpace(in.Category) == "" {
		return Item{}, apperr.Required("category")
	}

	now := s.now()
	it := Item{
		Title:     in.Title,
		Content:   in.Content,
		Category:  in.Category,
		Example:   optional(in.Example),
		CreatedAt: now,
		UpdatedAt: now,
	}

	repo, primary := s.repo(ctx)
	if err := repo.Create(ctx, &it); err != nil {
		return Item{}, err
	}

	it.CategoryColor = s.colorOf(ctx, it.Category, primary)
	return it, nil
}

func (s *Service) Update(ctx context.Context, id uint64, in UpdateInput) (Item, error) {
	present := []struct {
		field string
		v     *string
	}{{"title", in.Title}, {"content", in.Content}, {"category", in.Category}}
	for _, p := range present {
		if p.v != nil && strings.TrimSpace(*p.v) == "" {
			return Item{}, apperr.Required(p.field)
		}
	}

	repo, primary := s.repo(ctx)
	it, err := repo.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}

	if in.Title != nil {
		it.Title = *in.Title
	}
	if in.Content != nil {
		it.Content = *in.Content
	}
	if in.Category != nil {
		it.Category = *in.Category
	}
	if in.Example != nil {
		it.Example = optional(in.Example)
	}
	it.UpdatedAt = s.now()

	if err := repo.Save(ctx, &it); err != nil {
		return Item{}, err
	}

	it.CategoryColor = s.colorOf(ctx, it.Category, primary)
	return it, nil
}

func (s *Service) Delete(ctx context.Context, id uint64) error {
	repo, _ := s.repo(ctx)
	return repo.Delete(ctx, id)
}

// colorize and colorOf take the store check of the current request. Colors
// live in the same store, so they are not looked up while it is down.
func (s *Service) colorize(ctx context.Context, rows []Item, storeUp bool) {
	if len(rows) == 0 {
		return
	}
	var colors map[string]string
	if s.Colors != nil && storeUp {
		m, err := s.Colors.ColorMap(ctx)
		if err != nil && !errors.Is(err, apperr.ErrUnavailable) {
			log.Printf("category colors unavailable: %v\n", err)
		}
		colors = m
	}
	for i := range rows {
		rows[i].CategoryColor = orDefault(colors[rows[i].Category])
	}
}

func (s *Service) colorOf(ctx context.Context, category string, storeUp bool) string {
	if s.Colors == nil || !storeUp {
		return DefaultColor
	}
	c, err := s.Colors.ColorOf(ctx, category)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) && !errors.Is(err, apperr.ErrUnavailable) {
			log.Printf("category color for %q unavailable: %v\n", category, err)
		}
		return DefaultColor
	}
	return orDefault(c)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func orDefault(color string) string {
	if strings.TrimSpace(color) == "" {
		return DefaultColor
	}
	return color
}

func optional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
