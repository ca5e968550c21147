package item

import (
	"context"
	"errors"
	"strings"

	"babelbox/internal/apperr"

	"gorm.io/gorm"
)

// Repository persists items. Implementations return apperr.NotFound for
// unknown ids.
type Repository interface {
	List(ctx context.Context, f Filter, offset, limit int) ([]Item, int64, error)
	Get(ctx context.Context, id uint64) (Item, error)
	Create(ctx context.Context, it *Item) error
	Save(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id uint64) error
}

// Store is the relational Repository.
type Store struct {
	DB *gorm.DB
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Store) List(ctx context.Context, f Filter, offset, limit int) ([]Item, int64, error) {
	where := func(q *gorm.DB) *gorm.DB {
		if f.Category != "" {
			q = q.Where("category = ?", f.Category)
		}
		if f.Title != "" {
			q = q.Where(`title LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(f.Title)+"%")
		}
		return q
	}

	var total int64
	if err := s.DB.WithContext(ctx).Model(&Item{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Item
	if err := s.DB.WithContext(ctx).Scopes(where).
		Order("created_at desc").Order("id desc").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *Store) Get(ctx context.Context, id uint64) (Item, error) {
	var it Item
	if err := s.DB.WithContext(ctx).First(&it, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Item{}, apperr.NotFound("item")
		}
		return Item{}, err
	}
	return it, nil
}

func (s *Store) Create(ctx context.Context, it *Item) error {
	return s.DB.WithContext(ctx).Create(it).Error
}

func (s *Store) Save(ctx context.Context, it *Item) error {
	res := s.DB.WithContext(ctx).Model(&Item{}).Where("id = ?", it.ID).Updates(map[string]any{
		"title":      it.Title,
		"content":    it.Content,
		"category":   it.Category,
		"example":    it.Example,
		"updated_at": it.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("item")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id uint64) error {
	res := s.DB.WithContext(ctx).Delete(&Item{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("item")
	}
	return nil
}
