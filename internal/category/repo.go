package category

import (
	"context"
	"errors"

	"babelbox/internal/apperr"
	"babelbox/internal/db"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id uint64) (Category, error)
	FindByName(ctx context.Context, name string) (Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	DeleteByName(ctx context.Context, name string) error
}

type Store struct {
	DB *gorm.DB
}

func (s *Store) List(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := s.DB.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id uint64) (Category, error) {
	var c Category
	if err := s.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return Category{}, notFound(err)
	}
	return c, nil
}

func (s *Store) FindByName(ctx context.Context, name string) (Category, error) {
	var c Category
	if err := s.DB.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return Category{}, notFound(err)
	}
	return c, nil
}

func (s *Store) Create(ctx context.Context, c *Category) error {
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Duplicate(c.Name)
		}
		return err
	}
	return nil
}

// Update saves name and color. A name held by a different record fails with
// a duplicate error; the unique index backs the pre-check under races.
func (s *Store) Update(ctx context.Context, c *Category) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Category{}).Where("name = ? AND id <> ?", c.Name, c.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.Duplicate(c.Name)
		}

		res := tx.Model(&Category{}).Where("id = ?", c.ID).Updates(map[string]any{
			"name":       c.Name,
			"color_type": c.ColorType,
		})
		if res.Error != nil {
			if db.IsUniqueViolation(res.Error) {
				return apperr.Duplicate(c.Name)
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("category")
		}
		return nil
	})
}

func (s *Store) DeleteByName(ctx context.Context, name string) error {
	res := s.DB.WithContext(ctx).Where("name = ?", name).Delete(&Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("category")
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("category")
	}
	return err
}
