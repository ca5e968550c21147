package item

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultPageSize = 6

// Item is a knowledge record. Category is a denormalized category name, not a
// foreign key.
type Item struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  string    `gorm:"size:255;index;not null" json:"category"`
	Example   *string   `gorm:"type:text" json:"example"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// resolved at read time from the categories table
	CategoryColor string `gorm:"-" json:"category_color"`
}

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Category string
	Title    string
}

// NewFilter normalizes raw query values: "all" means no category filter and
// both values are percent-decoded.
func NewFilter(category, search string) Filter {
	var f Filter
	if c := decode(category); c != "" && c != "all" {
		f.Category = c
	}
	if strings.TrimSpace(search) != "" {
		f.Title = strings.TrimSpace(decode(search))
	}
	return f
}

type Paging struct {
	Page     int
	PageSize int
}

// Offset saturates at math.MaxInt instead of wrapping, so an absurd page
// lands past the last row.
func (p Paging) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// ParsePaging falls back to page 1 and DefaultPageSize for missing,
// non-numeric or non-positive input.
func ParsePaging(page, pageSize string) Paging {
	return Paging{
		Page:     positiveOr(page, 1),
		PageSize: positiveOr(pageSize, DefaultPageSize),
	}
}

type Page struct {
	Items    []Item
	Total    int64
	Page     int
	PageSize int
}

func (p Page) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int(math.Ceil(float64(p.Total) / float64(p.PageSize)))
}

func positiveOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func decode(s string) string {
	v, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return v
}
