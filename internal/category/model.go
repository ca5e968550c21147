package category

import "time"

const DefaultColor = "primary"

// Category is a named tag with a display color. Items reference it by name.
type Category struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	ColorType string    `gorm:"size:50;not null;default:'primary'" json:"color_type"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

type UpdateInput struct {
	Name      *string
	ColorType *string
}
