package model

import "time"

// Dish is a catalog entry. Hidden dishes (IsAvailable false) stay visible to
// admin views and to historical order items but never to customer listings.
type Dish struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	Category    string  `json:"category" gorm:"index;not null"`
	Price       float64 `json:"price" gorm:"not null"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	// No column default: gorm would drop a false value on insert. Creation
	// paths set the field explicitly.
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryLabels maps the well-known dish categories to display labels.
// Unknown categories fall back to their raw value.
var CategoryLabels = map[string]string{
	"main":    "主食",
	"snack":   "小食",
	"drink":   "饮品",
	"dessert": "甜品",
}

// CategoryLabel returns the display label for a category value.
func CategoryLabel(value string) string {
	if label, ok := CategoryLabels[value]; ok {
		return label
	}
	return value
}
