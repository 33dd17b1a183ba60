package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"slices"

	"github.com/go-playground/validator"
)

var ErrUnknownCategory = errors.New("unknown product category")

type Category string

const (
	CategoryUpperBody   Category = "Upper Body"
	CategoryLowerBody   Category = "Lower Body"
	CategoryFootwear    Category = "Footwear"
	CategoryAccessories Category = "Accessories"
	CategoryFullOutfit  Category = "Full Outfit"
)

var categories = []Category{
	CategoryUpperBody,
	CategoryLowerBody,
	CategoryFootwear,
	CategoryAccessories,
	CategoryFullOutfit,
}

// Categories returns the product categories in display order.
func Categories() []Category {
	return slices.Clone(categories)
}

func (c *Category) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*c = Category(v)
	case []byte:
		*c = Category(v)
	default:
		return fmt.Errorf("cannot scan %T into Category", value)
	}
	return nil
}

func (c Category) Value() (driver.Value, error) {
	return string(c), nil
}

func (c Category) String() string {
	return string(c)
}

func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

func ParseCategory(value string) (Category, error) {
	c := Category(value)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, value)
	}
	return c, nil
}

func ValidateCategory(fl validator.FieldLevel) bool {
	return Category(fl.Field().String()).Valid()
}
