package models

import (
	"errors"
	"fmt"
	"strings"
)

type Category string

const (
	CategoryGrocery       Category = "grocery"
	CategoryRestaurant    Category = "restaurant"
	CategoryGas           Category = "gas"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryUtilities     Category = "utilities"
	CategoryHealthcare    Category = "healthcare"
	CategoryEducation     Category = "education"
	CategoryTravel        Category = "travel"
	CategoryTransfer      Category = "transfer"
	CategorySalary        Category = "salary"
	CategoryInvestment    Category = "investment"
	CategoryOther         Category = "other"
)

var ErrUnknownCategory = errors.New("unknown category")

// Categories lists every category in display order.
var Categories = []Category{
	CategoryGrocery,
	CategoryRestaurant,
	CategoryGas,
	CategoryShopping,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryHealthcare,
	CategoryEducation,
	CategoryTravel,
	CategoryTransfer,
	CategorySalary,
	CategoryInvestment,
	CategoryOther,
}

// ParseCategory is case-insensitive.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}
