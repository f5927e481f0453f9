// Package format turns transactions into display strings for the terminal:
// US-dollar amounts, relative dates, category titles and the mask used for
// sensitive fields that have not been unlocked.
package format

import (
	"math"
	"time"

	"github.com/dmitrijs2005/txviewer/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Mask replaces a sensitive value that is not unlocked.
const Mask = "****"

// DateLayout is used for dates a week or more in the past.
const DateLayout = "Jan 2, 2006, 03:04 PM"

var (
	printer = message.NewPrinter(language.AmericanEnglish)
	titler  = cases.Title(language.AmericanEnglish)
)

// Currency renders the absolute value of v as US dollars, e.g. "$1,234.56".
func Currency(v float64) string {
	return printer.Sprintf("$%.2f", math.Abs(v))
}

// Amount is Currency with a "-" for debits and a "+" for credits.
func Amount(tx models.Transaction) string {
	if tx.Type == models.TypeDebit {
		return "-" + Currency(tx.Amount)
	}
	return "+" + Currency(tx.Amount)
}

// Sensitive returns value when visible and Mask otherwise.
func Sensitive(value string, visible bool) string {
	if !visible {
		return Mask
	}
	return value
}

// Balance formats an optional balance; an absent one renders empty.
func Balance(b *float64, visible bool) string {
	if b == nil {
		return ""
	}
	return Sensitive(Currency(*b), visible)
}

// Title upper-cases the first letter of every word.
func Title(s string) string {
	return titler.String(s)
}

func Category(c models.Category) string {
	return Title(string(c))
}

var icons = map[models.Category]string{
	models.CategoryGrocery:       "🛒",
	models.CategoryRestaurant:    "🍽️",
	models.CategoryGas:           "⛽",
	models.CategoryShopping:      "🛍️",
	models.CategoryEntertainment: "🎬",
	models.CategoryUtilities:     "🏠",
	models.CategoryHealthcare:    "🏥",
	models.CategoryEducation:     "📚",
	models.CategoryTravel:        "✈️",
	models.CategoryTransfer:      "💸",
	models.CategorySalary:        "💰",
	models.CategoryInvestment:    "📈",
	models.CategoryOther:         "💳",
}

// Icon returns the symbol shown next to a category.
func Icon(c models.Category) string {
	if icon, ok := icons[c]; ok {
		return icon
	}
	return icons[models.CategoryOther]
}

// location is the zone dates are shown in.
var location = time.Local

// Date renders t in local time with DateLayout.
func Date(t time.Time) string {
	return t.In(location).Format(DateLayout)
}

// RelativeDate counts whole 24-hour periods between t and now: "Today",
// "Yesterday", "N days ago" below a week, and Date(t) beyond that.
func RelativeDate(t, now time.Time) string {
	days := int(now.Sub(t) / (24 * time.Hour))
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return printer.Sprintf("%d days ago", days)
	default:
		return Date(t)
	}
}
