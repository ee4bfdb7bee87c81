// Package storetype enumerates the store verticals the detector can infer.
package storetype

import (
	"fmt"
	"strings"
)

// Category is a store vertical.
type Category string

const (
	Fashion      Category = "fashion"
	Electronics  Category = "electronics"
	Beauty       Category = "beauty"
	HomeGarden   Category = "home_garden"
	Digital      Category = "digital"
	Subscription Category = "subscription"
	Handmade     Category = "handmade"
	Food         Category = "food"
	General      Category = "general"
)

// all is the fixed vocabulary in priority order. Detection ties resolve to
// the earliest entry.
var all = []Category{Fashion, Electronics, Beauty, HomeGarden, Digital, Subscription, Handmade, Food, General}

// All returns every category in priority order, General last.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Specific returns every category except General, in priority order.
func Specific() []Category {
	return All()[:len(all)-1]
}

// Valid reports whether c belongs to the vocabulary.
func (c Category) Valid() bool {
	return c.Priority() >= 0
}

// Priority is the position of c in the tie-break order, or -1 if unknown.
func (c Category) Priority() int {
	for i, k := range all {
		if k == c {
			return i
		}
	}
	return -1
}

// OrGeneral returns c, or General when c is not a known category.
func (c Category) OrGeneral() Category {
	if c.Valid() {
		return c
	}
	return General
}

// Parse accepts a category name case-insensitively. Hyphens and spaces are
// read as underscores, so "home-garden" and "Home Garden" both parse.
func Parse(s string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_", "&", "").Replace(norm)
	norm = strings.ReplaceAll(norm, "__", "_")
	c := Category(norm)
	if !c.Valid() {
		names := make([]string, len(all))
		for i, k := range all {
			names[i] = string(k)
		}
		return "", fmt.Errorf("unknown store type %q (allowed: %s)", s, strings.Join(names, ", "))
	}
	return c, nil
}

var displayNames = map[string]map[Category]string{
	"en": {
		Fashion:      "👗 Fashion Stores",
		Electronics:  "📱 Electronics Stores",
		Beauty:       "💄 Beauty Stores",
		HomeGarden:   "🏠 Home & Garden Stores",
		Digital:      "💻 Digital Products Stores",
		Subscription: "🔄 Subscription Stores",
		Handmade:     "🎨 Handmade Products Stores",
		Food:         "🍎 Food Stores",
		General:      "🛒 General Store",
	},
	"ar": {
		Fashion:      "👗 متاجر الأزياء",
		Electronics:  "📱 متاجر الإلكترونيات",
		Beauty:       "💄 متاجر التجميل",
		HomeGarden:   "🏠 متاجر المنزل والحديقة",
		Digital:      "💻 متاجر المنتجات الرقمية",
		Subscription: "🔄 متاجر الاشتراكات",
		Handmade:     "🎨 متاجر المنتجات اليدوية",
		Food:         "🍎 متاجر الأطعمة",
		General:      "🛒 متجر عام",
	},
}

// DisplayName returns the localized label for c. Unknown languages fall back
// to English and unknown categories to the raw name.
func (c Category) DisplayName(lang string) string {
	names, ok := displayNames[strings.ToLower(lang)]
	if !ok {
		names = displayNames["en"]
	}
	if n, ok := names[c]; ok {
		return n
	}
	return string(c)
}
