// Package pricing prices customizable products: which sizes exist, which
// components a customer picked, how many of them are billed on top of the
// size price, and what the finished order line costs.
package pricing

import "github.com/shopspring/decimal"

// Category is a component family. Every component of a family costs the same
// extra unit price.
type Category string

const (
	CategoryCoulis  Category = "coulis"
	CategoryTopping Category = "topping"
	CategoryCookie  Category = "cookie"
	CategoryBrownie Category = "brownie"
)

// Variant is the customization shape of a product.
type Variant string

const (
	VariantNone         Variant = "none"
	VariantCoulis       Variant = "coulis"
	VariantToppings     Variant = "toppings"
	VariantMixte        Variant = "mixte"
	VariantCookieBox    Variant = "cookie_box"
	VariantBrownieBox   Variant = "brownie_box"
	VariantBaseToppings Variant = "base_toppings"
)

const (
	// ToppingsIncluded is the number of free toppings, whatever the size.
	ToppingsIncluded = 2
	DefaultCoulisMax = 8
)

var (
	CoulisUnitPrice  = decimal.RequireFromString("1.00")
	ToppingUnitPrice = decimal.RequireFromString("0.50")
)

var categoryLabels = map[Category]string{
	CategoryCoulis:  "Coulis",
	CategoryTopping: "Toppings",
	CategoryCookie:  "Cookies",
	CategoryBrownie: "Brownies",
}

func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseVariant maps a catalog value to a Variant. Unknown values are treated
// as products without components.
func ParseVariant(s string) Variant {
	switch v := Variant(s); v {
	case VariantCoulis, VariantToppings, VariantMixte, VariantCookieBox, VariantBrownieBox, VariantBaseToppings:
		return v
	default:
		return VariantNone
	}
}

// Categories lists the component families of a variant in display order.
func (v Variant) Categories() []Category {
	switch v {
	case VariantCoulis:
		return []Category{CategoryCoulis}
	case VariantToppings, VariantBaseToppings:
		return []Category{CategoryTopping}
	case VariantMixte:
		return []Category{CategoryCookie, CategoryBrownie}
	case VariantCookieBox:
		return []Category{CategoryCookie}
	case VariantBrownieBox:
		return []Category{CategoryBrownie}
	default:
		return nil
	}
}

func (v Variant) NeedsBase() bool {
	return v == VariantBaseToppings
}

// labelled reports whether descriptions prefix each part with its category.
func (v Variant) labelled() bool {
	return v == VariantMixte || v == VariantBaseToppings
}
