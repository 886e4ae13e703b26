package pricing

import (
	"pastry-shop/models"

	"github.com/shopspring/decimal"
)

// Rule is the pricing and gating rule of one component family for a given
// size: how many units the size price includes, what each extra unit costs,
// and how many units must be picked before the line can be submitted.
type Rule struct {
	Category  Category        `json:"category"`
	Included  int             `json:"included"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Minimum   int             `json:"minimum"`
}

// Surcharge is the billed part of one component family.
type Surcharge struct {
	Category   Category        `json:"category"`
	Included   int             `json:"included"`
	Selected   int             `json:"selected"`
	Extra      int             `json:"extra"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	ExtraPrice decimal.Decimal `json:"extra_price"`
}

// ExtraUnits is the number of billed units: max(0, selected - included).
func ExtraUnits(selected, included int) int {
	if selected <= included {
		return 0
	}
	return selected - included
}

func Calculate(category Category, selected, included int, unitPrice decimal.Decimal) Surcharge {
	extra := ExtraUnits(selected, included)
	return Surcharge{
		Category:   category,
		Included:   included,
		Selected:   selected,
		Extra:      extra,
		UnitPrice:  unitPrice,
		ExtraPrice: unitPrice.Mul(decimal.NewFromInt(int64(extra))),
	}
}

// RulesFor returns the component rules of a variant once a size is chosen.
func RulesFor(variant Variant, size models.ProductSize, prices UnitPrices) []Rule {
	switch variant {
	case VariantCoulis:
		return []Rule{{Category: CategoryCoulis, Included: size.Included, UnitPrice: prices.For(CategoryCoulis), Minimum: 1}}
	case VariantToppings:
		return []Rule{{Category: CategoryTopping, Included: ToppingsIncluded, UnitPrice: prices.For(CategoryTopping), Minimum: 1}}
	case VariantBaseToppings:
		return []Rule{{Category: CategoryTopping, Included: ToppingsIncluded, UnitPrice: prices.For(CategoryTopping), Minimum: ToppingsIncluded}}
	case VariantMixte:
		perCategory := size.Count / 2
		return []Rule{
			{Category: CategoryCookie, Included: perCategory, UnitPrice: prices.For(CategoryCookie), Minimum: 1},
			{Category: CategoryBrownie, Included: perCategory, UnitPrice: prices.For(CategoryBrownie), Minimum: 1},
		}
	case VariantCookieBox:
		return []Rule{{Category: CategoryCookie, Included: size.Count, UnitPrice: prices.For(CategoryCookie), Minimum: 1}}
	case VariantBrownieBox:
		return []Rule{{Category: CategoryBrownie, Included: size.Count, UnitPrice: prices.For(CategoryBrownie), Minimum: 1}}
	default:
		return nil
	}
}

// Surcharges applies rules to the number of units selected per family.
func Surcharges(rules []Rule, selected map[Category]int) []Surcharge {
	out := make([]Surcharge, 0, len(rules))
	for _, rule := range rules {
		out = append(out, Calculate(rule.Category, selected[rule.Category], rule.Included, rule.UnitPrice))
	}
	return out
}
