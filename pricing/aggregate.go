package pricing

import (
	"fmt"
	"strings"

	"pastry-shop/models"

	"github.com/shopspring/decimal"
)

// Describe renders a selection as "Oreo (×2), Fraise": distinct names in order
// of first appearance, with a unit count when a name was picked more than once.
func Describe(items []string) string {
	counts := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	parts := make([]string, 0, len(order))
	for _, name := range order {
		if n := counts[name]; n > 1 {
			parts = append(parts, fmt.Sprintf("%s (×%d)", name, n))
		} else {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

// LineTotal is the size price plus every surcharge. It is never below the size price.
func LineTotal(size models.ProductSize, surcharges []Surcharge) decimal.Decimal {
	total := size.Price
	for _, s := range surcharges {
		if s.ExtraPrice.IsPositive() {
			total = total.Add(s.ExtraPrice)
		}
	}
	return total
}

// ExtraTotal sums the extra prices of all surcharges.
func ExtraTotal(surcharges []Surcharge) decimal.Decimal {
	total := decimal.Zero
	for _, s := range surcharges {
		total = total.Add(s.ExtraPrice)
	}
	return total
}

type descriptionPart struct {
	label string
	items []string
}

func describeParts(parts []descriptionPart, labelled bool) string {
	rendered := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(part.items) == 0 {
			continue
		}
		text := Describe(part.items)
		if labelled {
			text = part.label + ": " + text
		}
		rendered = append(rendered, text)
	}
	return strings.Join(rendered, " | ")
}
