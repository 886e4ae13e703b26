package pricing

import (
	"strings"

	"pastry-shop/models"

	"github.com/shopspring/decimal"
)

// Sizes returns the purchasable sizes of p. A product without sizes is sold as
// one implicit size at its base price.
func Sizes(p models.Product) []models.ProductSize {
	if len(p.Sizes) > 0 {
		return p.Sizes
	}
	return []models.ProductSize{{Label: p.Name, Price: p.Price}}
}

// FindSize looks a size up by label, ignoring case. An empty label selects the
// implicit size of a product that has no sizes.
func FindSize(p models.Product, label string) (models.ProductSize, bool) {
	if len(p.Sizes) == 0 && strings.TrimSpace(label) == "" {
		return Sizes(p)[0], true
	}
	for _, size := range Sizes(p) {
		if strings.EqualFold(size.Label, strings.TrimSpace(label)) {
			return size, true
		}
	}
	return models.ProductSize{}, false
}

// UnitPrices holds the extra-unit prices that depend on the catalog: an extra
// cookie or brownie in a box costs the cheapest cookie or brownie variant,
// sizes included.
type UnitPrices struct {
	Cookie  decimal.Decimal `json:"cookie"`
	Brownie decimal.Decimal `json:"brownie"`
}

func UnitPricesFrom(products []models.Product) UnitPrices {
	return UnitPrices{
		Cookie:  minPrice(products, models.CategoryCookies),
		Brownie: minPrice(products, models.CategoryBrownies),
	}
}

// For returns the extra unit price of a component family.
func (u UnitPrices) For(category Category) decimal.Decimal {
	switch category {
	case CategoryCoulis:
		return CoulisUnitPrice
	case CategoryTopping:
		return ToppingUnitPrice
	case CategoryCookie:
		return u.Cookie
	case CategoryBrownie:
		return u.Brownie
	default:
		return decimal.Zero
	}
}

func minPrice(products []models.Product, category string) decimal.Decimal {
	lowest := decimal.Zero
	found := false
	for _, p := range products {
		if p.Category != category || !p.IsActive {
			continue
		}
		for _, size := range Sizes(p) {
			if !found || size.Price.LessThan(lowest) {
				lowest = size.Price
				found = true
			}
		}
	}
	return lowest
}
