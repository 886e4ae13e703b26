package pricing

import (
	"pastry-shop/models"

	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func coulisCup() models.Product {
	return models.Product{
		ID:       10,
		Name:     "Coupe coulis",
		Category: models.CategoryCoulis,
		Price:    price("4.50"),
		Sizes: []models.ProductSize{
			{Label: "Petite", Volume: "250ml", Price: price("4.50"), Included: 2},
			{Label: "Grande", Volume: "500ml", Price: price("7.00"), Included: 4},
		},
		Customization: &models.Customization{
			Variant: string(VariantCoulis),
			Options: map[string][]string{"coulis": {"Nutella", "Pistache", "Caramel", "Fraise"}},
		},
		IsActive: true,
	}
}

func mixteBox() models.Product {
	return models.Product{
		ID:       20,
		Name:     "Box mixte",
		Category: models.CategoryBoxes,
		Price:    price("15.00"),
		Sizes: []models.ProductSize{
			{Label: "6", Count: 6, Price: price("15.00")},
			{Label: "12", Count: 12, Price: price("28.00")},
		},
		Customization: &models.Customization{
			Variant: string(VariantMixte),
			Options: map[string][]string{
				"cookie":  {"Oreo", "Nutella", "Pistache"},
				"brownie": {"Classique", "Noix"},
			},
		},
		IsActive: true,
	}
}

func layeredDessert() models.Product {
	return models.Product{
		ID:       30,
		Name:     "Tiramisu",
		Category: models.CategoryDesserts,
		Price:    price("5.00"),
		Sizes: []models.ProductSize{
			{Label: "Petit", Price: price("5.00")},
			{Label: "Grand", Price: price("8.00")},
		},
		Customization: &models.Customization{
			Variant: string(VariantBaseToppings),
			Options: map[string][]string{"topping": {"Oreo", "Fraise", "Speculoos", "Kinder"}},
			Bases:   []string{"Classique", "Speculoos"},
		},
		IsActive: true,
	}
}

func singleCookie(id int, name, p string) models.Product {
	return models.Product{ID: id, Name: name, Category: models.CategoryCookies, Price: price(p), IsActive: true}
}

func singleBrownie(id int, name, p string) models.Product {
	return models.Product{ID: id, Name: name, Category: models.CategoryBrownies, Price: price(p), IsActive: true}
}

func sampleUnitPrices() UnitPrices {
	return UnitPricesFrom([]models.Product{
		singleCookie(1, "Cookie Oreo", "3.00"),
		singleCookie(2, "Cookie classique", "2.50"),
		singleBrownie(3, "Brownie noix", "3.50"),
		singleBrownie(4, "Brownie classique", "3.00"),
	})
}
