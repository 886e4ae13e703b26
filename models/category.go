package models

const (
	CategoryCookies  = "cookies"
	CategoryBrownies = "brownies"
	CategoryBoxes    = "boxes"
	CategoryDesserts = "desserts"
	CategoryCoulis   = "coulis"
	CategoryDrinks   = "drinks"
)

const (
	BadgeNew        = "new"
	BadgeBestSeller = "best_seller"
	BadgeSeasonal   = "seasonal"
	BadgeSoldOut    = "sold_out"
)

type Category struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoryOrder is the display order of the storefront menu.
var CategoryOrder = []string{
	CategoryCookies,
	CategoryBrownies,
	CategoryBoxes,
	CategoryDesserts,
	CategoryCoulis,
	CategoryDrinks,
}

var categoryNames = map[string]string{
	CategoryCookies:  "Cookies",
	CategoryBrownies: "Brownies",
	CategoryBoxes:    "Box",
	CategoryDesserts: "Desserts",
	CategoryCoulis:   "Coulis",
	CategoryDrinks:   "Boissons",
}

// CategoryName returns the display name of a category slug, or the slug itself.
func CategoryName(slug string) string {
	if name, ok := categoryNames[slug]; ok {
		return name
	}
	return slug
}
