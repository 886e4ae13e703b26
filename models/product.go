package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is immutable catalog data, loaded once and never mutated at runtime.
type Product struct {
	ID            int             `json:"id"`
	Slug          string          `json:"slug"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageID       string          `json:"-"`
	ImageURL      string          `json:"image_url,omitempty"`
	Sizes         []ProductSize   `json:"sizes,omitempty"`
	Badges        []string        `json:"badges,omitempty"`
	Preorder      *Preorder       `json:"preorder,omitempty"`
	Customization *Customization  `json:"customization,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductSize carries its own price, not a delta over Product.Price.
type ProductSize struct {
	Label    string          `json:"label"`
	Count    int             `json:"count,omitempty"`
	Volume   string          `json:"volume,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Included int             `json:"included,omitempty"`
}

type Preorder struct {
	LeadDays int    `json:"lead_days"`
	Note     string `json:"note,omitempty"`
}

// Customization describes the component wizard of a product. Options maps a
// component category (coulis, topping, cookie, brownie) to the names a customer
// may pick; MaxTotal caps a category's selector, zero meaning uncapped.
type Customization struct {
	Variant  string              `json:"variant"`
	Options  map[string][]string `json:"options,omitempty"`
	Bases    []string            `json:"bases,omitempty"`
	MaxTotal map[string]int      `json:"max_total,omitempty"`
}

func (p *Product) HasSizes() bool {
	return len(p.Sizes) > 0
}

func (p *Product) IsPreorder() bool {
	return p.Preorder != nil && p.Preorder.LeadDays > 0
}

func (p *Product) HasBadge(badge string) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// AllowsComponent reports whether name is one of the options of category.
func (c *Customization) AllowsComponent(category, name string) bool {
	if c == nil {
		return false
	}
	for _, option := range c.Options[category] {
		if option == name {
			return true
		}
	}
	return false
}

func (c *Customization) AllowsBase(name string) bool {
	if c == nil {
		return false
	}
	for _, base := range c.Bases {
		if base == name {
			return true
		}
	}
	return false
}
