package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is created when a customization is added to the cart and is
// immutable afterwards, except for Quantity.
type OrderLine struct {
	ID          string              `json:"id"`
	ProductID   int                 `json:"product_id"`
	ProductName string              `json:"product_name"`
	Size        ProductSize         `json:"size"`
	Base        string              `json:"base,omitempty"`
	Selections  map[string][]string `json:"selections,omitempty"`
	Description string              `json:"description"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	Quantity    int                 `json:"quantity"`
	Preorder    *Preorder           `json:"preorder,omitempty"`
}

func (l *OrderLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	ID        string      `json:"id"`
	Lines     []OrderLine `json:"lines"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Lines {
		total = total.Add(c.Lines[i].Total())
	}
	return total
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// FindLine returns the index of the line with the given id, or -1.
func (c *Cart) FindLine(lineID string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

// MaxLeadDays is the longest preorder lead time among the cart lines.
func (c *Cart) MaxLeadDays() int {
	days := 0
	for _, line := range c.Lines {
		if line.Preorder != nil && line.Preorder.LeadDays > days {
			days = line.Preorder.LeadDays
		}
	}
	return days
}

// CartView is the cart as the storefront displays it.
type CartView struct {
	ID          string          `json:"id"`
	Lines       []OrderLine     `json:"lines"`
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	MaxLeadDays int             `json:"max_lead_days,omitempty"`
}

func (c *Cart) View() CartView {
	lines := c.Lines
	if lines == nil {
		lines = []OrderLine{}
	}
	return CartView{
		ID:          c.ID,
		Lines:       lines,
		ItemCount:   c.ItemCount(),
		Subtotal:    c.Subtotal(),
		MaxLeadDays: c.MaxLeadDays(),
	}
}
