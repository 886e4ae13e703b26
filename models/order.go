package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSummary is what the checkout hands over to a messaging app. Nothing
// about it is persisted.
type OrderSummary struct {
	Reference  string          `json:"reference"`
	Customer   string          `json:"customer"`
	Phone      string          `json:"phone,omitempty"`
	PickupDate string          `json:"pickup_date,omitempty"`
	Note       string          `json:"note,omitempty"`
	Lines      []OrderLine     `json:"lines"`
	ItemCount  int             `json:"item_count"`
	Total      decimal.Decimal `json:"total"`
	Message    string          `json:"message"`
	Links      DeepLinks       `json:"links"`
	Preferred  string          `json:"preferred,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type DeepLinks struct {
	WhatsApp  string `json:"whatsapp,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Snapchat  string `json:"snapchat,omitempty"`
}
