package services

import (
	"errors"

	"pastry-shop/pricing"
	"pastry-shop/repositories"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrUnknownSize        = pricing.ErrUnknownSize
	ErrNotSubmittable     = pricing.ErrNotSubmittable
	ErrInvalidComponent   = errors.New("invalid component")
	ErrLineNotFound       = errors.New("cart line not found")
	ErrSoldOut            = errors.New("product is sold out")
	ErrCartConflict       = repositories.ErrCartConflict
	ErrEmptyCart          = errors.New("cart is empty")
	ErrPreorderTooSoon    = errors.New("pickup date is too soon for a preorder")
	ErrInvalidPickupDate  = errors.New("invalid pickup date")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotifierDisabled   = errors.New("notifier is not configured")
)
