package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pastry-shop/models"
	"pastry-shop/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxLineQuantity = 50

// CartService is the cart sink of the customization flow: finished order
// lines land here and only their quantity changes afterwards.
type CartService struct {
	store    repositories.CartStore
	products *ProductService
	logger   *zap.Logger
	now      func() time.Time
}

func NewCartService(store repositories.CartStore, products *ProductService, logger *zap.Logger) *CartService {
	return &CartService{
		store:    store,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

// GetCart returns the cart id, or a new empty cart when none is stored.
func (s *CartService) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	cart, err := s.store.Get(ctx, cartID)
	if errors.Is(err, repositories.ErrNotFound) {
		now := s.now()
		return &models.Cart{ID: cartID, Lines: []models.OrderLine{}, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

// AddLine prices the customization and appends it to the cart. A line that
// matches an existing one (same product, size, base and components) only
// raises that line's quantity.
func (s *CartService) AddLine(ctx context.Context, cartID string, req models.AddLineRequest) (*models.Cart, *models.OrderLine, error) {
	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product.HasBadge(models.BadgeSoldOut) {
		return nil, nil, ErrSoldOut
	}
	prices, err := s.products.UnitPrices(ctx)
	if err != nil {
		return nil, nil, err
	}

	session, err := NewCustomization(*product, prices, req.CustomizationRequest)
	if err != nil {
		return nil, nil, err
	}
	line, err := session.Finish(req.Quantity)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", err, session.State())
	}

	var added models.OrderLine
	cart, err := s.update(ctx, cartID, func(cart *models.Cart) error {
		if i := matchingLine(cart, line); i >= 0 {
			cart.Lines[i].Quantity = clampQuantity(cart.Lines[i].Quantity + line.Quantity)
			added = cart.Lines[i]
			return nil
		}
		fresh := line
		fresh.ID = uuid.NewString()
		fresh.Quantity = clampQuantity(fresh.Quantity)
		cart.Lines = append(cart.Lines, fresh)
		added = fresh
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	cartLinesAdded.WithLabelValues(string(session.Variant())).Inc()
	s.logger.Debug("cart line added",
		zap.String("cart_id", cart.ID),
		zap.Int("product_id", line.ProductID),
		zap.String("unit_price", line.UnitPrice.StringFixed(2)))

	return cart, &added, nil
}

// UpdateLine sets a line quantity. Zero or less removes the line.
func (s *CartService) UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, cartID, lineID)
	}

	return s.update(ctx, cartID, func(cart *models.Cart) error {
		i := cart.FindLine(lineID)
		if i < 0 {
			return ErrLineNotFound
		}
		cart.Lines[i].Quantity = clampQuantity(quantity)
		return nil
	})
}

func (s *CartService) RemoveLine(ctx context.Context, cartID, lineID string) (*models.Cart, error) {
	return s.update(ctx, cartID, func(cart *models.Cart) error {
		i := cart.FindLine(lineID)
		if i < 0 {
			return ErrLineNotFound
		}
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
		return nil
	})
}

func (s *CartService) ClearCart(ctx context.Context, cartID string) error {
	if err := s.store.Delete(ctx, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// update applies change to the stored cart, or to a new empty cart, as one
// atomic store update. change may run again when the store retries.
func (s *CartService) update(ctx context.Context, cartID string, change func(cart *models.Cart) error) (*models.Cart, error) {
	cart, err := s.store.Update(ctx, cartID, func(current *models.Cart) (*models.Cart, error) {
		now := s.now()
		if current == nil {
			current = &models.Cart{ID: cartID, Lines: []models.OrderLine{}, CreatedAt: now}
		}
		if err := change(current); err != nil {
			return nil, err
		}
		current.UpdatedAt = now
		return current, nil
	})
	if errors.Is(err, ErrLineNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func matchingLine(cart *models.Cart, line models.OrderLine) int {
	for i, existing := range cart.Lines {
		if existing.ProductID == line.ProductID &&
			existing.Size.Label == line.Size.Label &&
			existing.Base == line.Base &&
			existing.Description == line.Description &&
			existing.UnitPrice.Equal(line.UnitPrice) {
			return i
		}
	}
	return -1
}

func newCartID() string {
	return uuid.NewString()
}

func clampQuantity(n int) int {
	if n > maxLineQuantity {
		return maxLineQuantity
	}
	return n
}
