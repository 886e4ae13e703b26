package services

import (
	"fmt"

	"pastry-shop/models"
	"pastry-shop/pricing"
)

// NewCustomization replays a customization request into a pricing session.
// Names are applied in request order, so repeated names are extra units.
// Components past a selector cap are dropped.
func NewCustomization(p models.Product, prices pricing.UnitPrices, req models.CustomizationRequest) (*pricing.Session, error) {
	session := pricing.NewSession(p, prices)

	if req.Size != "" || !p.HasSizes() {
		if err := session.SelectSize(req.Size); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSize, req.Size)
		}
	}

	if req.Base != "" {
		if err := session.SelectBase(req.Base); err != nil {
			return nil, fmt.Errorf("%w: base %q", ErrInvalidComponent, req.Base)
		}
	}

	known := make(map[string]bool, len(session.Categories()))
	for _, category := range session.Categories() {
		known[string(category)] = true
	}
	for category, names := range req.Selections {
		if len(names) > 0 && !known[category] {
			return nil, fmt.Errorf("%w: %s is not offered for %s", ErrInvalidComponent, category, p.Name)
		}
		for _, name := range names {
			if !p.Customization.AllowsComponent(category, name) {
				return nil, fmt.Errorf("%w: %s %q", ErrInvalidComponent, category, name)
			}
		}
	}

	for _, category := range session.Categories() {
		for _, name := range req.Selections[string(category)] {
			session.Add(category, name)
		}
	}
	return session, nil
}
