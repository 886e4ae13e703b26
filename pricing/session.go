package pricing

import (
	"errors"

	"pastry-shop/models"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownSize    = errors.New("unknown size")
	ErrUnknownBase    = errors.New("unknown base")
	ErrNotSubmittable = errors.New("customization is incomplete")
)

// Session is one customization flow: a product, the chosen size and base, and
// one selector per component family. It is owned by a single caller and
// discarded once the line is added to the cart.
type Session struct {
	product    models.Product
	variant    Variant
	prices     UnitPrices
	size       *models.ProductSize
	base       string
	categories []Category
	selectors  map[Category]*Selector
}

// Quote is a snapshot of a session's price and wizard state.
type Quote struct {
	Size        *models.ProductSize `json:"size,omitempty"`
	Base        string              `json:"base,omitempty"`
	Rules       []Rule              `json:"rules,omitempty"`
	Surcharges  []Surcharge         `json:"surcharges,omitempty"`
	ExtraPrice  decimal.Decimal     `json:"extra_price"`
	Total       decimal.Decimal     `json:"total"`
	Description string              `json:"description"`
	State       State               `json:"state"`
	CanSubmit   bool                `json:"can_submit"`
}

func NewSession(p models.Product, prices UnitPrices) *Session {
	variant := VariantNone
	if p.Customization != nil {
		variant = ParseVariant(p.Customization.Variant)
	}

	s := &Session{
		product:   p,
		variant:   variant,
		prices:    prices,
		selectors: make(map[Category]*Selector),
	}
	for _, category := range variant.Categories() {
		s.categories = append(s.categories, category)
		s.selectors[category] = NewSelector(maxTotalFor(p, category))
	}
	return s
}

func maxTotalFor(p models.Product, category Category) int {
	if p.Customization != nil {
		if n := p.Customization.MaxTotal[string(category)]; n > 0 {
			return n
		}
	}
	if category == CategoryCoulis {
		return DefaultCoulisMax
	}
	return 0
}

func (s *Session) Product() models.Product { return s.product }
func (s *Session) Variant() Variant         { return s.variant }
func (s *Session) Categories() []Category   { return s.categories }

// SelectSize picks a size by label. Selections made so far are kept.
func (s *Session) SelectSize(label string) error {
	size, ok := FindSize(s.product, label)
	if !ok {
		return ErrUnknownSize
	}
	s.size = &size
	return nil
}

// SelectBase sets the single-choice base. An empty name clears it.
func (s *Session) SelectBase(name string) error {
	if name == "" {
		s.base = ""
		return nil
	}
	if !s.variant.NeedsBase() || !s.product.Customization.AllowsBase(name) {
		return ErrUnknownBase
	}
	s.base = name
	return nil
}

// Add adds one unit of name to a family. It is a no-op returning false when the
// family does not belong to the product or its selector is full.
func (s *Session) Add(category Category, name string) bool {
	sel, ok := s.selectors[category]
	if !ok {
		return false
	}
	return sel.Add(name)
}

func (s *Session) Remove(category Category, name string) bool {
	sel, ok := s.selectors[category]
	if !ok {
		return false
	}
	return sel.Remove(name)
}

func (s *Session) Clear(category Category) {
	if sel, ok := s.selectors[category]; ok {
		sel.Clear()
	}
}

// Reset drops the size, the base and every selection.
func (s *Session) Reset() {
	s.size = nil
	s.base = ""
	for _, sel := range s.selectors {
		sel.Clear()
	}
}

func (s *Session) Counts(category Category) map[string]int {
	sel, ok := s.selectors[category]
	if !ok {
		return map[string]int{}
	}
	return sel.Counts()
}

func (s *Session) Selector(category Category) (*Selector, bool) {
	sel, ok := s.selectors[category]
	return sel, ok
}

func (s *Session) rules() []Rule {
	if s.size == nil {
		return nil
	}
	return RulesFor(s.variant, *s.size, s.prices)
}

func (s *Session) progress() Progress {
	selected := make(map[Category]int, len(s.selectors))
	for category, sel := range s.selectors {
		selected[category] = sel.Len()
	}
	return Progress{
		HasSize:   s.size != nil,
		NeedsBase: s.variant.NeedsBase(),
		HasBase:   s.base != "",
		Selected:  selected,
	}
}

func (s *Session) State() State {
	return Evaluate(s.rules(), s.progress())
}

func (s *Session) CanSubmit() bool {
	return s.State() == ComponentsSufficient
}

// Quote prices the session as it stands. Without a size the total is zero.
func (s *Session) Quote() Quote {
	rules := s.rules()
	progress := s.progress()
	q := Quote{
		Base:        s.base,
		Rules:       rules,
		ExtraPrice:  decimal.Zero,
		Total:       decimal.Zero,
		Description: s.Description(),
		State:       Evaluate(rules, progress),
	}
	q.CanSubmit = q.State == ComponentsSufficient
	if s.size == nil {
		return q
	}

	size := *s.size
	q.Size = &size
	q.Surcharges = Surcharges(rules, progress.Selected)
	q.ExtraPrice = ExtraTotal(q.Surcharges)
	q.Total = LineTotal(size, q.Surcharges)
	return q
}

// Description renders the base and selections of the session. Products with
// several parts get a category label in front of each part.
func (s *Session) Description() string {
	parts := make([]descriptionPart, 0, len(s.categories)+1)
	if s.base != "" {
		parts = append(parts, descriptionPart{label: "Base", items: []string{s.base}})
	}
	for _, category := range s.categories {
		parts = append(parts, descriptionPart{label: category.Label(), items: s.selectors[category].Items()})
	}
	return describeParts(parts, s.variant.labelled())
}

// Finish turns a submittable session into an order line of qty units. The
// caller assigns the line id.
func (s *Session) Finish(qty int) (models.OrderLine, error) {
	if !s.CanSubmit() {
		return models.OrderLine{}, ErrNotSubmittable
	}
	if qty < 1 {
		qty = 1
	}

	q := s.Quote()
	line := models.OrderLine{
		ProductID:   s.product.ID,
		ProductName: s.product.Name,
		Size:        *q.Size,
		Base:        s.base,
		Description: q.Description,
		UnitPrice:   q.Total,
		Quantity:    qty,
		Preorder:    s.product.Preorder,
	}
	for _, category := range s.categories {
		if items := s.selectors[category].Items(); len(items) > 0 {
			if line.Selections == nil {
				line.Selections = make(map[string][]string, len(s.categories))
			}
			line.Selections[string(category)] = items
		}
	}
	return line, nil
}
