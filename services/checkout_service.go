package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"pastry-shop/models"
	"pastry-shop/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const pickupDateLayout = "2006-01-02"

// HandoffConfig names the accounts an order summary is sent to.
type HandoffConfig struct {
	WhatsAppPhone   string
	InstagramHandle string
	SnapchatHandle  string
}

type OrderMailer interface {
	SendOrder(summary models.OrderSummary, total string) error
}

// CheckoutService turns a cart into an order summary and the deep links that
// open it in a messaging app. Orders are not stored.
type CheckoutService struct {
	carts   *CartService
	handoff HandoffConfig
	mailer  OrderMailer
	logger  *zap.Logger
	now     func() time.Time
}

// NewCheckoutService builds the service. mailer may be nil.
func NewCheckoutService(carts *CartService, handoff HandoffConfig, mailer OrderMailer, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		carts:   carts,
		handoff: handoff,
		mailer:  mailer,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, cartID string, req models.CheckoutRequest) (*models.OrderSummary, error) {
	cart, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if err := s.checkPickupDate(req.PickupDate, cart.MaxLeadDays()); err != nil {
		return nil, err
	}

	summary := models.OrderSummary{
		Reference:  newReference(),
		Customer:   strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
		PickupDate: req.PickupDate,
		Note:       strings.TrimSpace(req.Note),
		Lines:      cart.Lines,
		ItemCount:  cart.ItemCount(),
		Total:      cart.Subtotal(),
		Preferred:  req.Channel,
		CreatedAt:  s.now(),
	}
	summary.Message = OrderMessage(summary)
	summary.Links = s.links(summary.Message)

	channel := req.Channel
	if channel == "" {
		channel = "none"
	}
	checkoutsTotal.WithLabelValues(channel).Inc()
	s.logger.Info("order summary created",
		zap.String("reference", summary.Reference),
		zap.String("cart_id", cart.ID),
		zap.Int("items", summary.ItemCount),
		zap.String("total", summary.Total.StringFixed(2)),
		zap.String("channel", channel))

	if s.mailer != nil {
		if err := s.mailer.SendOrder(summary, utils.FormatEuro(summary.Total)); err != nil {
			s.logger.Warn("order mail not sent", zap.String("reference", summary.Reference), zap.Error(err))
		}
	}
	return &summary, nil
}

// checkPickupDate requires a pickup date of today or later, and for preorders
// at least leadDays after today.
func (s *CheckoutService) checkPickupDate(date string, leadDays int) error {
	if date == "" {
		if leadDays > 0 {
			return fmt.Errorf("%w: a pickup date is required", ErrPreorderTooSoon)
		}
		return nil
	}

	now := s.now()
	pickup, err := time.ParseInLocation(pickupDateLayout, date, now.Location())
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidPickupDate, date)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if pickup.Before(today) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidPickupDate, date)
	}
	if earliest := today.AddDate(0, 0, leadDays); pickup.Before(earliest) {
		return fmt.Errorf("%w: earliest pickup is %s", ErrPreorderTooSoon, earliest.Format(pickupDateLayout))
	}
	return nil
}

func (s *CheckoutService) links(message string) models.DeepLinks {
	var links models.DeepLinks
	if phone := digitsOnly(s.handoff.WhatsAppPhone); phone != "" {
		links.WhatsApp = "https://wa.me/" + phone + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	if handle := strings.TrimPrefix(s.handoff.InstagramHandle, "@"); handle != "" {
		links.Instagram = "https://ig.me/m/" + url.PathEscape(handle)
	}
	if handle := strings.TrimPrefix(s.handoff.SnapchatHandle, "@"); handle != "" {
		links.Snapchat = "https://www.snapchat.com/add/" + url.PathEscape(handle)
	}
	return links
}

// OrderMessage is the plain-text summary pasted into the messaging app.
func OrderMessage(summary models.OrderSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bonjour ! Nouvelle commande %s\n", summary.Reference)
	fmt.Fprintf(&b, "Nom : %s\n", summary.Customer)
	if summary.Phone != "" {
		fmt.Fprintf(&b, "Téléphone : %s\n", summary.Phone)
	}
	if summary.PickupDate != "" {
		fmt.Fprintf(&b, "Retrait : %s\n", summary.PickupDate)
	}
	b.WriteString("\n")
	for _, line := range summary.Lines {
		b.WriteString("- ")
		b.WriteString(LineText(line))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nTotal : %s", utils.FormatEuro(summary.Total))
	if summary.Note != "" {
		fmt.Fprintf(&b, "\nNote : %s", summary.Note)
	}
	return b.String()
}

// LineText renders one order line of the message. The size label is shown
// unless it is the implicit size of a product without sizes.
func LineText(line models.OrderLine) string {
	name := line.ProductName
	if line.Size.Label != "" && line.Size.Label != line.ProductName {
		name += " (" + line.Size.Label + ")"
	}

	parts := []string{fmt.Sprintf("%d × %s", line.Quantity, name)}
	if line.Description != "" {
		parts = append(parts, line.Description)
	}
	parts = append(parts, utils.FormatEuro(line.Total()))
	return strings.Join(parts, " — ")
}

func newReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "CMD-" + strings.ToUpper(id[:8])
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
