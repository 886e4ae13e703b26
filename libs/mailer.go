package libs

import (
	"fmt"
	"html"
	"strings"

	"pastry-shop/models"

	"gopkg.in/gomail.v2"
)

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends order summaries to the shop inbox.
type Mailer struct {
	sender MailSender
	from   string
	to     string
}

type MailerConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

func NewMailer(cfg MailerConfig) *Mailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return NewMailerWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), from, cfg.To)
}

func NewMailerWithSender(sender MailSender, from, to string) *Mailer {
	return &Mailer{sender: sender, from: from, to: to}
}

// OrderMessage builds the mail for a summary without sending it.
func (m *Mailer) OrderMessage(summary models.OrderSummary, total string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", fmt.Sprintf("Nouvelle commande %s - %s", summary.Reference, summary.Customer))
	if summary.Phone != "" {
		msg.SetHeader("X-Customer-Phone", summary.Phone)
	}
	msg.SetBody("text/plain", summary.Message)
	msg.AddAlternative("text/html", orderHTML(summary, total))
	return msg
}

func (m *Mailer) SendOrder(summary models.OrderSummary, total string) error {
	if err := m.sender.DialAndSend(m.OrderMessage(summary, total)); err != nil {
		return fmt.Errorf("send order %s: %w", summary.Reference, err)
	}
	return nil
}

func orderHTML(summary models.OrderSummary, total string) string {
	var b strings.Builder
	b.WriteString("<h2>Commande ")
	b.WriteString(html.EscapeString(summary.Reference))
	b.WriteString("</h2><p>Client : ")
	b.WriteString(html.EscapeString(summary.Customer))
	if summary.PickupDate != "" {
		b.WriteString("<br>Retrait : ")
		b.WriteString(html.EscapeString(summary.PickupDate))
	}
	b.WriteString("</p><ul>")
	for _, line := range summary.Lines {
		b.WriteString("<li>")
		b.WriteString(fmt.Sprintf("%d × %s", line.Quantity, html.EscapeString(line.ProductName)))
		if line.Description != "" {
			b.WriteString(" (")
			b.WriteString(html.EscapeString(line.Description))
			b.WriteString(")")
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul><p><strong>Total : ")
	b.WriteString(html.EscapeString(total))
	b.WriteString("</strong></p>")
	if summary.Note != "" {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(summary.Note))
		b.WriteString("</p>")
	}
	return b.String()
}
