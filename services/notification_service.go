package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pastry-shop/models"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIURL   string
	Timeout  time.Duration
}

// NotificationService forwards storefront visits to a Telegram chat. Calls go
// through a circuit breaker so a Telegram outage does not slow page loads.
type NotificationService struct {
	cfg     TelegramConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *zap.Logger
}

func NewNotificationService(cfg TelegramConfig, logger *zap.Logger) *NotificationService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	settings := gobreaker.Settings{
		Name:        "telegram",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 3 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			notifierBreakerState.Set(breakerStateValue(to))
		},
	}

	return &NotificationService{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:  logger,
	}
}

func (s *NotificationService) Enabled() bool {
	return s.cfg.BotToken != "" && s.cfg.ChatID != ""
}

type telegramMessage struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NotifyVisit sends one visit to the chat. It returns ErrNotifierDisabled
// when no bot is configured and gobreaker.ErrOpenState while the breaker is open.
func (s *NotificationService) NotifyVisit(ctx context.Context, visit models.Visit) error {
	if !s.Enabled() {
		notificationsTotal.WithLabelValues("disabled").Inc()
		return ErrNotifierDisabled
	}

	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.send(ctx, VisitMessage(visit))
	})
	if err != nil {
		notificationsTotal.WithLabelValues("failed").Inc()
		s.logger.Warn("visit notification failed", zap.String("page", visit.Page), zap.Error(err))
		return err
	}
	notificationsTotal.WithLabelValues("sent").Inc()
	return nil
}

func (s *NotificationService) send(ctx context.Context, text string) error {
	body, err := json.Marshal(telegramMessage{ChatID: s.cfg.ChatID, Text: text, DisableWebPagePreview: true})
	if err != nil {
		return fmt.Errorf("marshal telegram message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", s.cfg.APIURL, s.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read telegram response: %w", err)
	}

	var result telegramResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return fmt.Errorf("telegram status %d: undecodable response", resp.StatusCode)
	}
	if resp.StatusCode >= 300 || !result.OK {
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, result.Description)
	}
	return nil
}

// VisitMessage formats a visit for the chat.
func VisitMessage(v models.Visit) string {
	var b strings.Builder
	b.WriteString("Nouvelle visite\n")
	fmt.Fprintf(&b, "Page : %s\n", v.Page)
	writeField(&b, "Provenance", v.Referrer)
	writeField(&b, "Langue", v.Language)
	writeField(&b, "Fuseau", v.Timezone)
	writeField(&b, "Écran", v.Screen)
	writeField(&b, "Navigateur", v.UserAgent)
	writeField(&b, "IP", v.IP)
	if !v.At.IsZero() {
		fmt.Fprintf(&b, "Heure : %s\n", v.At.UTC().Format(time.RFC3339))
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s : %s\n", label, value)
	}
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
