package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	Port     string `env:"APP_PORT" envDefault:"8082"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// PostgreSQL. DATABASE_URL wins over the individual settings.
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5454"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName      string `env:"DB_NAME" envDefault:"pastry_shop"`
	DBSSLMode   string `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"5"`

	// Redis
	RedisURL        string        `env:"REDIS_URL"`
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	CartTTL         time.Duration `env:"CART_TTL" envDefault:"72h"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"10m"`

	// Auth
	JWTSecret         string        `env:"JWT_SECRET" envDefault:"secret"`
	JWTExpiry         time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`
	CartSessionExpiry time.Duration `env:"CART_SESSION_EXPIRY" envDefault:"720h"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	OriginURL         string        `env:"ORIGIN_URL" envDefault:"http://localhost:5173"`

	// Telegram visit notifications
	TelegramBotToken string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string        `env:"TELEGRAM_CHAT_ID"`
	TelegramAPIURL   string        `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
	TelegramTimeout  time.Duration `env:"TELEGRAM_TIMEOUT" envDefault:"5s"`
	NotifyRPS        float64       `env:"NOTIFY_RPS" envDefault:"0.2"`
	NotifyBurst      int           `env:"NOTIFY_BURST" envDefault:"3"`

	// Order hand-off
	WhatsAppPhone   string `env:"WHATSAPP_PHONE"`
	InstagramHandle string `env:"INSTAGRAM_HANDLE"`
	SnapchatHandle  string `env:"SNAPCHAT_HANDLE"`

	CloudinaryURL string `env:"CLOUDINARY_URL"`

	// Order summary mail
	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser  string `env:"SMTP_USER"`
	SMTPPass  string `env:"SMTP_PASS"`
	SMTPFrom  string `env:"SMTP_FROM"`
	ShopEmail string `env:"SHOP_EMAIL"`
}

var AppConfig *Config

// Load parses the environment into a fresh Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads .env when present and fills AppConfig.
func LoadConfig() (*Config, error) {
	if os.Getenv("VERCEL") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found, using system environment variables")
		}
	}

	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	AppConfig = cfg
	return cfg, nil
}

func (c *Config) validate() error {
	if c.NotifyRPS <= 0 {
		return fmt.Errorf("NOTIFY_RPS must be positive, got %v", c.NotifyRPS)
	}
	if c.NotifyBurst < 1 {
		return fmt.Errorf("NOTIFY_BURST must be at least 1, got %d", c.NotifyBurst)
	}
	if c.IsProduction() && c.JWTSecret == "secret" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DSN is the PostgreSQL connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.ShopEmail != ""
}
