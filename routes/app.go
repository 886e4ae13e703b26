package routes

import (
	"context"

	"pastry-shop/config"
	"pastry-shop/controllers"
	"pastry-shop/database"
	"pastry-shop/libs"
	"pastry-shop/middleware"
	"pastry-shop/repositories"
	"pastry-shop/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App is the wired storefront: connections, services and the gin router.
type App struct {
	Router *gin.Engine
	DB     *pgxpool.Pool
	Redis  *redis.Client

	logger *zap.Logger
	done   chan struct{}
}

// NewApp migrates the catalog, opens connections and builds the router.
// Redis is optional: without it the catalog is read straight from Postgres
// and carts are kept in memory.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := database.Migrate(cfg.DSN(), logger); err != nil {
		return nil, err
	}

	db, err := config.ConnectDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	rdb := config.ConnectRedis(ctx, cfg, logger)

	images, err := libs.NewCloudinary(cfg.CloudinaryURL)
	if err != nil {
		db.Close()
		return nil, err
	}
	if !images.Enabled() {
		logger.Info("cloudinary not configured, product images use stored URLs")
	}

	var carts repositories.CartStore
	if rdb != nil {
		carts = repositories.NewRedisCartStore(rdb, cfg.CartTTL)
	} else {
		logger.Warn("carts kept in memory")
		carts = repositories.NewMemoryCartStore(cfg.CartTTL)
	}

	var mailer services.OrderMailer
	if cfg.SMTPEnabled() {
		mailer = libs.NewMailer(libs.MailerConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
			To:       cfg.ShopEmail,
		})
	}

	productSvc := services.NewProductService(
		repositories.NewProductRepository(db),
		repositories.NewCatalogCache(rdb, cfg.CatalogCacheTTL),
		images,
		logger,
	)
	cartSvc := services.NewCartService(carts, productSvc, logger)
	checkoutSvc := services.NewCheckoutService(cartSvc, services.HandoffConfig{
		WhatsAppPhone:   cfg.WhatsAppPhone,
		InstagramHandle: cfg.InstagramHandle,
		SnapchatHandle:  cfg.SnapchatHandle,
	}, mailer, logger)
	authSvc := services.NewAuthService(services.AuthConfig{
		JWTSecret:         cfg.JWTSecret,
		JWTExpiry:         cfg.JWTExpiry,
		CartSessionExpiry: cfg.CartSessionExpiry,
		AdminPasswordHash: cfg.AdminPasswordHash,
	}, logger)
	notifier := NewNotifier(cfg, logger)

	checks := map[string]controllers.HealthCheck{
		"database": db.Ping,
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	done := make(chan struct{})
	router := NewRouter(cfg, logger)
	SetupRoutes(router, Handlers{
		Products:    controllers.NewProductController(productSvc),
		Carts:       controllers.NewCartController(cartSvc),
		Checkout:    controllers.NewCheckoutController(checkoutSvc),
		Notify:      controllers.NewNotifyController(notifier),
		Admin:       controllers.NewAdminController(authSvc, productSvc),
		Health:      controllers.NewHealthController(checks),
		CartSession: middleware.CartSession(authSvc, cfg.IsProduction(), logger),
		NotifyLimit: middleware.RateLimit(cfg.NotifyRPS, cfg.NotifyBurst, done, logger),
		AdminAuth:   []gin.HandlerFunc{middleware.AuthMiddleware(authSvc), middleware.AdminMiddleware()},
	})

	return &App{Router: router, DB: db, Redis: rdb, logger: logger, done: done}, nil
}

// NewRouter returns a gin engine with the shared middleware chain.
func NewRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.PrometheusMetrics())
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))
	return router
}

func NewNotifier(cfg *config.Config, logger *zap.Logger) *services.NotificationService {
	if !cfg.TelegramEnabled() {
		logger.Info("telegram not configured, visit notifications disabled")
	}
	return services.NewNotificationService(services.TelegramConfig{
		BotToken: cfg.TelegramBotToken,
		ChatID:   cfg.TelegramChatID,
		APIURL:   cfg.TelegramAPIURL,
		Timeout:  cfg.TelegramTimeout,
	}, logger)
}

// Close stops background work and releases connections.
func (a *App) Close() {
	close(a.done)
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.logger.Warn("redis close failed", zap.Error(err))
		}
	}
	a.DB.Close()
	a.logger.Info("connections closed")
}
