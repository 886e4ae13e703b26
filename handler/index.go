package handler

import (
	"log"
	"net/http"
	"sync"

	"pastry-shop/config"
	"pastry-shop/controllers"
	"pastry-shop/middleware"
	"pastry-shop/routes"

	"github.com/gin-gonic/gin"
)

var (
	router  *gin.Engine
	initErr error
	once    sync.Once
)

// initNotify builds a router that only forwards visit notifications, so the
// storefront can report page loads without a database connection.
func initNotify() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg, err := config.LoadConfig()
		if err != nil {
			initErr = err
			return
		}
		logger, err := config.NewLogger(cfg)
		if err != nil {
			initErr = err
			return
		}

		notify := controllers.NewNotifyController(routes.NewNotifier(cfg, logger))
		router = routes.NewRouter(cfg, logger)
		limit := middleware.RateLimit(cfg.NotifyRPS, cfg.NotifyBurst, nil, logger)
		router.POST("/*path", limit, notify.Notify)
	})
}

func Handler(w http.ResponseWriter, r *http.Request) {
	initNotify()
	if initErr != nil {
		log.Printf("init failed: %v", initErr)
		http.Error(w, `{"success":false,"message":"Service unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	router.ServeHTTP(w, r)
}
