package api

import (
	"context"
	"log"
	"net/http"
	"sync"

	"pastry-shop/config"
	_ "pastry-shop/docs"
	"pastry-shop/routes"

	"github.com/gin-gonic/gin"
)

var (
	router  http.Handler
	initErr error
	once    sync.Once
)

func initApp() {
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

		app, err := routes.NewApp(context.Background(), cfg, logger)
		if err != nil {
			initErr = err
			return
		}
		router = app.Router
	})
}

// Handler serves the whole storefront API from a serverless function.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		log.Printf("init failed: %v", initErr)
		http.Error(w, `{"success":false,"message":"Service unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	router.ServeHTTP(w, r)
}
