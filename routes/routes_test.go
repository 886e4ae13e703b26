package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pastry-shop/config"
	"pastry-shop/controllers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.Load()
	require.NoError(t, err)

	pass := func(c *gin.Context) { c.Next() }
	router := NewRouter(cfg, zap.NewNop())
	SetupRoutes(router, Handlers{
		Products: controllers.NewProductController(nil),
		Carts:    controllers.NewCartController(nil),
		Checkout: controllers.NewCheckoutController(nil),
		Notify:   controllers.NewNotifyController(nil),
		Admin:    controllers.NewAdminController(nil, nil),
		Health: controllers.NewHealthController(map[string]controllers.HealthCheck{
			"database": func(context.Context) error { return nil },
		}),
		CartSession: pass,
		NotifyLimit: pass,
		AdminAuth:   []gin.HandlerFunc{pass},
	})
	return router
}

func TestSetupRoutes_RegistersStorefront(t *testing.T) {
	router := testRouter(t)

	registered := map[string]bool{}
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /metrics",
		"GET /swagger/*any",
		"GET /categories",
		"GET /products",
		"GET /products/:id",
		"POST /products/:id/quote",
		"POST /notify",
		"GET /cart",
		"DELETE /cart",
		"POST /cart/lines",
		"PATCH /cart/lines/:lineId",
		"DELETE /cart/lines/:lineId",
		"POST /checkout",
		"POST /admin/login",
		"POST /admin/catalog/refresh",
		"PUT /admin/products/:id/image",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestSetupRoutes_HealthAndMetrics(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pastry_http_requests_total")
}
