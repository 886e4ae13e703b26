package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pastry-shop/services"
	"pastry-shop/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuth() *services.AuthService {
	return services.NewAuthService(services.AuthConfig{
		JWTSecret:         testSecret,
		JWTExpiry:         time.Hour,
		CartSessionExpiry: 24 * time.Hour,
	}, zap.NewNop())
}

func signed(t *testing.T, subject, role string) string {
	t.Helper()
	token, err := utils.GenerateToken(testSecret, subject, role, time.Hour)
	require.NoError(t, err)
	return token
}

// ---------------------------------------------------------------------------
// Admin auth
// ---------------------------------------------------------------------------

func adminRouter() *gin.Engine {
	router := gin.New()
	router.Use(AuthMiddleware(newAuth()), AdminMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString("subject")})
	})
	return router
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	adminRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header required")
}

func TestAuthMiddleware_BadFormat(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	adminRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid authorization header format")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	adminRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminMiddleware_RejectsCartToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, "cart-1", utils.RoleCart))
	w := httptest.NewRecorder()
	adminRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminMiddleware_AcceptsAdminToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, utils.RoleAdmin, utils.RoleAdmin))
	w := httptest.NewRecorder()
	adminRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subject":"admin"`)
}

// ---------------------------------------------------------------------------
// Cart session
// ---------------------------------------------------------------------------

func sessionRouter() *gin.Engine {
	router := gin.New()
	router.Use(CartSession(newAuth(), false, zap.NewNop()))
	router.GET("/cart", func(c *gin.Context) {
		c.String(http.StatusOK, CartID(c))
	})
	return router
}

func TestCartSession_IssuesNewSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	sessionRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	token := w.Header().Get(CartSessionHeader)
	require.NotEmpty(t, token)
	assert.Contains(t, w.Header().Get("Set-Cookie"), CartSessionCookie+"=")

	claims, err := utils.ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, utils.RoleCart, claims.Role)
	assert.Equal(t, claims.Subject, w.Body.String())
}

func TestCartSession_ReusesHeaderToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(CartSessionHeader, signed(t, "cart-42", utils.RoleCart))
	w := httptest.NewRecorder()
	sessionRouter().ServeHTTP(w, req)

	assert.Equal(t, "cart-42", w.Body.String())
	assert.Empty(t, w.Header().Get(CartSessionHeader))
}

func TestCartSession_ReusesCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: CartSessionCookie, Value: signed(t, "cart-7", utils.RoleCart)})
	w := httptest.NewRecorder()
	sessionRouter().ServeHTTP(w, req)

	assert.Equal(t, "cart-7", w.Body.String())
}

func TestCartSession_AdminTokenStartsNewCart(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(CartSessionHeader, signed(t, utils.RoleAdmin, utils.RoleAdmin))
	w := httptest.NewRecorder()
	sessionRouter().ServeHTTP(w, req)

	assert.NotEqual(t, utils.RoleAdmin, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(CartSessionHeader))
}

// ---------------------------------------------------------------------------
// Rate limit
// ---------------------------------------------------------------------------

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	store := newVisitorStore(0.001, 2, time.Minute)
	router := gin.New()
	router.Use(rateLimit(store, zap.NewNop()))
	router.POST("/notify", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/notify", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/notify", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestVisitorStore_Cleanup(t *testing.T) {
	store := newVisitorStore(1, 1, time.Minute)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.nowFunc = func() time.Time { return now }

	store.getVisitor("a")
	now = now.Add(30 * time.Second)
	store.getVisitor("b")
	now = now.Add(45 * time.Second)

	store.cleanup()
	assert.Equal(t, 1, store.len())
}

// ---------------------------------------------------------------------------
// Logging, metrics, CORS
// ---------------------------------------------------------------------------

func TestRequestLoggerAndMetrics_PassThrough(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(zap.NewNop()), PrometheusMetrics())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSMiddleware_AllowsConfiguredOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware("https://patisserie.example"))
	router.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "https://patisserie.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", CartSessionHeader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://patisserie.example", w.Header().Get("Access-Control-Allow-Origin"))
}
