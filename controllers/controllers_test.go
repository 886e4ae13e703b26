package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"pastry-shop/models"
	"pastry-shop/pricing"
	"pastry-shop/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeCatalog struct {
	product *models.Product
	quote   *pricing.Quote
	err     error
	filter  models.ProductFilter
}

func (f *fakeCatalog) Categories(context.Context) ([]models.Category, error) {
	return []models.Category{{Slug: models.CategoryCookies, Name: "Cookies", Count: 2}}, f.err
}

func (f *fakeCatalog) ListProducts(_ context.Context, filter models.ProductFilter) (*models.PaginationResponse, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	return &models.PaginationResponse{Success: true, Data: []models.Product{}}, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

func (f *fakeCatalog) Quote(context.Context, int, models.CustomizationRequest) (*pricing.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

type fakeCarts struct {
	cart   *models.Cart
	err    error
	cartID string
	qty    int
}

func (f *fakeCarts) GetCart(_ context.Context, cartID string) (*models.Cart, error) {
	f.cartID = cartID
	return f.cart, f.err
}

func (f *fakeCarts) AddLine(_ context.Context, cartID string, _ models.AddLineRequest) (*models.Cart, *models.OrderLine, error) {
	f.cartID = cartID
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.cart, &f.cart.Lines[0], nil
}

func (f *fakeCarts) UpdateLine(_ context.Context, cartID, _ string, quantity int) (*models.Cart, error) {
	f.cartID = cartID
	f.qty = quantity
	return f.cart, f.err
}

func (f *fakeCarts) RemoveLine(_ context.Context, cartID, _ string) (*models.Cart, error) {
	f.cartID = cartID
	return f.cart, f.err
}

func (f *fakeCarts) ClearCart(_ context.Context, cartID string) error {
	f.cartID = cartID
	return f.err
}

type fakeCheckout struct {
	summary *models.OrderSummary
	err     error
}

func (f *fakeCheckout) Checkout(context.Context, string, models.CheckoutRequest) (*models.OrderSummary, error) {
	return f.summary, f.err
}

type fakeNotifier struct {
	visit models.Visit
	err   error
}

func (f *fakeNotifier) NotifyVisit(_ context.Context, visit models.Visit) error {
	f.visit = visit
	return f.err
}

type fakeAdmin struct {
	err      error
	uploaded []byte
}

func (f *fakeAdmin) AdminLogin(req models.AdminLoginRequest) (*models.LoginResponse, error) {
	if req.Password != "chouquette" {
		return nil, services.ErrInvalidCredentials
	}
	return &models.LoginResponse{Token: "signed", ExpiresIn: 3600}, nil
}

func (f *fakeAdmin) RefreshCatalog(context.Context) (int, error) {
	return 3, f.err
}

func (f *fakeAdmin) UpdateImage(_ context.Context, id int, file io.Reader) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	f.uploaded = data
	return &models.Product{
		ID:       id,
		ImageID:  "pastry/new",
		ImageURL: "https://res.cloudinary.com/demo/image/upload/q_auto,f_auto/pastry/new",
	}, nil
}

func withCart(cartID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("cart_id", cartID)
		c.Next()
	}
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sampleCart() *models.Cart {
	return &models.Cart{
		ID: "cart-1",
		Lines: []models.OrderLine{{
			ID:          "line-1",
			ProductID:   1,
			ProductName: "Cookie Nutella",
			UnitPrice:   decimal.RequireFromString("3.50"),
			Quantity:    2,
		}},
	}
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrProductNotFound, http.StatusNotFound},
		{services.ErrLineNotFound, http.StatusNotFound},
		{services.ErrUnknownSize, http.StatusBadRequest},
		{services.ErrInvalidComponent, http.StatusBadRequest},
		{services.ErrEmptyCart, http.StatusBadRequest},
		{services.ErrInvalidPickupDate, http.StatusBadRequest},
		{fmt.Errorf("%w: selecting", services.ErrNotSubmittable), http.StatusUnprocessableEntity},
		{services.ErrPreorderTooSoon, http.StatusUnprocessableEntity},
		{services.ErrSoldOut, http.StatusConflict},
		{fmt.Errorf("save cart: %w", services.ErrCartConflict), http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{gobreaker.ErrOpenState, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

func productRouter(catalog Catalog) *gin.Engine {
	ctrl := NewProductController(catalog)
	router := gin.New()
	router.GET("/categories", ctrl.GetAllCategories)
	router.GET("/products", ctrl.GetAllProducts)
	router.GET("/products/:id", ctrl.GetProductByID)
	router.POST("/products/:id/quote", ctrl.QuoteProduct)
	return router
}

func TestProductController_Categories(t *testing.T) {
	w := doJSON(productRouter(&fakeCatalog{}), http.MethodGet, "/categories", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"cookies"`)
}

func TestProductController_ListPassesFilter(t *testing.T) {
	catalog := &fakeCatalog{}
	w := doJSON(productRouter(catalog), http.MethodGet, "/products?category=boxes&page=2&limit=5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ProductFilter{Category: "boxes", Page: 2, Limit: 5}, catalog.filter)
}

func TestProductController_GetInvalidID(t *testing.T) {
	w := doJSON(productRouter(&fakeCatalog{}), http.MethodGet, "/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_GetNotFound(t *testing.T) {
	w := doJSON(productRouter(&fakeCatalog{err: services.ErrProductNotFound}), http.MethodGet, "/products/99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestProductController_Quote(t *testing.T) {
	catalog := &fakeCatalog{quote: &pricing.Quote{
		Total:     decimal.RequireFromString("12.00"),
		State:     pricing.ComponentsSufficient,
		CanSubmit: true,
	}}
	w := doJSON(productRouter(catalog), http.MethodPost, "/products/8/quote", models.CustomizationRequest{Size: "6"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"can_submit":true`)
}

func TestProductController_QuoteInvalidComponent(t *testing.T) {
	catalog := &fakeCatalog{err: services.ErrInvalidComponent}
	w := doJSON(productRouter(catalog), http.MethodPost, "/products/8/quote", models.CustomizationRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ---------------------------------------------------------------------------
// Cart
// ---------------------------------------------------------------------------

func cartRouter(carts CartManager) *gin.Engine {
	ctrl := NewCartController(carts)
	router := gin.New()
	router.Use(withCart("cart-1"))
	router.GET("/cart", ctrl.GetCart)
	router.POST("/cart/lines", ctrl.AddLine)
	router.PATCH("/cart/lines/:lineId", ctrl.UpdateLine)
	router.DELETE("/cart/lines/:lineId", ctrl.RemoveLine)
	router.DELETE("/cart", ctrl.ClearCart)
	return router
}

func TestCartController_GetCart(t *testing.T) {
	carts := &fakeCarts{cart: sampleCart()}
	w := doJSON(cartRouter(carts), http.MethodGet, "/cart", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cart-1", carts.cartID)
	assert.Contains(t, w.Body.String(), `"item_count":2`)
}

func TestCartController_AddLine(t *testing.T) {
	carts := &fakeCarts{cart: sampleCart()}
	w := doJSON(cartRouter(carts), http.MethodPost, "/cart/lines", models.AddLineRequest{ProductID: 1, Quantity: 2})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCartController_AddLineValidation(t *testing.T) {
	w := doJSON(cartRouter(&fakeCarts{cart: sampleCart()}), http.MethodPost, "/cart/lines", gin.H{"quantity": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_AddLineNotSubmittable(t *testing.T) {
	carts := &fakeCarts{err: fmt.Errorf("%w: selecting", services.ErrNotSubmittable)}
	w := doJSON(cartRouter(carts), http.MethodPost, "/cart/lines", models.AddLineRequest{ProductID: 8})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCartController_UpdateLineZeroQuantity(t *testing.T) {
	carts := &fakeCarts{cart: &models.Cart{ID: "cart-1"}}
	w := doJSON(cartRouter(carts), http.MethodPatch, "/cart/lines/line-1", models.UpdateLineRequest{Quantity: 0})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, carts.qty)
	assert.Contains(t, w.Body.String(), `"lines":[]`)
}

func TestCartController_RemoveMissingLine(t *testing.T) {
	carts := &fakeCarts{err: services.ErrLineNotFound}
	w := doJSON(cartRouter(carts), http.MethodDelete, "/cart/lines/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_Clear(t *testing.T) {
	carts := &fakeCarts{}
	w := doJSON(cartRouter(carts), http.MethodDelete, "/cart", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cart-1", carts.cartID)
}

// ---------------------------------------------------------------------------
// Checkout
// ---------------------------------------------------------------------------

func checkoutRouter(checkout Checkouter) *gin.Engine {
	router := gin.New()
	router.Use(withCart("cart-1"))
	router.POST("/checkout", NewCheckoutController(checkout).Checkout)
	return router
}

func TestCheckoutController_Success(t *testing.T) {
	checkout := &fakeCheckout{summary: &models.OrderSummary{
		Reference: "CMD-0A1B2C3D",
		Links:     models.DeepLinks{WhatsApp: "https://wa.me/33600000000?text=Bonjour"},
	}}
	w := doJSON(checkoutRouter(checkout), http.MethodPost, "/checkout", models.CheckoutRequest{Name: "Léa"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CMD-0A1B2C3D")
	assert.Contains(t, w.Body.String(), "https://wa.me/33600000000")
}

func TestCheckoutController_Errors(t *testing.T) {
	cases := map[error]int{
		services.ErrEmptyCart:         http.StatusBadRequest,
		services.ErrPreorderTooSoon:   http.StatusUnprocessableEntity,
		services.ErrInvalidPickupDate: http.StatusBadRequest,
	}
	for err, want := range cases {
		w := doJSON(checkoutRouter(&fakeCheckout{err: err}), http.MethodPost, "/checkout", models.CheckoutRequest{Name: "Léa"})
		assert.Equal(t, want, w.Code, err.Error())
	}
}

func TestCheckoutController_ValidatesBody(t *testing.T) {
	w := doJSON(checkoutRouter(&fakeCheckout{}), http.MethodPost, "/checkout", gin.H{"name": "L", "channel": "fax"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ---------------------------------------------------------------------------
// Notify
// ---------------------------------------------------------------------------

func TestNotifyController_Sent(t *testing.T) {
	notifier := &fakeNotifier{}
	router := gin.New()
	router.POST("/notify", NewNotifyController(notifier).Notify)

	req := httptest.NewRequest(http.MethodPost, "/notify", bytes.NewBufferString(`{"page":"/menu","language":"fr-FR"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	req.RemoteAddr = "192.0.2.10:5555"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "/menu", notifier.visit.Page)
	assert.Equal(t, "192.0.2.10", notifier.visit.IP)
	assert.Equal(t, "test-agent", notifier.visit.UserAgent)
	assert.False(t, notifier.visit.At.IsZero())
}

func TestNotifyController_Disabled(t *testing.T) {
	router := gin.New()
	router.POST("/notify", NewNotifyController(&fakeNotifier{err: services.ErrNotifierDisabled}).Notify)

	w := doJSON(router, http.MethodPost, "/notify", models.Visit{Page: "/"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestNotifyController_BreakerOpen(t *testing.T) {
	router := gin.New()
	router.POST("/notify", NewNotifyController(&fakeNotifier{err: gobreaker.ErrOpenState}).Notify)

	w := doJSON(router, http.MethodPost, "/notify", models.Visit{Page: "/"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNotifyController_MissingPage(t *testing.T) {
	router := gin.New()
	router.POST("/notify", NewNotifyController(&fakeNotifier{}).Notify)

	w := doJSON(router, http.MethodPost, "/notify", gin.H{"referrer": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ---------------------------------------------------------------------------
// Admin
// ---------------------------------------------------------------------------

func adminRouter(admin *fakeAdmin) *gin.Engine {
	ctrl := NewAdminController(admin, admin)
	router := gin.New()
	router.POST("/admin/login", ctrl.Login)
	router.POST("/admin/catalog/refresh", ctrl.RefreshCatalog)
	router.PUT("/admin/products/:id/image", ctrl.UpdateProductImage)
	return router
}

func TestAdminController_Login(t *testing.T) {
	router := adminRouter(&fakeAdmin{})

	w := doJSON(router, http.MethodPost, "/admin/login", models.AdminLoginRequest{Password: "chouquette"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"signed"`)

	w = doJSON(router, http.MethodPost, "/admin/login", models.AdminLoginRequest{Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminController_Refresh(t *testing.T) {
	w := doJSON(adminRouter(&fakeAdmin{}), http.MethodPost, "/admin/catalog/refresh", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cache_entries_removed":3`)
}

func imageRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPut, "/admin/products/8/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestAdminController_UpdateImage(t *testing.T) {
	admin := &fakeAdmin{}
	w := httptest.NewRecorder()
	adminRouter(admin).ServeHTTP(w, imageRequest(t, "box.png", []byte("png-bytes")))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte("png-bytes"), admin.uploaded)
	assert.Contains(t, w.Body.String(), `"image_url":"https://res.cloudinary.com/demo/image/upload/q_auto,f_auto/pastry/new"`)
	assert.NotContains(t, w.Body.String(), "image_id")
}

func TestAdminController_UpdateImageRejectsType(t *testing.T) {
	admin := &fakeAdmin{}
	w := httptest.NewRecorder()
	adminRouter(admin).ServeHTTP(w, imageRequest(t, "notes.txt", []byte("hello")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, admin.uploaded)
}

func TestAdminController_UpdateImageMissingProduct(t *testing.T) {
	w := httptest.NewRecorder()
	adminRouter(&fakeAdmin{err: services.ErrProductNotFound}).ServeHTTP(w, imageRequest(t, "box.jpg", []byte("jpg")))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func TestHealthController(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	router := gin.New()
	router.GET("/health", NewHealthController(map[string]HealthCheck{"database": ok}).Health)
	w := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	router = gin.New()
	router.GET("/health", NewHealthController(map[string]HealthCheck{"database": ok, "redis": down}).Health)
	w = doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}
