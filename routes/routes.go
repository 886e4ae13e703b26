package routes

import (
	"pastry-shop/controllers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups the controllers and the per-route middleware.
type Handlers struct {
	Products *controllers.ProductController
	Carts    *controllers.CartController
	Checkout *controllers.CheckoutController
	Notify   *controllers.NotifyController
	Admin    *controllers.AdminController
	Health   *controllers.HealthController

	CartSession gin.HandlerFunc
	NotifyLimit gin.HandlerFunc
	AdminAuth   []gin.HandlerFunc
}

func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/categories", h.Products.GetAllCategories)
	router.GET("/products", h.Products.GetAllProducts)
	router.GET("/products/:id", h.Products.GetProductByID)
	router.POST("/products/:id/quote", h.Products.QuoteProduct)

	router.POST("/notify", h.NotifyLimit, h.Notify.Notify)

	cart := router.Group("/")
	cart.Use(h.CartSession)
	{
		cart.GET("/cart", h.Carts.GetCart)
		cart.DELETE("/cart", h.Carts.ClearCart)
		cart.POST("/cart/lines", h.Carts.AddLine)
		cart.PATCH("/cart/lines/:lineId", h.Carts.UpdateLine)
		cart.DELETE("/cart/lines/:lineId", h.Carts.RemoveLine)
		cart.POST("/checkout", h.Checkout.Checkout)
	}

	router.POST("/admin/login", h.Admin.Login)

	admin := router.Group("/admin")
	admin.Use(h.AdminAuth...)
	{
		admin.POST("/catalog/refresh", h.Admin.RefreshCatalog)
		admin.PUT("/products/:id/image", h.Admin.UpdateProductImage)
	}
}
