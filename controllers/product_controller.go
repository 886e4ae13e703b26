package controllers

import (
	"context"
	"net/http"
	"strconv"

	"pastry-shop/models"
	"pastry-shop/pricing"

	"github.com/gin-gonic/gin"
)

// Catalog is the read side of the product service.
type Catalog interface {
	Categories(ctx context.Context) ([]models.Category, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) (*models.PaginationResponse, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	Quote(ctx context.Context, id int, req models.CustomizationRequest) (*pricing.Quote, error)
}

type ProductController struct {
	catalog Catalog
}

func NewProductController(catalog Catalog) *ProductController {
	return &ProductController{catalog: catalog}
}

// @Summary Get all categories
// @Description Get the menu categories in display order
// @Tags Categories
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Category}
// @Failure 500 {object} models.ErrorResponse
// @Router /categories [get]
func (ctrl *ProductController) GetAllCategories(c *gin.Context) {
	categories, err := ctrl.catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to load categories", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Categories retrieved successfully",
		Data:    categories,
	})
}

// @Summary Get all products
// @Description Get paginated list of products, optionally filtered by category
// @Tags Products
// @Produce json
// @Param category query string false "Category slug"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(12)
// @Success 200 {object} models.PaginationResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	resp, err := ctrl.catalog.ListProducts(c.Request.Context(), models.ProductFilter{
		Category: c.Query("category"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, "Failed to load products", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get product by ID
// @Description Get one product with its sizes and customization rules
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := ctrl.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to load product", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product retrieved successfully",
		Data:    product,
	})
}

// @Summary Quote a customization
// @Description Replay size, base and component choices and return the live price
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body models.CustomizationRequest true "Customization"
// @Success 200 {object} models.Response{data=pricing.Quote}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id}/quote [post]
func (ctrl *ProductController) QuoteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req models.CustomizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	quote, err := ctrl.catalog.Quote(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "Failed to price customization", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Quote computed",
		Data:    quote,
	})
}

func productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid product ID",
		})
		return 0, false
	}
	return id, true
}
