package controllers

import (
	"context"
	"net/http"

	"pastry-shop/middleware"
	"pastry-shop/models"

	"github.com/gin-gonic/gin"
)

type CartManager interface {
	GetCart(ctx context.Context, cartID string) (*models.Cart, error)
	AddLine(ctx context.Context, cartID string, req models.AddLineRequest) (*models.Cart, *models.OrderLine, error)
	UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*models.Cart, error)
	RemoveLine(ctx context.Context, cartID, lineID string) (*models.Cart, error)
	ClearCart(ctx context.Context, cartID string) error
}

type CartController struct {
	carts CartManager
}

func NewCartController(carts CartManager) *CartController {
	return &CartController{carts: carts}
}

// @Summary Get cart
// @Tags Cart
// @Produce json
// @Param X-Cart-Session header string false "Cart session token"
// @Success 200 {object} models.Response{data=models.CartView}
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart, err := ctrl.carts.GetCart(c.Request.Context(), middleware.CartID(c))
	if err != nil {
		respondError(c, "Failed to load cart", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart retrieved successfully",
		Data:    cart.View(),
	})
}

// @Summary Add a line to the cart
// @Description Customizes the product and adds it. Identical lines are merged.
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Cart-Session header string false "Cart session token"
// @Param request body models.AddLineRequest true "Line"
// @Success 201 {object} models.Response{data=models.CartView}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /cart/lines [post]
func (ctrl *CartController) AddLine(c *gin.Context) {
	var req models.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, _, err := ctrl.carts.AddLine(c.Request.Context(), middleware.CartID(c), req)
	if err != nil {
		respondError(c, "Failed to add line", err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Line added to cart",
		Data:    cart.View(),
	})
}

// @Summary Update line quantity
// @Description A quantity of zero removes the line
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Cart-Session header string false "Cart session token"
// @Param lineId path string true "Line ID"
// @Param request body models.UpdateLineRequest true "Quantity"
// @Success 200 {object} models.Response{data=models.CartView}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /cart/lines/{lineId} [patch]
func (ctrl *CartController) UpdateLine(c *gin.Context) {
	var req models.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := ctrl.carts.UpdateLine(c.Request.Context(), middleware.CartID(c), c.Param("lineId"), req.Quantity)
	if err != nil {
		respondError(c, "Failed to update line", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart updated",
		Data:    cart.View(),
	})
}

// @Summary Remove a line
// @Tags Cart
// @Produce json
// @Param X-Cart-Session header string false "Cart session token"
// @Param lineId path string true "Line ID"
// @Success 200 {object} models.Response{data=models.CartView}
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /cart/lines/{lineId} [delete]
func (ctrl *CartController) RemoveLine(c *gin.Context) {
	cart, err := ctrl.carts.RemoveLine(c.Request.Context(), middleware.CartID(c), c.Param("lineId"))
	if err != nil {
		respondError(c, "Failed to remove line", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Line removed",
		Data:    cart.View(),
	})
}

// @Summary Clear cart
// @Tags Cart
// @Produce json
// @Param X-Cart-Session header string false "Cart session token"
// @Success 200 {object} models.Response
// @Router /cart [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	if err := ctrl.carts.ClearCart(c.Request.Context(), middleware.CartID(c)); err != nil {
		respondError(c, "Failed to clear cart", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart cleared",
	})
}
