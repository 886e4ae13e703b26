package controllers

import (
	"context"
	"net/http"

	"pastry-shop/middleware"
	"pastry-shop/models"

	"github.com/gin-gonic/gin"
)

type Checkouter interface {
	Checkout(ctx context.Context, cartID string, req models.CheckoutRequest) (*models.OrderSummary, error)
}

type CheckoutController struct {
	checkout Checkouter
}

func NewCheckoutController(checkout Checkouter) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

// @Summary Check out the cart
// @Description Builds the order message and the messaging deep links. Nothing is charged or stored.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param X-Cart-Session header string false "Cart session token"
// @Param request body models.CheckoutRequest true "Customer details"
// @Success 200 {object} models.Response{data=models.OrderSummary}
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /checkout [post]
func (ctrl *CheckoutController) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	summary, err := ctrl.checkout.Checkout(c.Request.Context(), middleware.CartID(c), req)
	if err != nil {
		respondError(c, "Checkout failed", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Order ready to send",
		Data:    summary,
	})
}
