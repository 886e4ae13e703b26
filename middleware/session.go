package middleware

import (
	"net/http"
	"time"

	"pastry-shop/models"
	"pastry-shop/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CartSessionHeader = "X-Cart-Session"
	CartSessionCookie = "cart_session"
	cartIDKey         = "cart_id"
)

// CartSessions issues and validates anonymous cart tokens.
type CartSessions interface {
	TokenParser
	NewCartSession() (string, string, error)
	CartSessionTTL() time.Duration
}

// CartSession resolves the caller's cart from the session header or cookie.
// A missing or invalid token starts a new cart, and the new token is sent
// back in both the header and the cookie.
func CartSession(sessions CartSessions, secureCookie bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(CartSessionHeader)
		if token == "" {
			token, _ = c.Cookie(CartSessionCookie)
		}

		if token != "" {
			claims, err := sessions.ParseToken(token)
			if err == nil && claims.Role == utils.RoleCart {
				c.Set(cartIDKey, claims.Subject)
				c.Next()
				return
			}
			logger.Debug("cart session rejected", zap.Error(err))
		}

		cartID, token, err := sessions.NewCartSession()
		if err != nil {
			logger.Error("cart session not issued", zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Message: "Failed to start cart session",
				Error:   err.Error(),
			})
			c.Abort()
			return
		}

		c.Header(CartSessionHeader, token)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CartSessionCookie, token, int(sessions.CartSessionTTL().Seconds()), "/", "", secureCookie, true)
		c.Set(cartIDKey, cartID)
		c.Next()
	}
}

// CartID returns the cart id resolved by CartSession.
func CartID(c *gin.Context) string {
	return c.GetString(cartIDKey)
}
