package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pastry-shop/models"
	"pastry-shop/services"

	"github.com/gin-gonic/gin"
)

type VisitNotifier interface {
	NotifyVisit(ctx context.Context, visit models.Visit) error
}

type NotifyController struct {
	notifier VisitNotifier
	now      func() time.Time
}

func NewNotifyController(notifier VisitNotifier) *NotifyController {
	return &NotifyController{notifier: notifier, now: time.Now}
}

// @Summary Report a storefront visit
// @Description Forwards page load metadata to the shop's Telegram chat
// @Tags Notify
// @Accept json
// @Produce json
// @Param request body models.Visit true "Visit"
// @Success 202 {object} models.Response
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /notify [post]
func (ctrl *NotifyController) Notify(c *gin.Context) {
	var visit models.Visit
	if err := c.ShouldBindJSON(&visit); err != nil {
		respondBindError(c, err)
		return
	}
	visit.IP = c.ClientIP()
	visit.At = ctrl.now()
	if visit.UserAgent == "" {
		visit.UserAgent = c.Request.UserAgent()
	}

	err := ctrl.notifier.NotifyVisit(c.Request.Context(), visit)
	if errors.Is(err, services.ErrNotifierDisabled) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		respondError(c, "Notification failed", err)
		return
	}

	c.JSON(http.StatusAccepted, models.Response{
		Success: true,
		Message: "Visit reported",
	})
}
