package controllers

import (
	"errors"
	"net/http"

	"pastry-shop/models"
	"pastry-shop/services"
	"pastry-shop/utils"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker/v2"
)

// statusFor maps service errors to HTTP statuses. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrProductNotFound), errors.Is(err, services.ErrLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUnknownSize),
		errors.Is(err, services.ErrInvalidComponent),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidPickupDate),
		errors.Is(err, utils.ErrImageTooLarge),
		errors.Is(err, utils.ErrImageType):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotSubmittable), errors.Is(err, services.ErrPreorderTooSoon):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrSoldOut), errors.Is(err, services.ErrCartConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Message: "Invalid request",
		Error:   err.Error(),
	})
}
