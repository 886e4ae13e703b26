package controllers

import (
	"context"
	"io"
	"net/http"

	"pastry-shop/models"
	"pastry-shop/utils"

	"github.com/gin-gonic/gin"
)

type AdminAuth interface {
	AdminLogin(req models.AdminLoginRequest) (*models.LoginResponse, error)
}

type CatalogAdmin interface {
	RefreshCatalog(ctx context.Context) (int, error)
	UpdateImage(ctx context.Context, id int, file io.Reader) (*models.Product, error)
}

type AdminController struct {
	auth    AdminAuth
	catalog CatalogAdmin
}

func NewAdminController(auth AdminAuth, catalog CatalogAdmin) *AdminController {
	return &AdminController{auth: auth, catalog: catalog}
}

// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body models.AdminLoginRequest true "Password"
// @Success 200 {object} models.Response{data=models.LoginResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/login [post]
func (ctrl *AdminController) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := ctrl.auth.AdminLogin(req)
	if err != nil {
		respondError(c, "Login failed", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Login successful",
		Data:    resp,
	})
}

// @Summary Refresh catalog
// @Description Drops every cached catalog read after a product change
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/catalog/refresh [post]
func (ctrl *AdminController) RefreshCatalog(c *gin.Context) {
	removed, err := ctrl.catalog.RefreshCatalog(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to refresh catalog", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Catalog refreshed",
		Data:    gin.H{"cache_entries_removed": removed},
	})
}

// @Summary Update product image
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param image formData file true "Product image (max 5MB)"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/products/{id}/image [put]
func (ctrl *AdminController) UpdateProductImage(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		respondBindError(c, err)
		return
	}
	if err := utils.ValidateImage(header, utils.MaxImageSize); err != nil {
		respondError(c, "Invalid image", err)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, "Failed to read image", err)
		return
	}
	defer file.Close()

	product, err := ctrl.catalog.UpdateImage(c.Request.Context(), id, file)
	if err != nil {
		respondError(c, "Failed to update image", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product image updated",
		Data:    product,
	})
}
