package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"pastry-shop/models"
	"pastry-shop/pricing"
	"pastry-shop/repositories"
	"pastry-shop/utils"

	"go.uber.org/zap"
)

const (
	defaultPageSize = 12
	maxPageSize     = 50
)

type ProductRepository interface {
	ListActive(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	Touch(ctx context.Context) (int64, error)
	SetImage(ctx context.Context, id int, imageID string) error
}

type ImageStore interface {
	URL(publicID string) string
	Upload(ctx context.Context, file io.Reader, name string) (string, error)
	Delete(ctx context.Context, publicID string) error
}

// ProductService serves the catalog. Reads go through the redis cache when
// one is configured.
type ProductService struct {
	repo   ProductRepository
	cache  *repositories.CatalogCache
	images ImageStore
	logger *zap.Logger
	now    func() time.Time
}

func NewProductService(repo ProductRepository, cache *repositories.CatalogCache, images ImageStore, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		cache:  cache,
		images: images,
		logger: logger,
		now:    time.Now,
	}
}

// Catalog returns every active product.
func (s *ProductService) Catalog(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	found, err := s.cache.Get(ctx, repositories.ProductListKey(), &products)
	if err != nil {
		s.logger.Warn("catalog cache read failed", zap.Error(err))
	}
	if found {
		return products, nil
	}

	products, err = s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	for i := range products {
		products[i].ImageURL = s.images.URL(products[i].ImageID)
	}

	if err := s.cache.Set(ctx, repositories.ProductListKey(), products); err != nil {
		s.logger.Warn("catalog cache write failed", zap.Error(err))
	}
	return products, nil
}

func (s *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) (*models.PaginationResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	all, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	matching := make([]models.Product, 0, len(all))
	for _, p := range all {
		if filter.Category == "" || p.Category == filter.Category {
			matching = append(matching, p)
		}
	}

	total := len(matching)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	return &models.PaginationResponse{
		Success: true,
		Message: "Products retrieved successfully",
		Data:    matching[start:end],
		Meta: models.MetaData{
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		},
	}, nil
}

// Categories lists the menu categories that have at least one product.
func (s *ProductService) Categories(ctx context.Context) ([]models.Category, error) {
	products, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}

	categories := []models.Category{}
	for _, slug := range models.CategoryOrder {
		if n := counts[slug]; n > 0 {
			categories = append(categories, models.Category{Slug: slug, Name: models.CategoryName(slug), Count: n})
			delete(counts, slug)
		}
	}
	for slug, n := range counts {
		categories = append(categories, models.Category{Slug: slug, Name: models.CategoryName(slug), Count: n})
	}
	return categories, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	found, err := s.cache.Get(ctx, repositories.ProductKey(id), &p)
	if err != nil {
		s.logger.Warn("product cache read failed", zap.Int("product_id", id), zap.Error(err))
	}
	if found {
		return &p, nil
	}

	product, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	product.ImageURL = s.images.URL(product.ImageID)

	if err := s.cache.Set(ctx, repositories.ProductKey(id), product); err != nil {
		s.logger.Warn("product cache write failed", zap.Int("product_id", id), zap.Error(err))
	}
	return product, nil
}

// UnitPrices returns the extra-unit prices of every component family.
func (s *ProductService) UnitPrices(ctx context.Context) (pricing.UnitPrices, error) {
	products, err := s.Catalog(ctx)
	if err != nil {
		return pricing.UnitPrices{}, err
	}
	return pricing.UnitPricesFrom(products), nil
}

// Quote prices a customization of product id without touching any cart.
func (s *ProductService) Quote(ctx context.Context, id int, req models.CustomizationRequest) (*pricing.Quote, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	prices, err := s.UnitPrices(ctx)
	if err != nil {
		return nil, err
	}

	session, err := NewCustomization(*product, prices, req)
	if err != nil {
		return nil, err
	}
	quote := session.Quote()
	return &quote, nil
}

// RefreshCatalog marks the catalog as changed and drops cached reads.
func (s *ProductService) RefreshCatalog(ctx context.Context) (int, error) {
	touched, err := s.repo.Touch(ctx)
	if err != nil {
		return 0, err
	}
	removed, err := s.cache.Invalidate(ctx)
	if err != nil {
		return 0, fmt.Errorf("invalidate catalog cache: %w", err)
	}
	s.logger.Info("catalog refreshed", zap.Int64("products", touched), zap.Int("cache_entries", removed))
	return removed, nil
}

// UpdateImage uploads a new product image and replaces the old one.
func (s *ProductService) UpdateImage(ctx context.Context, id int, file io.Reader) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}

	publicID, err := s.images.Upload(ctx, file, utils.ImageName(product.Slug, s.now()))
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetImage(ctx, id, publicID); err != nil {
		return nil, err
	}

	if old := product.ImageID; old != "" && old != publicID {
		if err := s.images.Delete(ctx, old); err != nil {
			s.logger.Warn("old product image not deleted", zap.String("public_id", old), zap.Error(err))
		}
	}
	if _, err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("catalog cache not invalidated", zap.Error(err))
	}

	product.ImageID = publicID
	product.ImageURL = s.images.URL(publicID)
	return product, nil
}
