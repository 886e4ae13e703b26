package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"pastry-shop/models"
	"pastry-shop/repositories"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: 1, Slug: "cookie-classique", Name: "Cookie classique", Category: models.CategoryCookies, Price: price("2.50"), ImageID: "pastry/cookie-classique", IsActive: true},
		{ID: 2, Slug: "cookie-oreo", Name: "Cookie Oreo", Category: models.CategoryCookies, Price: price("3.00"), IsActive: true},
		{ID: 3, Slug: "brownie-classique", Name: "Brownie classique", Category: models.CategoryBrownies, Price: price("3.00"), IsActive: true},
		{
			ID: 8, Slug: "box-mixte", Name: "Box mixte", Category: models.CategoryBoxes, Price: price("15.00"), IsActive: true,
			Sizes: []models.ProductSize{
				{Label: "6", Count: 6, Price: price("15.00")},
				{Label: "12", Count: 12, Price: price("28.00")},
			},
			Customization: &models.Customization{
				Variant: "mixte",
				Options: map[string][]string{"cookie": {"Oreo", "Nutella"}, "brownie": {"Classique", "Noix"}},
			},
		},
		{
			ID: 9, Slug: "tiramisu", Name: "Tiramisu", Category: models.CategoryDesserts, Price: price("5.00"), IsActive: true,
			Sizes: []models.ProductSize{
				{Label: "Petit", Price: price("5.00")},
				{Label: "Grand", Price: price("8.00")},
			},
			Customization: &models.Customization{
				Variant: "base_toppings",
				Options: map[string][]string{"topping": {"Oreo", "Fraise", "Kinder"}},
				Bases:   []string{"Classique", "Speculoos"},
			},
		},
		{
			ID: 11, Slug: "coupe-coulis", Name: "Coupe coulis", Category: models.CategoryCoulis, Price: price("4.50"), IsActive: true,
			Sizes: []models.ProductSize{
				{Label: "Petite", Price: price("4.50"), Included: 2},
				{Label: "Grande", Price: price("7.00"), Included: 4},
			},
			Customization: &models.Customization{
				Variant:  "coulis",
				Options:  map[string][]string{"coulis": {"Nutella", "Pistache", "Fraise"}},
				MaxTotal: map[string]int{"coulis": 8},
			},
		},
		{
			ID: 12, Slug: "layer-cake", Name: "Layer cake", Category: models.CategoryDesserts, Price: price("35.00"), IsActive: true,
			Preorder: &models.Preorder{LeadDays: 3, Note: "3 jours"},
		},
	}
}

// fakeProductRepo serves sampleProducts and counts reads.
type fakeProductRepo struct {
	mu       sync.Mutex
	products []models.Product
	lists    int
	gets     int
	touched  int
	images   map[int]string
	err      error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: sampleProducts(), images: map[int]string{}}
}

func (r *fakeProductRepo) ListActive(_ context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeProductRepo) Touch(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touched++
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) SetImage(_ context.Context, id int, imageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == id {
			r.products[i].ImageID = imageID
			r.images[id] = imageID
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeImages struct {
	uploaded []string
	deleted  []string
	err      error
}

func (f *fakeImages) URL(publicID string) string {
	if publicID == "" {
		return ""
	}
	return "https://img.test/" + publicID
}

func (f *fakeImages) Upload(_ context.Context, file io.Reader, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	f.uploaded = append(f.uploaded, name)
	return "pastry/" + name, nil
}

func (f *fakeImages) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

type productFixture struct {
	service *ProductService
	repo    *fakeProductRepo
	images  *fakeImages
	redis   *miniredis.Miniredis
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := newFakeProductRepo()
	images := &fakeImages{}
	cache := repositories.NewCatalogCache(client, time.Minute)
	return &productFixture{
		service: NewProductService(repo, cache, images, zap.NewNop()),
		repo:    repo,
		images:  images,
		redis:   mr,
	}
}

func newCartFixture(t *testing.T) (*CartService, *productFixture) {
	t.Helper()
	products := newProductFixture(t)
	store := repositories.NewMemoryCartStore(time.Hour)
	return NewCartService(store, products.service, zap.NewNop()), products
}

func addLine(t *testing.T, carts *CartService, cartID string, req models.AddLineRequest) *models.OrderLine {
	t.Helper()
	_, line, err := carts.AddLine(context.Background(), cartID, req)
	require.NoError(t, err)
	return line
}

type failingCartStore struct{}

func (failingCartStore) Get(context.Context, string) (*models.Cart, error) {
	return nil, errors.New("store down")
}

func (failingCartStore) Save(context.Context, *models.Cart) error {
	return fmt.Errorf("store down")
}

func (failingCartStore) Update(context.Context, string, repositories.CartMutation) (*models.Cart, error) {
	return nil, errors.New("store down")
}

func (failingCartStore) Delete(context.Context, string) error {
	return fmt.Errorf("store down")
}
