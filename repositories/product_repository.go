package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pastry-shop/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// DBTX is the part of pgxpool.Pool the repositories use.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type ProductRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

const (
	productColumns = `id, slug, name, category, description, price::text, image_id, badges, ` +
		`preorder_lead_days, preorder_note, customization, is_active, created_at, updated_at`
	sizeColumns = `product_id, label, count, volume, price::text, included`
)

// ListActive returns every active product with its sizes, in catalog order.
func (r *ProductRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = true ORDER BY position, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	index := map[int]int{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		index[p.ID] = len(products)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if len(products) == 0 {
		return products, nil
	}

	sizes, err := r.db.Query(ctx, `SELECT `+sizeColumns+` FROM product_sizes ORDER BY product_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list product sizes: %w", err)
	}
	defer sizes.Close()

	for sizes.Next() {
		var productID int
		size, err := scanSize(sizes, &productID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[productID]; ok {
			products[i].Sizes = append(products[i].Sizes, size)
		}
	}
	if err := sizes.Err(); err != nil {
		return nil, fmt.Errorf("list product sizes: %w", err)
	}
	return products, nil
}

// GetByID returns an active product with its sizes, or ErrNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND is_active = true`

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT `+sizeColumns+` FROM product_sizes WHERE product_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get product sizes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int
		size, err := scanSize(rows, &productID)
		if err != nil {
			return nil, err
		}
		p.Sizes = append(p.Sizes, size)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get product sizes: %w", err)
	}
	return &p, nil
}

// Touch bumps updated_at on every product, marking the catalog as changed.
func (r *ProductRepository) Touch(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE products SET updated_at = $1 WHERE is_active = true`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("touch products: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetImage stores the image public id of a product.
func (r *ProductRepository) SetImage(ctx context.Context, id int, imageID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET image_id = $1, updated_at = $2 WHERE id = $3`, imageID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("set product image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var (
		p             models.Product
		price         string
		leadDays      *int32
		preorderNote  string
		customization []byte
	)
	err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Category, &p.Description, &price, &p.ImageID, &p.Badges,
		&leadDays, &preorderNote, &customization, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, err
	}
	if err != nil {
		return p, fmt.Errorf("scan product: %w", err)
	}

	if p.Price, err = decimal.NewFromString(price); err != nil {
		return p, fmt.Errorf("product %d price %q: %w", p.ID, price, err)
	}
	if leadDays != nil && *leadDays > 0 {
		p.Preorder = &models.Preorder{LeadDays: int(*leadDays), Note: preorderNote}
	}
	if len(customization) > 0 {
		var c models.Customization
		if err := json.Unmarshal(customization, &c); err != nil {
			return p, fmt.Errorf("product %d customization: %w", p.ID, err)
		}
		p.Customization = &c
	}
	return p, nil
}

func scanSize(row pgx.Row, productID *int) (models.ProductSize, error) {
	var (
		size  models.ProductSize
		price string
	)
	if err := row.Scan(productID, &size.Label, &size.Count, &size.Volume, &price, &size.Included); err != nil {
		return size, fmt.Errorf("scan product size: %w", err)
	}
	var err error
	if size.Price, err = decimal.NewFromString(price); err != nil {
		return size, fmt.Errorf("size %q price %q: %w", size.Label, price, err)
	}
	return size, nil
}
