package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront-cart/internal/models"
	"github.com/aaravmahajanofficial/storefront-cart/internal/utils"
	"github.com/google/uuid"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
}

type productRepository struct {
	DB      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewProductRepo(db *sql.DB, dialect Dialect) ProductRepository {
	return &productRepository{DB: db, dialect: dialect, now: func() time.Time { return time.Now().UTC() }}
}

func (r *productRepository) q() querier {
	return boundQuerier{q: r.DB, dialect: r.dialect}
}

const productSelect = `
		SELECT p.id, p.category_id, p.name, p.slug, p.description, p.price_cents, p.currency,
		       p.sku, p.status, p.created_at, p.updated_at,
		       i.quantity, i.low_stock, c.id, c.name, c.slug
		FROM products p
		LEFT JOIN inventory i ON i.product_id = p.id
		LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(row interface{ Scan(dest ...any) error }) (*models.Product, error) {
	product := &models.Product{Images: []models.ProductImage{}}

	var categoryID, joinedCategoryID uuid.NullUUID
	var quantity, lowStock sql.NullInt64
	var categoryName, categorySlug sql.NullString

	err := row.Scan(&product.ID, &categoryID, &product.Name, &product.Slug, &product.Description, &product.PriceCents, &product.Currency,
		&product.SKU, &product.Status, &product.CreatedAt, &product.UpdatedAt,
		&quantity, &lowStock, &joinedCategoryID, &categoryName, &categorySlug)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		id := categoryID.UUID
		product.CategoryID = &id
	}

	// inventory is optional; a missing row means zero stock
	if quantity.Valid {
		product.Inventory = &models.Inventory{Quantity: int(quantity.Int64), LowStock: int(lowStock.Int64)}
	}

	if joinedCategoryID.Valid {
		product.Category = &models.Category{ID: joinedCategoryID.UUID, Name: categoryName.String, Slug: categorySlug.String}
	}

	return product, nil
}

func (r *productRepository) getOne(ctx context.Context, where string, arg any) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product, err := scanProduct(r.q().QueryRowContext(dbCtx, productSelect+` WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := r.attachImages(dbCtx, []*models.Product{product}); err != nil {
		return nil, err
	}

	return product, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return r.getOne(ctx, `p.id = $1`, id)
}

func (r *productRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.getOne(ctx, `p.slug = $1`, slug)
}

func (r *productRepository) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	result := make(map[uuid.UUID]*models.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.q().QueryContext(dbCtx, productSelect+` WHERE p.id IN (`+placeholders(1, len(ids))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0, len(ids))
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, product)
		result[product.ID] = product
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	if err := r.attachImages(dbCtx, products); err != nil {
		return nil, err
	}

	return result, nil
}

// attachImages loads images for products in sort order.
func (r *productRepository) attachImages(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.Product, len(products))
	args := make([]any, 0, len(products))
	for _, p := range products {
		byID[p.ID] = p
		args = append(args, p.ID)
	}

	query := `
		SELECT id, product_id, url, alt, sort_order
		FROM product_images
		WHERE product_id IN (` + placeholders(1, len(args)) + `)
		ORDER BY product_id, sort_order, id`

	rows, err := r.q().QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var image models.ProductImage
		var productID uuid.UUID

		if err := rows.Scan(&image.ID, &productID, &image.URL, &image.Alt, &image.SortOrder); err != nil {
			return fmt.Errorf("scanning product image: %w", err)
		}

		if p, ok := byID[productID]; ok {
			p.Images = append(p.Images, image)
		}
	}

	return rows.Err()
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	now := r.now()
	product.ID = uuid.New()
	product.CreatedAt = now
	product.UpdatedAt = now

	err := withTx(dbCtx, r.DB, func(tx *sql.Tx) error {
		q := boundQuerier{q: tx, dialect: r.dialect}

		_, err := q.ExecContext(dbCtx, `
			INSERT INTO products (id, category_id, name, slug, description, price_cents, currency, sku, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
			product.ID, product.CategoryID, product.Name, product.Slug, product.Description, product.PriceCents, product.Currency,
			product.SKU, product.Status, now)
		if err != nil {
			return fmt.Errorf("inserting product: %w", err)
		}

		if product.Inventory != nil {
			if err := upsertInventory(dbCtx, q, product.ID, product.Inventory, now); err != nil {
				return err
			}
		}

		for i := range product.Images {
			image := &product.Images[i]
			image.ID = uuid.New()

			_, err := q.ExecContext(dbCtx, `
				INSERT INTO product_images (id, product_id, url, alt, sort_order)
				VALUES ($1, $2, $3, $4, $5)`,
				image.ID, product.ID, image.URL, image.Alt, image.SortOrder)
			if err != nil {
				return fmt.Errorf("inserting product image: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return err
	}

	return nil
}

func upsertInventory(ctx context.Context, q querier, productID uuid.UUID, inv *models.Inventory, now time.Time) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO inventory (product_id, quantity, low_stock, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id)
		DO UPDATE SET quantity = excluded.quantity, low_stock = excluded.low_stock, updated_at = excluded.updated_at`,
		productID, inv.Quantity, inv.LowStock, now)
	if err != nil {
		return fmt.Errorf("upserting inventory: %w", err)
	}

	return nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	now := r.now()

	return withTx(dbCtx, r.DB, func(tx *sql.Tx) error {
		q := boundQuerier{q: tx, dialect: r.dialect}

		res, err := q.ExecContext(dbCtx, `
			UPDATE products
			SET category_id = $1, name = $2, description = $3, price_cents = $4, status = $5, updated_at = $6
			WHERE id = $7 AND status <> 'DELETED'`,
			product.CategoryID, product.Name, product.Description, product.PriceCents, product.Status, now, product.ID)
		if err != nil {
			return fmt.Errorf("updating product: %w", err)
		}

		if err := expectAffected(res); err != nil {
			return err
		}

		if product.Inventory != nil {
			if err := upsertInventory(dbCtx, q, product.ID, product.Inventory, now); err != nil {
				return err
			}
		}

		product.UpdatedAt = now

		return nil
	})
}

// DeleteProduct is a soft delete; cart lines keep referencing the row.
func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.q().ExecContext(dbCtx, `UPDATE products SET status = $1, updated_at = $2 WHERE id = $3 AND status <> $1`,
		models.ProductStatusDeleted, r.now(), id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	return expectAffected(res)
}

func (r *productRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	filter.Normalize()

	conditions := []string{`p.status = $1`}
	args := []any{models.ProductStatusActive}

	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(`(p.name %[1]s $%[2]d OR p.description %[1]s $%[2]d)`, r.dialect.Like(), n))
	}

	if c := strings.TrimSpace(filter.Category); c != "" {
		if id, err := uuid.Parse(c); err == nil {
			args = append(args, id)
			conditions = append(conditions, fmt.Sprintf(`p.category_id = $%d`, len(args)))
		} else {
			args = append(args, c)
			conditions = append(conditions, fmt.Sprintf(`c.slug = $%d`, len(args)))
		}
	}

	where := ` WHERE ` + strings.Join(conditions, " AND ")

	var total int

	countQuery := `SELECT COUNT(*) FROM products p LEFT JOIN categories c ON c.id = p.category_id` + where
	if err := r.q().QueryRowContext(dbCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	query := productSelect + where + ` ORDER BY ` + orderBy(filter.Sort) +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.PerPage, filter.Offset())

	rows, err := r.q().QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating products: %w", err)
	}

	if err := r.attachImages(dbCtx, products); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// popular has no ranking signal yet and sorts like the default.
func orderBy(sort models.ProductSort) string {
	switch sort {
	case models.SortNewest:
		return `p.created_at DESC, p.id`
	case models.SortPriceAsc:
		return `p.price_cents ASC, p.id`
	case models.SortPriceDesc:
		return `p.price_cents DESC, p.id`
	default:
		return `p.name ASC, p.id`
	}
}
