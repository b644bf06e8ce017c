package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront-cart/internal/models"
	"github.com/aaravmahajanofficial/storefront-cart/internal/utils"
	"github.com/google/uuid"
)

// CartRepository runs cart mutations as a single atomic unit.
type CartRepository interface {
	WithTx(ctx context.Context, fn func(tx CartTx) error) error
}

// CartTx is the set of cart statements available inside one transaction.
// Lookups return ErrNotFound when no row matches.
type CartTx interface {
	// GetActiveCart locks the user's ACTIVE cart for the rest of the transaction.
	GetActiveCart(ctx context.Context, userID string) (*models.Cart, error)
	// CreateActiveCart inserts an ACTIVE cart unless a concurrent caller won
	// the race, and returns whichever cart is now active.
	CreateActiveCart(ctx context.Context, userID string) (*models.Cart, error)
	GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	GetItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	// UpsertItem inserts the line or adds its quantity to the existing one.
	// The stored price snapshot of an existing line is kept.
	UpsertItem(ctx context.Context, item *models.CartItem) error
	SetItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	TouchCart(ctx context.Context, cartID uuid.UUID) error
	// LoadCart returns the cart with its items in insertion order.
	LoadCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
}

type cartRepository struct {
	DB      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewCartRepo(db *sql.DB, dialect Dialect) CartRepository {
	return &cartRepository{DB: db, dialect: dialect, now: func() time.Time { return time.Now().UTC() }}
}

func (r *cartRepository) WithTx(ctx context.Context, fn func(tx CartTx) error) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	return withTx(dbCtx, r.DB, func(tx *sql.Tx) error {
		return fn(&cartTx{q: boundQuerier{q: tx, dialect: r.dialect}, dialect: r.dialect, now: r.now})
	})
}

type cartTx struct {
	q       querier
	dialect Dialect
	now     func() time.Time
}

const cartColumns = `id, user_id, status, created_at, updated_at`

func (t *cartTx) GetActiveCart(ctx context.Context, userID string) (*models.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1 AND status = $2` + t.dialect.ForUpdate()

	cart := &models.Cart{}
	err := t.q.QueryRowContext(ctx, query, userID, models.CartStatusActive).
		Scan(&cart.ID, &cart.UserID, &cart.Status, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying active cart: %w", err)
	}

	cart.Items = []models.CartItem{}

	return cart, nil
}

func (t *cartTx) CreateActiveCart(ctx context.Context, userID string) (*models.Cart, error) {
	query := `
		INSERT INTO carts (id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id) WHERE status = 'ACTIVE' DO NOTHING
	`

	if _, err := t.q.ExecContext(ctx, query, uuid.New(), userID, models.CartStatusActive, t.now()); err != nil {
		return nil, fmt.Errorf("inserting cart: %w", err)
	}

	return t.GetActiveCart(ctx, userID)
}

const itemColumns = `id, cart_id, product_id, quantity, price_snapshot_cents, created_at, updated_at`

func scanItem(row interface{ Scan(dest ...any) error }) (*models.CartItem, error) {
	item := &models.CartItem{}
	err := row.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.PriceSnapshotCents, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (t *cartTx) GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	query := `SELECT ` + itemColumns + ` FROM cart_items WHERE id = $1 AND cart_id = $2`

	item, err := scanItem(t.q.QueryRowContext(ctx, query, itemID, cartID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying cart item: %w", err)
	}

	return item, nil
}

func (t *cartTx) GetItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	query := `SELECT ` + itemColumns + ` FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	item, err := scanItem(t.q.QueryRowContext(ctx, query, cartID, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying cart item by product: %w", err)
	}

	return item, nil
}

func (t *cartTx) UpsertItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, price_snapshot_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + excluded.quantity, updated_at = excluded.updated_at
	`

	_, err := t.q.ExecContext(ctx, query, item.ID, item.CartID, item.ProductID, item.Quantity, item.PriceSnapshotCents, t.now())
	if err != nil {
		return fmt.Errorf("upserting cart item: %w", err)
	}

	stored, err := t.GetItemByProduct(ctx, item.CartID, item.ProductID)
	if err != nil {
		return err
	}

	*item = *stored

	return nil
}

func (t *cartTx) SetItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	query := `UPDATE cart_items SET quantity = $1, updated_at = $2 WHERE id = $3`

	res, err := t.q.ExecContext(ctx, query, quantity, t.now(), itemID)
	if err != nil {
		return fmt.Errorf("updating cart item quantity: %w", err)
	}

	return expectAffected(res)
}

func (t *cartTx) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	res, err := t.q.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("deleting cart item: %w", err)
	}

	return expectAffected(res)
}

func (t *cartTx) TouchCart(ctx context.Context, cartID uuid.UUID) error {
	if _, err := t.q.ExecContext(ctx, `UPDATE carts SET updated_at = $1 WHERE id = $2`, t.now(), cartID); err != nil {
		return fmt.Errorf("touching cart: %w", err)
	}

	return nil
}

func (t *cartTx) LoadCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	cart := &models.Cart{}

	err := t.q.QueryRowContext(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, cartID).
		Scan(&cart.ID, &cart.UserID, &cart.Status, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying cart: %w", err)
	}

	rows, err := t.q.QueryContext(ctx, `SELECT `+itemColumns+` FROM cart_items WHERE cart_id = $1 ORDER BY created_at, id`, cartID)
	if err != nil {
		return nil, fmt.Errorf("querying cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []models.CartItem{}

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cart item: %w", err)
		}
		cart.Items = append(cart.Items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cart items: %w", err)
	}

	return cart, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}
