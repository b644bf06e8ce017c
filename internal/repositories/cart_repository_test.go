package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/storefront-cart/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-cart/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartRepo(t *testing.T) (repository.CartRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return repository.NewCartRepo(db, repository.DialectPostgres), mock
}

var (
	cartCols = []string{"id", "user_id", "status", "created_at", "updated_at"}
	itemCols = []string{"id", "cart_id", "product_id", "quantity", "price_snapshot_cents", "created_at", "updated_at"}
)

func TestNewCartRepo(t *testing.T) {
	repo, _ := newCartRepo(t)
	assert.NotNil(t, repo, "NewCartRepo should return a non-nil repository")
}

func TestCartRepository_GetActiveCart(t *testing.T) {
	ctx := t.Context()
	userID := "user-1"
	cartID := uuid.New()
	now := time.Now().UTC()

	selectActive := regexp.QuoteMeta(`SELECT id, user_id, status, created_at, updated_at FROM carts WHERE user_id = $1 AND status = $2 FOR UPDATE`)

	t.Run("Success - Commits", func(t *testing.T) {
		// Arrange
		repo, mock := newCartRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectActive).
			WithArgs(userID, "ACTIVE").
			WillReturnRows(sqlmock.NewRows(cartCols).AddRow(cartID.String(), userID, "ACTIVE", now, now))
		mock.ExpectCommit()

		// Act
		var cart *models.Cart
		err := repo.WithTx(ctx, func(tx repository.CartTx) error {
			var err error
			cart, err = tx.GetActiveCart(ctx, userID)
			return err
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, cartID, cart.ID)
		assert.Equal(t, models.CartStatusActive, cart.Status)
		assert.NotNil(t, cart.Items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not found rolls back", func(t *testing.T) {
		// Arrange
		repo, mock := newCartRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectActive).
			WithArgs(userID, "ACTIVE").
			WillReturnRows(sqlmock.NewRows(cartCols))
		mock.ExpectRollback()

		// Act
		err := repo.WithTx(ctx, func(tx repository.CartTx) error {
			_, err := tx.GetActiveCart(ctx, userID)
			return err
		})

		// Assert
		assert.ErrorIs(t, err, repository.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Begin error", func(t *testing.T) {
		repo, mock := newCartRepo(t)
		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		err := repo.WithTx(ctx, func(tx repository.CartTx) error { return nil })

		require.Error(t, err)
		assert.Contains(t, err.Error(), "begin transaction")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Commit error", func(t *testing.T) {
		repo, mock := newCartRepo(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := repo.WithTx(ctx, func(tx repository.CartTx) error { return nil })

		require.Error(t, err)
		assert.Contains(t, err.Error(), "commit transaction")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCartRepository_CreateActiveCart(t *testing.T) {
	ctx := t.Context()
	userID := "user-2"
	cartID := uuid.New()
	now := time.Now().UTC()

	t.Run("Success - Insert then re-read", func(t *testing.T) {
		// Arrange
		repo, mock := newCartRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO carts (id, user_id, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $4) ON CONFLICT (user_id) WHERE status = 'ACTIVE' DO NOTHING`)).
			WithArgs(sqlmock.AnyArg(), userID, "ACTIVE", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM carts WHERE user_id = $1 AND status = $2 FOR UPDATE`)).
			WithArgs(userID, "ACTIVE").
			WillReturnRows(sqlmock.NewRows(cartCols).AddRow(cartID.String(), userID, "ACTIVE", now, now))
		mock.ExpectCommit()

		// Act
		var cart *models.Cart
		err := repo.WithTx(ctx, func(tx repository.CartTx) error {
			var err error
			cart, err = tx.CreateActiveCart(ctx, userID)
			return err
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, cartID, cart.ID, "the surviving active cart is returned even when the insert was a no-op")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Insert error", func(t *testing.T) {
		repo, mock := newCartRepo(t)
		dbErr := errors.New("connection reset")
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO carts`)).WillReturnError(dbErr)
		mock.ExpectRollback()

		err := repo.WithTx(ctx, func(tx repository.CartTx) error {
			_, err := tx.CreateActiveCart(ctx, userID)
			return err
		})

		assert.ErrorIs(t, err, dbErr)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCartRepository_Items(t *testing.T) {
	ctx := t.Context()
	cartID := uuid.New()
	itemID := uuid.New()
	productID := uuid.New()
	now := time.Now().UTC()

	t.Run("Success - UpsertItem returns stored line", func(t *testing.T) {
		// Arrange
		repo, mock := newCartRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + excluded.quantity`)).
			WithArgs(sqlmock.AnyArg(), cartID, productID, 2, int64(2499), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM cart_items WHERE cart_id = $1 AND product_id = $2`)).
			WithArgs(cartID, productID).
			WillReturnRows(sqlmock.NewRows(itemCols).AddRow(itemID.String(), cartID.String(), productID.String(), 3, int64(2499), now, now))
		mock.ExpectCommit()

		item := &models.CartItem{CartID: cartID, ProductID: productID, Quantity: 2, PriceSnapshotCents: 2499}

		// Act
		err := repo.WithTx(ctx, func(tx repository.CartTx) error {
			return tx.UpsertItem(ctx, item)
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, itemID, item.ID)
		assert.Equal(t, 3, item.Quantity)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - GetItem scoped to cart", func(t *testing.T) {
		repo, mock := newCartRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`FROM cart_items WHERE id = $1 AND cart_id = $2`)).
			WithArgs(itemID, cartID).
			WillReturnRows(sqlmock.NewRows(itemCols).AddRow(itemID.String(), cartID.String(), productID.String(), 1, int64(1999), now, now))
		mock.ExpectCommit()

		var item *models.CartItem
		err := repo.WithTx(ctx, func(tx repository.CartTx) error {
			var err error
			item, err = tx.GetItem(ctx, cartID, itemID)
			return err
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1999), item.PriceSnapshotCents)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - GetItem in another cart", func(t *testing.T) {
		repo, mock := newCartRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`FROM cart_items WHERE id = $1 AND cart_id = $2`)).
			WithArgs(itemID, cartID).
			WillReturnRows(sqlmock.NewRows(itemCols))
		mock.ExpectRollback()

		err := repo.WithTx(ctx, func(tx repository.CartTx) error {
			_, err := tx.GetItem(ctx, cartID, itemID)
			return err
		})

		assert.ErrorIs(t, err, repository.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - SetItemQuantity", func(t *testing.T) {
		repo, mock := newCartRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE cart_items SET quantity = $1, updated_at = $2 WHERE id = $3`)).
			WithArgs(5, sqlmock.AnyArg(), itemID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.WithTx(ctx, func(tx repository.CartTx) error {
			return tx.SetItemQuantity(ctx, itemID, 5)
		})

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - DeleteItem with no row", func(t *testing.T) {
		repo, mock := newCartRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE id = $1`)).
			WithArgs(itemID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.WithTx(ctx, func(tx repository.CartTx) error {
			return tx.DeleteItem(ctx, itemID)
		})

		assert.ErrorIs(t, err, repository.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - TouchCart", func(t *testing.T) {
		repo, mock := newCartRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE carts SET updated_at = $1 WHERE id = $2`)).
			WithArgs(sqlmock.AnyArg(), cartID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.WithTx(ctx, func(tx repository.CartTx) error {
			return tx.TouchCart(ctx, cartID)
		})

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCartRepository_LoadCart(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()
	now := time.Now().UTC()
	first, second := uuid.New(), uuid.New()

	t.Run("Success - Items in insertion order", func(t *testing.T) {
		// Arrange
		repo, mock := newCartRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`FROM carts WHERE id = $1`)).
			WithArgs(cartID).
			WillReturnRows(sqlmock.NewRows(cartCols).AddRow(cartID.String(), "user-3", "ACTIVE", now, now))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM cart_items WHERE cart_id = $1 ORDER BY created_at, id`)).
			WithArgs(cartID).
			WillReturnRows(sqlmock.NewRows(itemCols).
				AddRow(first.String(), cartID.String(), uuid.NewString(), 3, int64(2499), now, now).
				AddRow(second.String(), cartID.String(), uuid.NewString(), 1, int64(1999), now.Add(time.Second), now))
		mock.ExpectCommit()

		// Act
		var cart *models.Cart
		err := repo.WithTx(ctx, func(tx repository.CartTx) error {
			var err error
			cart, err = tx.LoadCart(ctx, cartID)
			return err
		})

		// Assert
		require.NoError(t, err)
		require.Len(t, cart.Items, 2)
		assert.Equal(t, first, cart.Items[0].ID)
		assert.Equal(t, second, cart.Items[1].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Empty cart has empty items", func(t *testing.T) {
		repo, mock := newCartRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`FROM carts WHERE id = $1`)).
			WithArgs(cartID).
			WillReturnRows(sqlmock.NewRows(cartCols).AddRow(cartID.String(), "user-3", "ACTIVE", now, now))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM cart_items WHERE cart_id = $1`)).
			WithArgs(cartID).
			WillReturnRows(sqlmock.NewRows(itemCols))
		mock.ExpectCommit()

		var cart *models.Cart
		err := repo.WithTx(ctx, func(tx repository.CartTx) error {
			var err error
			cart, err = tx.LoadCart(ctx, cartID)
			return err
		})

		require.NoError(t, err)
		assert.NotNil(t, cart.Items)
		assert.Empty(t, cart.Items)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
