// Package repository implements MongoDB data access for users, products,
// carts and orders, plus the transaction runner the core engines use.
package repository

import (
	"context"
	"errors"

	"github.com/shopswift/backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned by the guarded stock decrement when
	// the available quantity is lower than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// TxRunner executes fn inside a single store transaction. Every repository
// call made with the callback context joins the transaction; if fn returns an
// error the transaction is aborted and nothing is persisted.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// ProductQuery describes a catalog listing request.
type ProductQuery struct {
	Page     int
	Limit    int
	Category string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
}

type ProductRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Find(ctx context.Context, query ProductQuery) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DecrementStock atomically subtracts quantity from the product's stock,
	// guarded so the stored value can never go negative. Returns
	// ErrInsufficientStock when the guard rejects the write.
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
}

type CartRepository interface {
	// FindByUser returns the user's cart or ErrNotFound.
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	// Upsert writes the cart document keyed by its user.
	Upsert(ctx context.Context, cart *models.Cart) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error)
}
