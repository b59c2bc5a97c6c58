// Package cache is the Redis read-through layer for carts, products and
// orders. The cache is advisory: failures are logged and the caller falls
// back to the store of record, and no business decision is ever made from a
// cached value.
package cache

import (
	"context"

	"github.com/shopswift/backend/models"
	"github.com/shopswift/backend/repository"
)

// Cache is the interface the service layer uses. Lookups report a miss as
// found=false; write and delete failures are swallowed after logging because
// TTL expiry bounds any staleness.
type Cache interface {
	GetCart(ctx context.Context, userID string) (*models.CartDetail, bool)
	SetCart(ctx context.Context, userID string, cart *models.CartDetail)
	DeleteCart(ctx context.Context, userID string)

	GetProduct(ctx context.Context, productID string) (*models.Product, bool)
	SetProduct(ctx context.Context, productID string, product *models.Product)
	DeleteProduct(ctx context.Context, productID string)

	GetProductList(ctx context.Context, query repository.ProductQuery) (*models.ProductList, bool)
	SetProductList(ctx context.Context, query repository.ProductQuery, list *models.ProductList)
	// InvalidateProductLists drops every cached listing page by bumping the
	// list version.
	InvalidateProductLists(ctx context.Context)

	GetOrder(ctx context.Context, orderID string) (*models.Order, bool)
	SetOrder(ctx context.Context, order *models.Order)
}
