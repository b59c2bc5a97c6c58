package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopswift/backend/cache"
	apperrors "github.com/shopswift/backend/errors"
	"github.com/shopswift/backend/models"
	"github.com/shopswift/backend/repository"
)

type CartItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CartService keeps a user's cart consistent with current stock. Every
// mutation that depends on a stock check runs the check and the cart write in
// one transaction, so two concurrent requests cannot both pass against the
// same stale count.
type CartService interface {
	Get(ctx context.Context, userID string) (*models.CartDetail, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*models.CartDetail, error)
	UpdateItem(ctx context.Context, userID, productID string, quantity int) (*models.CartDetail, error)
	RemoveItem(ctx context.Context, userID, productID string) (*models.CartDetail, error)
	Clear(ctx context.Context, userID string) error
}

type cartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	tx       repository.TxRunner
	cache    cache.Cache
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, tx repository.TxRunner, c cache.Cache) CartService {
	return &cartService{carts: carts, products: products, tx: tx, cache: c}
}

func (s *cartService) Get(ctx context.Context, userID string) (*models.CartDetail, error) {
	uid, err := parseObjectID(userID, "user")
	if err != nil {
		return nil, err
	}

	if detail, ok := s.cache.GetCart(ctx, userID); ok {
		return detail, nil
	}

	cart, err := s.carts.FindByUser(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		// Carts are created lazily on first access.
		cart = &models.Cart{UserID: uid, Items: []models.CartItem{}}
		if err := s.carts.Upsert(ctx, cart); err != nil {
			return nil, apperrors.Database("Failed to get cart", err)
		}
	} else if err != nil {
		return nil, apperrors.Database("Failed to get cart", err)
	}

	detail, err := s.resolve(ctx, cart)
	if err != nil {
		return nil, err
	}
	s.cache.SetCart(ctx, userID, detail)
	return detail, nil
}

func (s *cartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.CartDetail, error) {
	uid, err := parseObjectID(userID, "user")
	if err != nil {
		return nil, err
	}
	pid, err := parseObjectID(productID, "product")
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, apperrors.BadRequest("Quantity must be a positive integer")
	}

	var cart *models.Cart
	txErr := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		product, err := s.products.FindByID(txCtx, pid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NotFound(fmt.Sprintf("Product with ID %s not found", productID))
			}
			return err
		}

		cart, err = s.carts.FindByUser(txCtx, uid)
		if errors.Is(err, repository.ErrNotFound) {
			cart = &models.Cart{UserID: uid, Items: []models.CartItem{}}
		} else if err != nil {
			return err
		}

		if i := cart.FindItem(pid); i >= 0 {
			newQuantity := cart.Items[i].Quantity + quantity
			if product.StockQuantity < newQuantity {
				return apperrors.InsufficientStock(product.Name, quantity, product.StockQuantity)
			}
			// Captured price is kept; only the quantity grows.
			cart.Items[i].Quantity = newQuantity
		} else {
			if product.StockQuantity < quantity {
				return apperrors.InsufficientStock(product.Name, quantity, product.StockQuantity)
			}
			cart.Items = append(cart.Items, models.CartItem{
				ProductID: pid,
				Quantity:  quantity,
				Price:     product.Price,
			})
		}

		return s.carts.Upsert(txCtx, cart)
	})
	if txErr != nil {
		return nil, storeErr(txErr, "Failed to add item to cart")
	}

	return s.refresh(ctx, userID, cart)
}

func (s *cartService) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*models.CartDetail, error) {
	uid, err := parseObjectID(userID, "user")
	if err != nil {
		return nil, err
	}
	pid, err := parseObjectID(productID, "product")
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, apperrors.BadRequest("Quantity must be a positive integer")
	}

	var cart *models.Cart
	txErr := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		product, err := s.products.FindByID(txCtx, pid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NotFound(fmt.Sprintf("Product with ID %s not found", productID))
			}
			return err
		}

		// The requested quantity is absolute, so the stock check is too.
		if product.StockQuantity < quantity {
			return apperrors.InsufficientStock(product.Name, quantity, product.StockQuantity)
		}

		cart, err = s.carts.FindByUser(txCtx, uid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NotFound("Cart not found")
			}
			return err
		}

		i := cart.FindItem(pid)
		if i < 0 {
			return apperrors.NotFound(fmt.Sprintf("Item with product ID %s not found in cart", productID))
		}
		cart.Items[i].Quantity = quantity

		return s.carts.Upsert(txCtx, cart)
	})
	if txErr != nil {
		return nil, storeErr(txErr, "Failed to update cart item")
	}

	return s.refresh(ctx, userID, cart)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID string) (*models.CartDetail, error) {
	uid, err := parseObjectID(userID, "user")
	if err != nil {
		return nil, err
	}
	pid, err := parseObjectID(productID, "product")
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.FindByUser(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		// Nothing to remove from.
		cart = &models.Cart{UserID: uid, Items: []models.CartItem{}}
		return s.refresh(ctx, userID, cart)
	}
	if err != nil {
		return nil, apperrors.Database("Failed to remove item from cart", err)
	}

	if i := cart.FindItem(pid); i >= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		if err := s.carts.Upsert(ctx, cart); err != nil {
			return nil, apperrors.Database("Failed to remove item from cart", err)
		}
	}

	return s.refresh(ctx, userID, cart)
}

func (s *cartService) Clear(ctx context.Context, userID string) error {
	uid, err := parseObjectID(userID, "user")
	if err != nil {
		return err
	}

	cart, err := s.carts.FindByUser(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.Database("Failed to clear cart", err)
	}

	cart.Items = []models.CartItem{}
	if err := s.carts.Upsert(ctx, cart); err != nil {
		return apperrors.Database("Failed to clear cart", err)
	}

	s.cache.SetCart(ctx, userID, &models.CartDetail{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     []models.CartDetailItem{},
		UpdatedAt: cart.UpdatedAt,
	})
	return nil
}

// refresh resolves the cart for display and overwrites its cache entry so a
// read following this write never sees stale data.
func (s *cartService) refresh(ctx context.Context, userID string, cart *models.Cart) (*models.CartDetail, error) {
	detail, err := s.resolve(ctx, cart)
	if err != nil {
		return nil, err
	}
	s.cache.SetCart(ctx, userID, detail)
	return detail, nil
}

func (s *cartService) resolve(ctx context.Context, cart *models.Cart) (*models.CartDetail, error) {
	detail := &models.CartDetail{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     make([]models.CartDetailItem, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}

	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			// Product vanished from the catalog; keep the line with a bare reference.
			product = &models.Product{ID: item.ProductID}
		} else if err != nil {
			return nil, apperrors.Database("Failed to get cart", err)
		}
		detail.Items = append(detail.Items, models.CartDetailItem{
			Product:  *product,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return detail, nil
}
