package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopswift/backend/cache"
	apperrors "github.com/shopswift/backend/errors"
	"github.com/shopswift/backend/metrics"
	"github.com/shopswift/backend/models"
	"github.com/shopswift/backend/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type UpdateOrderStatusInput struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// OrderService turns carts into orders. Checkout validates stock, decrements
// it, creates the order, and empties the cart as a single transaction: either
// all of it happens or none of it does.
type OrderService interface {
	CreateOrder(ctx context.Context, userID string) (*models.Order, error)
	GetOrderByID(ctx context.Context, userID, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, userID string, page, limit int) (*models.OrderList, error)
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	products repository.ProductRepository
	tx       repository.TxRunner
	cache    cache.Cache
	metrics  *metrics.AppMetrics
	events   EventPublisher
}

func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	products repository.ProductRepository,
	tx repository.TxRunner,
	c cache.Cache,
	m *metrics.AppMetrics,
	events EventPublisher,
) OrderService {
	return &orderService{
		orders:   orders,
		carts:    carts,
		products: products,
		tx:       tx,
		cache:    c,
		metrics:  m,
		events:   events,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, userID string) (*models.Order, error) {
	uid, err := parseObjectID(userID, "user")
	if err != nil {
		return nil, err
	}

	var order *models.Order
	var touched []string

	txErr := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		cart, err := s.carts.FindByUser(txCtx, uid)
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.BadRequest("Cart is empty")
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return apperrors.BadRequest("Cart is empty")
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		total := decimal.Zero
		touched = touched[:0]

		for _, line := range cart.Items {
			product, err := s.products.FindByID(txCtx, line.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperrors.NotFound(fmt.Sprintf("Product not found: %s", line.ProductID.Hex()))
				}
				return err
			}
			if product.StockQuantity < line.Quantity {
				return apperrors.InsufficientStock(product.Name, line.Quantity, product.StockQuantity)
			}

			if err := s.products.DecrementStock(txCtx, product.ID, line.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return apperrors.InsufficientStock(product.Name, line.Quantity, product.StockQuantity)
				}
				return err
			}

			// The order is charged at the current catalog price, not the
			// price captured when the line entered the cart.
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  line.Quantity,
				Price:     product.Price,
			})
			total = total.Add(decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
			touched = append(touched, product.ID.Hex())
		}

		order = &models.Order{
			OrderNumber: uuid.NewString(),
			UserID:      uid,
			Items:       items,
			TotalAmount: total.Round(2).InexactFloat64(),
			Status:      models.OrderStatusPending,
		}
		if err := s.orders.Create(txCtx, order); err != nil {
			return err
		}

		cart.Items = []models.CartItem{}
		return s.carts.Upsert(txCtx, cart)
	})
	if txErr != nil {
		wrapped := storeErr(txErr, "Failed to create order")
		s.metrics.RecordCheckoutFailure(ctx, apperrors.From(wrapped).Code)
		return nil, wrapped
	}

	s.cache.DeleteCart(ctx, userID)
	s.cache.InvalidateProductLists(ctx)
	for _, id := range touched {
		s.cache.DeleteProduct(ctx, id)
	}
	s.cache.SetOrder(ctx, order)

	s.metrics.RecordOrder(ctx, order.TotalAmount)

	if s.events != nil {
		if err := s.events.OrderCreated(ctx, order); err != nil {
			zap.L().Warn("failed to publish order created event",
				zap.String("order_id", order.ID.Hex()),
				zap.Error(err))
		}
	}

	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, userID, orderID string) (*models.Order, error) {
	uid, err := parseObjectID(userID, "user")
	if err != nil {
		return nil, err
	}
	oid, err := parseObjectID(orderID, "order")
	if err != nil {
		return nil, err
	}

	if order, ok := s.cache.GetOrder(ctx, orderID); ok {
		if order.UserID != uid {
			// Another user's order looks the same as a missing one.
			return nil, apperrors.NotFound("Order not found")
		}
		return order, nil
	}

	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("Order with ID %s not found", orderID))
		}
		return nil, apperrors.Database("Failed to get order", err)
	}
	if order.UserID != uid {
		return nil, apperrors.NotFound("Order not found")
	}

	s.cache.SetOrder(ctx, order)
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID string, page, limit int) (*models.OrderList, error) {
	uid, err := parseObjectID(userID, "user")
	if err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)

	orders, total, err := s.orders.FindByUser(ctx, uid, page, limit)
	if err != nil {
		return nil, apperrors.Database("Failed to fetch orders", err)
	}

	return &models.OrderList{
		Orders:      orders,
		TotalOrders: total,
		TotalPages:  totalPages(total, limit),
	}, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	oid, err := parseObjectID(orderID, "order")
	if err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("Invalid order status: %s", status))
	}

	order, err := s.orders.UpdateStatus(ctx, oid, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("Order with ID %s not found", orderID))
		}
		return nil, apperrors.Database("Failed to update order status", err)
	}

	s.cache.SetOrder(ctx, order)
	return order, nil
}
