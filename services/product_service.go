package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopswift/backend/cache"
	apperrors "github.com/shopswift/backend/errors"
	"github.com/shopswift/backend/models"
	"github.com/shopswift/backend/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateProductInput struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description" binding:"required"`
	Price         float64 `json:"price" binding:"required,gte=0"`
	StockQuantity int     `json:"stockQuantity" binding:"gte=0"`
	Category      string  `json:"category" binding:"required"`
	ImageURL      string  `json:"imageUrl"`
}

type UpdateProductInput struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price" binding:"omitempty,gte=0"`
	StockQuantity *int     `json:"stockQuantity" binding:"omitempty,gte=0"`
	Category      *string  `json:"category"`
	ImageURL      *string  `json:"imageUrl"`
}

type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetAll(ctx context.Context, query repository.ProductQuery) (*models.ProductList, error)
	GetByID(ctx context.Context, productID string) (*models.Product, error)
	Update(ctx context.Context, productID string, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, productID string) error
}

type productService struct {
	products repository.ProductRepository
	cache    cache.Cache
}

func NewProductService(products repository.ProductRepository, c cache.Cache) ProductService {
	return &productService{products: products, cache: c}
}

func parseObjectID(id, what string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.BadRequest(fmt.Sprintf("Invalid %s ID", what))
	}
	return oid, nil
}

func (s *productService) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		Category:      input.Category,
		ImageURL:      input.ImageURL,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.Database("Failed to create product", err)
	}

	s.cache.InvalidateProductLists(ctx)
	return product, nil
}

func (s *productService) GetAll(ctx context.Context, query repository.ProductQuery) (*models.ProductList, error) {
	query.Page, query.Limit = normalizePage(query.Page, query.Limit)

	if list, ok := s.cache.GetProductList(ctx, query); ok {
		return list, nil
	}

	products, total, err := s.products.Find(ctx, query)
	if err != nil {
		return nil, apperrors.Database("Failed to fetch products", err)
	}

	list := &models.ProductList{
		Products:      products,
		TotalProducts: total,
		TotalPages:    totalPages(total, query.Limit),
	}
	s.cache.SetProductList(ctx, query, list)
	return list, nil
}

func (s *productService) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	oid, err := parseObjectID(productID, "product")
	if err != nil {
		return nil, err
	}

	if product, ok := s.cache.GetProduct(ctx, productID); ok {
		return product, nil
	}

	product, err := s.products.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("Product with ID %s not found", productID))
		}
		return nil, apperrors.Database("Failed to get product", err)
	}

	s.cache.SetProduct(ctx, productID, product)
	return product, nil
}

func (s *productService) Update(ctx context.Context, productID string, input UpdateProductInput) (*models.Product, error) {
	oid, err := parseObjectID(productID, "product")
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.StockQuantity != nil {
		updates["stock_quantity"] = *input.StockQuantity
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if len(updates) == 0 {
		return nil, apperrors.BadRequest("No fields to update")
	}

	product, err := s.products.Update(ctx, oid, updates)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("Product with ID %s not found", productID))
		}
		return nil, apperrors.Database("Failed to update product", err)
	}

	s.cache.DeleteProduct(ctx, productID)
	s.cache.InvalidateProductLists(ctx)
	return product, nil
}

func (s *productService) Delete(ctx context.Context, productID string) error {
	oid, err := parseObjectID(productID, "product")
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound(fmt.Sprintf("Product with ID %s not found", productID))
		}
		return apperrors.Database("Failed to delete product", err)
	}

	s.cache.DeleteProduct(ctx, productID)
	s.cache.InvalidateProductLists(ctx)
	return nil
}
