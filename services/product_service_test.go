package services

import (
	"context"
	"testing"

	apperrors "github.com/shopswift/backend/errors"
	"github.com/shopswift/backend/models"
	"github.com/shopswift/backend/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newProductFixture() (*memStore, *fakeCache, ProductService) {
	store := newMemStore()
	c := &fakeCache{}
	return store, c, NewProductService(&memProductRepo{store: store}, c)
}

func TestCreateProductInvalidatesListings(t *testing.T) {
	_, c, svc := newProductFixture()

	product, err := svc.Create(context.Background(), CreateProductInput{
		Name:          "Standing Desk",
		Description:   "Height adjustable",
		Price:         399.99,
		StockQuantity: 4,
		Category:      "furniture",
	})
	require.NoError(t, err)
	assert.False(t, product.ID.IsZero())
	assert.Equal(t, 1, c.listsInvalid)
}

func TestGetByIDNotFound(t *testing.T) {
	_, _, svc := newProductFixture()

	_, err := svc.GetByID(context.Background(), primitive.NewObjectID().Hex())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.From(err).Code)
}

func TestGetByIDInvalidID(t *testing.T) {
	_, _, svc := newProductFixture()

	_, err := svc.GetByID(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.From(err).Code)
}

func TestUpdateProduct(t *testing.T) {
	store, c, svc := newProductFixture()
	id := store.addProduct(models.Product{Name: "Chair", Price: 149.99, StockQuantity: 5})

	price := 129.99
	stock := 8
	product, err := svc.Update(context.Background(), id.Hex(), UpdateProductInput{
		Price:         &price,
		StockQuantity: &stock,
	})
	require.NoError(t, err)
	assert.Equal(t, 129.99, product.Price)
	assert.Equal(t, 8, product.StockQuantity)

	// Both the product entry and the listing pages were invalidated.
	assert.Equal(t, []string{id.Hex()}, c.deletedProducts)
	assert.Equal(t, 1, c.listsInvalid)
}

func TestUpdateProductNoFields(t *testing.T) {
	store, _, svc := newProductFixture()
	id := store.addProduct(models.Product{Name: "Chair", Price: 149.99, StockQuantity: 5})

	_, err := svc.Update(context.Background(), id.Hex(), UpdateProductInput{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.From(err).Code)
}

func TestDeleteProductMissing(t *testing.T) {
	_, _, svc := newProductFixture()

	err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.From(err).Code)
}

func TestGetAllNormalizesPagination(t *testing.T) {
	store, _, svc := newProductFixture()
	store.addProduct(models.Product{Name: "Bookshelf", Price: 89.99, StockQuantity: 2, Category: "furniture"})

	list, err := svc.GetAll(context.Background(), repository.ProductQuery{Page: -5, Limit: 10000})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalProducts)
	assert.Equal(t, int64(1), list.TotalPages)
}
