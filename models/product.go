package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the catalog record and the source of truth for price and stock.
type Product struct {
	ID            primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description" bson:"description"`
	Price         float64            `json:"price" bson:"price"`
	StockQuantity int                `json:"stockQuantity" bson:"stock_quantity"`
	Category      string             `json:"category" bson:"category"`
	ImageURL      string             `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updated_at"`
}

// ProductList is a page of catalog results.
type ProductList struct {
	Products      []Product `json:"products"`
	TotalProducts int64     `json:"totalProducts"`
	TotalPages    int64     `json:"totalPages"`
}
