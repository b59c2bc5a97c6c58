package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a line in a user's cart. Price is captured when the line is
// created and kept until the line is removed; it does not track live product
// price changes.
type CartItem struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Price     float64            `json:"price" bson:"price"`
}

// Cart is the single mutable cart document per user. Lines never duplicate a
// product; adds for an existing product merge quantities.
type Cart struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Items     []CartItem         `json:"items" bson:"items"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// FindItem returns the index of the line for productID, or -1.
func (c *Cart) FindItem(productID primitive.ObjectID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// CartDetailItem is a cart line with its product resolved for display.
type CartDetailItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CartDetail is the API representation of a cart.
type CartDetail struct {
	ID        primitive.ObjectID `json:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id"`
	Items     []CartDetailItem   `json:"items"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
