package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line in the session cart. Name, price and stock are
// snapshots taken when the product was first added.
type CartItem struct {
	ProductID     int64           `json:"product_id"`
	Quantity      int             `json:"quantity"`
	ProductName   string          `json:"product_name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Thumbnail     string          `json:"thumbnail,omitempty"`
}

// Cart is the whole session document persisted under the cart key.
type Cart struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// WishlistImage is the image snapshot kept on a wishlist entry.
type WishlistImage struct {
	Filename     string `json:"filename"`
	FilePath     string `json:"file_path"`
	MediaCaption string `json:"media_caption,omitempty"`
}

// WishlistItem is one saved product. There is no quantity; presence is all
// that matters.
type WishlistItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Thumbnail   string          `json:"thumbnail,omitempty"`
	AddedAt     time.Time       `json:"added_at"`
	Images      []WishlistImage `json:"images,omitempty"`
}

// Wishlist is the session document persisted under the wishlist key.
type Wishlist struct {
	Items []WishlistItem `json:"items"`
}
