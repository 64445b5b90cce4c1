package store

import (
	"time"

	"gorm.io/datatypes"
)

// CartItem is one line of the session's cart. The cart is shared across all
// shops; per-shop counters are derived by query, not stored separately.
type CartItem struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SessionID string `gorm:"index;size:64" json:"-"`

	ProductID string `gorm:"size:64" json:"product_id"`
	ShopID    string `gorm:"size:64" json:"shop_id"`
	Name      string `json:"name"`
	Price     float64 `json:"price"`
	// Attributes holds chosen variant options (size, color, ...), which vary
	// per shop and carry no shared schema.
	Attributes datatypes.JSON `json:"attributes,omitempty"`
	Quantity   int            `json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WishlistItem is one saved product.
type WishlistItem struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SessionID string `gorm:"index;size:64" json:"-"`

	ProductID    string `gorm:"size:64" json:"product_id"`
	ShopID       string `gorm:"size:64" json:"shop_id"`
	Name         string `json:"name"`
	DisplayImage string `json:"display_image,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Notification is one entry of the session's notification list.
type Notification struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SessionID string `gorm:"index;size:64" json:"-"`

	Message string `json:"message"`
	Read    bool   `json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
