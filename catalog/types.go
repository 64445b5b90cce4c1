package catalog

import (
	"time"
)

// ShopDescriptor is one merchant entry from the shop registry (shops.json).
// Field tags follow the registry file's own key spelling, which is not
// consistent between snake_case and camelCase.
type ShopDescriptor struct {
	ShopID          string       `json:"shop_id" mapstructure:"shop_id"`
	Name            string       `json:"name" mapstructure:"name"`
	Categories      []string     `json:"categories" mapstructure:"categories"`
	ProductDataFile string       `json:"product_data_file" mapstructure:"product_data_file"`
	ShopPageURL     string       `json:"shopPageUrl" mapstructure:"shopPageUrl"`
	LogoURL         string       `json:"logo_url" mapstructure:"logo_url"`
	ContactInfo     *ContactInfo `json:"contact_info,omitempty" mapstructure:"contact_info"`
}

type ContactInfo struct {
	Email   string `json:"email" mapstructure:"email"`
	Phone   string `json:"phone" mapstructure:"phone"`
	Address string `json:"address" mapstructure:"address"`
}

// RawProduct is a shop's native product record. Every shop uses different
// field names for the same concepts, so the only safe representation is the
// decoded JSON object itself.
type RawProduct map[string]interface{}

// UnifiedProduct is the shop-agnostic product record every RawProduct maps
// to. Missing source fields degrade to the documented fallbacks, never to an
// error.
type UnifiedProduct struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	PriceAmount     float64   `json:"price_amount"`
	DisplayImage    string    `json:"display_image"`
	ShopID          string    `json:"shop_id"`
	ShopName        string    `json:"shop_name"`
	Category        string    `json:"category,omitempty"`
	SubCategory     string    `json:"sub_category,omitempty"`
	Rating          float64   `json:"rating,omitempty"`
	DiscountPercent float64   `json:"discount_percent,omitempty"`
	IsDeal          bool      `json:"is_deal"`
	IsFeatured      bool      `json:"is_featured,omitempty"`
	DateAdded       time.Time `json:"date_added"`
}

// Snapshot is one aggregation run: the registry plus every product that
// could be loaded, in registry order.
type Snapshot struct {
	Shops    []ShopDescriptor `json:"shops"`
	Products []UnifiedProduct `json:"products"`
	LoadedAt time.Time        `json:"loaded_at"`
}
