package models

// --- Shop ---

type Shop struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Categories  []string `json:"categories"`
	ShopPageURL string   `json:"shopPageUrl"`
	LogoURL     string   `json:"logoUrl"`
}

// --- Product ---

type Product struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DisplayImage    string  `json:"displayImage"`
	ShopID          string  `json:"shopId"`
	ShopName        string  `json:"shopName"`
	Category        string  `json:"category"`
	SubCategory     string  `json:"subCategory"`
	Rating          float64 `json:"rating"`
	DiscountPercent float64 `json:"discountPercent"`
	IsDeal          bool    `json:"isDeal"`
	IsFeatured      bool    `json:"isFeatured"`
	DateAdded       string  `json:"dateAdded"`
}

// --- Deal ---

type Deal struct {
	Product       *Product `json:"product"`
	FinalPrice    float64  `json:"finalPrice"`
	OriginalPrice float64  `json:"originalPrice"`
}

// --- Suggestion ---

type Suggestion struct {
	Kind   string  `json:"kind"`
	Value  string  `json:"value"`
	ShopID *string `json:"shopId,omitempty"`
}
