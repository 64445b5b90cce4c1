package spin

import (
	"math/rand"

	"imarket.GO/catalog"
)

// Prize is one wheel section: a product from a participating shop or the
// consolation stars prize.
type Prize struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	Value  string `json:"value,omitempty"`
	ShopID string `json:"shop_id,omitempty"`
	// ProductID is empty for the stars prize.
	ProductID string `json:"product_id,omitempty"`
}

// StarsPrize is the non-product wheel section every wheel carries.
var StarsPrize = Prize{
	Name:  "100 Stars",
	Image: "/media/placeholder/100/100",
	Value: "100 Stars",
}

// ParticipatingShops is which shops stock the prize wheel.
var ParticipatingShops = []string{"click_n_get", "joy_totes", "nashaa_kicks"}

// BuildWheel picks one random product from each participating shop plus the
// stars prize. Shops with no products contribute no section.
func BuildWheel(products []catalog.UnifiedProduct, rng *rand.Rand) []Prize {
	byShop := make(map[string][]catalog.UnifiedProduct)
	for _, p := range products {
		byShop[p.ShopID] = append(byShop[p.ShopID], p)
	}

	var wheel []Prize
	for _, shopID := range ParticipatingShops {
		pool := byShop[shopID]
		if len(pool) == 0 {
			continue
		}
		pick := pool[rng.Intn(len(pool))]
		wheel = append(wheel, Prize{
			Name:      pick.Name,
			Image:     pick.DisplayImage,
			ShopID:    pick.ShopID,
			ProductID: pick.ID,
		})
	}
	return append(wheel, StarsPrize)
}

// Spin selects the winning section. The wheel must be non-empty.
func Spin(wheel []Prize, rng *rand.Rand) (Prize, int) {
	i := rng.Intn(len(wheel))
	return wheel[i], i
}
