package catalog

import (
	"math/rand"
	"time"
)

// DefaultNewArrivalsWindow is the window most pages use. The click-n-get
// category page uses 60 days instead; both call sites pass their own value
// rather than pretending the site agreed on one.
const DefaultNewArrivalsWindow = 30 * 24 * time.Hour

// DealItem is a deal with its display pricing worked out: when a
// discount_percent was present the final price is reduced and the original
// price retained for strikethrough display.
type DealItem struct {
	UnifiedProduct
	FinalPrice    float64 `json:"final_price"`
	OriginalPrice float64 `json:"original_price,omitempty"`
}

// Deals filters for deal-flagged products, preserving input order.
// minDiscountPercent keeps only deals at or above that discount; pass 0 for
// the flag-only behavior most shops use.
func Deals(products []UnifiedProduct, minDiscountPercent float64) []DealItem {
	var deals []DealItem
	for _, p := range products {
		if !p.IsDeal {
			continue
		}
		if minDiscountPercent > 0 && p.DiscountPercent < minDiscountPercent {
			continue
		}
		item := DealItem{UnifiedProduct: p, FinalPrice: p.PriceAmount}
		if p.DiscountPercent > 0 {
			item.OriginalPrice = p.PriceAmount
			item.FinalPrice = p.PriceAmount * (1 - p.DiscountPercent/100)
		}
		deals = append(deals, item)
	}
	return deals
}

// GroupDealsByShop buckets deals per shop, keeping shop and product order.
func GroupDealsByShop(deals []DealItem) ([]string, map[string][]DealItem) {
	var order []string
	grouped := make(map[string][]DealItem)
	for _, d := range deals {
		if _, ok := grouped[d.ShopID]; !ok {
			order = append(order, d.ShopID)
		}
		grouped[d.ShopID] = append(grouped[d.ShopID], d)
	}
	return order, grouped
}

// NewArrivals filters for products added within the window, preserving
// input order.
func NewArrivals(products []UnifiedProduct, now time.Time, window time.Duration) []UnifiedProduct {
	var recent []UnifiedProduct
	for _, p := range products {
		if now.Sub(p.DateAdded) <= window {
			recent = append(recent, p)
		}
	}
	return recent
}

// FindProduct resolves one product by shop id and product id within a
// snapshot. Details pages and the single-product endpoint use it.
func FindProduct(products []UnifiedProduct, shopID, productID string) (UnifiedProduct, bool) {
	for _, p := range products {
		if p.ShopID == shopID && p.ID == productID {
			return p, true
		}
	}
	return UnifiedProduct{}, false
}

// Preferences is the slice of stored user state the recommender reads.
type Preferences struct {
	LastVisitedShopID  string
	FavoriteCategories []string
}

const recommendPerShopCap = 3

// Recommend picks n products for the home page. With a last-visited shop it
// returns a randomized subset of that shop's products; otherwise it draws
// from deals and recent arrivals with a per-shop cap, topping up with random
// fill. rng is injected so tests can pin the shuffle.
func Recommend(products []UnifiedProduct, prefs Preferences, n int, now time.Time, rng *rand.Rand) []UnifiedProduct {
	if len(products) == 0 || n <= 0 {
		return nil
	}

	if prefs.LastVisitedShopID != "" {
		var preferred []UnifiedProduct
		for _, p := range products {
			if p.ShopID == prefs.LastVisitedShopID {
				preferred = append(preferred, p)
			}
		}
		if len(preferred) > 0 {
			rng.Shuffle(len(preferred), func(i, j int) {
				preferred[i], preferred[j] = preferred[j], preferred[i]
			})
			if len(preferred) > n {
				preferred = preferred[:n]
			}
			return preferred
		}
	}

	var top []UnifiedProduct
	for _, p := range products {
		if p.IsDeal || now.Sub(p.DateAdded) < DefaultNewArrivalsWindow {
			top = append(top, p)
		}
	}
	rng.Shuffle(len(top), func(i, j int) { top[i], top[j] = top[j], top[i] })

	picked := make([]UnifiedProduct, 0, n)
	perShop := make(map[string]int)
	chosen := make(map[string]bool)
	for _, p := range top {
		if len(picked) >= n {
			break
		}
		if perShop[p.ShopID] >= recommendPerShopCap {
			continue
		}
		picked = append(picked, p)
		perShop[p.ShopID]++
		chosen[p.ShopID+"|"+p.ID] = true
	}

	if len(picked) < n {
		var rest []UnifiedProduct
		for _, p := range products {
			if !chosen[p.ShopID+"|"+p.ID] {
				rest = append(rest, p)
			}
		}
		rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		need := n - len(picked)
		if need > len(rest) {
			need = len(rest)
		}
		picked = append(picked, rest[:need]...)
	}
	return picked
}

// TopShop returns the shop contributing the most products to a selection,
// for the "explore more" link target. Empty string when the selection is
// empty.
func TopShop(products []UnifiedProduct) string {
	counts := make(map[string]int)
	var top string
	var max int
	for _, p := range products {
		counts[p.ShopID]++
		if counts[p.ShopID] > max {
			max = counts[p.ShopID]
			top = p.ShopID
		}
	}
	return top
}

// UniqueCategories returns every category across the registry, first-seen
// order preserved, deduplicated.
func UniqueCategories(shops []ShopDescriptor) []string {
	seen := make(map[string]bool)
	var out []string
	for _, shop := range shops {
		for _, cat := range shop.Categories {
			if !seen[cat] {
				seen[cat] = true
				out = append(out, cat)
			}
		}
	}
	return out
}

// RotateCategories returns the window of perLoad categories starting at
// offset and the offset the next load should use. The rotation wraps to 0
// once the end is reached, matching the home page carousel.
func RotateCategories(categories []string, offset, perLoad int) ([]string, int) {
	if len(categories) == 0 || perLoad <= 0 {
		return nil, 0
	}
	if offset < 0 || offset >= len(categories) {
		offset = 0
	}
	end := offset + perLoad
	next := end
	if end >= len(categories) {
		end = len(categories)
		next = 0
	}
	return categories[offset:end], next
}
