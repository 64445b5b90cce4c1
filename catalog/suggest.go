package catalog

import (
	"net/url"
	"sort"
	"strings"
)

// SuggestionKind discriminates what a search suggestion points at.
type SuggestionKind string

const (
	KindShop        SuggestionKind = "Shop"
	KindCategory    SuggestionKind = "Category"
	KindProduct     SuggestionKind = "Product"
	KindSubcategory SuggestionKind = "Subcategory"
)

// Suggestion is one entry of the header search index.
type Suggestion struct {
	Name      string         `json:"name"`
	Kind      SuggestionKind `json:"kind"`
	Link      string         `json:"link,omitempty"`
	ShopID    string         `json:"shop_id,omitempty"`
	ProductID string         `json:"product_id,omitempty"`
}

// SuggestionIndex is the alphabetized union of shop names, categories,
// product names and subcategories. Built once per snapshot, queried per
// keystroke.
type SuggestionIndex struct {
	entries []Suggestion
}

const (
	// MinQueryLength mirrors the search box: shorter queries suggest nothing.
	MinQueryLength = 2
	// MaxSuggestions caps the dropdown.
	MaxSuggestions = 5
)

// BuildSuggestionIndex assembles the index from a snapshot. Duplicate names
// of the same kind collapse to one entry.
func BuildSuggestionIndex(shops []ShopDescriptor, products []UnifiedProduct) *SuggestionIndex {
	seen := make(map[string]bool)
	var entries []Suggestion

	add := func(s Suggestion) {
		key := string(s.Kind) + "|" + strings.ToLower(s.Name)
		if s.Name == "" || seen[key] {
			return
		}
		seen[key] = true
		entries = append(entries, s)
	}

	for _, shop := range shops {
		add(Suggestion{Name: shop.Name, Kind: KindShop, Link: shop.ShopPageURL, ShopID: shop.ShopID})
		for _, cat := range shop.Categories {
			add(Suggestion{Name: cat, Kind: KindCategory, Link: categoryLink(cat)})
		}
	}
	for _, p := range products {
		add(Suggestion{Name: p.Name, Kind: KindProduct, Link: productLink(p.ShopID, p.ID), ShopID: p.ShopID, ProductID: p.ID})
		if p.SubCategory != "" {
			add(Suggestion{Name: p.SubCategory, Kind: KindSubcategory, Link: categoryLink(p.SubCategory)})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return &SuggestionIndex{entries: entries}
}

func categoryLink(cat string) string {
	return "shops.html?category=" + url.QueryEscape(cat)
}

func productLink(shopID, productID string) string {
	return "/products/" + url.PathEscape(shopID) + "/" + url.PathEscape(productID)
}

// Query returns up to MaxSuggestions entries whose name contains the query,
// case-insensitively. Queries under MinQueryLength return nothing.
func (idx *SuggestionIndex) Query(q string) []Suggestion {
	q = strings.ToLower(strings.TrimSpace(q))
	if len(q) < MinQueryLength {
		return nil
	}
	var out []Suggestion
	for _, s := range idx.entries {
		if strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}

// Len reports the index size.
func (idx *SuggestionIndex) Len() int {
	return len(idx.entries)
}
