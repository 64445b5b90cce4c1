package catalog

import (
	"strconv"
	"strings"
	"time"
)

const (
	// PlaceholderName is the name given to records with no usable name field.
	PlaceholderName = "Unnamed Product"
	// PlaceholderImage is used when a record carries no image at all.
	PlaceholderImage = "https://placehold.co/150x150"
)

// epochFallback is the DateAdded value for records with no date field.
var epochFallback = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// accessor extracts one candidate value from a raw record. Each unified
// field is resolved by walking an ordered chain of accessors and taking the
// first hit, so a new shop schema is supported by extending a chain, not by
// editing control flow.
type accessor func(RawProduct) (interface{}, bool)

func field(name string) accessor {
	return func(p RawProduct) (interface{}, bool) {
		v, ok := p[name]
		return v, ok && v != nil
	}
}

// nested resolves one level of nesting, e.g. price.amount.
func nested(outer, inner string) accessor {
	return func(p RawProduct) (interface{}, bool) {
		o, ok := p[outer].(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok := o[inner]
		return v, ok && v != nil
	}
}

// arrayFirst resolves the first element of an array field, e.g. images[0].
func arrayFirst(name string) accessor {
	return func(p RawProduct) (interface{}, bool) {
		arr, ok := p[name].([]interface{})
		if !ok || len(arr) == 0 {
			return nil, false
		}
		return arr[0], arr[0] != nil
	}
}

// composed joins two string fields with a space, e.g. "{make} {model}".
func composed(a, b string) accessor {
	return func(p RawProduct) (interface{}, bool) {
		left, _ := asString(p[a])
		right, _ := asString(p[b])
		joined := strings.TrimSpace(left + " " + right)
		return joined, joined != ""
	}
}

// Resolution order per field. The order is load-bearing: it reproduces the
// observed precedence between the shops' schemas.
var (
	idChain          = []accessor{field("item_id"), field("id"), field("propertyId")}
	nameChain        = []accessor{field("name"), field("title"), composed("make", "model")}
	priceChain       = []accessor{nested("price", "amount"), field("price"), field("price_ksh")}
	imageChain       = []accessor{field("car_display_image"), field("product_image_url"), arrayFirst("images")}
	dateChain        = []accessor{field("listingDate"), field("date_added"), field("dateAdded")}
	categoryChain    = []accessor{field("category"), field("car_type"), field("propertyType")}
	subCategoryChain = []accessor{field("subCategory"), field("sub_category")}
	ratingChain      = []accessor{field("rating"), field("review_star_rate")}
)

// dealFields are OR-ed together: a record is a deal if any of them is truthy.
var dealFields = []string{"isDiscounted", "isDeals"}

func firstString(chains []accessor, p RawProduct) (string, bool) {
	for _, get := range chains {
		if v, ok := get(p); ok {
			if s, ok := asString(v); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

func firstNumber(chains []accessor, p RawProduct) (float64, bool) {
	for _, get := range chains {
		if v, ok := get(p); ok {
			if n, ok := asNumber(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func asString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	default:
		return "", false
	}
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t == "true"
	default:
		return false
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalize maps one shop-native record to a UnifiedProduct. It is pure and
// total: whatever fields are absent or mistyped, every unified field ends up
// with either a sourced value or its documented fallback. index is the
// record's position in its source array and backs the id fallback.
func Normalize(raw RawProduct, shop ShopDescriptor, index int) UnifiedProduct {
	p := UnifiedProduct{
		ShopID:   shop.ShopID,
		ShopName: shop.Name,
	}

	if id, ok := firstString(idChain, raw); ok {
		p.ID = id
	} else {
		p.ID = strconv.Itoa(index)
	}

	if name, ok := firstString(nameChain, raw); ok {
		p.Name = name
	} else {
		p.Name = PlaceholderName
	}

	if amount, ok := firstNumber(priceChain, raw); ok && amount >= 0 {
		p.PriceAmount = amount
	}

	if img, ok := firstString(imageChain, raw); ok {
		p.DisplayImage = img
	} else {
		p.DisplayImage = PlaceholderImage
	}

	if dp, ok := asNumber(raw["discount_percent"]); ok && dp > 0 {
		p.DiscountPercent = dp
		p.IsDeal = true
	}
	for _, f := range dealFields {
		if truthy(raw[f]) {
			p.IsDeal = true
		}
	}

	p.DateAdded = epochFallback
	if s, ok := firstString(dateChain, raw); ok {
		if t, ok := parseDate(s); ok {
			p.DateAdded = t
		}
	}

	if cat, ok := firstString(categoryChain, raw); ok {
		p.Category = cat
	}
	if sub, ok := firstString(subCategoryChain, raw); ok {
		p.SubCategory = sub
	}
	if r, ok := firstNumber(ratingChain, raw); ok {
		p.Rating = r
	}
	p.IsFeatured = truthy(raw["isFeatured"])

	return p
}
