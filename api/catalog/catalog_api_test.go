package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	catalogPkg "imarket.GO/catalog"
)

type stubFetcher struct {
	files map[string][]byte
}

func (f *stubFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	b, ok := f.files[name]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", name)
	}
	return b, nil
}

func newTestServer(t *testing.T, files map[string][]byte) *echo.Echo {
	t.Helper()
	SetServiceForTesting(catalogPkg.NewService(&stubFetcher{files: files}))
	e := echo.New()
	RegisterCatalogRoutes(e.Group("/api"), nil)
	return e
}

func fixtureFiles() map[string][]byte {
	return map[string][]byte{
		"shops.json": []byte(`[
			{"shop_id":"alpha","name":"Alpha","categories":["Desks"],"product_data_file":"alpha.json"},
			{"shop_id":"beta","name":"Beta","categories":["Chairs"],"product_data_file":"beta.json"}
		]`),
		"alpha.json": []byte(`[
			{"id":"a1","name":"Desk","price":1000,"date_added":"2026-08-28"}
		]`),
		"beta.json": []byte(`[
			{"item_id":"b1","title":"Chair","price_ksh":500,"discount_percent":10,"date_added":"2026-01-01"}
		]`),
	}
}

func get(t *testing.T, e *echo.Echo, path string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v (%s)", path, err, rec.Body.String())
	}
	return rec.Code, out
}

func TestProducts_FilterByShop(t *testing.T) {
	e := newTestServer(t, fixtureFiles())

	code, out := get(t, e, "/api/catalog/products")
	if code != http.StatusOK || out["total"].(float64) != 2 {
		t.Fatalf("expected 2 products, got %d / %v", code, out["total"])
	}

	_, out = get(t, e, "/api/catalog/products?shop=beta")
	products := out["products"].([]interface{})
	if len(products) != 1 {
		t.Fatalf("expected 1 beta product, got %d", len(products))
	}
	p := products[0].(map[string]interface{})
	if p["id"] != "b1" || p["price_amount"].(float64) != 500 {
		t.Errorf("unexpected product: %v", p)
	}
}

func TestProductDetails_FoundAndMissing(t *testing.T) {
	e := newTestServer(t, fixtureFiles())

	code, out := get(t, e, "/api/catalog/products/beta/b1")
	if code != http.StatusOK {
		t.Fatalf("expected 200 for a known product, got %d", code)
	}
	p := out["product"].(map[string]interface{})
	if p["name"] != "Chair" || p["price_amount"].(float64) != 500 {
		t.Errorf("unexpected product: %v", p)
	}

	code, out = get(t, e, "/api/catalog/products/beta/no-such-id")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown product, got %d", code)
	}
	if out["error"] != "Product not found" {
		t.Errorf("unexpected error message: %v", out["error"])
	}

	// The id must resolve within the shop it was asked for.
	code, _ = get(t, e, "/api/catalog/products/alpha/b1")
	if code != http.StatusNotFound {
		t.Errorf("expected 404 for an id from another shop, got %d", code)
	}
}

func TestDeals_MinDiscount(t *testing.T) {
	e := newTestServer(t, fixtureFiles())

	_, out := get(t, e, "/api/catalog/deals")
	if out["total"].(float64) != 1 {
		t.Fatalf("expected 1 deal, got %v", out["total"])
	}

	_, out = get(t, e, "/api/catalog/deals?min_discount=20")
	if out["total"].(float64) != 0 {
		t.Errorf("expected no deals above 20%%, got %v", out["total"])
	}
}

func TestNewArrivals_WindowParam(t *testing.T) {
	e := newTestServer(t, fixtureFiles())

	_, out := get(t, e, "/api/catalog/new-arrivals?window_days=30")
	if out["total"].(float64) != 1 {
		t.Errorf("expected 1 recent product, got %v", out["total"])
	}
}

func TestSuggest_LocalFallback(t *testing.T) {
	e := newTestServer(t, fixtureFiles())

	_, out := get(t, e, "/api/catalog/suggest?q=chair")
	suggestions := out["suggestions"].([]interface{})
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions for 'chair'")
	}
}

func TestShops_RegistryUnavailable(t *testing.T) {
	e := newTestServer(t, map[string][]byte{})

	code, out := get(t, e, "/api/catalog/shops")
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	if out["error"] != "Failed to load shops. Please try again later." {
		t.Errorf("unexpected error message: %v", out["error"])
	}
}
