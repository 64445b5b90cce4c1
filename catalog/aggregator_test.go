package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// stubFetcher serves canned byte payloads and can fail or delay per resource.
type stubFetcher struct {
	mu    sync.Mutex
	files map[string][]byte
	fail  map[string]bool
	delay map[string]time.Duration
	calls []string
}

func (f *stubFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	delay := f.delay[name]
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	if f.fail[name] {
		return nil, fmt.Errorf("fetch %s: boom", name)
	}
	data, ok := f.files[name]
	if !ok {
		return nil, fmt.Errorf("fetch %s: not found", name)
	}
	return data, nil
}

const testRegistryJSON = `[
  {"shop_id": "alpha", "name": "Alpha", "categories": ["Desks", "Chairs"],
   "product_data_file": "alpha.json", "shopPageUrl": "/shops/alpha/index.html"},
  {"shop_id": "beta", "name": "Beta", "categories": ["Shoes"],
   "product_data_file": "beta.json", "shopPageUrl": "/shops/beta/index.html",
   "contact_info": {"email": "hello@beta.example", "address": "Moi Avenue"}},
  {"shop_id": "gamma", "name": "Gamma", "categories": ["Bags"],
   "product_data_file": "gamma.json", "shopPageUrl": "/shops/gamma/index.html"}
]`

func newTestFetcher() *stubFetcher {
	return &stubFetcher{
		files: map[string][]byte{
			RegistryFile: []byte(testRegistryJSON),
			"alpha.json": []byte(`[{"id": "a1", "name": "Desk", "price": 1000},
				{"id": "a2", "name": "Chair", "price": 500, "isDiscounted": true}]`),
			"beta.json": []byte(`[{"item_id": "b1", "title": "Runner", "price_ksh": 3200, "discount_percent": 10}]`),
			"gamma.json": []byte(`[{"propertyId": 7, "make": "Canvas", "model": "Tote",
				"price": {"amount": 1500}, "images": ["g1.png"]}]`),
		},
		fail:  map[string]bool{},
		delay: map[string]time.Duration{},
	}
}

func TestLoadShopRegistry(t *testing.T) {
	svc := NewService(newTestFetcher())
	shops, err := svc.LoadShopRegistry(context.Background())
	if err != nil {
		t.Fatalf("LoadShopRegistry: %v", err)
	}
	if len(shops) != 3 {
		t.Fatalf("len(shops) = %d, want 3", len(shops))
	}
	if shops[0].ShopID != "alpha" || shops[2].ShopID != "gamma" {
		t.Errorf("registry order = %s..%s, want alpha..gamma", shops[0].ShopID, shops[2].ShopID)
	}
	if shops[1].ContactInfo == nil || shops[1].ContactInfo.Address != "Moi Avenue" {
		t.Errorf("contact_info not decoded: %+v", shops[1].ContactInfo)
	}
}

func TestLoadShopRegistry_Unavailable(t *testing.T) {
	f := newTestFetcher()
	f.fail[RegistryFile] = true
	svc := NewService(f)

	_, err := svc.LoadShopRegistry(context.Background())
	if !errors.Is(err, ErrRegistryUnavailable) {
		t.Errorf("err = %v, want ErrRegistryUnavailable", err)
	}
}

func TestLoadShopRegistry_Malformed(t *testing.T) {
	f := newTestFetcher()
	f.files[RegistryFile] = []byte(`{"not": "an array"`)
	svc := NewService(f)

	_, err := svc.LoadShopRegistry(context.Background())
	if !errors.Is(err, ErrRegistryUnavailable) {
		t.Errorf("err = %v, want ErrRegistryUnavailable", err)
	}
}

func TestLoadAllProducts_OrderPreserved(t *testing.T) {
	f := newTestFetcher()
	// Slow down the first shop so it resolves last; output order must not change.
	f.delay["alpha.json"] = 50 * time.Millisecond
	svc := NewService(f)

	shops, err := svc.LoadShopRegistry(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	products := svc.LoadAllProducts(context.Background(), shops)

	wantIDs := []string{"a1", "a2", "b1", "7"}
	if len(products) != len(wantIDs) {
		t.Fatalf("len(products) = %d, want %d", len(products), len(wantIDs))
	}
	for i, want := range wantIDs {
		if products[i].ID != want {
			t.Errorf("products[%d].ID = %q, want %q (registry order, not arrival order)", i, products[i].ID, want)
		}
	}
	if products[3].Name != "Canvas Tote" || products[3].PriceAmount != 1500 {
		t.Errorf("gamma record = %+v, want composed name and nested price", products[3])
	}
}

func TestLoadAllProducts_PartialFailure(t *testing.T) {
	f := newTestFetcher()
	f.fail["beta.json"] = true
	svc := NewService(f)

	shops, _ := svc.LoadShopRegistry(context.Background())
	products := svc.LoadAllProducts(context.Background(), shops)

	// Beta is skipped; alpha and gamma survive in order.
	wantIDs := []string{"a1", "a2", "7"}
	if len(products) != len(wantIDs) {
		t.Fatalf("len(products) = %d, want %d", len(products), len(wantIDs))
	}
	for i, want := range wantIDs {
		if products[i].ID != want {
			t.Errorf("products[%d].ID = %q, want %q", i, products[i].ID, want)
		}
	}
}

func TestLoadAllProducts_AllFail(t *testing.T) {
	f := newTestFetcher()
	f.fail["alpha.json"] = true
	f.fail["beta.json"] = true
	f.fail["gamma.json"] = true
	svc := NewService(f)

	shops, _ := svc.LoadShopRegistry(context.Background())
	if products := svc.LoadAllProducts(context.Background(), shops); len(products) != 0 {
		t.Errorf("len(products) = %d, want 0 when every shop fails", len(products))
	}
}

func TestLoadAllProducts_EmptyRegistry(t *testing.T) {
	svc := NewService(newTestFetcher())
	if products := svc.LoadAllProducts(context.Background(), nil); len(products) != 0 {
		t.Errorf("len(products) = %d, want 0 for empty registry", len(products))
	}
}

func TestAggregate_CachesSnapshot(t *testing.T) {
	f := newTestFetcher()
	svc := NewService(f)

	first, err := svc.Aggregate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Aggregate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("second Aggregate did not hit the cache")
	}

	f.mu.Lock()
	calls := len(f.calls)
	f.mu.Unlock()
	if calls != 4 { // registry + 3 shop files, once
		t.Errorf("fetch calls = %d, want 4", calls)
	}

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	f.mu.Lock()
	calls = len(f.calls)
	f.mu.Unlock()
	if calls != 8 {
		t.Errorf("fetch calls after Refresh = %d, want 8", calls)
	}
}

func TestAggregate_RegistryDown(t *testing.T) {
	f := newTestFetcher()
	f.fail[RegistryFile] = true
	svc := NewService(f)

	if _, err := svc.Aggregate(context.Background()); !errors.Is(err, ErrRegistryUnavailable) {
		t.Errorf("err = %v, want ErrRegistryUnavailable", err)
	}
}
