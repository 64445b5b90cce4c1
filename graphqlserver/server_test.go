package graphqlserver

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"imarket.GO/catalog"
	"imarket.GO/graphql/registry"
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

func testService(t *testing.T) *catalog.Service {
	t.Helper()
	return catalog.NewService(&stubFetcher{files: map[string][]byte{
		"shops.json": []byte(`[
			{"shop_id":"wood_works","name":"Wood Works","categories":["Furniture"],"product_data_file":"wood.json","shopPageUrl":"/shops/wood_works","logo_url":"/media/wood.png"},
			{"shop_id":"joy_totes","name":"Joy Totes","categories":["Bags"],"product_data_file":"totes.json","shopPageUrl":"/shops/joy_totes","logo_url":"/media/totes.png"}
		]`),
		"wood.json": []byte(`[
			{"id":"w1","name":"Oak Desk","price":{"amount":12000},"isDiscounted":true,"discount_percent":10,"listingDate":"2026-08-20"},
			{"id":"w2","name":"Pine Shelf","price":{"amount":4000}}
		]`),
		"totes.json": []byte(`[
			{"item_id":"t1","title":"Canvas Tote","price_ksh":1500,"dateAdded":"2026-08-25"}
		]`),
	}})
}

func exec(t *testing.T, svc *catalog.Service, query string) map[string]interface{} {
	t.Helper()
	schema, err := NewSchema(svc)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	resp := schema.Exec(context.Background(), query, "", nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("query errors: %v", resp.Errors)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return data
}

func TestQuery_Shops(t *testing.T) {
	data := exec(t, testService(t), `{ shops { id name categories } }`)
	shops := data["shops"].([]interface{})
	if len(shops) != 2 {
		t.Fatalf("expected 2 shops, got %d", len(shops))
	}
	first := shops[0].(map[string]interface{})
	if first["id"] != "wood_works" {
		t.Errorf("registry order not preserved: %v", first["id"])
	}
}

func TestQuery_ProductsByShop(t *testing.T) {
	data := exec(t, testService(t), `{ products(shopId: "joy_totes") { id name price shopName } }`)
	products := data["products"].([]interface{})
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0].(map[string]interface{})
	if p["name"] != "Canvas Tote" || p["price"].(float64) != 1500 {
		t.Errorf("unexpected product: %v", p)
	}
	if p["shopName"] != "Joy Totes" {
		t.Errorf("shop name not attached: %v", p["shopName"])
	}
}

func TestQuery_Deals(t *testing.T) {
	data := exec(t, testService(t), `{ deals { product { id } finalPrice originalPrice } }`)
	deals := data["deals"].([]interface{})
	if len(deals) != 1 {
		t.Fatalf("expected 1 deal, got %d", len(deals))
	}
	d := deals[0].(map[string]interface{})
	if d["originalPrice"].(float64) != 12000 || d["finalPrice"].(float64) != 10800 {
		t.Errorf("deal pricing wrong: %v", d)
	}
}

func TestQuery_Suggest(t *testing.T) {
	data := exec(t, testService(t), `{ suggest(query: "tote") { kind value } }`)
	hits := data["suggest"].([]interface{})
	if len(hits) == 0 {
		t.Fatal("expected suggestions for 'tote'")
	}
}

func TestQuery_Extension(t *testing.T) {
	registry.Register("pingProbe", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return map[string]string{"pong": args["who"].(string)}, nil
	})
	defer registry.Unregister("pingProbe")

	data := exec(t, testService(t), `{ extension(name: "pingProbe", args: "{\"who\":\"imarket\"}") }`)
	raw, ok := data["extension"].(string)
	if !ok {
		t.Fatalf("expected JSON string, got %v", data["extension"])
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode extension payload: %v", err)
	}
	if out["pong"] != "imarket" {
		t.Errorf("unexpected payload: %v", out)
	}
}
