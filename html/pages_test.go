package html

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"imarket.GO/catalog"
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

func pageServer(t *testing.T) *echo.Echo {
	t.Helper()
	files := map[string][]byte{
		"shops.json": []byte(`[
			{"shop_id":"alpha","name":"Alpha Office","categories":["Desks"],"product_data_file":"alpha.json"}
		]`),
		"alpha.json": []byte(`[
			{"id":"a1","name":"Standing Desk","price":18000,"date_added":"2026-08-28"}
		]`),
	}
	svc := catalog.NewService(&stubFetcher{files: files})
	e := echo.New()
	e.Renderer = &Template{Templates: template.Must(template.ParseGlob("templates/*.html"))}
	RegisterPageRoutes(e, svc, nil)
	return e
}

func getPage(t *testing.T, e *echo.Echo, path string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code, rec.Body.String()
}

func TestProductPage_RendersDetails(t *testing.T) {
	e := pageServer(t)
	code, body := getPage(t, e, "/products/alpha/a1")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if !strings.Contains(body, "Standing Desk") || !strings.Contains(body, "18000") {
		t.Errorf("body missing product details:\n%s", body)
	}
	if !strings.Contains(body, "/shops/alpha") {
		t.Errorf("body missing the shop link:\n%s", body)
	}
}

func TestProductPage_UnknownIDInlineNotFound(t *testing.T) {
	e := pageServer(t)
	code, body := getPage(t, e, "/products/alpha/no-such-id")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
	if !strings.Contains(body, "Product not found") {
		t.Errorf("body missing the not-found message:\n%s", body)
	}
	// Inline state keeps the page shell, not a bare error string.
	if !strings.Contains(body, "site-header") {
		t.Errorf("not-found page lost the layout:\n%s", body)
	}
}

func TestProductPage_MissingParamsInlineNotFound(t *testing.T) {
	e := pageServer(t)
	code, body := getPage(t, e, "/products?shop=alpha")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
	if !strings.Contains(body, "Product not found") {
		t.Errorf("body missing the not-found message:\n%s", body)
	}
}
