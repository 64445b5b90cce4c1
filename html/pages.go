package html

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"imarket.GO/api"
	"imarket.GO/catalog"
	entity "imarket.GO/model/entity/store"
	storeRepo "imarket.GO/model/repository/store"
)

const homeCategoriesPerLoad = 8
const previewSize = 8

// RegisterPageRoutes registers the server-rendered storefront pages. Pages
// never fail hard on catalog errors; they render with empty sections and the
// shared error message instead.
func RegisterPageRoutes(e *echo.Echo, svc *catalog.Service, db *gorm.DB) {
	var repo *storeRepo.StoreRepository
	if db != nil {
		repo = storeRepo.NewStoreRepository(db)
	}

	profileFor := func(c echo.Context) *entity.Profile {
		if repo == nil {
			return nil
		}
		sessionID := api.SessionID(c)
		if sessionID == "" {
			return nil
		}
		p, err := repo.GetProfile(sessionID)
		if err != nil {
			log.Printf("pages: profile lookup: %v", err)
			return nil
		}
		return p
	}

	// baseWith takes an already-fetched profile so handlers that need the
	// profile themselves issue a single lookup per request.
	baseWith := func(p *entity.Profile, title string) map[string]interface{} {
		data := map[string]interface{}{
			"Title": title,
			"Theme": "light",
			"Year":  time.Now().Year(),
		}
		if p != nil {
			if p.Theme != "" {
				data["Theme"] = p.Theme
			}
			data["ProfileName"] = p.Name
		}
		return data
	}

	base := func(c echo.Context, title string) map[string]interface{} {
		return baseWith(profileFor(c), title)
	}

	e.GET("/", func(c echo.Context) error {
		profile := profileFor(c)
		data := baseWith(profile, "iMarket")
		snap, err := svc.Aggregate(c.Request().Context())
		if err != nil {
			log.Println("home:", err)
			data["Error"] = "Failed to load shops. Please try again later."
			return c.Render(http.StatusOK, "home.html", data)
		}

		if profile != nil {
			window, next := catalog.RotateCategories(catalog.UniqueCategories(snap.Shops), profile.CategoryStartIndex, homeCategoriesPerLoad)
			data["Categories"] = window
			profile.CategoryStartIndex = next
			if repo != nil {
				if err := repo.SaveProfile(profile); err != nil {
					log.Printf("home: save rotation offset: %v", err)
				}
			}
		} else {
			window, _ := catalog.RotateCategories(catalog.UniqueCategories(snap.Shops), 0, homeCategoriesPerLoad)
			data["Categories"] = window
		}

		deals := catalog.Deals(snap.Products, 0)
		if len(deals) > previewSize {
			deals = deals[:previewSize]
		}
		arrivals := catalog.NewArrivals(snap.Products, time.Now(), catalog.DefaultNewArrivalsWindow)
		if len(arrivals) > previewSize {
			arrivals = arrivals[:previewSize]
		}
		data["Shops"] = snap.Shops
		data["Deals"] = deals
		data["NewArrivals"] = arrivals
		return c.Render(http.StatusOK, "home.html", data)
	})

	e.GET("/shops", func(c echo.Context) error {
		data := base(c, "Shops | iMarket")
		snap, err := svc.Aggregate(c.Request().Context())
		if err != nil {
			data["Error"] = "Failed to load shops. Please try again later."
			return c.Render(http.StatusOK, "shops.html", data)
		}
		data["Shops"] = snap.Shops
		return c.Render(http.StatusOK, "shops.html", data)
	})

	e.GET("/shops/:id", func(c echo.Context) error {
		profile := profileFor(c)
		data := baseWith(profile, "Shop | iMarket")
		snap, err := svc.Aggregate(c.Request().Context())
		if err != nil {
			data["Error"] = "Failed to load shops. Please try again later."
			return c.Render(http.StatusOK, "shop.html", data)
		}
		shopID := c.Param("id")
		var shop *catalog.ShopDescriptor
		for i := range snap.Shops {
			if snap.Shops[i].ShopID == shopID {
				shop = &snap.Shops[i]
				break
			}
		}
		if shop == nil {
			return c.String(http.StatusNotFound, "Shop not found")
		}
		products := make([]catalog.UnifiedProduct, 0)
		for _, p := range snap.Products {
			if p.ShopID == shopID {
				products = append(products, p)
			}
		}
		// Remember the visit for recommendations.
		if profile != nil && repo != nil {
			profile.LastVisitedShopID = shopID
			if err := repo.SaveProfile(profile); err != nil {
				log.Printf("shop page: save last visit: %v", err)
			}
		}
		data["Title"] = shop.Name + " | iMarket"
		data["Shop"] = shop
		data["Products"] = products
		return c.Render(http.StatusOK, "shop.html", data)
	})

	productPage := func(c echo.Context, shopID, productID string) error {
		data := base(c, "Product | iMarket")
		if shopID == "" || productID == "" {
			data["NotFound"] = true
			return c.Render(http.StatusNotFound, "product.html", data)
		}
		snap, err := svc.Aggregate(c.Request().Context())
		if err != nil {
			data["Error"] = "Failed to load shops. Please try again later."
			return c.Render(http.StatusOK, "product.html", data)
		}
		p, ok := catalog.FindProduct(snap.Products, shopID, productID)
		if !ok {
			data["NotFound"] = true
			return c.Render(http.StatusNotFound, "product.html", data)
		}
		data["Title"] = p.Name + " | iMarket"
		data["Product"] = p
		data["FinalPrice"] = p.PriceAmount
		if p.DiscountPercent > 0 {
			data["OriginalPrice"] = p.PriceAmount
			data["FinalPrice"] = p.PriceAmount * (1 - p.DiscountPercent/100)
		}
		for i := range snap.Shops {
			if snap.Shops[i].ShopID == shopID {
				data["Shop"] = &snap.Shops[i]
				break
			}
		}
		return c.Render(http.StatusOK, "product.html", data)
	}

	e.GET("/products/:shop/:id", func(c echo.Context) error {
		return productPage(c, c.Param("shop"), c.Param("id"))
	})

	// Query-parameter form used by links carried over from bookmarks; a
	// missing parameter renders the inline not-found state.
	e.GET("/products", func(c echo.Context) error {
		return productPage(c, c.QueryParam("shop"), c.QueryParam("id"))
	})

	e.GET("/deals", func(c echo.Context) error {
		data := base(c, "Deals | iMarket")
		snap, err := svc.Aggregate(c.Request().Context())
		if err != nil {
			data["Error"] = "Failed to load shops. Please try again later."
			return c.Render(http.StatusOK, "deals.html", data)
		}
		order, byShop := catalog.GroupDealsByShop(catalog.Deals(snap.Products, 0))
		data["ShopOrder"] = order
		data["DealsByShop"] = byShop
		return c.Render(http.StatusOK, "deals.html", data)
	})

	e.GET("/new-arrivals", func(c echo.Context) error {
		data := base(c, "New Arrivals | iMarket")
		snap, err := svc.Aggregate(c.Request().Context())
		if err != nil {
			data["Error"] = "Failed to load shops. Please try again later."
			return c.Render(http.StatusOK, "new_arrivals.html", data)
		}
		data["Products"] = catalog.NewArrivals(snap.Products, time.Now(), catalog.DefaultNewArrivalsWindow)
		return c.Render(http.StatusOK, "new_arrivals.html", data)
	})
}
