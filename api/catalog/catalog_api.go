package catalog

import (
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"imarket.GO/api"
	"imarket.GO/catalog"
	"imarket.GO/config"
	storeRepo "imarket.GO/model/repository/store"
	"imarket.GO/service/search"
)

func init() {
	api.RegisterModule(RegisterCatalogRoutes)
}

var (
	svc     *catalog.Service
	svcOnce sync.Once
	rng     = rand.New(rand.NewSource(time.Now().UnixNano()))
	rngMu   sync.Mutex
)

// Service returns the shared catalog aggregator, built from AppConfig on
// first use.
func Service() *catalog.Service {
	svcOnce.Do(func() {
		cfg := config.AppConfig
		fetcher := catalog.NewFetcher(cfg.DataDir, cfg.DataBaseURL)
		svc = catalog.NewService(fetcher, catalog.WithRedis(config.RedisClient))
	})
	return svc
}

// SetServiceForTesting swaps the shared aggregator (tests only).
func SetServiceForTesting(s *catalog.Service) {
	svcOnce.Do(func() {})
	svc = s
}

const unavailableMessage = "Failed to load shops. Please try again later."

func RegisterCatalogRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/catalog")
	var repo *storeRepo.StoreRepository
	if db != nil {
		repo = storeRepo.NewStoreRepository(db)
	}

	// GET /api/catalog/shops – the registry itself
	g.GET("/shops", func(c echo.Context) error {
		snap, err := Service().Aggregate(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": unavailableMessage, "shops": []catalog.ShopDescriptor{}})
		}
		return c.JSON(http.StatusOK, echo.Map{"shops": snap.Shops})
	})

	// GET /api/catalog/products – the aggregated unified list
	g.GET("/products", func(c echo.Context) error {
		snap, err := Service().Aggregate(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": unavailableMessage, "products": []catalog.UnifiedProduct{}})
		}
		products := snap.Products
		if shopID := c.QueryParam("shop"); shopID != "" {
			var filtered []catalog.UnifiedProduct
			for _, p := range products {
				if p.ShopID == shopID {
					filtered = append(filtered, p)
				}
			}
			products = filtered
		}
		return c.JSON(http.StatusOK, echo.Map{"products": products, "total": len(products)})
	})

	// GET /api/catalog/products/:shop/:id – one product, for details views
	g.GET("/products/:shop/:id", func(c echo.Context) error {
		snap, err := Service().Aggregate(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": unavailableMessage})
		}
		p, ok := catalog.FindProduct(snap.Products, c.Param("shop"), c.Param("id"))
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		return c.JSON(http.StatusOK, echo.Map{"product": p})
	})

	// GET /api/catalog/deals?min_discount=9&shuffle=true
	g.GET("/deals", func(c echo.Context) error {
		snap, err := Service().Aggregate(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": unavailableMessage, "deals": []catalog.DealItem{}})
		}
		minDiscount, _ := strconv.ParseFloat(c.QueryParam("min_discount"), 64)
		deals := catalog.Deals(snap.Products, minDiscount)
		if c.QueryParam("shuffle") == "true" {
			rngMu.Lock()
			rng.Shuffle(len(deals), func(i, j int) { deals[i], deals[j] = deals[j], deals[i] })
			rngMu.Unlock()
		}
		return c.JSON(http.StatusOK, echo.Map{"deals": deals, "total": len(deals)})
	})

	// GET /api/catalog/new-arrivals?window_days=60
	g.GET("/new-arrivals", func(c echo.Context) error {
		snap, err := Service().Aggregate(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": unavailableMessage, "products": []catalog.UnifiedProduct{}})
		}
		window := catalog.DefaultNewArrivalsWindow
		if days, err := strconv.Atoi(c.QueryParam("window_days")); err == nil && days > 0 {
			window = time.Duration(days) * 24 * time.Hour
		}
		recent := catalog.NewArrivals(snap.Products, time.Now(), window)
		return c.JSON(http.StatusOK, echo.Map{"products": recent, "total": len(recent)})
	})

	// GET /api/catalog/recommendations – personalized by session profile
	g.GET("/recommendations", func(c echo.Context) error {
		snap, err := Service().Aggregate(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": unavailableMessage, "products": []catalog.UnifiedProduct{}})
		}

		var prefs catalog.Preferences
		if repo != nil {
			if sessionID := api.SessionID(c); sessionID != "" {
				if profile, err := repo.GetProfile(sessionID); err == nil {
					prefs.LastVisitedShopID = profile.LastVisitedShopID
					prefs.FavoriteCategories = repo.FavoriteCategories(profile)
				}
			}
		}

		n := 12
		if v, err := strconv.Atoi(c.QueryParam("count")); err == nil && v > 0 {
			n = v
		}
		rngMu.Lock()
		picked := catalog.Recommend(snap.Products, prefs, n, time.Now(), rng)
		rngMu.Unlock()

		return c.JSON(http.StatusOK, echo.Map{
			"products": picked,
			"top_shop": catalog.TopShop(picked),
		})
	})

	// GET /api/catalog/suggest?q=... – header search suggestions
	g.GET("/suggest", func(c echo.Context) error {
		q := c.QueryParam("q")
		snap, err := Service().Aggregate(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": unavailableMessage, "suggestions": []catalog.Suggestion{}})
		}
		suggestions := search.GetSearchService().Suggest(c.Request().Context(), snap, q)
		if suggestions == nil {
			suggestions = []catalog.Suggestion{}
		}
		return c.JSON(http.StatusOK, echo.Map{"suggestions": suggestions})
	})

	// GET /api/catalog/categories?offset=0 – rotating top-categories window
	g.GET("/categories", func(c echo.Context) error {
		snap, err := Service().Aggregate(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Failed to load categories. Please try again later.", "categories": []string{}})
		}
		offset, _ := strconv.Atoi(c.QueryParam("offset"))
		window, next := catalog.RotateCategories(catalog.UniqueCategories(snap.Shops), offset, 8)
		return c.JSON(http.StatusOK, echo.Map{"categories": window, "next_offset": next})
	})

	// POST /api/catalog/refresh – drop caches, re-aggregate, reindex search
	g.POST("/refresh", func(c echo.Context) error {
		start := time.Now()
		snap, err := Service().Refresh(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": unavailableMessage})
		}
		indexed := false
		if ss := search.GetSearchService(); ss.Enabled() {
			if err := ss.IndexProducts(c.Request().Context(), snap.Products); err == nil {
				indexed = true
			}
		}
		return c.JSON(http.StatusOK, echo.Map{
			"shops":               len(snap.Shops),
			"products":            len(snap.Products),
			"search_indexed":      indexed,
			"request_duration_ms": time.Since(start).Milliseconds(),
		})
	})
}
