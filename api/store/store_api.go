package store

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"imarket.GO/api"
	entity "imarket.GO/model/entity/store"
	storeRepo "imarket.GO/model/repository/store"
)

func init() {
	api.RegisterModule(RegisterStoreRoutes)
}

// RegisterStoreRoutes wires the user-state endpoints: profile, preferences,
// cart, wishlist and notifications. Every route requires a session id.
func RegisterStoreRoutes(apiGroup *echo.Group, db *gorm.DB) {
	repo := storeRepo.NewStoreRepository(db)
	g := apiGroup.Group("/store")

	requireSession := func(c echo.Context) (string, error) {
		id := api.SessionID(c)
		if id == "" {
			return "", c.JSON(http.StatusBadRequest, echo.Map{"error": "session id is required"})
		}
		return id, nil
	}

	// --- Profile & preferences ---

	g.GET("/profile", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		profile, err := repo.GetProfile(sessionID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, profile)
	})

	g.PUT("/profile", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		var body struct {
			Name              *string `json:"name"`
			LoggedIn          *bool   `json:"logged_in"`
			Theme             *string `json:"theme"`
			LastVisitedShopID *string `json:"last_visited_shop_id"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		profile, err := repo.GetProfile(sessionID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if body.Name != nil {
			profile.Name = *body.Name
		}
		if body.LoggedIn != nil {
			profile.LoggedIn = *body.LoggedIn
		}
		if body.Theme != nil {
			profile.Theme = *body.Theme
		}
		if body.LastVisitedShopID != nil {
			profile.LastVisitedShopID = *body.LastVisitedShopID
		}
		if err := repo.SaveProfile(profile); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, profile)
	})

	g.POST("/preferences", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		var body struct {
			FavoriteCategories []string `json:"favorite_categories"`
			Skip               bool     `json:"skip"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		profile, err := repo.GetProfile(sessionID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if body.Skip {
			profile.HasSetPreferences = true
			profile.HasSkippedPreferences = true
			if err := repo.SaveProfile(profile); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
			}
		} else if err := repo.SetFavoriteCategories(profile, body.FavoriteCategories); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, profile)
	})

	// --- Cart ---

	g.GET("/cart", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		items, err := repo.CartItems(sessionID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		count, _ := repo.CartCount(sessionID)
		byShop, _ := repo.CartCountByShop(sessionID)
		return c.JSON(http.StatusOK, echo.Map{"items": items, "count": count, "count_by_shop": byShop})
	})

	g.POST("/cart", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		var body struct {
			ProductID  string                 `json:"product_id"`
			ShopID     string                 `json:"shop_id"`
			Name       string                 `json:"name"`
			Price      float64                `json:"price"`
			Quantity   int                    `json:"quantity"`
			Attributes map[string]interface{} `json:"attributes"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.ProductID == "" || body.ShopID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and shop_id are required"})
		}
		item := entity.CartItem{
			ProductID: body.ProductID,
			ShopID:    body.ShopID,
			Name:      body.Name,
			Price:     body.Price,
			Quantity:  body.Quantity,
		}
		if len(body.Attributes) > 0 {
			attrs, err := json.Marshal(body.Attributes)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			}
			item.Attributes = datatypes.JSON(attrs)
		}
		if err := repo.AddCartItem(sessionID, item); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		count, _ := repo.CartCount(sessionID)
		return c.JSON(http.StatusOK, echo.Map{"count": count})
	})

	g.PUT("/cart/:productId", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		var body struct {
			Quantity int `json:"quantity"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := repo.UpdateCartQuantity(sessionID, c.Param("productId"), body.Quantity); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		count, _ := repo.CartCount(sessionID)
		return c.JSON(http.StatusOK, echo.Map{"count": count})
	})

	g.DELETE("/cart/:productId", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		if err := repo.RemoveCartItem(sessionID, c.Param("productId")); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		count, _ := repo.CartCount(sessionID)
		return c.JSON(http.StatusOK, echo.Map{"count": count})
	})

	g.DELETE("/cart", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		if err := repo.ClearCart(sessionID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"count": 0})
	})

	// --- Wishlist ---

	g.GET("/wishlist", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		items, err := repo.WishlistItems(sessionID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items})
	})

	g.POST("/wishlist", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		var item entity.WishlistItem
		if err := c.Bind(&item); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if item.ProductID == "" || item.ShopID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and shop_id are required"})
		}
		if err := repo.AddWishlistItem(sessionID, item); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "saved"})
	})

	g.DELETE("/wishlist/:productId", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		if err := repo.RemoveWishlistItem(sessionID, c.Param("productId")); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "removed"})
	})

	// --- Notifications ---

	g.GET("/notifications", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		items, err := repo.Notifications(sessionID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"notifications": items})
	})

	g.POST("/notifications", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		var body struct {
			Message string `json:"message"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.Message == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "message is required"})
		}
		if err := repo.AddNotification(sessionID, body.Message); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	g.POST("/notifications/read-all", func(c echo.Context) error {
		sessionID, err := requireSession(c)
		if sessionID == "" {
			return err
		}
		if err := repo.MarkAllNotificationsRead(sessionID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
}
