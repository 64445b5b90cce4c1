package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	entity "imarket.GO/model/entity/store"
)

// StoreRepository owns the per-session user state: profile, cart, wishlist
// and notifications. Reads validate what they load; a corrupt row is reset
// to its default instead of surfacing a parse error.
type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// AutoMigrate creates the user-state tables (SQLite path; MySQL uses the
// migrations directory).
func (r *StoreRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&entity.Profile{},
		&entity.CartItem{},
		&entity.WishlistItem{},
		&entity.Notification{},
	)
}

// --- Profile ---

// GetProfile returns the session's profile, creating a guest profile on
// first touch.
func (r *StoreRepository) GetProfile(sessionID string) (*entity.Profile, error) {
	var p entity.Profile
	err := r.db.Where("session_id = ?", sessionID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = entity.Profile{
			SessionID:          sessionID,
			Name:               entity.GuestName,
			FavoriteCategories: datatypes.JSON([]byte("[]")),
			SpinsLeft:          entity.DefaultSpins,
			Theme:              "light",
		}
		if err := r.db.Create(&p).Error; err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
		return &p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	// Discard corrupt preference data rather than propagating it.
	var cats []string
	if len(p.FavoriteCategories) > 0 && json.Unmarshal(p.FavoriteCategories, &cats) != nil {
		log.Printf("store: session %s: corrupt favorite categories, resetting", sessionID)
		p.FavoriteCategories = datatypes.JSON([]byte("[]"))
		if err := r.db.Model(&p).Update("favorite_categories", p.FavoriteCategories).Error; err != nil {
			return nil, fmt.Errorf("reset favorite categories: %w", err)
		}
	}
	return &p, nil
}

// SaveProfile persists the full profile row.
func (r *StoreRepository) SaveProfile(p *entity.Profile) error {
	if err := r.db.Save(p).Error; err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// FavoriteCategories decodes the profile's category list.
func (r *StoreRepository) FavoriteCategories(p *entity.Profile) []string {
	var cats []string
	if err := json.Unmarshal(p.FavoriteCategories, &cats); err != nil {
		return nil
	}
	return cats
}

// SetFavoriteCategories stores the category list and marks preferences set.
func (r *StoreRepository) SetFavoriteCategories(p *entity.Profile, categories []string) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	p.FavoriteCategories = datatypes.JSON(data)
	p.HasSetPreferences = true
	return r.SaveProfile(p)
}

// --- Cart ---

// AddCartItem inserts a cart line, or bumps the quantity when the same
// product with the same attributes is already in the cart.
func (r *StoreRepository) AddCartItem(sessionID string, item entity.CartItem) error {
	item.SessionID = sessionID
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	var existing entity.CartItem
	err := r.db.Where("session_id = ? AND product_id = ? AND shop_id = ?",
		sessionID, item.ProductID, item.ShopID).First(&existing).Error
	if err == nil && string(existing.Attributes) == string(item.Attributes) {
		existing.Quantity += item.Quantity
		return r.db.Save(&existing).Error
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup cart item: %w", err)
	}
	if err := r.db.Create(&item).Error; err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// UpdateCartQuantity sets a line's quantity; zero or less removes the line.
func (r *StoreRepository) UpdateCartQuantity(sessionID, productID string, quantity int) error {
	if quantity <= 0 {
		return r.RemoveCartItem(sessionID, productID)
	}
	return r.db.Model(&entity.CartItem{}).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		Update("quantity", quantity).Error
}

func (r *StoreRepository) RemoveCartItem(sessionID, productID string) error {
	return r.db.Where("session_id = ? AND product_id = ?", sessionID, productID).
		Delete(&entity.CartItem{}).Error
}

func (r *StoreRepository) ClearCart(sessionID string) error {
	return r.db.Where("session_id = ?", sessionID).Delete(&entity.CartItem{}).Error
}

func (r *StoreRepository) CartItems(sessionID string) ([]entity.CartItem, error) {
	var items []entity.CartItem
	err := r.db.Where("session_id = ?", sessionID).Order("id").Find(&items).Error
	return items, err
}

// CartCount is the total quantity across the session's cart.
func (r *StoreRepository) CartCount(sessionID string) (int, error) {
	var count *int
	err := r.db.Model(&entity.CartItem{}).
		Select("SUM(quantity)").
		Where("session_id = ?", sessionID).
		Scan(&count).Error
	if err != nil || count == nil {
		return 0, err
	}
	return *count, nil
}

// CartCountByShop breaks the cart count down per shop.
func (r *StoreRepository) CartCountByShop(sessionID string) (map[string]int, error) {
	var rows []struct {
		ShopID string
		Total  int
	}
	err := r.db.Model(&entity.CartItem{}).
		Select("shop_id, SUM(quantity) AS total").
		Where("session_id = ?", sessionID).
		Group("shop_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ShopID] = row.Total
	}
	return counts, nil
}

// --- Wishlist ---

// AddWishlistItem saves a product; adding the same product twice is a no-op.
func (r *StoreRepository) AddWishlistItem(sessionID string, item entity.WishlistItem) error {
	item.SessionID = sessionID
	var existing entity.WishlistItem
	err := r.db.Where("session_id = ? AND product_id = ? AND shop_id = ?",
		sessionID, item.ProductID, item.ShopID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup wishlist item: %w", err)
	}
	return r.db.Create(&item).Error
}

func (r *StoreRepository) RemoveWishlistItem(sessionID, productID string) error {
	return r.db.Where("session_id = ? AND product_id = ?", sessionID, productID).
		Delete(&entity.WishlistItem{}).Error
}

func (r *StoreRepository) WishlistItems(sessionID string) ([]entity.WishlistItem, error) {
	var items []entity.WishlistItem
	err := r.db.Where("session_id = ?", sessionID).Order("id").Find(&items).Error
	return items, err
}

// --- Notifications ---

func (r *StoreRepository) AddNotification(sessionID, message string) error {
	return r.db.Create(&entity.Notification{SessionID: sessionID, Message: message}).Error
}

func (r *StoreRepository) Notifications(sessionID string) ([]entity.Notification, error) {
	var items []entity.Notification
	err := r.db.Where("session_id = ?", sessionID).Order("id DESC").Find(&items).Error
	return items, err
}

func (r *StoreRepository) MarkAllNotificationsRead(sessionID string) error {
	return r.db.Model(&entity.Notification{}).
		Where("session_id = ? AND read = ?", sessionID, false).
		Update("read", true).Error
}
