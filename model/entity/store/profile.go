package store

import (
	"time"

	"gorm.io/datatypes"
)

// Profile is the per-session user record: identity, preferences and the
// small UI state the site remembers between visits (theme, category carousel
// offset, last visited shop, spins left on the prize wheel).
type Profile struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SessionID string `gorm:"uniqueIndex;size:64" json:"session_id"`

	Name     string `json:"name"`
	LoggedIn bool   `json:"logged_in"`

	FavoriteCategories    datatypes.JSON `json:"favorite_categories"`
	HasSetPreferences     bool           `json:"has_set_preferences"`
	HasSkippedPreferences bool           `json:"has_skipped_preferences"`

	Theme              string `gorm:"size:16" json:"theme"`
	CategoryStartIndex int    `json:"category_start_index"`
	LastVisitedShopID  string `gorm:"size:64" json:"last_visited_shop_id"`

	SpinsLeft int    `json:"spins_left"`
	WonPrize  string `json:"won_prize,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GuestName is the profile name before any login.
const GuestName = "Guest User"

// DefaultSpins is how many prize-wheel spins a new profile gets.
const DefaultSpins = 3
