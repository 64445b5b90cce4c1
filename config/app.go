package config

import (
	"os"
	"sync"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName string
	Port    string
	Env     string
	Debug   bool

	// DataDir is where the shop registry and per-shop product JSON live.
	DataDir string
	// DataBaseURL, when set, makes the catalog fetch shop data over HTTP
	// instead of from DataDir.
	DataBaseURL string
	// MediaDir is where generated placeholders and thumbnails are cached.
	MediaDir string
	// PlaceholderImageURL is the image used when a product has none.
	PlaceholderImageURL string
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		mediaDir := os.Getenv("MEDIA_DIR")
		if mediaDir == "" {
			mediaDir = "media"
		}
		AppConfig = &Config{
			AppName:             os.Getenv("APP_NAME"),
			Port:                os.Getenv("PORT"),
			Env:                 os.Getenv("APP_ENV"),
			Debug:               os.Getenv("DEBUG") == "true",
			DataDir:             dataDir,
			DataBaseURL:         os.Getenv("DATA_BASE_URL"),
			MediaDir:            mediaDir,
			PlaceholderImageURL: "/media/placeholder/150/150",
		}
	})
}
