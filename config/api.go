package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Public read-only paths (catalog views and search need no auth)
	return []string{
		"/api/catalog/shops",
		"/api/catalog/products",
		"/api/catalog/products/:shop/:id",
		"/api/catalog/deals",
		"/api/catalog/new-arrivals",
		"/api/catalog/recommendations",
		"/api/catalog/suggest",
		"/api/catalog/categories",
		"/api/agent/message",
		// Session-scoped user state is keyed by session id, not credentials
		"/api/store/profile",
		"/api/store/preferences",
		"/api/store/cart",
		"/api/store/cart/:productId",
		"/api/store/wishlist",
		"/api/store/wishlist/:productId",
		"/api/store/notifications",
		"/api/store/notifications/read-all",
		"/api/spin",
		"/api/spin/wheel",
		"/graphql",
	}
}
