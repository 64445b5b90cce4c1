package html

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"imarket.GO/service/media"
)

// RegisterMediaRoutes serves generated placeholder images. Product images
// themselves live on the shops' own hosts; only the fallback is ours.
func RegisterMediaRoutes(e *echo.Echo, store media.Store) {
	e.GET("/media/placeholder/:w/:h", func(c echo.Context) error {
		w, err := strconv.Atoi(c.Param("w"))
		if err != nil {
			return c.String(http.StatusBadRequest, "bad width")
		}
		h, err := strconv.Atoi(c.Param("h"))
		if err != nil {
			return c.String(http.StatusBadRequest, "bad height")
		}
		img, err := store.PlaceholderWebP(w, h)
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		return c.Blob(http.StatusOK, "image/webp", img)
	})
}
