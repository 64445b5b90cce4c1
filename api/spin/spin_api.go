package spin

import (
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"imarket.GO/api"
	catalogAPI "imarket.GO/api/catalog"
	storeRepo "imarket.GO/model/repository/store"
	spinSvc "imarket.GO/service/spin"
)

func init() {
	api.RegisterModule(RegisterSpinRoutes)
}

var (
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
	rngMu sync.Mutex
)

// RegisterSpinRoutes exposes the spin-to-win wheel. The wheel is rebuilt per
// request from the current catalog snapshot; remaining spins and the won
// prize live on the session profile.
func RegisterSpinRoutes(apiGroup *echo.Group, db *gorm.DB) {
	repo := storeRepo.NewStoreRepository(db)
	g := apiGroup.Group("/spin")

	g.GET("/wheel", func(c echo.Context) error {
		sessionID := api.SessionID(c)
		if sessionID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "session id is required"})
		}
		snap, err := catalogAPI.Service().Aggregate(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
		}
		profile, err := repo.GetProfile(sessionID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		rngMu.Lock()
		wheel := spinSvc.BuildWheel(snap.Products, rng)
		rngMu.Unlock()
		return c.JSON(http.StatusOK, echo.Map{
			"wheel":      wheel,
			"spins_left": profile.SpinsLeft,
			"won_prize":  profile.WonPrize,
		})
	})

	g.POST("", func(c echo.Context) error {
		sessionID := api.SessionID(c)
		if sessionID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "session id is required"})
		}
		profile, err := repo.GetProfile(sessionID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if profile.SpinsLeft <= 0 {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no spins left"})
		}
		snap, err := catalogAPI.Service().Aggregate(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
		}
		rngMu.Lock()
		wheel := spinSvc.BuildWheel(snap.Products, rng)
		prize, section := spinSvc.Spin(wheel, rng)
		rngMu.Unlock()

		profile.SpinsLeft--
		profile.WonPrize = prize.Name
		if err := repo.SaveProfile(profile); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if err := repo.AddNotification(sessionID, "You won "+prize.Name+" on the prize wheel!"); err != nil {
			log.Printf("spin: notification: %v", err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"prize":      prize,
			"section":    section,
			"spins_left": profile.SpinsLeft,
		})
	})
}
