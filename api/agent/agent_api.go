package agent

import (
	"log"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"imarket.GO/api"
	"imarket.GO/catalog"
	"imarket.GO/config"
	agentSvc "imarket.GO/service/agent"
)

func init() {
	api.RegisterModule(RegisterAgentRoutes)
}

var (
	agentOnce sync.Once
	instance  *agentSvc.Agent
)

func getAgent(c echo.Context) *agentSvc.Agent {
	agentOnce.Do(func() {
		cfg := config.AppConfig
		fetcher := catalog.NewFetcher(cfg.DataDir, cfg.DataBaseURL)
		a, err := agentSvc.Load(c.Request().Context(), fetcher)
		if err != nil {
			log.Printf("agent: loading script failed: %v", err)
			a = agentSvc.New(agentSvc.Script{
				DefaultResponse: "Sorry, our support agent is unavailable right now.",
			})
		}
		instance = a
	})
	return instance
}

// SetAgentForTesting replaces the lazily built agent instance.
func SetAgentForTesting(a *agentSvc.Agent) {
	agentOnce.Do(func() {})
	instance = a
}

// RegisterAgentRoutes exposes the scripted support agent.
func RegisterAgentRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/agent")

	g.POST("/message", func(c echo.Context) error {
		var body struct {
			Message string `json:"message"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.Message == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "message is required"})
		}
		reply := getAgent(c).Reply(body.Message)
		return c.JSON(http.StatusOK, echo.Map{"reply": reply})
	})
}
