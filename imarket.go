package main

import (
	"html/template"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"imarket.GO/api"
	_ "imarket.GO/api/agent"
	catalogApi "imarket.GO/api/catalog"
	graphqlApi "imarket.GO/api/graphql"
	_ "imarket.GO/api/spin"
	_ "imarket.GO/api/store"
	"imarket.GO/config"
	_ "imarket.GO/custom"
	html "imarket.GO/html"
	storeRepo "imarket.GO/model/repository/store"
	"imarket.GO/service/media"
)

func getAuthMiddleware() echo.MiddlewareFunc {
	skipPaths := config.GetAuthSkipperPaths()
	skipper := func(c echo.Context) bool {
		path := c.Path()
		for _, skip := range skipPaths {
			if path == skip {
				return true
			}
		}
		return false
	}
	authType := os.Getenv("AUTH_TYPE")
	switch authType {
	case "key":
		apiKey := os.Getenv("API_KEY")
		return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == apiKey, nil
			},
			Skipper: skipper,
		})
	default:
		return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
			Validator: func(username, password string, c echo.Context) (bool, error) {
				return username == os.Getenv("API_USER") && password == os.Getenv("API_PASS"), nil
			},
			Skipper: skipper,
		})
	}
}

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	// Initialize Redis
	config.InitRedis()
	redisStatus := "Redis not configured or not reachable, caching disabled."
	if config.RedisClient != nil {
		err := config.RedisClient.Ping(config.RedisCtx()).Err()
		if err == nil {
			redisStatus = "Redis connection successful."
		} else {
			config.RedisClient = nil // Disable Redis if not reachable
			redisStatus = "Redis configured but not reachable, caching disabled."
		}
	}
	log.Println(redisStatus)

	db, err := config.NewDB()
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	// Check DB connection
	sqldb, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get DB instance: %v", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	log.Println("Database connection successful.")

	if err := storeRepo.NewStoreRepository(db).AutoMigrate(); err != nil {
		log.Fatalf("store schema migration failed: %v", err)
	}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			log.Printf("Request duration: %d ms", duration)
			return err
		}
	})

	// Register the template renderer
	t := &html.Template{
		Templates: template.Must(template.ParseGlob("html/templates/*.html")),
	}
	e.Renderer = t

	for _, tmpl := range t.Templates.Templates() {
		log.Println("Loaded template:", tmpl.Name())
	}

	apiGroup := e.Group("/api")
	apiGroup.Use(getAuthMiddleware())

	api.ApplyModules(apiGroup, db)
	api.ApplyRoutes(e, db)

	graphqlApi.RegisterGraphQLRoutes(e, catalogApi.Service())
	html.RegisterPageRoutes(e, catalogApi.Service(), db)
	html.RegisterMediaRoutes(e, media.Store{Dir: config.AppConfig.MediaDir})
	e.Static("/assets", "assets")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on :%s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
