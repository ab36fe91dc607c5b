package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mist/cache"
	"mist/db"
	"mist/handlers"
	"mist/middleware"
	"mist/monitoring"
	"mist/pricing"
	"mist/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	utils.InitLogger()
	db.InitDB()
	db.SeedGames()

	if err := cache.InitRedis(); err != nil {
		utils.Log.WithError(err).Warn("Redis unavailable, response caching disabled")
	}

	monitoring.InitMetrics()

	dealsURL := os.Getenv("DEALS_SERVICE_URL")
	if dealsURL == "" {
		dealsURL = "http://import-service:3003"
	}
	handlers.Prices = pricing.NewService(pricing.NewHTTPSource(dealsURL), db.DB)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(monitoring.PrometheusMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes
	r.POST("/register", handlers.Register)
	r.POST("/login", handlers.Login)
	r.POST("/logout", handlers.Logout)
	r.GET("/games", handlers.GetGames)
	r.GET("/games/filters/genres", handlers.GetGenres)
	r.GET("/games/filters/tags", handlers.GetTags)
	r.GET("/games/specials/discounts", handlers.GetDiscounts)
	r.GET("/games/specials/popular", handlers.GetPopular)
	r.GET("/games/specials/new-releases", handlers.GetNewReleases)
	r.GET("/games/:id", handlers.GetGameByID)
	r.PUT("/games/:id/refresh-prices", handlers.RefreshPrices)
	r.GET("/deals/search", handlers.CompareDeals)
	r.GET("/stats", handlers.GetStats)

	protected := r.Group("/", middleware.Auth())
	{
		protected.GET("/me", handlers.Me)
		protected.GET("/library/user/:id", handlers.GetUserLibrary)
		protected.GET("/library/user/:id/status/:status", handlers.GetLibraryByStatus)
		protected.POST("/library/buy", handlers.BuyGame)
		protected.POST("/library/add-manual", handlers.AddManualGame)
		protected.POST("/library/import", handlers.ImportGames)
		protected.PATCH("/library/purchase/:id/status", handlers.UpdateStatus)
		protected.PATCH("/library/purchase/:id/rating", handlers.UpdateRating)
		protected.PATCH("/library/purchase/:id/favorite", handlers.ToggleFavorite)
		protected.PATCH("/library/purchase/:id/notes", handlers.UpdateNotes)
		protected.PATCH("/library/purchase/:id/details", handlers.UpdateDetails)
		protected.GET("/library/purchase/:id/launch", handlers.LaunchGame)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	certFile := os.Getenv("TLS_CERT_FILE")
	keyFile := os.Getenv("TLS_KEY_FILE")
	if os.Getenv("USE_HTTPS") == "true" && certFile != "" && keyFile != "" {
		utils.Log.Info("Starting server with HTTPS on port ", port)
		if err := r.RunTLS(":"+port, certFile, keyFile); err != nil {
			log.Fatal("Failed to start HTTPS server:", err)
		}
		return
	}

	utils.Log.Info("Starting server on port ", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
