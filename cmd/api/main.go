package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"cookbook/internal/database"
	"cookbook/internal/logger"
	"cookbook/internal/middleware"
	"cookbook/internal/modules/auth"
	"cookbook/internal/modules/cart"
	"cookbook/internal/modules/catalog"
	"cookbook/internal/modules/favorite"
	"cookbook/internal/modules/follow"
	"cookbook/internal/modules/recipe"
	"cookbook/internal/pkg/imagestore"
	jwtsvc "cookbook/internal/pkg/jwt"
	"cookbook/internal/repository"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	dsn := getenv("DATABASE_URL", "cookbook.db")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	port := getenv("PORT", "8080")
	mediaDir := getenv("MEDIA_DIR", "media")

	appLog := logger.New(logger.Config{
		Level:  getenv("LOG_LEVEL", "info"),
		Format: getenv("LOG_FORMAT", "json"),
	})

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	images, err := imagestore.NewDiskStore(mediaDir, "/media")
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)
	followRepo := repository.NewFollowRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	authService := auth.NewService(userRepo, followRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(tagRepo, ingredientRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	recipeService := recipe.NewService(recipeRepo, favoriteRepo, cartRepo, followRepo, images)
	recipeHandler := recipe.NewHandler(recipeService)

	favoriteService := favorite.NewService(favoriteRepo, recipeRepo)
	favoriteHandler := favorite.NewHandler(favoriteService)

	cartService := cart.NewService(cartRepo, recipeRepo, recipeRepo)
	cartHandler := cart.NewHandler(cartService)

	followService := follow.NewService(followRepo, userRepo, recipeRepo)
	followHandler := follow.NewHandler(followService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(appLog))
	r.Use(middleware.CORS())

	r.Static("/media", mediaDir)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterRoutes(v1)

		// open reads; a valid token adds the viewer-relative flags
		open := v1.Group("/")
		open.Use(middleware.OptionalAuth(j))
		{
			recipeHandler.RegisterReadRoutes(open)
			authHandler.RegisterReadRoutes(open)
		}

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			recipeHandler.RegisterWriteRoutes(protected)
			favoriteHandler.RegisterRoutes(protected)
			cartHandler.RegisterRoutes(protected)
			followHandler.RegisterRoutes(protected)
		}
	}

	appLog.Info("starting api", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
