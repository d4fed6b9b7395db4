package router

import (
	"log"

	"github.com/annashamitova/foodgram-st/internal/handlers"
	"github.com/annashamitova/foodgram-st/internal/mediastore"
	appmiddleware "github.com/annashamitova/foodgram-st/internal/middleware"
	"github.com/annashamitova/foodgram-st/internal/models"
	"github.com/annashamitova/foodgram-st/internal/repositories"
	"github.com/annashamitova/foodgram-st/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config) {
	// AutoMigrate models
	err := db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("Auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// Uploaded images
	e.Static("/media", cfg.MediaRoot)

	// --- Initialize collaborators ---
	media := mediastore.New(cfg.MediaRoot, "/media")
	jwtSecret := []byte(cfg.JWTSecret)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	subscriptionRepo := repositories.NewPostgresSubscriptionRepository(db)
	recipeRepo := repositories.NewPostgresRecipeRepository(db)
	ingredientRepo := repositories.NewPostgresIngredientRepository(db)
	relationRepo := repositories.NewPostgresRelationRepository(db)
	shoppingListRepo := repositories.NewPostgresShoppingListRepository(db)

	// --- Public routes (anonymous allowed, claims picked up when present) ---
	public := e.Group("/api")
	public.Use(appmiddleware.OptionalJWTAuthMiddleware(jwtSecret))

	authHandler := handlers.NewAuthHandler(userRepo, jwtSecret)
	public.POST("/users", authHandler.Register)
	authHandler.RegisterAuthRoutes(e.Group("/api/auth"))
	log.Println("Auth routes configured.")

	userHandler := handlers.NewUserHandler(userRepo, subscriptionRepo, media)
	userHandler.RegisterUserRoutes(public)

	recipeHandler := handlers.NewRecipeHandler(recipeRepo, ingredientRepo, relationRepo, subscriptionRepo, media, cfg.BaseURL)
	recipeHandler.RegisterRecipeRoutes(public)
	e.GET("/s/:id", recipeHandler.ResolveShortLink)

	ingredientHandler := handlers.NewIngredientHandler(ingredientRepo)
	ingredientHandler.RegisterIngredientRoutes(public)
	log.Println("Public routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(appmiddleware.JWTAuthMiddleware(jwtSecret))
	log.Println("JWT authentication middleware applied to protected routes.")

	authHandler.RegisterProtectedAuthRoutes(e.Group("/api/auth", appmiddleware.JWTAuthMiddleware(jwtSecret)))
	api.POST("/users/set_password", authHandler.SetPassword)

	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionRepo, userRepo, recipeRepo)
	subscriptionHandler.RegisterSubscriptionRoutes(api)
	log.Println("Subscription routes configured.")

	recipeHandler.RegisterProtectedRecipeRoutes(api)
	log.Println("Recipe routes configured.")

	relationHandler := handlers.NewRelationHandler(relationRepo, recipeRepo, shoppingListRepo)
	relationHandler.RegisterRelationRoutes(api)
	log.Println("Favorite and shopping cart routes configured.")

	log.Println("All routes configured.")
}
