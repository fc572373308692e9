package server

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/sabbirahmed/eventhub-backend/config"
	"github.com/sabbirahmed/eventhub-backend/internal/handlers"
	"github.com/sabbirahmed/eventhub-backend/internal/middleware"
	"github.com/sabbirahmed/eventhub-backend/internal/services"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	registerValidations()

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	setupRoutes(r, db, cfg)

	return r.Run(":" + cfg.Port)
}

// registerValidations adds the futuredate rule used by event payloads: an
// event must be scheduled strictly in the future at creation time.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("futuredate", func(fl validator.FieldLevel) bool {
			value, ok := fl.Field().Interface().(time.Time)
			return ok && value.After(time.Now())
		})
	}
}

func setupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	eventService := services.NewEventService(db)
	userService := services.NewUserService(db, cfg.BcryptCost)
	authService := services.NewAuthService(db, cfg)

	eventHandler := handlers.NewEventHandler(eventService)
	userHandler := handlers.NewUserHandler(userService)
	authHandler := handlers.NewAuthHandler(authService)

	api := r.Group("/api/v1")
	{
		api.POST("/users/register", userHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh-token", authHandler.RefreshToken)

		api.GET("/events", eventHandler.List)
		api.GET("/events/:id", eventHandler.Get)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(db, cfg.JWTAccessSecret))
	{
		protected.POST("/events", eventHandler.Create)
		protected.PATCH("/events/:id", eventHandler.Update)
		protected.DELETE("/events/:id", eventHandler.Delete)
		protected.POST("/events/:id/join", eventHandler.Join)

		// Static segments would collide with /events/:id in the GET tree,
		// so the scoped listings live at the top level.
		protected.GET("/my-events", eventHandler.MyEvents)
		protected.GET("/joined-events", eventHandler.JoinedEvents)

		protected.GET("/users", userHandler.List)
		protected.GET("/users/profile", userHandler.Profile)
		protected.PATCH("/users/profile", userHandler.UpdateProfile)
	}
}
