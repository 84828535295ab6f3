// Package routes wires repositories, services and handlers onto the gin
// engine.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/domain/ai"
	"github.com/vibetravels/backend/internal/app/domain/auth"
	"github.com/vibetravels/backend/internal/app/domain/destinations"
	"github.com/vibetravels/backend/internal/app/domain/notes"
	"github.com/vibetravels/backend/internal/app/domain/plans"
	"github.com/vibetravels/backend/internal/app/domain/users"
	"github.com/vibetravels/backend/internal/pkg/config"
)

type AppHandlers struct {
	Auth         *auth.Handler
	Notes        *notes.Handler
	Plans        *plans.Handler
	Destinations *destinations.Handler
	Users        *users.Handler
}

// Setup builds the dependency graph and registers every route.
func Setup(r *gin.Engine, dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) {
	handlers := setupDependencies(dbPool, cfg, log)
	setupRouter(r, handlers, cfg)
}

func setupDependencies(dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) *AppHandlers {
	// AI pipeline
	aiClient := ai.NewClient(cfg.AI, log)
	aiErrRepo := ai.NewRepository(dbPool, log)
	aiService := ai.NewService(aiClient, aiErrRepo, log)
	aiService.SetTimeout(cfg.AI.Timeout)
	if cfg.AI.APIKey == "" {
		log.Warn("OPENROUTER_API_KEY not set, plan generation will fail")
	}

	authRepo := auth.NewRepository(dbPool, log)
	authService := auth.NewService(authRepo, jwtConfig(cfg), log)

	notesRepo := notes.NewRepository(dbPool, log)
	notesService := notes.NewService(notesRepo, log)

	plansRepo := plans.NewRepository(dbPool, log)
	plansService := plans.NewService(plansRepo, aiService, log)

	destinationsRepo := destinations.NewRepository(dbPool, log)
	destinationsService := destinations.NewService(destinationsRepo, log)

	usersRepo := users.NewRepository(dbPool, log)
	usersService := users.NewService(usersRepo, log)

	return &AppHandlers{
		Auth:         auth.NewHandler(authService, log),
		Notes:        notes.NewHandler(notesService, log),
		Plans:        plans.NewHandler(plansService, log),
		Destinations: destinations.NewHandler(destinationsService, log),
		Users:        users.NewHandler(usersService, log),
	}
}

func jwtConfig(cfg *config.Config) auth.JWTConfig {
	return auth.JWTConfig{
		SecretKey:       cfg.Auth.JWTSecret,
		TokenExpiration: cfg.Auth.TokenExpiration,
	}
}

func setupRouter(r *gin.Engine, h *AppHandlers, cfg *config.Config) {
	requireAuth := auth.JWTAuthMiddleware(jwtConfig(cfg))
	optionalAuth := auth.JWTAuthMiddleware(func() auth.JWTConfig {
		c := jwtConfig(cfg)
		c.Optional = true
		return c
	}())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}

	api := r.Group("/api")
	{
		api.GET("/destinations", h.Destinations.ListDestinations)
		api.GET("/destinations/:id", h.Destinations.GetDestination)

		notesGroup := api.Group("/notes", requireAuth)
		{
			notesGroup.POST("", h.Notes.CreateNote)
			notesGroup.GET("", h.Notes.ListNotes)
			notesGroup.GET("/:id", h.Notes.GetNote)
			notesGroup.PUT("/:id", h.Notes.UpdateNote)
			notesGroup.DELETE("/:id", h.Notes.DeleteNote)
			notesGroup.POST("/:id/generate-plan", h.Plans.GeneratePlan)
		}

		// Plan reads allow anonymous viewers for public plans.
		api.GET("/plans/:id", optionalAuth, h.Plans.GetPlan)
		api.POST("/plans/:id/like", requireAuth, h.Plans.LikePlan)
		api.DELETE("/plans/:id/like", requireAuth, h.Plans.UnlikePlan)

		me := api.Group("/users/me", requireAuth)
		{
			me.GET("", h.Users.GetMe)
			me.PUT("", h.Users.UpdateMe)
			me.GET("/generation-limit", h.Plans.GenerationLimit)
		}
	}
}
