package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/dtvinh/mathtutor/config"
	"github.com/dtvinh/mathtutor/database"
	"github.com/dtvinh/mathtutor/internal/cache"
	adminctrl "github.com/dtvinh/mathtutor/internal/controller/admin"
	userctrl "github.com/dtvinh/mathtutor/internal/controller/user"
	"github.com/dtvinh/mathtutor/internal/logger"
	"github.com/dtvinh/mathtutor/internal/model"
	"github.com/dtvinh/mathtutor/internal/repository"
	"github.com/dtvinh/mathtutor/internal/service"
)

// @title Math Practice Tutor API
// @version 1.0
// @description Backend for AI-assisted math practice: answer evaluation with feedback, progressive hints and admin problem management.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			cache.NewMemoryCache[string],
		),

		fx.Provide(
			repository.NewProblemRepository,
			repository.NewAttemptRepository,
			repository.NewHintCacheRepository,
			repository.NewPromptConfigRepository,
		),

		fx.Provide(
			service.NewPromptConfigService,
			service.NewClaudeLLMService,
			service.NewSubmissionService,
			service.NewHintService,
			service.NewAttemptService,
			service.NewProblemService,
			service.NewMaintenanceService,
		),

		fx.Provide(
			userctrl.NewAttemptController,
			userctrl.NewProblemController,
			adminctrl.NewProblemController,
			adminctrl.NewPromptController,
			adminctrl.NewCacheController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(SeedPromptConfigs),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(StartHintCacheSweeper),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	attemptCtrl *userctrl.AttemptController,
	problemCtrl *userctrl.ProblemController,
	adminProblemCtrl *adminctrl.ProblemController,
	adminPromptCtrl *adminctrl.PromptController,
	adminCacheCtrl *adminctrl.CacheController,
) {
	userAPI := router.Group("/api/v1")
	{
		userAPI.GET("/problems", problemCtrl.ListProblems)
		userAPI.GET("/problems/random", problemCtrl.GetRandomProblem)
		userAPI.GET("/problems/:id", problemCtrl.GetProblem)

		userAPI.POST("/attempts/submit", attemptCtrl.SubmitAnswer)
		userAPI.POST("/attempts/:problem_id/hint", attemptCtrl.GetHint)
		userAPI.GET("/attempts/my-attempts", attemptCtrl.GetMyAttempts)
		userAPI.GET("/attempts/problems/:problem_id", attemptCtrl.GetProblemStats)
	}

	adminAPI := router.Group("/api/v1/admin")
	{
		adminAPI.POST("/problems", adminProblemCtrl.CreateProblem)
		adminAPI.GET("/problems", adminProblemCtrl.ListProblems)
		adminAPI.POST("/problems/bulk-delete", adminProblemCtrl.BulkDeleteProblems)
		adminAPI.GET("/problems/:id", adminProblemCtrl.GetProblem)
		adminAPI.PUT("/problems/:id", adminProblemCtrl.UpdateProblem)
		adminAPI.DELETE("/problems/:id", adminProblemCtrl.DeleteProblem)
		adminAPI.GET("/problems/:id/analytics", adminProblemCtrl.GetProblemAnalytics)
		adminAPI.POST("/problems/:id/generate-similar", adminProblemCtrl.GenerateSimilarProblems)

		adminAPI.GET("/prompts", adminPromptCtrl.ListPrompts)
		adminAPI.GET("/prompts/:key", adminPromptCtrl.GetPrompt)
		adminAPI.PUT("/prompts/:key", adminPromptCtrl.UpdatePrompt)
		adminAPI.POST("/prompts/:key/reset", adminPromptCtrl.ResetPrompt)

		adminAPI.POST("/hint-cache/sweep", adminCacheCtrl.SweepHintCache)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Math tutor API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Problem{},
		&model.Attempt{},
		&model.HintCache{},
		&model.PromptConfig{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// SeedPromptConfigs populates the prompt table from the compiled-in defaults
// when it is empty, so a fresh deployment works without manual setup.
func SeedPromptConfigs(prompts service.PromptConfigService) error {
	return prompts.SeedDefaults()
}

// StartHintCacheSweeper runs the retention sweep once a day until shutdown.
func StartHintCacheSweeper(lc fx.Lifecycle, maintenance service.MaintenanceService) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ticker := time.NewTicker(24 * time.Hour)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if _, err := maintenance.SweepHintCache(service.DefaultRetentionDays); err != nil {
							log.Error().Err(err).Msg("Scheduled hint cache sweep failed")
						}
					case <-ctx.Done():
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
