package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sabin/memeforge/internal/api/handler"
	"github.com/sabin/memeforge/internal/api/middleware"
	"github.com/sabin/memeforge/internal/config"
	"github.com/sabin/memeforge/internal/repository"
	"github.com/sabin/memeforge/internal/storage"
)

// Dependencies bundles everything the router wires into handlers.
type Dependencies struct {
	Pipeline       handler.MemeGenerator
	Extractor      handler.ContextExtractor
	Storage        storage.ObjectStorage
	GenerationRepo *repository.GenerationRepository
}

// SetupRouter configures the Gin router with all routes.
func SetupRouter(deps *Dependencies, cfg *config.Config) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	generateHandler := handler.NewGenerateHandler(deps.Pipeline, deps.Extractor)
	contextHandler := handler.NewContextHandler(deps.Extractor)
	templateHandler := handler.NewTemplateHandler(deps.Storage, cfg.Upload.MaxFileBytes)
	generationHandler := handler.NewGenerationHandler(deps.GenerationRepo)

	r.GET("/health", healthHandler.Health)

	// Local storage is served straight from disk; remote backends return
	// absolute URLs from GetURL instead.
	if cfg.Storage.Type == string(storage.TypeLocal) && cfg.Storage.LocalDir != "" {
		r.Static("/static", cfg.Storage.LocalDir)
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/generate-memes", generateHandler.Generate)
		v1.POST("/parse-context", contextHandler.Parse)

		v1.GET("/templates", templateHandler.List)
		v1.POST("/templates", templateHandler.Upload)

		v1.GET("/generations", generationHandler.List)
	}

	return r
}
