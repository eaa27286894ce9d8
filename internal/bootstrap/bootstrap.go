package bootstrap

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/XiongPengNUS/canvasplus/internal/app/controllers"
	appRoutes "github.com/XiongPengNUS/canvasplus/internal/app/routes"
	appServices "github.com/XiongPengNUS/canvasplus/internal/app/services"
	"github.com/XiongPengNUS/canvasplus/internal/cache"
	"github.com/XiongPengNUS/canvasplus/internal/canvas"
	"github.com/XiongPengNUS/canvasplus/internal/config"
	"github.com/XiongPengNUS/canvasplus/internal/export"
	appMiddleware "github.com/XiongPengNUS/canvasplus/internal/middleware"
	"github.com/XiongPengNUS/canvasplus/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CourseService        appServices.CourseService
	RosterService        appServices.RosterService
	DiscussionService    appServices.DiscussionService
	CourseController     *appControllers.CourseController
	RosterController     *appControllers.RosterController
	DiscussionController *appControllers.DiscussionController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Directory            canvas.Directory
	CacheStore           cache.Store
	Exporter             *export.Exporter
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupCache builds the roster cache store. Returns nil when caching is
// disabled; the pipeline produces the same results either way.
func SetupCache(cfg *config.Config, lgr zerolog.Logger) cache.Store {
	if !cfg.Cache.Enabled {
		lgr.Info().Msg("Roster cache disabled")
		return nil
	}
	if cfg.Cache.RedisAddr != "" {
		lgr.Info().Str("addr", cfg.Cache.RedisAddr).Msg("Roster cache backed by Redis")
		return cache.NewRedisStore(cfg.Cache.RedisAddr, time.Duration(cfg.Cache.TTL), lgr)
	}
	lgr.Info().Msg("Roster cache in memory")
	return cache.NewMemoryStore(time.Duration(cfg.Cache.TTL))
}

// BuildDependencies initializes the directory client, services and controllers.
func BuildDependencies(cfg *config.Config, store cache.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, CacheStore: store}

	deps.Directory = canvas.NewClient(
		cfg.Canvas.BaseURL,
		time.Duration(cfg.Canvas.Timeout),
		cfg.Canvas.PageSize,
		lgr,
	)

	fetcher := export.NewHTTPFetcher(time.Duration(cfg.Export.FetchTimeout))
	deps.Exporter = export.NewExporter(fetcher, export.Options{
		AvatarWidth:  cfg.Export.AvatarWidth,
		AvatarHeight: cfg.Export.AvatarHeight,
		RowHeight:    cfg.Export.RowHeight,
		Concurrency:  cfg.Export.FetchConcurrency,
	}, lgr)

	deps.CourseService = appServices.NewCourseService(deps.Directory)
	deps.RosterService = appServices.NewRosterService(deps.Directory, store, lgr)
	deps.DiscussionService = appServices.NewDiscussionService(deps.Directory, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware()

	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.RosterController = appControllers.NewRosterController(deps.RosterService, deps.Exporter, lgr)
	deps.DiscussionController = appControllers.NewDiscussionController(deps.DiscussionService, deps.Exporter, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(
		router,
		deps.CourseController,
		deps.RosterController,
		deps.DiscussionController,
		deps.AuthMiddleware,
	)

	return router
}
