package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/zakiByline/remui-kids-sub019/internal/app/auth"
	appControllers "github.com/zakiByline/remui-kids-sub019/internal/app/controllers"
	appMigrations "github.com/zakiByline/remui-kids-sub019/internal/app/migrations"
	appRepos "github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
	appRoutes "github.com/zakiByline/remui-kids-sub019/internal/app/routes"
	appServices "github.com/zakiByline/remui-kids-sub019/internal/app/services"
	"github.com/zakiByline/remui-kids-sub019/internal/config"
	"github.com/zakiByline/remui-kids-sub019/internal/db"
	appMiddleware "github.com/zakiByline/remui-kids-sub019/internal/middleware"
	pkgAuth "github.com/zakiByline/remui-kids-sub019/internal/pkg/auth"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/helpers"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/logger"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/metrics"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/websocket"
	"github.com/zakiByline/remui-kids-sub019/internal/seed"
)

// DefaultConfigPath is where the service and remuictl look for the YAML configuration
const DefaultConfigPath = "configs/config.yaml"

// ConfigPath returns REMUI_CONFIG when set, otherwise DefaultConfigPath
func ConfigPath() string {
	return config.GetEnv("REMUI_CONFIG", DefaultConfigPath)
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService            appServices.AuthService
	CompanyService         appServices.CompanyService
	AnalyticsService       appServices.AnalyticsService
	LicenseService         appServices.LicenseService
	EnrollmentService      appServices.EnrollmentService
	DashboardAccessService appServices.DashboardAccessService
	TrainingRuleService    appServices.TrainingRuleService

	AuthController            *appControllers.AuthController
	CompanyController         *appControllers.CompanyController
	AnalyticsController       *appControllers.AnalyticsController
	LicenseController         *appControllers.LicenseController
	EnrollmentController      *appControllers.EnrollmentController
	DashboardAccessController *appControllers.DashboardAccessController
	TrainingRuleController    *appControllers.TrainingRuleController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	Hub            *websocket.Hub
	WSHandler      *websocket.Handler
	Metrics        *metrics.Metrics
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
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

// ConnectDatabase opens the pool and verifies the connection
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Str("tablePrefix", cfg.Database.TablePrefix).Msg("Database connection successfully established.")
	return database, nil
}

// RunMigrations applies the plugin tables that are not yet installed
func RunMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, database.Schema, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SetupDatabase connects, migrates and seeds the database.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	database, err := ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := RunMigrations(ctx, cfg, database, lgr); err != nil {
		database.Close()
		return nil, err
	}

	repos := appRepos.NewRepositories(database.Pool, database.Schema)
	if err := seed.NewSeeder(repos, database.Pool, lgr).CreateDefaultData(ctx); err != nil {
		// Missing defaults only mean the built-in fallbacks apply
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool, database.Schema)
	deps.Metrics = metrics.New()
	deps.Hub = websocket.NewHub(logger.Component("websocket"))
	events := appServices.NewEventPublisher(deps.Hub, deps.Metrics)

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.CompanyRepository)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 8*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, logger.Component("auth"))
	deps.CompanyService = appServices.NewCompanyService(deps.Repos.CompanyRepository)
	deps.AnalyticsService = appServices.NewAnalyticsService(
		deps.Repos.AnalyticsRepository,
		appServices.NewAnalyticsSettings(cfg),
		deps.Metrics,
		logger.Component("analytics"),
	)
	deps.LicenseService = appServices.NewLicenseService(
		deps.Repos.LicenseRepository,
		deps.AuthzService,
		database,
		events,
		logger.Component("licenses"),
	)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.Repos.EnrollmentRepository,
		deps.AuthzService,
		database,
		events,
		logger.Component("enrollments"),
	)
	deps.DashboardAccessService = appServices.NewDashboardAccessService(
		deps.Repos.SchoolSettingRepository,
		deps.AuthzService,
		database,
		events,
		logger.Component("dashboard_access"),
	)
	deps.TrainingRuleService = appServices.NewTrainingRuleService(
		deps.Repos.TrainingRuleRepository,
		events,
		logger.Component("training"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService)
	deps.WSHandler = websocket.NewHandler(deps.Hub, cfg.Origins(), logger.Component("websocket"))

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.Logger)
	deps.CompanyController = appControllers.NewCompanyController(deps.CompanyService)
	deps.AnalyticsController = appControllers.NewAnalyticsController(deps.AnalyticsService)
	deps.LicenseController = appControllers.NewLicenseController(deps.LicenseService, deps.Logger)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService, deps.Logger)
	deps.DashboardAccessController = appControllers.NewDashboardAccessController(deps.DashboardAccessService)
	deps.TrainingRuleController = appControllers.NewTrainingRuleController(deps.TrainingRuleService, deps.Logger)

	return deps, nil
}

// StartBackground runs the event hub and the audit log until ctx is cancelled
func StartBackground(ctx context.Context, deps *Dependencies) {
	go deps.Hub.Run(ctx)
	websocket.NewAuditor(deps.Hub, logger.Component("audit")).Start(ctx)
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", appMiddleware.RequestIDHeader},
		ExposeHeaders:    []string{appMiddleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			c.AllowCredentials = false
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterValidators()

	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.Recovery(lgr),
		appMiddleware.RequestLogger(lgr),
		deps.Metrics.Middleware(),
		cors.New(corsConfig(cfg.Origins())),
	)

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CompanyController,
		deps.AnalyticsController,
		deps.LicenseController,
		deps.EnrollmentController,
		deps.DashboardAccessController,
		deps.TrainingRuleController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
