// Package bootstrap assembles the application from its parts
package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	_ "github.com/ncastell/classtrack/docs"
	"github.com/ncastell/classtrack/internal/app/controllers"
	"github.com/ncastell/classtrack/internal/app/migrations"
	"github.com/ncastell/classtrack/internal/app/repositories"
	"github.com/ncastell/classtrack/internal/app/routes"
	"github.com/ncastell/classtrack/internal/app/services"
	"github.com/ncastell/classtrack/internal/config"
	"github.com/ncastell/classtrack/internal/db"
	"github.com/ncastell/classtrack/internal/middleware"
	"github.com/ncastell/classtrack/internal/pkg/auth"
	"github.com/ncastell/classtrack/internal/pkg/cache"
	"github.com/ncastell/classtrack/internal/pkg/logger"
	"github.com/ncastell/classtrack/internal/seed"
)

// Dependencies holds everything the server needs at runtime.
type Dependencies struct {
	Config     *config.Config
	Database   *db.PostgresDB
	TokenCache *cache.TokenCache
	Router     *gin.Engine
}

// LoadConfigAndSetupLogger reads the configuration and configures the
// global logger from it.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

// SetupDatabase connects to Postgres and applies pending migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config) (*db.PostgresDB, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		migrator := migrations.NewMigrator(database.Pool)
		if err := migrator.ApplyDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
			database.Close()
			return nil, fmt.Errorf("applying migrations: %w", err)
		}
	}
	return database, nil
}

// BuildDependencies wires repositories, services, controllers and routes.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB) (*Dependencies, error) {
	tokenCache, err := cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	repos := repositories.NewRepositories(database)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessDuration, cfg.JWT.RefreshDuration)

	identityService := services.NewIdentityService(repos.User, repos.Teacher, repos.Student, repos.Parent, repos.Course)
	authService := services.NewAuthService(repos.User, repos.Token, jwtService, identityService)
	schoolService := services.NewSchoolService(repos.School, tokenCache)
	courseService := services.NewCourseService(repos.Course, repos.Subject)
	teacherService := services.NewTeacherService(repos.Teacher, repos.User, database)
	studentService := services.NewStudentService(repos.Student, repos.Parent, repos.User, database)
	parentService := services.NewParentService(repos.Parent, repos.User, database)
	gradeService := services.NewGradeService(repos.Grade, repos.Student, repos.Subject, repos.Course)
	participationService := services.NewParticipationService(repos.Participation, repos.Student, repos.Subject, repos.Course)
	attendanceService, err := services.NewAttendanceService(repos.Attendance, repos.Student, repos.School, tokenCache, cfg.CheckIn, nil)
	if err != nil {
		return nil, fmt.Errorf("building attendance service: %w", err)
	}
	statsService := services.NewStatsService(repos.Grade, repos.Attendance, repos.Participation,
		repos.Student, repos.Course, repos.Subject, cfg.Dashboard, nil)

	if err := seed.EnsureAdmin(ctx, repos.User, cfg.Seed); err != nil {
		return nil, fmt.Errorf("seeding admin: %w", err)
	}

	router := SetupRouter(cfg, routes.Controllers{
		Auth:          controllers.NewAuthController(authService),
		School:        controllers.NewSchoolController(schoolService),
		Course:        controllers.NewCourseController(courseService),
		People:        controllers.NewPeopleController(teacherService, studentService, parentService),
		Grade:         controllers.NewGradeController(gradeService),
		Attendance:    controllers.NewAttendanceController(attendanceService),
		Participation: controllers.NewParticipationController(participationService),
		Dashboard:     controllers.NewDashboardController(statsService),
		Health:        controllers.NewHealthController(database, tokenCache),
	}, jwtService, identityService)

	log.Info().Msg("Application dependencies wired")
	return &Dependencies{
		Config:     cfg,
		Database:   database,
		TokenCache: tokenCache,
		Router:     router,
	}, nil
}

// SetupRouter builds the Gin engine with the shared middleware chain.
func SetupRouter(cfg *config.Config, ctrl routes.Controllers, jwtService *auth.JWTService, identities middleware.IdentityResolver) *gin.Engine {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())
	router.Use(middleware.RateLimit(cfg.Server.RateLimitPerMinute))

	routes.Register(router, ctrl, jwtService, identities,
		middleware.RateLimit(cfg.CheckIn.RateLimitPerMinute))
	return router
}
