package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/lms-api/api/swagger"
	"github.com/noah-isme/lms-api/internal/handler"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/internal/repository"
	"github.com/noah-isme/lms-api/internal/router"
	"github.com/noah-isme/lms-api/internal/service"
	"github.com/noah-isme/lms-api/pkg/cache"
	"github.com/noah-isme/lms-api/pkg/config"
	"github.com/noah-isme/lms-api/pkg/database"
	"github.com/noah-isme/lms-api/pkg/logger"
)

// @title LMS API
// @version 1.0.0
// @description Course catalogue, teaching assignment workflow, grading and suggestions.
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(context.Background(), cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, GPA cache disabled", zap.Error(err))
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		repo := repository.NewCacheRepository(redisClient, "lms")
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.GPA.CacheTTL, logr, cfg.GPA.CacheEnabled)

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	specialtyRepo := repository.NewSpecialtyRepository(db)
	assignmentRepo := repository.NewTeachingAssignmentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	suggestionRepo := repository.NewSuggestionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	specialtySvc := service.NewSpecialtyService(specialtyRepo, courseRepo, userRepo, db, validate, logr)
	eligibilitySvc := service.NewEligibilityService(userRepo, courseRepo, specialtyRepo, logr)
	assignmentSvc := service.NewTeachingAssignmentService(
		userRepo, courseRepo, specialtyRepo, assignmentRepo, notificationRepo, db, metricsSvc, validate, logr,
		service.TeachingAssignmentConfig{ForceAssignStatus: models.ReviewStatus(cfg.Assignments.ForceAssignStatus)},
	)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, userRepo, courseRepo, assignmentRepo, validate, logr)
	gradeSvc := service.NewGradeService(userRepo, enrollmentRepo, assignmentRepo, notificationRepo, db, validate, logr,
		service.GradeServiceOptions{Cache: cacheSvc, CacheTTL: cfg.GPA.CacheTTL, Metrics: metricsSvc},
	)
	suggestionSvc := service.NewSuggestionService(userRepo, courseRepo, suggestionRepo, notificationRepo, db, metricsSvc, validate, logr)
	notificationSvc := service.NewNotificationService(notificationRepo)

	engine := router.Setup(cfg, logr, authSvc, metricsSvc, &router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Specialty:    handler.NewSpecialtyHandler(specialtySvc),
		Course:       handler.NewCourseHandler(courseSvc),
		Eligibility:  handler.NewEligibilityHandler(eligibilitySvc),
		Assignment:   handler.NewAssignmentHandler(assignmentSvc),
		Enrollment:   handler.NewEnrollmentHandler(enrollmentSvc),
		Grade:        handler.NewGradeHandler(gradeSvc),
		Suggestion:   handler.NewSuggestionHandler(suggestionSvc),
		Notification: handler.NewNotificationHandler(notificationSvc),
		Metrics:      handler.NewMetricsHandler(metricsSvc, db),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
