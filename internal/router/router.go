package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/handler"
	"github.com/noah-isme/lms-api/internal/middleware"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/pkg/config"
	"github.com/noah-isme/lms-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lms-api/pkg/middleware/requestid"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Specialty    *handler.SpecialtyHandler
	Course       *handler.CourseHandler
	Eligibility  *handler.EligibilityHandler
	Assignment   *handler.AssignmentHandler
	Enrollment   *handler.EnrollmentHandler
	Grade        *handler.GradeHandler
	Suggestion   *handler.SuggestionHandler
	Notification *handler.NotificationHandler
	Metrics      *handler.MetricsHandler
}

// Setup builds the gin engine with global middleware and every API route.
func Setup(cfg *config.Config, logr *zap.Logger, tokens middleware.TokenValidator, observer middleware.RequestObserver, h *Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(observer))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))

	admin := middleware.RequireRoles(models.RoleAdmin)
	teacher := middleware.RequireRoles(models.RoleTeacher)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)
	student := middleware.RequireRoles(models.RoleStudent)

	secured.GET("/specialties", h.Specialty.List)
	secured.POST("/specialties", admin, h.Specialty.Create)
	secured.DELETE("/specialties/:id", admin, h.Specialty.Delete)

	secured.GET("/courses", h.Course.List)
	secured.POST("/courses", admin, h.Course.Create)
	secured.GET("/courses/:id", h.Course.Get)
	secured.GET("/courses/:id/requirements", h.Specialty.CourseRequirements)
	secured.PUT("/courses/:id/requirements", admin, h.Specialty.SetCourseRequirements)
	secured.GET("/courses/:id/eligible-teachers", admin, h.Eligibility.EligibleTeachers)
	secured.GET("/courses/:id/roster", staff, h.Enrollment.Roster)

	secured.GET("/teachers/:id/specialties", h.Specialty.TeacherSpecialties)
	secured.PUT("/teachers/:id/specialties", middleware.RequireRolesOrSelf("id", models.RoleAdmin), h.Specialty.SetTeacherSpecialties)
	secured.GET("/teachers/:id/eligible-courses", middleware.RequireRolesOrSelf("id", models.RoleAdmin), h.Eligibility.EligibleCourses)
	secured.GET("/teachers/:id/eligibility/:courseId", middleware.RequireRolesOrSelf("id", models.RoleAdmin), h.Eligibility.Check)

	secured.GET("/assignments", staff, h.Assignment.List)
	secured.GET("/assignments/:id", staff, h.Assignment.Get)
	secured.POST("/assignments/request", teacher, h.Assignment.Request)
	secured.POST("/assignments/force", admin, h.Assignment.Force)
	secured.POST("/assignments/:id/approve", admin, h.Assignment.Approve)
	secured.POST("/assignments/:id/reject", admin, h.Assignment.Reject)

	secured.POST("/enrollments", student, h.Enrollment.Enroll)
	selfOrAdmin := middleware.RequireRolesOrSelf("id", models.RoleAdmin)
	secured.GET("/students/:id/enrollments", selfOrAdmin, h.Enrollment.ListByStudent)
	secured.GET("/students/:id/gpa", selfOrAdmin, h.Grade.GPA)
	secured.GET("/students/:id/transcript", selfOrAdmin, h.Grade.Transcript)
	secured.GET("/students/:id/transcript.pdf", selfOrAdmin, h.Grade.TranscriptPDF)
	secured.PUT("/grades", teacher, h.Grade.Update)

	secured.GET("/suggestions", staff, h.Suggestion.List)
	secured.POST("/suggestions", teacher, h.Suggestion.Submit)
	secured.GET("/suggestions/:id", staff, h.Suggestion.Get)
	secured.POST("/suggestions/:id/approve", admin, h.Suggestion.Approve)
	secured.POST("/suggestions/:id/reject", admin, h.Suggestion.Reject)

	secured.GET("/notifications", h.Notification.List)
	secured.GET("/system/metrics", admin, h.Metrics.Snapshot)

	return r
}
