package routes

import (
	"context"
	"net/http"
	"time"

	"CampusManager/internal/academic"
	"CampusManager/internal/analytics"
	"CampusManager/internal/auth"
	"CampusManager/internal/config"
	"CampusManager/internal/notice"
	"CampusManager/internal/profile"
	"CampusManager/internal/upload"
	"CampusManager/pkg/middleware"
	"CampusManager/pkg/response"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module wires every layer together and starts the HTTP server under the fx
// lifecycle.
var Module = fx.Module("server",
	fx.Provide(
		config.NewConfig,
		config.NewLogger,
		config.NewMongoDBClient,
		config.NewEmailService,
		func(m *config.MongoDBClient) *mongo.Client { return m.Client },

		upload.NewStore,

		auth.NewTokenIssuer,
		auth.NewUserRepository,
		auth.NewAuthService,
		auth.NewAuthHandler,

		profile.NewCounterRepository,
		profile.NewProfileRepository,
		profile.NewProfileService,
		profile.NewProfileHandler,
		func(s *profile.ProfileService) auth.ProfileLoader { return s },

		academic.NewAcademicRepository,
		academic.NewAcademicService,
		academic.NewAcademicHandler,

		notice.NewNoticeRepository,
		notice.NewNoticeService,
		notice.NewNoticeHandler,

		analytics.NewAnalyticsRepository,
		analytics.NewAnalyticsService,
		analytics.NewAnalyticsHandler,

		middleware.NewEnforcer,
		middleware.NewRoleGate,
		middleware.NewSessionMiddleware,

		NewEchoServer,
	),
	fx.Invoke(
		notice.NewNoticeSweeper,
		SeedDefaultAdmin,
		RegisterRoutes,
	),
)

// NewEchoServer builds the server with the shared validator, error handler
// and CORS setup, and binds its start/stop to the fx lifecycle.
func NewEchoServer(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = response.NewHTTPErrorHandler(logger, !cfg.IsProduction())

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
					logger.Fatal("server failed", zap.Error(err))
				}
			}()
			logger.Info("server listening", zap.String("port", cfg.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down server")
			return e.Shutdown(ctx)
		},
	})
	return e
}

// SeedDefaultAdmin creates the bootstrap admin account on startup when no
// admin exists yet.
func SeedDefaultAdmin(lc fx.Lifecycle, service *auth.AuthService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return service.EnsureDefaultAdmin(ctx)
		},
	})
}

// RegisterRoutes lays out the HTTP surface. Everything under /api runs
// through authentication and the role gate; uploads are public reads.
func RegisterRoutes(
	e *echo.Echo,
	cfg *config.Config,
	session *middleware.SessionMiddleware,
	gate *middleware.RoleGate,
	authHandler *auth.AuthHandler,
	profileHandler *profile.ProfileHandler,
	academicHandler *academic.AcademicHandler,
	noticeHandler *notice.NoticeHandler,
	analyticsHandler *analytics.AnalyticsHandler,
) {
	e.GET("/health", func(c echo.Context) error {
		return response.Success(c, http.StatusOK, "Server is healthy", map[string]interface{}{
			"timestamp":   time.Now().UTC(),
			"environment": cfg.Env,
		})
	})

	uploads := e.Group("/uploads", echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet},
	}))
	uploads.Static("/", cfg.UploadDir)

	api := e.Group("/api")

	// Credential flows; only the session-bound ones authenticate.
	authGroup := api.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.POST("/refresh-token", authHandler.RefreshToken)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	authGroup.POST("/reset-password/:token", authHandler.ResetPassword)
	authGroup.GET("/me", authHandler.Me, session.Authenticate)
	authGroup.POST("/change-password", authHandler.ChangePassword, session.Authenticate)

	admin := api.Group("/admin", session.Authenticate, gate.Enforce)
	admin.GET("/profile", profileHandler.GetAdminProfile)
	admin.PUT("/profile", profileHandler.UpdateAdminProfile)

	admin.GET("/students", profileHandler.ListStudents)
	admin.POST("/students", profileHandler.CreateStudent)
	admin.PUT("/students/:id", profileHandler.UpdateStudent)
	admin.DELETE("/students/:id", profileHandler.DeleteStudent)

	admin.GET("/teachers", profileHandler.ListTeachers)
	admin.POST("/teachers", profileHandler.CreateTeacher)
	admin.PUT("/teachers/:id", profileHandler.UpdateTeacher)
	admin.DELETE("/teachers/:id", profileHandler.DeleteTeacher)

	admin.GET("/subjects", academicHandler.ListSubjects)
	admin.POST("/subjects", academicHandler.CreateSubject)
	admin.PUT("/subjects/:id", academicHandler.UpdateSubject)
	admin.DELETE("/subjects/:id", academicHandler.DeleteSubject)
	admin.POST("/subjects/:id/enroll", academicHandler.EnrollStudent)
	admin.POST("/subjects/:id/unenroll", academicHandler.RemoveStudent)

	admin.GET("/notices", noticeHandler.ListNotices)
	admin.POST("/notices", noticeHandler.CreateNotice)
	admin.PUT("/notices/:id", noticeHandler.UpdateNotice)
	admin.DELETE("/notices/:id", noticeHandler.DeleteNotice)

	admin.GET("/analytics/dashboard", analyticsHandler.Dashboard)
	admin.GET("/analytics/attendance", analyticsHandler.AttendanceReport)

	teacher := api.Group("/teacher", session.Authenticate, gate.Enforce)
	teacher.GET("/profile", profileHandler.GetOwnTeacherProfile)
	teacher.PUT("/profile", profileHandler.UpdateOwnTeacherProfile)
	teacher.GET("/subjects", academicHandler.TeacherSubjects)
	teacher.GET("/students", academicHandler.SubjectStudents)
	teacher.POST("/attendance", academicHandler.MarkAttendance)
	teacher.PUT("/attendance/:id", academicHandler.UpdateAttendance)
	teacher.GET("/attendance/class/:subjectId", academicHandler.ClassAttendance)
	teacher.GET("/notices", noticeHandler.VisibleNotices)

	student := api.Group("/student", session.Authenticate, gate.Enforce)
	student.GET("/profile", profileHandler.GetOwnStudentProfile)
	student.PUT("/profile", profileHandler.UpdateOwnStudentProfile)
	student.GET("/subjects", academicHandler.StudentSubjects)
	student.GET("/attendance", academicHandler.StudentAttendance)
	student.GET("/attendance/summary", academicHandler.StudentSummary)
	student.GET("/notices", noticeHandler.VisibleNotices)
	student.POST("/notices/:id/view", noticeHandler.MarkViewed)
}
