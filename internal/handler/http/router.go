package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/cmlabs-hris/hris-attendance/internal/config"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// NewLogger builds the ECS formatted JSON logger shared by requests and jobs.
func NewLogger(app config.AppConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(app.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", app.Env),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	editRequestHandler EditRequestHandler,
	reportHandler ReportHandler,
	m *metrics.Metrics,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {

				// Own attendance
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendancePunch))
						r.Post("/punch-in", attendanceHandler.PunchIn)
						r.Post("/punch-out", attendanceHandler.PunchOut)
						r.Post("/start-break", attendanceHandler.StartBreak)
						r.Post("/end-break", attendanceHandler.EndBreak)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
						r.Get("/today", attendanceHandler.Today)
						r.Get("/my", attendanceHandler.GetMyAttendance)
					})
				})

				// Admin only
				r.With(middleware.AdminOnly, middleware.RequirePermission(user.PermissionAttendanceViewAll)).
					Get("/", attendanceHandler.List)
				r.With(middleware.AdminOnly, middleware.RequirePermission(user.PermissionAttendanceCorrect)).
					Put("/correction", attendanceHandler.Correct)

				r.Route("/edit-requests", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireEmployee)
						r.Use(middleware.RequirePermission(user.PermissionEditRequestCreate))
						r.Post("/", editRequestHandler.Submit)
						r.Get("/my", editRequestHandler.ListMine)
					})

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Use(middleware.RequirePermission(user.PermissionEditRequestReview))
						r.Get("/", editRequestHandler.List)
						r.Get("/{id}", editRequestHandler.Get)
						r.Post("/{id}/approve", editRequestHandler.Approve)
						r.Post("/{id}/reject", editRequestHandler.Reject)
					})
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/absences/{year}/{month}", reportHandler.GetMonthlyAbsenceReport)
				r.Get("/absences/{year}/{month}/{employeeCode}", reportHandler.GetMonthlyAbsenceReport)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.With(middleware.RequirePermission(user.PermissionAbsenceSweepRun)).
					Post("/absence-sweep", attendanceHandler.RunAbsenceSweep)
			})
		})
	})
	return r
}
