package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries the deployment settings the router needs
type RouterConfig struct {
	Env                string
	AllowedOrigins     []string
	RateLimitPerMinute int
	LogLevel           slog.Level
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	userService user.UserService,
	attendanceHandler AttendanceHandler,
	reportHandler ReportHandler,
	userHandler UserHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.PrincipalLoader(userService))

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceView))
					r.Get("/", attendanceHandler.List)
					r.Get("/summary", attendanceHandler.Summary)
					r.Get("/{employeeID}/{date}", attendanceHandler.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceWrite))
					r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, 1*time.Minute))
					r.Post("/", attendanceHandler.Upsert)
					r.Post("/bulk", attendanceHandler.BulkUpsert)
				})
			})

			r.Route("/reports/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionReportsView)).
					Get("/", reportHandler.GetAttendanceReport)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionReportsExport))
					r.Get("/export.csv", reportHandler.ExportCSV)
					r.Get("/export.xlsx", reportHandler.ExportXLSX)
				})
			})

			r.Route("/users/{id}/allowed-past-date", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPastDateManage))
				r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, 1*time.Minute))
				r.Put("/", userHandler.GrantPastDate)
				r.Delete("/", userHandler.RevokePastDate)
			})
		})
	})
	return r
}
