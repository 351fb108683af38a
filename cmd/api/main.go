package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	exportService "github.com/cmlabs-hris/hris-attendance-go/internal/service/export"
	reportService "github.com/cmlabs-hris/hris-attendance-go/internal/service/report"
	scopeService "github.com/cmlabs-hris/hris-attendance-go/internal/service/scope"
	userService "github.com/cmlabs-hris/hris-attendance-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	resolver := scopeService.NewResolver(companyRepo, employeeRepo)
	userSvc := userService.NewUserService(userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, resolver)
	reportSvc := reportService.NewReportService(attendanceSvc, resolver)
	exporter := exportService.NewExporter()

	location := cfg.Location()
	today := func() time.Time { return utils.Today(time.Now(), location) }

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, today)
	reportHandler := appHTTP.NewReportHandler(reportSvc, exporter, cfg.Export.FilenamePrefix, today)
	userHandler := appHTTP.NewUserHandler(userSvc, today)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:                cfg.App.Env,
			AllowedOrigins:     cfg.App.CORSAllowedOrigins,
			RateLimitPerMinute: cfg.App.RateLimitPerMinute,
			LogLevel:           cfg.SlogLevel(),
		},
		JWTService,
		userSvc,
		attendanceHandler,
		reportHandler,
		userHandler,
	)

	scheduler := cron.NewScheduler()
	cron.NewPastDateJobs(userSvc, location).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", location.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
