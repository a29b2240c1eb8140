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

	"github.com/cmlabs-hris/hris-attendance/internal/config"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/hris-attendance/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/workday"
	"github.com/cmlabs-hris/hris-attendance/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance/internal/service/attendance"
	editRequestService "github.com/cmlabs-hris/hris-attendance/internal/service/editrequest"
	reportService "github.com/cmlabs-hris/hris-attendance/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(cfg.App)
	slog.SetDefault(logger)

	zone, err := workday.ParseOffset(cfg.Attendance.UTCOffset)
	if err != nil {
		slog.Error("Invalid organization UTC offset", "offset", cfg.Attendance.UTCOffset, "error", err)
		os.Exit(1)
	}

	sweepAt, err := workday.ParseClock(cfg.Attendance.AbsenceSweepAt)
	if err != nil {
		slog.Error("Invalid absence sweep time", "value", cfg.Attendance.AbsenceSweepAt, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	editRequestRepo := postgresql.NewEditRequestRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	m := metrics.New()
	calc := attendance.NewCalculator(cfg.Attendance.HalfdayThresholdMinutes)
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(transactor, attendanceRepo, employeeRepo, calc, zone, sweepAt, m)
	editRequestSvc := editRequestService.NewEditRequestService(transactor, editRequestRepo, attendanceRepo, employeeRepo, calc, zone, m)
	reportSvc := reportService.NewReportService(reportRepo, employeeRepo, zone)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	editRequestHandler := appHTTP.NewEditRequestHandler(editRequestSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		cfg,
		logger,
		JWTService,
		attendanceHandler,
		editRequestHandler,
		reportHandler,
		m,
	)

	var scheduler *cron.Scheduler
	if cfg.Attendance.AbsenceSweepEnabled {
		var locker cron.Locker
		if cfg.Redis.Host != "" {
			redisClient, err := cache.NewRedis(cfg.Redis)
			if err != nil {
				slog.Error("Error connecting to redis", "error", err)
				os.Exit(1)
			}
			defer redisClient.Close()
			locker = cache.NewRedisLocker(redisClient)
		} else {
			slog.Warn("REDIS_HOST not set, absence sweep runs without a cross-instance lease")
		}

		scheduler = cron.NewScheduler()
		jobs := cron.NewAttendanceJobs(attendanceSvc, locker, zone, cfg.Attendance.SweepLockTTL)
		if err := jobs.RegisterJobs(scheduler, cfg.Attendance.AbsenceSweepAt); err != nil {
			slog.Error("Error registering cron jobs", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "zone", zone.Location().String())
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
	if scheduler != nil {
		scheduler.Stop()
	}
}
