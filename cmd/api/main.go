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

	"github.com/cmlabs-hris/attendance-processor/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-processor/internal/handler/http"
	"github.com/cmlabs-hris/attendance-processor/internal/pkg/metrics"
	attendanceService "github.com/cmlabs-hris/attendance-processor/internal/service/attendance"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	// Validate has already checked these
	level, _ := cfg.LogLevel()
	location, _ := cfg.Location()
	policy, _ := cfg.Policy()

	logger := appHTTP.NewLogger(os.Stdout, cfg.App.Env, level, cfg.IsDevelopment())
	slog.SetDefault(logger)

	collector := metrics.New()

	attendanceSvc := attendanceService.NewAttendanceService(attendanceService.Options{
		Policy:         policy,
		PeriodStartDay: cfg.Attendance.PeriodStartDay,
		PeriodEndDay:   cfg.Attendance.PeriodEndDay,
		Location:       location,
		Workers:        cfg.Attendance.ReduceWorkers,
		MaxPeriodDays:  cfg.Attendance.MaxPeriodDays,
	}, collector)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         logger,
		LogLevel:       level,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Metrics:        collector.Handler(),
	}, attendanceHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}
