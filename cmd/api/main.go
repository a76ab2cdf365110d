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

	"github.com/cmlabs-hris/hris-approval-go/internal/config"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-approval-go/internal/domain/request"
	appHTTP "github.com/cmlabs-hris/hris-approval-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-approval-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-approval-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-approval-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/hris-approval-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hris-approval-go/internal/service/employee"
	reportService "github.com/cmlabs-hris/hris-approval-go/internal/service/report"
	requestService "github.com/cmlabs-hris/hris-approval-go/internal/service/request"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	requests    request.Repository
	employees   employee.EmployeeRepository
	attendances attendance.AttendanceRepository
	holidays    attendance.HolidayRepository
	pinger      appHTTP.Pinger
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	summaryConfig, err := newSummaryConfig(cfg)
	if err != nil {
		return err
	}

	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	limits := listquery.Limits{Default: cfg.Pagination.DefaultLimit, Max: cfg.Pagination.MaxLimit}

	requestSvc := requestService.NewRequestService(repos.requests, repos.employees, hub)
	employeeSvc := employeeService.NewEmployeeService(repos.employees)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendances, repos.holidays, repos.employees, cfg.Attendance.Timezone)
	reportSvc := reportService.NewReportService(repos.requests, repos.attendances, repos.holidays, repos.employees, summaryConfig)

	handlers := appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, repos.employees, cfg.App.IsDevelopment()),
		Request:    appHTTP.NewRequestHandler(requestSvc, limits),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc, limits),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, limits),
		Report:     appHTTP.NewReportHandler(reportSvc, limits),
		Event:      appHTTP.NewEventHandler(hub, JWTService),
		Health:     appHTTP.Health(cfg.Storage.Driver, repos.pinger, hub, cfg.App.Version),
	}

	router := appHTTP.NewRouter(logger, cfg.App, JWTService, handlers)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr, "storage", cfg.Storage.Driver)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Event streams only end when their clients go away.
	server.RegisterOnShutdown(hub.Close)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Storage.AutoMigrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				db.Close()
				return repositories{}, fmt.Errorf("failed to migrate database: %w", err)
			}
			slog.Info("database schema applied")
		}
		return repositories{
			requests:    postgresql.NewRequestRepository(db),
			employees:   postgresql.NewEmployeeRepository(db),
			attendances: postgresql.NewAttendanceRepository(db),
			holidays:    postgresql.NewHolidayRepository(db),
			pinger:      db,
			close:       db.Close,
		}, nil

	case config.StorageDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return repositories{}, err
		}
		return repositories{
			requests:    sqlite.NewRequestRepository(db),
			employees:   sqlite.NewEmployeeRepository(db),
			attendances: sqlite.NewAttendanceRepository(db),
			holidays:    sqlite.NewHolidayRepository(db),
			pinger:      db,
			close: func() {
				if err := db.Close(); err != nil {
					slog.Error("failed to close database", "error", err)
				}
			},
		}, nil

	default:
		slog.Warn("using in-memory storage, data is lost on restart")
		return repositories{
			requests:    memory.NewRequestRepository(),
			employees:   memory.NewEmployeeRepository(),
			attendances: memory.NewAttendanceRepository(),
			holidays:    memory.NewHolidayRepository(),
			close:       func() {},
		}, nil
	}
}

func newSummaryConfig(cfg *config.Config) (report.SummaryConfig, error) {
	checkIn, err := report.ParseClock(cfg.Attendance.CheckInThreshold)
	if err != nil {
		return report.SummaryConfig{}, err
	}
	checkOut, err := report.ParseClock(cfg.Attendance.CheckOutThreshold)
	if err != nil {
		return report.SummaryConfig{}, err
	}
	return report.SummaryConfig{
		CheckInThreshold:  checkIn,
		CheckOutThreshold: checkOut,
		Workdays:          cfg.Attendance.Workdays,
		Location:          cfg.Attendance.Timezone,
		LateDeduction:     cfg.Payroll.LateDeduction,
		AbsentDeduction:   cfg.Payroll.AbsentDeduction,
	}, nil
}
