package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-approval-go/internal/pkg/validator"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Database   DatabaseConfig
	Storage    StorageConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Payroll    PayrollConfig
	Pagination PaginationConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type StorageConfig struct {
	Driver string

	// SQLitePath is used when Driver is sqlite.
	SQLitePath string

	// AutoMigrate applies the postgres schema on startup.
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Name        string
	Version     string
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string

	// AllowedOrigins defaults to FrontendURL.
	AllowedOrigins []string
}

func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

type AttendanceConfig struct {
	CheckInThreshold  string
	CheckOutThreshold string
	Workdays          []time.Weekday
	Timezone          *time.Location
}

type PayrollConfig struct {
	LateDeduction   decimal.Decimal
	AbsentDeduction decimal.Decimal
	Currency        string
}

type PaginationConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-hris-approval"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	config.Storage = StorageConfig{
		Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		SQLitePath:  getEnv("SQLITE_PATH", "hris-approval.db"),
		AutoMigrate: getEnv("DB_AUTO_MIGRATE", "false") == "true",
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:        getEnv("APP_NAME", "hris-approval"),
		Version:     getEnv("APP_VERSION", "v1.0.0"),
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
	config.App.AllowedOrigins = getEnvSlice("CORS_ALLOWED_ORIGINS")
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{config.App.FrontendURL}
	}

	// JWT configuration
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	// Attendance configuration
	workdays, err := parseWorkdays(getEnv("ATTENDANCE_WORKDAYS", "1,2,3,4,5"))
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(getEnv("ATTENDANCE_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}
	config.Attendance = AttendanceConfig{
		CheckInThreshold:  getEnv("ATTENDANCE_CHECK_IN_THRESHOLD", "09:00"),
		CheckOutThreshold: getEnv("ATTENDANCE_CHECK_OUT_THRESHOLD", "17:00"),
		Workdays:          workdays,
		Timezone:          loc,
	}

	// Payroll configuration
	late, err := decimal.NewFromString(getEnv("PAYROLL_LATE_DEDUCTION", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_LATE_DEDUCTION: %w", err)
	}
	absent, err := decimal.NewFromString(getEnv("PAYROLL_ABSENT_DEDUCTION", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_ABSENT_DEDUCTION: %w", err)
	}
	config.Payroll = PayrollConfig{
		LateDeduction:   late,
		AbsentDeduction: absent,
		Currency:        getEnv("PAYROLL_CURRENCY", "IDR"),
	}

	// Pagination configuration
	defaultLimit, err := strconv.Atoi(getEnv("PAGINATION_DEFAULT_LIMIT", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAGINATION_DEFAULT_LIMIT: %w", err)
	}
	maxLimit, err := strconv.Atoi(getEnv("PAGINATION_MAX_LIMIT", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAGINATION_MAX_LIMIT: %w", err)
	}
	config.Pagination = PaginationConfig{DefaultLimit: defaultLimit, MaxLimit: maxLimit}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of %q, %q or %q", StorageDriverPostgres, StorageDriverSQLite, StorageDriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if !validator.IsValidClock(c.Attendance.CheckInThreshold) {
		return fmt.Errorf("ATTENDANCE_CHECK_IN_THRESHOLD must be HH:MM")
	}
	if !validator.IsValidClock(c.Attendance.CheckOutThreshold) {
		return fmt.Errorf("ATTENDANCE_CHECK_OUT_THRESHOLD must be HH:MM")
	}
	if c.Payroll.LateDeduction.IsNegative() || c.Payroll.AbsentDeduction.IsNegative() {
		return fmt.Errorf("payroll deductions must not be negative")
	}
	if c.Pagination.DefaultLimit < 1 || c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		return fmt.Errorf("PAGINATION_MAX_LIMIT must be at least PAGINATION_DEFAULT_LIMIT, which must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ",")
}

// parseWorkdays reads ISO weekday numbers, 1 for Monday through 7 for Sunday.
func parseWorkdays(value string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > 7 {
			return nil, fmt.Errorf("invalid ATTENDANCE_WORKDAYS entry %q", part)
		}
		days = append(days, time.Weekday(n%7))
	}
	return days, nil
}
