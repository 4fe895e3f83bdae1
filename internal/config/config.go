package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-processor/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-processor/internal/pkg/validator"
	"github.com/joho/godotenv"
)

var logLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	Attendance AttendanceConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Timezone string
}

type HTTPConfig struct {
	AllowedOrigins []string
	MaxUploadMB    int
}

// AttendanceConfig holds the payroll period and normalization policy
type AttendanceConfig struct {
	PeriodStartDay      int
	PeriodEndDay        int
	NonWorkingDays      string
	SinglePunchCheckout string
	ReduceWorkers       int
	MaxPeriodDays       int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "Local"),
	}

	// HTTP configuration
	maxUpload, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "32"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}

	config.HTTP = HTTPConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		MaxUploadMB:    maxUpload,
	}

	// Attendance configuration
	startDay, err := strconv.Atoi(getEnv("PERIOD_START_DAY", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid PERIOD_START_DAY: %w", err)
	}
	endDay, err := strconv.Atoi(getEnv("PERIOD_END_DAY", "26"))
	if err != nil {
		return nil, fmt.Errorf("invalid PERIOD_END_DAY: %w", err)
	}
	workers, err := strconv.Atoi(getEnv("REDUCE_WORKERS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDUCE_WORKERS: %w", err)
	}
	maxPeriod, err := strconv.Atoi(getEnv("MAX_PERIOD_DAYS", strconv.Itoa(attendance.DefaultMaxPeriodDays)))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_PERIOD_DAYS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		PeriodStartDay:      startDay,
		PeriodEndDay:        endDay,
		NonWorkingDays:      getEnv("NON_WORKING_DAYS", "Friday,Saturday"),
		SinglePunchCheckout: getEnv("SINGLE_PUNCH_CHECKOUT", "17:00"),
		ReduceWorkers:       workers,
		MaxPeriodDays:       maxPeriod,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !validator.IsInRange(c.App.Port, 1, 65535) {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if !validator.IsInSlice(c.App.LogLevel, logLevels) {
		return fmt.Errorf("LOG_LEVEL must be one of %s", strings.Join(logLevels, ", "))
	}
	if c.HTTP.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if !validator.IsInRange(c.Attendance.PeriodStartDay, 1, 28) {
		return fmt.Errorf("PERIOD_START_DAY must be between 1 and 28")
	}
	if !validator.IsInRange(c.Attendance.PeriodEndDay, 1, 28) {
		return fmt.Errorf("PERIOD_END_DAY must be between 1 and 28")
	}
	if c.Attendance.ReduceWorkers <= 0 {
		return fmt.Errorf("REDUCE_WORKERS must be positive")
	}
	if c.Attendance.MaxPeriodDays <= 0 {
		return fmt.Errorf("MAX_PERIOD_DAYS must be positive")
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	return nil
}

// Policy builds the normalization policy from NON_WORKING_DAYS and
// SINGLE_PUNCH_CHECKOUT.
func (c *Config) Policy() (attendance.Policy, error) {
	days, err := attendance.ParseWeekdays(c.Attendance.NonWorkingDays)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid NON_WORKING_DAYS: %w", err)
	}
	checkout, err := attendance.ParseSingleCheckout(c.Attendance.SinglePunchCheckout)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid SINGLE_PUNCH_CHECKOUT: %w", err)
	}
	return attendance.Policy{NonWorkingDays: days, SinglePunchCheckout: checkout}, nil
}

func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" || strings.EqualFold(c.App.Timezone, "Local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.App.Timezone)
}

func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return level, nil
}

// MaxUploadBytes returns the multipart body cap.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.HTTP.MaxUploadMB) << 20
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
