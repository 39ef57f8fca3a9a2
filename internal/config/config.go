package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// EnvConfigPath переменная окружения с путем к файлу конфигурации
const EnvConfigPath = "CONFIG_PATH"

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Cache     CacheConfig     `toml:"cache"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Events    EventsConfig    `toml:"events"`
	Booking   BookingConfig   `toml:"booking"`
	Calendar  CalendarConfig  `toml:"calendar"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	// Driver "postgres" или "memory" (без персистентности, для локального запуска)
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	MigrateOnStart  bool   `toml:"migrate_on_start"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто - stdout
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type CacheConfig struct {
	Enabled    bool  `toml:"enabled"`
	MaxItems   int64 `toml:"max_items"`
	TTLSeconds int   `toml:"ttl_seconds"`
}

// TTL время жизни записи кэша
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

type EventsConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

type BookingConfig struct {
	SlotStepMinutes int    `toml:"slot_step_minutes"`
	EnforceCalendar bool   `toml:"enforce_calendar"`
	DefaultTimezone string `toml:"default_timezone"`
}

// Location часовой пояс бизнеса без собственного пояса
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.DefaultTimezone)
}

type CalendarConfig struct {
	// UnconfiguredPolicy "closed" или "default_hours"
	UnconfiguredPolicy string `toml:"unconfigured_policy"`
	FallbackOpen       string `toml:"fallback_open"`
	FallbackClose      string `toml:"fallback_close"`
}

// Default значения, которые используются, если параметр не указан в файле
func Default() Config {
	return Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "salon_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "salon-booking",
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxItems:   10000,
			TTLSeconds: 30,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Events: EventsConfig{Topic: "booking-events"},
		Booking: BookingConfig{
			SlotStepMinutes: 30,
			DefaultTimezone: "UTC",
		},
		Calendar: CalendarConfig{
			UnconfiguredPolicy: "closed",
			FallbackOpen:       "09:00",
			FallbackClose:      "18:00",
		},
	}
}

// Path путь к конфигурации: CONFIG_PATH или fallback
func Path(fallback string) string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return fallback
}

// Load читает TOML-файл поверх значений по умолчанию и проверяет результат
func Load(path string) (*Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate проверяет допустимость значений
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port %d out of range", c.Server.HTTPPort))
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			errs = append(errs, errors.New("database.host and database.dbname are required"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q must be %q or %q", c.Database.Driver, DriverPostgres, DriverMemory))
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path))
	}

	if c.Cache.Enabled && (c.Cache.MaxItems <= 0 || c.Cache.TTLSeconds <= 0) {
		errs = append(errs, errors.New("cache.max_items and cache.ttl_seconds must be positive"))
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rate_limit.requests_per_second and rate_limit.burst must be positive"))
	}

	if c.Events.Enabled && (len(c.Events.Brokers) == 0 || c.Events.Topic == "") {
		errs = append(errs, errors.New("events.brokers and events.topic are required when events are enabled"))
	}

	if c.Booking.SlotStepMinutes <= 0 || c.Booking.SlotStepMinutes > 24*60 {
		errs = append(errs, fmt.Errorf("booking.slot_step_minutes %d out of range", c.Booking.SlotStepMinutes))
	}
	if _, err := c.Booking.Location(); err != nil {
		errs = append(errs, fmt.Errorf("booking.default_timezone: %w", err))
	}

	switch c.Calendar.UnconfiguredPolicy {
	case "closed", "default_hours":
	default:
		errs = append(errs, fmt.Errorf("calendar.unconfigured_policy %q must be closed or default_hours", c.Calendar.UnconfiguredPolicy))
	}
	open, errOpen := types.NewTimeStringFromString(c.Calendar.FallbackOpen)
	closeAt, errClose := types.NewTimeStringFromString(c.Calendar.FallbackClose)
	switch {
	case errOpen != nil || errClose != nil:
		errs = append(errs, errors.Join(errOpen, errClose))
	case !open.IsBefore(closeAt):
		errs = append(errs, errors.New("calendar.fallback_open must be before calendar.fallback_close"))
	}

	return errors.Join(errs...)
}
