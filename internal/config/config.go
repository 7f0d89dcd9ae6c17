package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server           ServerConfig           `toml:"server"`
	Database         DatabaseConfig         `toml:"database"`
	Logs             LogsConfig             `toml:"logs"`
	Metrics          MetricsConfig          `toml:"metrics"`
	Scheduling       SchedulingConfig       `toml:"scheduling"`
	ExternalCalendar ExternalCalendarConfig `toml:"external_calendar"`
	Events           EventsConfig           `toml:"events"`
	RateLimit        RateLimitConfig        `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
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
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled           bool   `toml:"enabled"`
	Path              string `toml:"path"`
	ServiceName       string `toml:"service_name"`
	PoolStatsInterval int    `toml:"pool_stats_interval"` // секунды
}

type SchedulingConfig struct {
	Timezone           string `toml:"timezone"`
	SuggestionsLimit   int    `toml:"suggestions_limit"`
	ReservationRetries int    `toml:"reservation_retries"`
	CapacityFloor      int    `toml:"capacity_floor"`
}

// Location часовой пояс, в котором живут все даты и время бронирований
func (s SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

type ExternalCalendarConfig struct {
	Enabled   bool    `toml:"enabled"`
	BaseURL   string  `toml:"base_url"`
	Timeout   int     `toml:"timeout"`    // секунды
	Interval  int     `toml:"interval"`   // секунды между синхронизациями
	RangeDays int     `toml:"range_days"` // на сколько дней вперед синхронизировать
	Owners    []int64 `toml:"owners"`
}

type EventsConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Channel  string `toml:"channel"`
	Timeout  int    `toml:"timeout"` // секунды на публикацию
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// Load читает TOML файл, подставляет значения по умолчанию и секреты из окружения
// .env рядом с процессом необязателен
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация без файла
func Default() *Config {
	return &Config{
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
			DBName:          "studio_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:           true,
			Path:              "/metrics",
			ServiceName:       "studio_booking",
			PoolStatsInterval: 15,
		},
		Scheduling: SchedulingConfig{
			Timezone:           "UTC",
			SuggestionsLimit:   3,
			ReservationRetries: 3,
			CapacityFloor:      8,
		},
		ExternalCalendar: ExternalCalendarConfig{
			Timeout:   10,
			Interval:  900,
			RangeDays: 60,
		},
		Events: EventsConfig{
			Addr:    "localhost:6379",
			Channel: "studio_booking.events",
			Timeout: 3,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     5,
			Burst:   10,
		},
	}
}

// applyEnv секреты и адреса из окружения перекрывают файл
func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", v, err)
		}
		c.Database.Port = port
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.DBName = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Events.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Events.Password = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("server.http_port must be positive")
	}
	if c.Database.Driver != DriverPostgres && c.Database.Driver != DriverMemory {
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Database.Driver)
	}
	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("invalid scheduling.timezone %q: %w", c.Scheduling.Timezone, err)
	}
	if c.Scheduling.SuggestionsLimit < 0 {
		return fmt.Errorf("scheduling.suggestions_limit must not be negative")
	}
	if c.Scheduling.ReservationRetries < 0 {
		return fmt.Errorf("scheduling.reservation_retries must not be negative")
	}
	if c.Scheduling.CapacityFloor <= 0 {
		return fmt.Errorf("scheduling.capacity_floor must be positive")
	}
	if c.ExternalCalendar.Enabled {
		if c.ExternalCalendar.BaseURL == "" {
			return fmt.Errorf("external_calendar.base_url is required when sync is enabled")
		}
		if c.ExternalCalendar.Interval <= 0 || c.ExternalCalendar.RangeDays <= 0 {
			return fmt.Errorf("external_calendar.interval and range_days must be positive")
		}
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate_limit.rps and burst must be positive")
	}
	return nil
}
