package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/types"
)

// Storage and lock backends
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Redis         RedisConfig         `toml:"redis"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Storage       StorageConfig       `toml:"storage"`
	Lock          LockConfig          `toml:"lock"`
	Scheduling    SchedulingConfig    `toml:"scheduling"`
	DoctorService DoctorServiceConfig `toml:"doctor_service"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type StorageConfig struct {
	Backend string `toml:"backend"` // postgres | memory
}

type LockConfig struct {
	Backend         string `toml:"backend"` // memory | redis
	TTLSeconds      int    `toml:"ttl_seconds"`
	WaitTimeoutMs   int    `toml:"wait_timeout_ms"`
	RetryIntervalMs int    `toml:"retry_interval_ms"`
}

// TTL время жизни распределённой блокировки
func (l LockConfig) TTL() time.Duration {
	return time.Duration(l.TTLSeconds) * time.Second
}

// WaitTimeout максимальное ожидание блокировки
func (l LockConfig) WaitTimeout() time.Duration {
	return time.Duration(l.WaitTimeoutMs) * time.Millisecond
}

// RetryInterval пауза между попытками захвата распределённой блокировки
func (l LockConfig) RetryInterval() time.Duration {
	return time.Duration(l.RetryIntervalMs) * time.Millisecond
}

type SchedulingConfig struct {
	SlotDurationMinutes     int    `toml:"slot_duration_minutes"`
	OpenTime                string `toml:"open_time"`
	CloseTime               string `toml:"close_time"`
	BookingHorizonMonths    int    `toml:"booking_horizon_months"`
	MinBookingNoticeMinutes int    `toml:"min_booking_notice_minutes"`
	// HonorCustomRanges генерировать слоты по диапазонам, введённым врачом,
	// а не по фиксированной сетке рабочих часов
	HonorCustomRanges bool `toml:"honor_custom_ranges"`
}

// BusinessHours рабочие часы клиники
func (s SchedulingConfig) BusinessHours() domain.BusinessHours {
	return domain.BusinessHours{
		Open:  types.TimeString(s.OpenTime),
		Close: types.TimeString(s.CloseTime),
	}
}

type DoctorServiceConfig struct {
	URL     string `toml:"url"` // пусто - проверка существования врача отключена
	Timeout int    `toml:"timeout"`
}

// Default конфигурация по умолчанию
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
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Logs:  LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "doctor_scheduling",
		},
		Storage: StorageConfig{Backend: BackendPostgres},
		Lock: LockConfig{
			Backend:         BackendMemory,
			TTLSeconds:      10,
			WaitTimeoutMs:   3000,
			RetryIntervalMs: 25,
		},
		Scheduling: SchedulingConfig{
			SlotDurationMinutes:     domain.DefaultSlotDurationMinutes,
			OpenTime:                domain.DefaultOpenTime.String(),
			CloseTime:               domain.DefaultCloseTime.String(),
			BookingHorizonMonths:    domain.DefaultBookingHorizonMonths,
			MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
			HonorCustomRanges:       true,
		},
		DoctorService: DoctorServiceConfig{Timeout: 5},
	}
}

// Load читает TOML-файл поверх значений по умолчанию и валидирует результат
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	s := c.Scheduling
	if s.SlotDurationMinutes < domain.MinSlotDurationMinutes || s.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot_duration_minutes must be in [%d, %d]",
			ErrInvalidConfig, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	open, err := types.NewTimeStringFromString(s.OpenTime)
	if err != nil {
		return fmt.Errorf("%w: open_time: %v", ErrInvalidConfig, err)
	}
	closeTime, err := types.NewTimeStringFromString(s.CloseTime)
	if err != nil {
		return fmt.Errorf("%w: close_time: %v", ErrInvalidConfig, err)
	}
	c.Scheduling.OpenTime = open.String()
	c.Scheduling.CloseTime = closeTime.String()

	if s.BookingHorizonMonths <= 0 || s.BookingHorizonMonths > domain.MaxBookingHorizonMonths {
		return fmt.Errorf("%w: booking_horizon_months must be in [1, %d]", ErrInvalidConfig, domain.MaxBookingHorizonMonths)
	}
	if s.MinBookingNoticeMinutes < 0 {
		return fmt.Errorf("%w: min_booking_notice_minutes must not be negative", ErrInvalidConfig)
	}

	switch c.Storage.Backend {
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("%w: storage.backend %q", ErrInvalidConfig, c.Storage.Backend)
	}

	switch c.Lock.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("%w: lock.backend %q", ErrInvalidConfig, c.Lock.Backend)
	}
	if c.Lock.TTLSeconds <= 0 || c.Lock.WaitTimeoutMs <= 0 || c.Lock.RetryIntervalMs <= 0 {
		return fmt.Errorf("%w: lock timings must be positive", ErrInvalidConfig)
	}

	return nil
}
