package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих значения из файла
const EnvPrefix = "TUTORING"

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

var (
	// ErrReadConfig ошибка чтения файла конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrEnvOverride ошибка разбора переменных окружения
	ErrEnvOverride = errors.New("config: failed to apply env overrides")

	// ErrInvalidConfig некорректные значения конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server" split_words:"true"`
	Database       DatabaseConfig       `toml:"database" split_words:"true"`
	Storage        StorageConfig        `toml:"storage" split_words:"true"`
	Logs           LogsConfig           `toml:"logs" split_words:"true"`
	Metrics        MetricsConfig        `toml:"metrics" split_words:"true"`
	ProfileService ProfileServiceConfig `toml:"profile_service" split_words:"true"`
	Booking        BookingConfig        `toml:"booking" split_words:"true"`
	Outbox         OutboxConfig         `toml:"outbox" split_words:"true"`
	Redis          RedisConfig          `toml:"redis" split_words:"true"`
	Tracing        TracingConfig        `toml:"tracing" split_words:"true"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate" split_words:"true"`
}

// DSN возвращает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// StorageConfig выбор хранилища: postgres или memory
type StorageConfig struct {
	Driver string `toml:"driver" split_words:"true"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
}

// ProfileServiceConfig настройки клиента сервиса профилей
type ProfileServiceConfig struct {
	URL     string `toml:"url" split_words:"true"`
	Timeout int    `toml:"timeout" split_words:"true"` // секунды
}

// BookingConfig настройки движка бронирований
type BookingConfig struct {
	LockTimeoutMs int `toml:"lock_timeout_ms" split_words:"true"`
}

// OutboxConfig настройки публикации событий в Kafka
type OutboxConfig struct {
	Enabled        bool   `toml:"enabled" split_words:"true"`
	Brokers        string `toml:"brokers" split_words:"true"` // через запятую
	PollIntervalMs int    `toml:"poll_interval_ms" split_words:"true"`
	BatchSize      int    `toml:"batch_size" split_words:"true"`
}

// BrokerList возвращает список брокеров без пустых элементов
func (c OutboxConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// RedisConfig настройки кэша календаря
type RedisConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	Addr     string `toml:"addr" split_words:"true"`
	Password string `toml:"password" split_words:"true"`
	DB       int    `toml:"db" split_words:"true"`
	TTL      int    `toml:"ttl" split_words:"true"` // секунды
}

// TracingConfig настройки OpenTelemetry
type TracingConfig struct {
	Enabled      bool    `toml:"enabled" split_words:"true"`
	OTLPEndpoint string  `toml:"otlp_endpoint" split_words:"true"`
	SampleRatio  float64 `toml:"sample_ratio" split_words:"true"`
}

// Load читает конфигурацию из TOML файла и применяет переменные окружения TUTORING_*
// Отсутствующий файл не является ошибкой: используются значения по умолчанию и окружение
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvOverride, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "tutoring",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			AutoMigrate:     true,
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     true,
			ServiceName: "tutoring_service",
			Path:        "/metrics",
		},
		ProfileService: ProfileServiceConfig{
			URL:     "http://localhost:8081",
			Timeout: 5,
		},
		Booking: BookingConfig{LockTimeoutMs: 3000},
		Outbox: OutboxConfig{
			PollIntervalMs: 2000,
			BatchSize:      50,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  60,
		},
		Tracing: TracingConfig{
			OTLPEndpoint: "localhost:4317",
			SampleRatio:  1,
		},
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Booking.LockTimeoutMs <= 0 {
		return fmt.Errorf("%w: booking.lock_timeout_ms must be positive", ErrInvalidConfig)
	}

	if c.Outbox.Enabled && len(c.Outbox.BrokerList()) == 0 {
		return fmt.Errorf("%w: outbox.brokers is required when outbox is enabled", ErrInvalidConfig)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("%w: tracing.sample_ratio must be in [0, 1]", ErrInvalidConfig)
	}

	return nil
}
