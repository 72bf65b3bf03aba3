package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
const EnvPrefix = "HOTEL"

var (
	// ErrInvalidConfig возвращается при невалидной конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server" envconfig:"SERVER"`
	Database  DatabaseConfig  `toml:"database" envconfig:"DB"`
	Logs      LogsConfig      `toml:"logs" envconfig:"LOGS"`
	Metrics   MetricsConfig   `toml:"metrics" envconfig:"METRICS"`
	Gateway   GatewayConfig   `toml:"gateway" envconfig:"GATEWAY"`
	Events    EventsConfig    `toml:"events" envconfig:"EVENTS"`
	Expiry    ExpiryConfig    `toml:"expiry" envconfig:"EXPIRY"`
	Slots     SlotsConfig     `toml:"slots" envconfig:"SLOTS"`
	RateLimit RateLimitConfig `toml:"rate_limit" envconfig:"RATE_LIMIT"`
	Cache     CacheConfig     `toml:"cache" envconfig:"CACHE"`
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
}

// DSN возвращает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// GatewayConfig настройки платежного шлюза
type GatewayConfig struct {
	SnapURL     string `toml:"snap_url" split_words:"true"`     // создание транзакций
	APIURL      string `toml:"api_url" split_words:"true"`      // проверка статуса
	ServerKey   string `toml:"server_key" split_words:"true"`   // секрет, лучше задавать через env
	Timeout     int    `toml:"timeout" split_words:"true"`      // секунды
	OrderPrefix string `toml:"order_prefix" split_words:"true"` // PREFIX-{bookingId}-{timestamp}
}

// EventsConfig настройки публикации событий в RabbitMQ
type EventsConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	URL      string `toml:"url" split_words:"true"`
	Exchange string `toml:"exchange" split_words:"true"`
}

// ExpiryConfig настройки автоотмены неоплаченных бронирований
type ExpiryConfig struct {
	Enabled           bool `toml:"enabled" split_words:"true"`
	PendingTTLMinutes int  `toml:"pending_ttl_minutes" split_words:"true"`
	IntervalSeconds   int  `toml:"interval_seconds" split_words:"true"`
}

// SlotsConfig настройки календарной раскладки бронирований
type SlotsConfig struct {
	Count int `toml:"count" split_words:"true"`
}

// RateLimitConfig ограничение запросов к платежным эндпоинтам (на IP)
type RateLimitConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second" split_words:"true"`
	Burst             int     `toml:"burst" split_words:"true"`
}

// CacheConfig настройки кэша каталога типов номеров (секунды)
type CacheConfig struct {
	RoomTypeTTL     int `toml:"room_type_ttl" split_words:"true"`
	CleanupInterval int `toml:"cleanup_interval" split_words:"true"`
}

// Load читает config.toml, затем применяет переменные окружения HOTEL_*,
// заполняет значения по умолчанию и валидирует результат.
// Имена переменных строятся только с префиксом (HOTEL_DB_USER, HOTEL_METRICS_PATH),
// поэтому USER, PATH и прочие переменные оболочки конфиг не затрагивают.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "hotel_booking_service"
	}

	setDefault(&c.Gateway.Timeout, 10)
	if c.Gateway.OrderPrefix == "" {
		c.Gateway.OrderPrefix = "HOTEL"
	}

	if c.Events.Exchange == "" {
		c.Events.Exchange = "hotel.bookings"
	}

	setDefault(&c.Expiry.PendingTTLMinutes, 60)
	setDefault(&c.Expiry.IntervalSeconds, 60)

	setDefault(&c.Slots.Count, 5)

	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.RequestsPerSecond = 5
	}
	setDefault(&c.RateLimit.Burst, 10)

	setDefault(&c.Cache.RoomTypeTTL, 60)
	setDefault(&c.Cache.CleanupInterval, 300)
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.Gateway.SnapURL == "" || c.Gateway.APIURL == "" {
		return fmt.Errorf("%w: gateway.snap_url and gateway.api_url are required", ErrInvalidConfig)
	}
	if c.Gateway.ServerKey == "" {
		return fmt.Errorf("%w: gateway.server_key is required (HOTEL_GATEWAY_SERVER_KEY)", ErrInvalidConfig)
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return fmt.Errorf("%w: events.url is required when events are enabled", ErrInvalidConfig)
	}
	if c.Slots.Count < 1 {
		return fmt.Errorf("%w: slots.count must be positive", ErrInvalidConfig)
	}
	return nil
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}
