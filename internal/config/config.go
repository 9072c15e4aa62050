package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrReadConfig не удалось прочитать или разобрать файл конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig конфигурация содержит недопустимые значения
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Переменные окружения, переопределяющие секреты из файла
const (
	EnvDBPassword    = "SCHED_DB_PASSWORD"
	EnvJWTSecret     = "SCHED_JWT_SECRET"
	EnvRedisPassword = "SCHED_REDIS_PASSWORD"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Auth     AuthConfig     `toml:"auth"`
	Booking  BookingConfig  `toml:"booking"`
	Public   PublicConfig   `toml:"public"`
	Cache    CacheConfig    `toml:"cache"`
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
	Enabled  bool   `toml:"enabled"`
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

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

// FairnessConfig окно и статусы, по которым считается нагрузка владельцев
type FairnessConfig struct {
	ScopeDays int      `toml:"scope_days"`
	Statuses  []string `toml:"statuses"`
}

type BookingConfig struct {
	StaffFairness  FairnessConfig `toml:"staff_fairness"`
	PublicFairness FairnessConfig `toml:"public_fairness"`
}

type PublicConfig struct {
	RateLimitRPS   float64  `toml:"rate_limit_rps"`
	RateLimitBurst int      `toml:"rate_limit_burst"`
	CORSOrigins    []string `toml:"cors_origins"`
}

type CacheConfig struct {
	SlotsTTLSeconds int `toml:"slots_ttl_seconds"`
}

// SlotsTTL время жизни закэшированных слотов
func (c CacheConfig) SlotsTTL() time.Duration {
	return time.Duration(c.SlotsTTLSeconds) * time.Second
}

// Load читает TOML-файл, подгружает .env (если есть), применяет переопределения из окружения и значения по умолчанию
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults(md)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvDBPassword); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv(EnvJWTSecret); ok {
		c.Auth.JWTSecret = v
	}
	if v, ok := os.LookupEnv(EnvRedisPassword); ok {
		c.Redis.Password = v
	}
}

// applyDefaults заполняет незаданные значения. Для окон справедливости ноль допустим,
// поэтому умолчание применяется только при отсутствии ключа в файле.
func (c *Config) applyDefaults(md toml.MetaData) {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "scheduling_service"
	}
	if !md.IsDefined("booking", "staff_fairness", "statuses") {
		c.Booking.StaffFairness.Statuses = []string{"pending", "confirmed"}
	}
	if !md.IsDefined("booking", "public_fairness", "scope_days") {
		c.Booking.PublicFairness.ScopeDays = domain.DefaultPublicFairnessDays
	}
	if !md.IsDefined("booking", "public_fairness", "statuses") {
		c.Booking.PublicFairness.Statuses = []string{"pending", "confirmed", "completed"}
	}
	if c.Public.RateLimitRPS == 0 {
		c.Public.RateLimitRPS = 5
	}
	if c.Public.RateLimitBurst == 0 {
		c.Public.RateLimitBurst = 10
	}
	if c.Cache.SlotsTTLSeconds == 0 {
		c.Cache.SlotsTTLSeconds = 60
	}
}

// Validate отклоняет заведомо невозможные настройки
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Port <= 0 {
		return fmt.Errorf("%w: database.port must be positive", ErrInvalidConfig)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is empty (set %s)", ErrInvalidConfig, EnvJWTSecret)
	}
	if c.Booking.StaffFairness.ScopeDays < 0 || c.Booking.PublicFairness.ScopeDays < 0 {
		return fmt.Errorf("%w: fairness scope_days must not be negative", ErrInvalidConfig)
	}
	if err := validateStatuses("booking.staff_fairness", c.Booking.StaffFairness.Statuses); err != nil {
		return err
	}
	if err := validateStatuses("booking.public_fairness", c.Booking.PublicFairness.Statuses); err != nil {
		return err
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Public.RateLimitRPS < 0 || c.Public.RateLimitBurst < 0 {
		return fmt.Errorf("%w: public rate limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

func validateStatuses(section string, statuses []string) error {
	if len(statuses) == 0 {
		return fmt.Errorf("%w: %s.statuses must not be empty", ErrInvalidConfig, section)
	}
	for _, s := range statuses {
		if !domain.BookingStatus(s).IsValid() {
			return fmt.Errorf("%w: %s.statuses: unknown booking status %q", ErrInvalidConfig, section, s)
		}
	}
	return nil
}
