package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type HTTPServer struct {
	Addr            string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type Database struct {
	Driver          string        `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`
	SQLitePath      string        `yaml:"SQLITE_PATH" env:"SQLITE_PATH" env-default:"./data/storefront.db"`
	MaxOpenConns    int           `yaml:"MAX_OPEN_CONNS" env:"MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"MAX_IDLE_CONNS" env:"MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"CONN_MAX_LIFETIME" env:"CONN_MAX_LIFETIME" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"CONN_MAX_IDLE_TIME" env:"CONN_MAX_IDLE_TIME" env-default:"1m"`
	AutoMigrate     bool          `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"false"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

// RateConfig bounds requests per client IP inside a sliding window.
type RateConfig struct {
	MaxRequests int64         `yaml:"MAX_REQUESTS" env:"RATE_MAX_REQUESTS" env-default:"100"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"RATE_WINDOW_SIZE" env-default:"15m"`
}

type Security struct {
	JWTSecret   string        `yaml:"JWT_SECRET" env:"JWT_SECRET" env-required:"true"`
	JWTIssuer   string        `yaml:"JWT_ISSUER" env:"JWT_ISSUER"`
	JWTAudience string        `yaml:"JWT_AUDIENCE" env:"JWT_AUDIENCE" env-default:"authenticated"`
	JWTLeeway   time.Duration `yaml:"JWT_LEEWAY" env:"JWT_LEEWAY" env-default:"5s"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"5m"`
	ProductTTL time.Duration `yaml:"product_ttl" env:"CACHE_PRODUCT_TTL" env-default:"1m"`
}

type OtelConfig struct {
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"storefront-cart"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_ENDPOINT"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"ALLOWED_ORIGINS" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

type Config struct {
	Env          string       `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel     string       `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTPServer   HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	Security     Security     `yaml:"security"`
	Cache        CacheConfig  `yaml:"cache"`
	Otel         OtelConfig   `yaml:"otel"`
	CORS         CORS         `yaml:"cors"`
}

// ResolvePath picks the explicit flag value, then CONFIG_PATH, then the
// local default.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return envPath
	}

	return "config/local.yaml"
}

func LoadConfigFromPath(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.User == "" || c.Database.Name == "" {
			return fmt.Errorf("database: PG_USER and PG_DBNAME are required for the postgres driver")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database: SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("database: unsupported driver %q", c.Database.Driver)
	}

	if c.RateConfig.MaxRequests <= 0 || c.RateConfig.WindowSize <= 0 {
		return fmt.Errorf("rateConfig: MAX_REQUESTS and WINDOW_SIZE must be positive")
	}

	if c.Otel.SamplerRatio < 0 || c.Otel.SamplerRatio > 1 {
		return fmt.Errorf("otel: SAMPLER_RATIO must be within [0, 1]")
	}

	return nil
}

func (d *Database) GetDSN() string {
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}

	return u.String()
}

// SQLiteDSN enables foreign keys and WAL, and makes every transaction take
// the write lock up front.
func (d *Database) SQLiteDSN() string {
	return "file:" + d.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate&_time_format=sqlite"
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s/%d", r.Username, r.Password, r.Host, r.Port, r.DB)
}
