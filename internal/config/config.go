package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	EnvLocal      = "local"
	EnvProduction = "production"
)

// Config конфигурация сервиса
type Config struct {
	Env      string         `toml:"env"`
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Kafka    KafkaConfig    `toml:"kafka"`
	Redis    RedisConfig    `toml:"redis"`
	SQS      SQSConfig      `toml:"sqs"`
	Auth     AuthConfig     `toml:"auth"`
	Booking  BookingConfig  `toml:"booking"`
	Search   SearchConfig   `toml:"search"`
	Events   EventsConfig   `toml:"events"`
}

type ServerConfig struct {
	HTTPPort        int      `toml:"http_port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	IdleTimeout     int      `toml:"idle_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins"`
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
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
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

type KafkaConfig struct {
	Brokers       []string `toml:"brokers"`
	Topic         string   `toml:"topic"`
	ConsumerGroup string   `toml:"consumer_group"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type SQSConfig struct {
	Enabled           bool   `toml:"enabled"`
	QueueURL          string `toml:"queue_url"`
	Region            string `toml:"region"`
	WaitTimeSeconds   int32  `toml:"wait_time_seconds"`
	MaxMessages       int32  `toml:"max_messages"`
	VisibilityTimeout int32  `toml:"visibility_timeout"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	// Разрешить X-User-ID без токена (локальная разработка, внутренние вызовы)
	AllowHeaderIdentity bool `toml:"allow_header_identity"`
}

type BookingConfig struct {
	// flat или duration
	PricingPolicy string `toml:"pricing_policy"`
}

type SearchConfig struct {
	DefaultStartDistance int `toml:"default_start_distance"`
	DefaultEndDistance   int `toml:"default_end_distance"`
	DefaultLimit         int `toml:"default_limit"`
	MaxEndDistance       int `toml:"max_end_distance"`
}

type EventsConfig struct {
	// Сколько раз обработчик события перечитывает агрегат при конфликте версий
	ConflictRetries int `toml:"conflict_retries"`
}

// Load читает .env (если есть), затем TOML файл, затем переопределения из окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Env: EnvLocal,
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
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "smc_parkingservice"},
		Kafka:   KafkaConfig{Topic: "parking-events", ConsumerGroup: "smc-parkingservice-worker"},
		SQS:     SQSConfig{WaitTimeSeconds: 20, MaxMessages: 10, VisibilityTimeout: 30},
		Booking: BookingConfig{PricingPolicy: "flat"},
		Search: SearchConfig{
			DefaultStartDistance: 0,
			DefaultEndDistance:   10,
			DefaultLimit:         10,
			MaxEndDistance:       50,
		},
		Events: EventsConfig{ConflictRetries: 5},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SQS_QUEUE_URL"); v != "" {
		cfg.SQS.QueueURL = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvProduction:
	default:
		return fmt.Errorf("config: unknown env %q", c.Env)
	}

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("config: invalid server.http_port %d", c.Server.HTTPPort)
	}

	s := c.Search
	if s.DefaultStartDistance < 0 || s.DefaultEndDistance < s.DefaultStartDistance || s.DefaultLimit <= 0 {
		return errors.New("config: search defaults must satisfy 0 <= start <= end and limit > 0")
	}
	if s.MaxEndDistance < s.DefaultEndDistance {
		return errors.New("config: search.max_end_distance must not be below default_end_distance")
	}

	if c.Events.ConflictRetries < 1 {
		return errors.New("config: events.conflict_retries must be at least 1")
	}

	if c.Auth.JWTSecret == "" && !c.Auth.AllowHeaderIdentity {
		return errors.New("config: auth.jwt_secret is required unless allow_header_identity is set")
	}

	if c.Env == EnvProduction {
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			return errors.New("config: kafka.brokers and kafka.topic are required in production")
		}
		if c.Database.DBName == "" {
			return errors.New("config: database.dbname is required in production")
		}
		if c.SQS.Enabled && c.SQS.QueueURL == "" {
			return errors.New("config: sqs.queue_url is required when sqs is enabled")
		}
		if c.Redis.Enabled && c.Redis.Addr == "" {
			return errors.New("config: redis.addr is required when redis is enabled")
		}
	}
	return nil
}
