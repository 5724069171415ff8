package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
	Scanner  ScannerConfig
	Strategy StrategyConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers        []string
	PositionsTopic string
	ReportsTopic   string
	GroupID        string
}

// RedisConfig holds Redis configuration for the scanner cache
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ScannerConfig holds the external top-stocks feed configuration
type ScannerConfig struct {
	URL      string
	CacheTTL time.Duration
}

// StrategyConfig holds the strategy constants the report depends on
type StrategyConfig struct {
	Name           string
	InitialCapital decimal.Decimal
	InceptionDate  time.Time
	ReportCron     string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "portfolio"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:        []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			PositionsTopic: getEnv("KAFKA_POSITIONS_TOPIC", "position-snapshots"),
			ReportsTopic:   getEnv("KAFKA_REPORTS_TOPIC", "portfolio-reports"),
			GroupID:        getEnv("KAFKA_GROUP_ID", "portfolio-service"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Scanner: ScannerConfig{
			URL:      getEnv("SCANNER_URL", ""),
			CacheTTL: getEnvDuration("SCANNER_CACHE_TTL", 15*time.Minute),
		},
		Strategy: StrategyConfig{
			Name:           getEnv("STRATEGY_NAME", "bullet-momentum"),
			InitialCapital: getEnvDecimal("STRATEGY_INITIAL_CAPITAL", decimal.NewFromInt(1000000)),
			InceptionDate:  getEnvDate("STRATEGY_INCEPTION_DATE", time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC)),
			ReportCron:     getEnv("STRATEGY_REPORT_CRON", "0 18 * * 1-5"),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if parsed, err := decimal.NewFromString(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDate(key string, defaultValue time.Time) time.Time {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.Parse("2006-01-02", value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
