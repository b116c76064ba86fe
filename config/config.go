package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port        string
	GinMode     string
	DBDriver    string
	DBDSN       string
	JWTSecret   string
	AMQPURL     string
	FeedPoll    time.Duration
	SeedMenu    bool
	RateLimit   float64
	RateBurst   int
	LogLevel    string
	LogFormat   string
	CORSOrigins string

	SuperAdminEmail    string
	SuperAdminPassword string

	OTLPEndpoint string
	OTLPInsecure bool
}

// Load reads .env (when present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Debugf(".env not loaded: %v", err)
	}

	return Config{
		Port:        readString("PORT", "8080"),
		GinMode:     readString("GIN_MODE", "debug"),
		DBDriver:    readString("DB_DRIVER", "sqlite"),
		DBDSN:       readString("DB_DSN", "restaurant.db"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		AMQPURL:     os.Getenv("AMQP_URL"),
		FeedPoll:    time.Duration(readPositiveInt("FEED_POLL_MS", 500)) * time.Millisecond,
		SeedMenu:    readBool("SEED_MENU", false),
		RateLimit:   float64(readInt("RATE_LIMIT_PER_SEC", 50)),
		RateBurst:   readInt("RATE_LIMIT_BURST", 100),
		LogLevel:    readString("LOG_LEVEL", "info"),
		LogFormat:   readString("LOG_FORMAT", "text"),
		CORSOrigins: readString("CORS_ORIGINS", "*"),

		SuperAdminEmail:    os.Getenv("SUPERADMIN_EMAIL"),
		SuperAdminPassword: os.Getenv("SUPERADMIN_PASSWORD"),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure: readBool("OTEL_EXPORTER_OTLP_INSECURE", false),
	}
}

// AddFlags lets command line flags override the environment.
func (c *Config) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.Port, "port", c.Port, "HTTP listen port")
	flagSet.StringVar(&c.DBDriver, "db-driver", c.DBDriver, "database driver: sqlite, mysql or postgres")
	flagSet.StringVar(&c.DBDSN, "db-dsn", c.DBDSN, "database connection string")
	flagSet.StringVar(&c.AMQPURL, "amqp-url", c.AMQPURL, "RabbitMQ URL for ticket fan-out (empty disables it)")
	flagSet.BoolVar(&c.SeedMenu, "seed-menu", c.SeedMenu, "load the sample menu into new businesses")
}

// InitDB opens the configured database.
func InitDB(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	logLevel := logger.Warn
	if cfg.GinMode == "release" {
		logLevel = logger.Error
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	utils.InfoLogger.WithField("driver", cfg.DBDriver).Info("Database connected")
	return db, nil
}

func readString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// readPositiveInt is readInt for settings where zero or less is unusable.
func readPositiveInt(key string, fallback int) int {
	if v := readInt(key, fallback); v > 0 {
		return v
	}
	return fallback
}

func readBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
