package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Skills    SkillsConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Mail      MailConfig
	Messaging MessagingConfig
	Fetch     FetchConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	BodyLimit   int
}

type SkillsConfig struct {
	// VocabularyFile is optional; the built-in vocabulary is used when empty.
	VocabularyFile string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	MigrationsDir string
}

// Enabled reports whether enough settings are present to open a pool.
func (d DatabaseConfig) Enabled() bool {
	return d.DBHost != "" && d.DBName != "" && d.DBUser != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type MailConfig struct {
	Server        string
	Port          int
	UseTLS        bool
	Username      string
	Password      string
	DefaultSender string
}

type MessagingConfig struct {
	RabbitMQURL string
	Exchange    string
}

type FetchConfig struct {
	Headless bool
	Timeout  time.Duration
}

const (
	defaultBodyLimit  = 4 * 1024 * 1024
	defaultMailServer = "smtp.gmail.com"
	defaultMailPort   = 587
	defaultExchange   = "match_events"
	defaultFetchTTL   = 25 * time.Second
	defaultRedisTTL   = 600 * time.Second
)

var errMissingRequiredEnv = errors.New("missing required environment variables")
var errInvalidEnv = errors.New("invalid environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optInt := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optBool := func(key string, def bool) bool {
		raw := strings.ToLower(opt(key))
		if raw == "" {
			return def
		}
		switch raw {
		case "true", "1", "t", "yes":
			return true
		case "false", "0", "f", "no":
			return false
		}
		invalid = append(invalid, key)
		return def
	}
	optSeconds := func(key string, def time.Duration) time.Duration {
		v := optInt(key, -1)
		if v <= 0 {
			return def
		}
		return time.Duration(v) * time.Second
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		BodyLimit:   optInt("HTTP_BODY_LIMIT", defaultBodyLimit),
	}

	cfg.Skills = SkillsConfig{
		VocabularyFile: opt("SKILLS_FILE"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST"),
		DBPort:                opt("DB_PORT"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             opt("DB_SSL_MODE"),
		ConnectTimeout:        optSeconds("DB_CONNECT_TIMEOUT", 0),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optSeconds("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optSeconds("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optSeconds("DB_POOL_HEALTH_CHECK_PERIOD", 0),
		MigrationsDir:         opt("DB_MIGRATIONS_DIR"),
	}
	if cfg.Database.DBSSLMode == "" {
		cfg.Database.DBSSLMode = "disable"
	}
	if cfg.Database.DBPort == "" {
		cfg.Database.DBPort = "5432"
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      optSeconds("REDIS_TTL", defaultRedisTTL),
	}
	if cfg.Redis.Port == "" {
		cfg.Redis.Port = "6379"
	}

	cfg.Mail = MailConfig{
		Server:        opt("MAIL_SERVER"),
		Port:          optInt("MAIL_PORT", defaultMailPort),
		UseTLS:        optBool("MAIL_USE_TLS", true),
		Username:      opt("MAIL_USERNAME"),
		Password:      opt("MAIL_PASSWORD"),
		DefaultSender: opt("MAIL_DEFAULT_SENDER"),
	}
	if cfg.Mail.Server == "" {
		cfg.Mail.Server = defaultMailServer
	}
	if cfg.Mail.DefaultSender == "" {
		cfg.Mail.DefaultSender = cfg.Mail.Username
	}

	cfg.Messaging = MessagingConfig{
		RabbitMQURL: opt("RABBITMQ_URL"),
		Exchange:    opt("RABBITMQ_EXCHANGE"),
	}
	if cfg.Messaging.Exchange == "" {
		cfg.Messaging.Exchange = defaultExchange
	}

	cfg.Fetch = FetchConfig{
		Headless: optBool("JD_FETCH_HEADLESS", false),
		Timeout:  optSeconds("JD_FETCH_TIMEOUT", defaultFetchTTL),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}
