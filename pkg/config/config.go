package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Checkout      CheckoutConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ZENMART_APP_ENV" required:"true"`
	Port         string `envconfig:"ZENMART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ZENMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ZENMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"ZENMART_DB_DSN"`

	Host     string `envconfig:"ZENMART_DB_HOST"`
	Port     int    `envconfig:"ZENMART_DB_PORT" default:"5432"`
	User     string `envconfig:"ZENMART_DB_USER"`
	Password string `envconfig:"ZENMART_DB_PASSWORD"`
	Name     string `envconfig:"ZENMART_DB_NAME"`
	SSLMode  string `envconfig:"ZENMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ZENMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ZENMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ZENMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ZENMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ZENMART_REDIS_URL"`
	Address      string        `envconfig:"ZENMART_REDIS_ADDR"`
	Password     string        `envconfig:"ZENMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"ZENMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ZENMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ZENMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ZENMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ZENMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ZENMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ZENMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ZENMART_JWT_ISSUER" default:"zenmart"`
	ExpirationMinutes int    `envconfig:"ZENMART_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ZENMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ZENMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ZENMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ZENMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ZENMART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ZENMART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ZENMART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ZENMART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ZENMART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ZENMART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ZENMART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CheckoutConfig struct {
	DefaultCountry string        `envconfig:"ZENMART_CHECKOUT_DEFAULT_COUNTRY" default:"India"`
	IdempotencyTTL time.Duration `envconfig:"ZENMART_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ZENMART_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := []struct {
		envVar string
		value  string
	}{
		{"ZENMART_DB_HOST", db.Host},
		{"ZENMART_DB_USER", db.User},
		{"ZENMART_DB_NAME", db.Name},
	}
	for _, entry := range required {
		if entry.value == "" {
			missing = append(missing, entry.envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either ZENMART_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
