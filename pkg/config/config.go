package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App            AppConfig
	DB             DBConfig
	Redis          RedisConfig
	JWT            JWTConfig
	Password       PasswordConfig
	AuthRateLimit  AuthRateLimitConfig
	TrackRateLimit TrackRateLimitConfig
	Views          ViewsConfig
	Cron           CronConfig
	FeatureFlags   FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once so a bad deploy fails with the full list.
func (c *Config) Validate() error {
	var err error
	if c.JWT.Secret == c.JWT.RefreshSecret {
		err = multierr.Append(err, fmt.Errorf("%s and %s must differ", EnvJWTSecret, EnvJWTRefreshSecret))
	}
	if len(c.JWT.Secret) < minSecretLength {
		err = multierr.Append(err, fmt.Errorf("%s must be at least %d characters", EnvJWTSecret, minSecretLength))
	}
	if len(c.JWT.RefreshSecret) < minSecretLength {
		err = multierr.Append(err, fmt.Errorf("%s must be at least %d characters", EnvJWTRefreshSecret, minSecretLength))
	}
	if c.Password.BcryptCost < MinBcryptCost || c.Password.BcryptCost > MaxBcryptCost {
		err = multierr.Append(err, fmt.Errorf("%s must be between %d and %d", EnvBcryptCost, MinBcryptCost, MaxBcryptCost))
	}
	switch strings.ToLower(c.DB.Driver) {
	case DriverPostgres, DriverSQLite:
	default:
		err = multierr.Append(err, fmt.Errorf("%s must be %q or %q", EnvDBDriver, DriverPostgres, DriverSQLite))
	}
	if c.Views.Workers <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvViewsWorkers))
	}
	if c.Views.QueueSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvViewsQueueSize))
	}
	return err
}

type AppConfig struct {
	Env          string   `envconfig:"FOOTBALLZONES_APP_ENV" required:"true"`
	Port         string   `envconfig:"FOOTBALLZONES_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"FOOTBALLZONES_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"FOOTBALLZONES_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"FOOTBALLZONES_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"FOOTBALLZONES_DB_DSN"`
	Driver string `envconfig:"FOOTBALLZONES_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FOOTBALLZONES_DB_HOST"`
	LegacyPort     int    `envconfig:"FOOTBALLZONES_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FOOTBALLZONES_DB_USER"`
	LegacyPassword string `envconfig:"FOOTBALLZONES_DB_PASSWORD"`
	LegacyName     string `envconfig:"FOOTBALLZONES_DB_NAME"`
	LegacySSLMode  string `envconfig:"FOOTBALLZONES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOOTBALLZONES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOOTBALLZONES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOOTBALLZONES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOOTBALLZONES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the local single-file driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"FOOTBALLZONES_REDIS_URL"`
	Address      string        `envconfig:"FOOTBALLZONES_REDIS_ADDR"`
	Password     string        `envconfig:"FOOTBALLZONES_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOOTBALLZONES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOOTBALLZONES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOOTBALLZONES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOOTBALLZONES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOOTBALLZONES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOOTBALLZONES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether any redis endpoint was supplied.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret           string `envconfig:"FOOTBALLZONES_JWT_SECRET" required:"true"`
	RefreshSecret    string `envconfig:"FOOTBALLZONES_JWT_REFRESH_SECRET" required:"true"`
	Issuer           string `envconfig:"FOOTBALLZONES_JWT_ISSUER" default:"footballzones-api"`
	Audience         string `envconfig:"FOOTBALLZONES_JWT_AUDIENCE" default:"footballzones-web"`
	AccessExpiresIn  string `envconfig:"FOOTBALLZONES_JWT_EXPIRES_IN" default:"15m"`
	RefreshExpiresIn string `envconfig:"FOOTBALLZONES_JWT_REFRESH_EXPIRES_IN" default:"7d"`
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"FOOTBALLZONES_BCRYPT_COST" default:"12"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FOOTBALLZONES_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FOOTBALLZONES_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FOOTBALLZONES_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FOOTBALLZONES_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FOOTBALLZONES_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FOOTBALLZONES_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// TrackRateLimitConfig throttles anonymous view tracking per client IP.
type TrackRateLimitConfig struct {
	PerMinute       int           `envconfig:"FOOTBALLZONES_TRACK_RATE_LIMIT_PER_MINUTE" default:"60"`
	Burst           int           `envconfig:"FOOTBALLZONES_TRACK_RATE_LIMIT_BURST" default:"20"`
	CleanupInterval time.Duration `envconfig:"FOOTBALLZONES_TRACK_RATE_LIMIT_CLEANUP" default:"5m"`
}

type ViewsConfig struct {
	Workers       int `envconfig:"FOOTBALLZONES_VIEWS_WORKERS" default:"2"`
	QueueSize     int `envconfig:"FOOTBALLZONES_VIEWS_QUEUE_SIZE" default:"1024"`
	RetentionDays int `envconfig:"FOOTBALLZONES_VIEWS_RETENTION_DAYS" default:"365"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"FOOTBALLZONES_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"FOOTBALLZONES_CRON_LOCK_TTL" default:"55m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FOOTBALLZONES_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
