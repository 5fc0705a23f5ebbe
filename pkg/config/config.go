package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "PRODEEL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "PRODEEL_APP_ENV"
	EnvPort     = "PRODEEL_APP_PORT"
	EnvLogLevel = "PRODEEL_LOG_LEVEL"

	EnvDBDSN    = "PRODEEL_DB_DSN"
	EnvDBDriver = "PRODEEL_DB_DRIVER"
	EnvDBHost   = "PRODEEL_DB_HOST"
	EnvDBUser   = "PRODEEL_DB_USER"
	EnvDBName   = "PRODEEL_DB_NAME"

	EnvRedisURL = "PRODEEL_REDIS_URL"

	EnvAuthSecret = "PRODEEL_AUTH_JWT_SECRET"
	EnvAuthIssuer = "PRODEEL_AUTH_JWT_ISSUER"

	EnvGCPProjectID = "PRODEEL_GCP_PROJECT_ID"
	EnvGCSBucket    = "PRODEEL_GCS_BUCKET_NAME"

	EnvCalendarMaxEvents  = "PRODEEL_CALENDAR_MAX_EVENTS"
	EnvDashboardCacheTTL  = "PRODEEL_DASHBOARD_SERIES_CACHE_TTL"
	EnvFeatureUseSQLite   = "PRODEEL_USE_SQLITE"
	EnvFeatureAutoMigrate = "PRODEEL_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Calendar     CalendarConfig
	Dashboard    DashboardConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Calendar.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PRODEEL_APP_ENV" required:"true"`
	Port         string `envconfig:"PRODEEL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PRODEEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRODEEL_LOG_WARN_STACK" default:"false"`
	// CORSOrigins is a comma separated allow list for the dashboard frontend.
	CORSOrigins []string `envconfig:"PRODEEL_CORS_ORIGINS"`
	// Timezone is used to read order clock times for the analytics charts.
	Timezone string `envconfig:"PRODEEL_TIMEZONE" default:"Asia/Ho_Chi_Minh"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (a AppConfig) Location() *time.Location {
	if strings.TrimSpace(a.Timezone) == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRODEEL_DB_DSN"`
	Driver string `envconfig:"PRODEEL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRODEEL_DB_HOST"`
	LegacyPort     int    `envconfig:"PRODEEL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRODEEL_DB_USER"`
	LegacyPassword string `envconfig:"PRODEEL_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRODEEL_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRODEEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRODEEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRODEEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRODEEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRODEEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRODEEL_REDIS_URL"`
	Address      string        `envconfig:"PRODEEL_REDIS_ADDR"`
	Password     string        `envconfig:"PRODEEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRODEEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRODEEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRODEEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRODEEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRODEEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRODEEL_REDIS_WRITE_TIMEOUT" default:"5s"`

	RateLimitWindow time.Duration `envconfig:"PRODEEL_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitMax    int           `envconfig:"PRODEEL_RATE_LIMIT_MAX" default:"300"`
}

// Enabled reports whether a Redis endpoint has been configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// AuthConfig verifies tokens minted by the external identity provider.
type AuthConfig struct {
	Secret string `envconfig:"PRODEEL_AUTH_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"PRODEEL_AUTH_JWT_ISSUER" required:"true"`
	// only used by dev tooling that mints tokens locally
	ExpirationMinutes int `envconfig:"PRODEEL_AUTH_JWT_EXPIRATION_MINUTES" default:"60"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PRODEEL_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"PRODEEL_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PRODEEL_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName    string `envconfig:"PRODEEL_GCS_BUCKET_NAME"`
	PublicBaseURL string `envconfig:"PRODEEL_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
	MaxUploadMB   int    `envconfig:"PRODEEL_MAX_UPLOAD_MB" default:"10"`
}

// Enabled reports whether product image storage is configured.
func (g GCSConfig) Enabled() bool {
	return strings.TrimSpace(g.BucketName) != ""
}

type CalendarConfig struct {
	MaxEvents        int `envconfig:"PRODEEL_CALENDAR_MAX_EVENTS" default:"50"`
	MaxContentLength int `envconfig:"PRODEEL_CALENDAR_MAX_CONTENT_LENGTH" default:"20"`
}

func (c CalendarConfig) validate() error {
	if c.MaxEvents <= 0 {
		return fmt.Errorf("%s must be positive", EnvCalendarMaxEvents)
	}
	if c.MaxContentLength <= 0 {
		return fmt.Errorf("calendar max content length must be positive")
	}
	return nil
}

type DashboardConfig struct {
	SeriesCacheTTL time.Duration `envconfig:"PRODEEL_DASHBOARD_SERIES_CACHE_TTL" default:"5m"`
	PageSize       int           `envconfig:"PRODEEL_DASHBOARD_PAGE_SIZE" default:"20"`
	TopProducts    int           `envconfig:"PRODEEL_DASHBOARD_TOP_PRODUCTS" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PRODEEL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PRODEEL_AUTO_MIGRATE" default:"false"`
	CacheSeries bool `envconfig:"PRODEEL_CACHE_SERIES" default:"true"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.Driver = "sqlite"
		db.DSN = "file:prodeel.db?cache=shared"
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
