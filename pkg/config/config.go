package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Password  PasswordConfig
	RateLimit RateLimitConfig
	Features  FeatureFlagsConfig
	Metadata  MetadataConfig
	GCP       GCPConfig
	GCS       GCSConfig
	PubSub    PubSubConfig
	BigQuery  BigQueryConfig
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
	Env          string `envconfig:"FRESHSTART_APP_ENV" required:"true"`
	Port         string `envconfig:"FRESHSTART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FRESHSTART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRESHSTART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FRESHSTART_DB_DSN"`
	Driver string `envconfig:"FRESHSTART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FRESHSTART_DB_HOST"`
	LegacyPort     int    `envconfig:"FRESHSTART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FRESHSTART_DB_USER"`
	LegacyPassword string `envconfig:"FRESHSTART_DB_PASSWORD"`
	LegacyName     string `envconfig:"FRESHSTART_DB_NAME"`
	LegacySSLMode  string `envconfig:"FRESHSTART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FRESHSTART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FRESHSTART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FRESHSTART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRESHSTART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FRESHSTART_REDIS_URL"`
	Address      string        `envconfig:"FRESHSTART_REDIS_ADDR"`
	Password     string        `envconfig:"FRESHSTART_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRESHSTART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRESHSTART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRESHSTART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRESHSTART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRESHSTART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRESHSTART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FRESHSTART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FRESHSTART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FRESHSTART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FRESHSTART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FRESHSTART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FRESHSTART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FRESHSTART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FRESHSTART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FRESHSTART_ARGON_KEY_LEN" default:"32"`
}

// RateLimitConfig holds the per-tier throttling knobs. All tiers share one
// window length; counts follow the product defaults.
type RateLimitConfig struct {
	Window            time.Duration `envconfig:"FRESHSTART_RATE_LIMIT_WINDOW" default:"1m"`
	AuthenticatedMax  int           `envconfig:"FRESHSTART_RATE_LIMIT_AUTHENTICATED_MAX" default:"60"`
	PublicMax         int           `envconfig:"FRESHSTART_RATE_LIMIT_PUBLIC_MAX" default:"10"`
	SensitiveMax      int           `envconfig:"FRESHSTART_RATE_LIMIT_SENSITIVE_MAX" default:"10"`
	AnonymousMax      int           `envconfig:"FRESHSTART_RATE_LIMIT_ANONYMOUS_MAX" default:"5"`
	UseRedis          bool          `envconfig:"FRESHSTART_RATE_LIMIT_USE_REDIS" default:"false"`
	MemoryCleanupTick time.Duration `envconfig:"FRESHSTART_RATE_LIMIT_CLEANUP_TICK" default:"5m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FRESHSTART_AUTO_MIGRATE" default:"false"`
}

type MetadataConfig struct {
	FetchTimeout time.Duration `envconfig:"FRESHSTART_METADATA_FETCH_TIMEOUT" default:"10s"`
	MaxBodyBytes int64         `envconfig:"FRESHSTART_METADATA_MAX_BODY_BYTES" default:"2097152"`
	UserAgent    string        `envconfig:"FRESHSTART_METADATA_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FRESHSTART_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"FRESHSTART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FRESHSTART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"FRESHSTART_GCS_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"FRESHSTART_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"FRESHSTART_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
	MaxUploadMB       int           `envconfig:"FRESHSTART_GCS_MAX_UPLOAD_MB" default:"10"`
}

type PubSubConfig struct {
	ClickTopic        string `envconfig:"FRESHSTART_PUBSUB_CLICK_TOPIC" default:"fs-click-events"`
	ClickSubscription string `envconfig:"FRESHSTART_PUBSUB_CLICK_SUBSCRIPTION"`
}

type BigQueryConfig struct {
	Dataset          string `envconfig:"FRESHSTART_BIGQUERY_DATASET" default:"freshstart"`
	ClickEventsTable string `envconfig:"FRESHSTART_BIGQUERY_CLICK_EVENTS_TABLE" default:"click_events"`
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
