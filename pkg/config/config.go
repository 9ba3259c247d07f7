package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Wildberries  WildberriesConfig
	Sync         SyncConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"WBSYNC_APP_ENV" required:"true"`
	Port         string `envconfig:"WBSYNC_APP_PORT" default:"8090"`
	LogLevel     string `envconfig:"WBSYNC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WBSYNC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"WBSYNC_SERVICE_KIND" default:"sync-worker"`
}

type DBConfig struct {
	DSN    string `envconfig:"WBSYNC_DB_DSN"`
	Driver string `envconfig:"WBSYNC_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WBSYNC_DB_HOST"`
	LegacyPort     int    `envconfig:"WBSYNC_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WBSYNC_DB_USER"`
	LegacyPassword string `envconfig:"WBSYNC_DB_PASSWORD"`
	LegacyName     string `envconfig:"WBSYNC_DB_NAME"`
	LegacySSLMode  string `envconfig:"WBSYNC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WBSYNC_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"WBSYNC_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"WBSYNC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WBSYNC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WBSYNC_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WBSYNC_REDIS_ADDR"`
	Password     string        `envconfig:"WBSYNC_REDIS_PASSWORD"`
	DB           int           `envconfig:"WBSYNC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WBSYNC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WBSYNC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WBSYNC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WBSYNC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WBSYNC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// WildberriesConfig carries the marketplace API endpoints and request tuning.
// Credentials are per-store and live on the Store rows, not here.
type WildberriesConfig struct {
	ContentBaseURL    string        `envconfig:"WBSYNC_WB_CONTENT_BASE_URL" default:"https://suppliers-api.wildberries.ru"`
	OrdersBaseURL     string        `envconfig:"WBSYNC_WB_ORDERS_BASE_URL" default:"https://suppliers-orders.wildberries.ru"`
	StatisticsBaseURL string        `envconfig:"WBSYNC_WB_STATISTICS_BASE_URL" default:"https://suppliers-stats.wildberries.ru"`
	StatusesBaseURL   string        `envconfig:"WBSYNC_WB_STATUSES_BASE_URL" default:"https://marketplace-remotewh.wildberries.ru"`
	PageSize          int           `envconfig:"WBSYNC_WB_PAGE_SIZE" default:"50"`
	HTTPTimeout       time.Duration `envconfig:"WBSYNC_WB_HTTP_TIMEOUT" default:"30s"`
	RetryCount        int           `envconfig:"WBSYNC_WB_RETRY_COUNT" default:"2"`
}

type SyncConfig struct {
	Interval        time.Duration `envconfig:"WBSYNC_SYNC_INTERVAL" default:"30m"`
	OrderWindowDays int           `envconfig:"WBSYNC_SYNC_ORDER_WINDOW_DAYS" default:"30"`
	LockTTL         time.Duration `envconfig:"WBSYNC_SYNC_LOCK_TTL" default:"1h"`
	Rebuild         bool          `envconfig:"WBSYNC_SYNC_REBUILD" default:"false"`
}

// OrderWindow returns the half-open [from, to) range for an order sync
// starting at now.
func (s SyncConfig) OrderWindow(now time.Time) (time.Time, time.Time) {
	days := s.OrderWindowDays
	if days <= 0 {
		days = 30
	}
	return now.AddDate(0, 0, -days), now
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"WBSYNC_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"WBSYNC_AUTO_MIGRATE" default:"false"`
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
