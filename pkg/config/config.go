package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Reservations ReservationsConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Reservations.validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.RateLimit.TrustedProxyNets(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SPEAKEASY_APP_ENV" required:"true"`
	Port         string `envconfig:"SPEAKEASY_PORT" default:"8080"`
	LogLevel     string `envconfig:"SPEAKEASY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SPEAKEASY_LOG_WARN_STACK" default:"false"`
	// MetricsAddr enables a /metrics listener in the worker binaries, e.g. ":9090".
	MetricsAddr string `envconfig:"SPEAKEASY_METRICS_ADDR"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SPEAKEASY_DB_DSN"`
	Driver string `envconfig:"SPEAKEASY_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SPEAKEASY_DB_HOST"`
	Port     int    `envconfig:"SPEAKEASY_DB_PORT" default:"5432"`
	User     string `envconfig:"SPEAKEASY_DB_USER"`
	Password string `envconfig:"SPEAKEASY_DB_PASSWORD"`
	Name     string `envconfig:"SPEAKEASY_DB_NAME"`
	SSLMode  string `envconfig:"SPEAKEASY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SPEAKEASY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SPEAKEASY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SPEAKEASY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SPEAKEASY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the local sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SPEAKEASY_REDIS_URL"`
	Address      string        `envconfig:"SPEAKEASY_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"SPEAKEASY_REDIS_PASSWORD"`
	DB           int           `envconfig:"SPEAKEASY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SPEAKEASY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SPEAKEASY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SPEAKEASY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SPEAKEASY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SPEAKEASY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type RateLimitConfig struct {
	Window      time.Duration `envconfig:"SPEAKEASY_RATE_LIMIT_WINDOW" default:"15m"`
	MaxRequests int           `envconfig:"SPEAKEASY_RATE_LIMIT_MAX" default:"100"`
	// TrustedProxies lists IPs or CIDRs whose X-Forwarded-For is believed.
	// Empty means the TCP peer is always the client.
	TrustedProxies []string `envconfig:"SPEAKEASY_RATE_LIMIT_TRUSTED_PROXIES"`
}

// TrustedProxyNets parses TrustedProxies. Bare IPs become single-host networks.
func (r RateLimitConfig) TrustedProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(r.TrustedProxies))
	for _, raw := range r.TrustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("%s: invalid proxy address %q", EnvRateLimitTrustedProxies, entry)
			}
			bits := 128
			if ip4 := ip.To4(); ip4 != nil {
				ip, bits = ip4, 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid proxy range %q: %w", EnvRateLimitTrustedProxies, entry, err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SPEAKEASY_CORS_ALLOWED_ORIGINS" default:"*"`
	MaxAgeSeconds  int      `envconfig:"SPEAKEASY_CORS_MAX_AGE" default:"300"`
}

type ReservationsConfig struct {
	Slots         []string `envconfig:"SPEAKEASY_RESERVATIONS_SLOTS" default:"17:00,17:30,18:00,18:30,19:00,19:30,20:00,20:30,21:00,21:30,22:00"`
	TimeZone      string   `envconfig:"SPEAKEASY_RESERVATIONS_TIMEZONE" default:"UTC"`
	DiscountEvery int      `envconfig:"SPEAKEASY_RESERVATIONS_DISCOUNT_EVERY" default:"5"`
	DiscountCode  string   `envconfig:"SPEAKEASY_RESERVATIONS_DISCOUNT_CODE" default:"DISCOUNT10"`
	CodeAttempts  int      `envconfig:"SPEAKEASY_RESERVATIONS_CODE_ATTEMPTS" default:"5"`
}

// Location resolves the configured restaurant time zone.
func (r ReservationsConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(r.TimeZone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading %s %q: %w", EnvReservationsTimeZone, name, err)
	}
	return loc, nil
}

func (r ReservationsConfig) validate() error {
	if len(r.Slots) == 0 {
		return fmt.Errorf("%s must list at least one slot", EnvReservationsSlots)
	}
	if r.DiscountEvery <= 0 {
		return fmt.Errorf("%s must be positive", EnvReservationsDiscountEvery)
	}
	if r.CodeAttempts <= 0 {
		return fmt.Errorf("%s must be positive", EnvReservationsCodeAttempts)
	}
	_, err := r.Location()
	return err
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SPEAKEASY_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"SPEAKEASY_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"SPEAKEASY_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	ReservationsTopic string `envconfig:"SPEAKEASY_PUBSUB_RESERVATIONS_TOPIC" default:"speakeasy-reservation-events"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"SPEAKEASY_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int           `envconfig:"SPEAKEASY_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int           `envconfig:"SPEAKEASY_OUTBOX_MAX_ATTEMPTS" default:"10"`
	Retention      time.Duration `envconfig:"SPEAKEASY_OUTBOX_RETENTION" default:"720h"`
}

type CronConfig struct {
	Interval     time.Duration `envconfig:"SPEAKEASY_CRON_INTERVAL" default:"15m"`
	LockTTL      time.Duration `envconfig:"SPEAKEASY_CRON_LOCK_TTL" default:"10m"`
	ReminderLead time.Duration `envconfig:"SPEAKEASY_CRON_REMINDER_LEAD" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = defaultSQLiteDSN
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if parts[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
