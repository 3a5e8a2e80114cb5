package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Reset         ResetTokenConfig
	AuthRateLimit AuthRateLimitConfig
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
	Env          string `envconfig:"AUDIOHIVE_APP_ENV" required:"true"`
	Port         string `envconfig:"AUDIOHIVE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AUDIOHIVE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AUDIOHIVE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AUDIOHIVE_DB_DSN"`
	Driver string `envconfig:"AUDIOHIVE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AUDIOHIVE_DB_HOST"`
	LegacyPort     int    `envconfig:"AUDIOHIVE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AUDIOHIVE_DB_USER"`
	LegacyPassword string `envconfig:"AUDIOHIVE_DB_PASSWORD"`
	LegacyName     string `envconfig:"AUDIOHIVE_DB_NAME"`
	LegacySSLMode  string `envconfig:"AUDIOHIVE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AUDIOHIVE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AUDIOHIVE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AUDIOHIVE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AUDIOHIVE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AUDIOHIVE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AUDIOHIVE_REDIS_ADDR"`
	Password     string        `envconfig:"AUDIOHIVE_REDIS_PASSWORD"`
	DB           int           `envconfig:"AUDIOHIVE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AUDIOHIVE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AUDIOHIVE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AUDIOHIVE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AUDIOHIVE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AUDIOHIVE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AUDIOHIVE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AUDIOHIVE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AUDIOHIVE_JWT_EXPIRATION_MINUTES" default:"1440"`
	CookieName        string `envconfig:"AUDIOHIVE_JWT_COOKIE_NAME" default:"jwt"`
	CookieSecure      bool   `envconfig:"AUDIOHIVE_JWT_COOKIE_SECURE" default:"false"`
}

// TokenTTL returns the configured access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AUDIOHIVE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AUDIOHIVE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AUDIOHIVE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AUDIOHIVE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AUDIOHIVE_ARGON_KEY_LEN" default:"32"`
}

type ResetTokenConfig struct {
	TTL time.Duration `envconfig:"AUDIOHIVE_RESET_TOKEN_TTL" default:"10m"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"AUDIOHIVE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"AUDIOHIVE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"AUDIOHIVE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"AUDIOHIVE_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"AUDIOHIVE_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"AUDIOHIVE_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
	ForgotWindow     time.Duration `envconfig:"AUDIOHIVE_AUTH_RATE_LIMIT_FORGOT_WINDOW" default:"15m"`
	ForgotEmailLimit int           `envconfig:"AUDIOHIVE_AUTH_RATE_LIMIT_FORGOT_EMAIL_LIMIT" default:"3"`
	ForgotIPLimit    int           `envconfig:"AUDIOHIVE_AUTH_RATE_LIMIT_FORGOT_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AUDIOHIVE_AUTO_MIGRATE" default:"false"`
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
