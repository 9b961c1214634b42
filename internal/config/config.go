package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Credential verification modes.
const (
	CredentialModeStatic = "static"
	CredentialModeBcrypt = "bcrypt"
)

// Token validation modes.
const (
	ValidatorModeLocal = "local"
	ValidatorModeOIDC  = "oidc"
)

// Product store drivers.
const (
	StoreDriverPgx    = "pgx"
	StoreDriverGorm   = "gorm"
	StoreDriverMemory = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Store    StoreConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	OIDC     OIDCConfig
	Throttle ThrottleConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// StoreConfig selects the product repository implementation.
type StoreConfig struct {
	Driver string
	Seed   bool
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Format      string
	Development bool
	Service     string
}

// AuthConfig defines token issuance and credential parameters.
//
// DemoUsers and DemoPassword back the static credential check used by the
// demo login endpoint. They are a placeholder: deployments should switch
// CredentialMode to bcrypt and supply UserHashes.
type AuthConfig struct {
	JWTSecret        string
	Issuer           string
	Audience         string
	TokenTTLMinutes  int
	AdminIdentity    string
	CredentialMode   string
	DemoUsers        []string
	DemoPassword     string
	UserHashes       map[string]string
	ValidatorMode    string
	ClockSkewSeconds int
}

// OIDCConfig holds the external identity provider parameters (Azure AD).
type OIDCConfig struct {
	Instance string
	TenantID string
	ClientID string
	Audience string
}

// ThrottleConfig bounds failed login attempts per username.
type ThrottleConfig struct {
	MaxAttempts    int
	LockoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, &ConfigurationError{Field: "REDIS_DB", Reason: err.Error()}
	}

	userHashes, err := parseUserHashes(os.Getenv("AUTH_USER_HASHES"))
	if err != nil {
		return nil, err
	}

	dsn := os.Getenv("POSTGRES_DSN")
	defaultDriver := StoreDriverMemory
	if dsn != "" {
		defaultDriver = StoreDriverPgx
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "product-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            dsn,
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", defaultDriver)),
			Seed:   getEnvAsBool("STORE_SEED", true),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			Development: getEnv("APP_ENV", "development") == "development",
			Service:     getEnv("APP_NAME", "product-service"),
		},
		Auth: AuthConfig{
			JWTSecret:        os.Getenv("AUTH_JWT_SECRET"),
			Issuer:           getEnv("AUTH_JWT_ISSUER", "https://localhost:8080"),
			Audience:         getEnv("AUTH_JWT_AUDIENCE", "https://localhost:8080"),
			TokenTTLMinutes:  getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 60),
			AdminIdentity:    getEnv("AUTH_ADMIN_IDENTITY", "admin"),
			CredentialMode:   strings.ToLower(getEnv("AUTH_CREDENTIAL_MODE", CredentialModeStatic)),
			DemoUsers:        getEnvAsList("AUTH_DEMO_USERS", []string{"user", "admin"}),
			DemoPassword:     getEnv("AUTH_DEMO_PASSWORD", "password"),
			UserHashes:       userHashes,
			ValidatorMode:    strings.ToLower(getEnv("AUTH_VALIDATOR_MODE", ValidatorModeLocal)),
			ClockSkewSeconds: getEnvAsInt("AUTH_CLOCK_SKEW_SECONDS", 0),
		},
		OIDC: OIDCConfig{
			Instance: getEnv("OIDC_INSTANCE", "https://login.microsoftonline.com/"),
			TenantID: os.Getenv("OIDC_TENANT_ID"),
			ClientID: os.Getenv("OIDC_CLIENT_ID"),
			Audience: os.Getenv("OIDC_AUDIENCE"),
		},
		Throttle: ThrottleConfig{
			MaxAttempts:    getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
			LockoutSeconds: getEnvAsInt("LOGIN_LOCKOUT_SECONDS", 300),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	switch c.Auth.ValidatorMode {
	case ValidatorModeLocal:
	case ValidatorModeOIDC:
		if err := c.OIDC.validate(); err != nil {
			return err
		}
	default:
		return &ConfigurationError{Field: "AUTH_VALIDATOR_MODE", Reason: fmt.Sprintf("unsupported mode %q", c.Auth.ValidatorMode)}
	}

	// the signing key is needed by the login endpoint in both validator modes
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return &ConfigurationError{Field: "AUTH_JWT_SECRET", Reason: "must be set"}
	}
	if strings.TrimSpace(c.Auth.Issuer) == "" {
		return &ConfigurationError{Field: "AUTH_JWT_ISSUER", Reason: "must be set"}
	}
	if strings.TrimSpace(c.Auth.Audience) == "" {
		return &ConfigurationError{Field: "AUTH_JWT_AUDIENCE", Reason: "must be set"}
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return &ConfigurationError{Field: "AUTH_TOKEN_TTL_MINUTES", Reason: "must be positive"}
	}

	switch c.Auth.CredentialMode {
	case CredentialModeStatic:
		if len(c.Auth.DemoUsers) == 0 || c.Auth.DemoPassword == "" {
			return &ConfigurationError{Field: "AUTH_DEMO_USERS", Reason: "static mode needs users and a password"}
		}
	case CredentialModeBcrypt:
		if len(c.Auth.UserHashes) == 0 {
			return &ConfigurationError{Field: "AUTH_USER_HASHES", Reason: "bcrypt mode needs at least one user"}
		}
	default:
		return &ConfigurationError{Field: "AUTH_CREDENTIAL_MODE", Reason: fmt.Sprintf("unsupported mode %q", c.Auth.CredentialMode)}
	}

	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverPgx, StoreDriverGorm:
		if c.Postgres.DSN == "" {
			return &ConfigurationError{Field: "POSTGRES_DSN", Reason: fmt.Sprintf("required by store driver %q", c.Store.Driver)}
		}
	default:
		return &ConfigurationError{Field: "STORE_DRIVER", Reason: fmt.Sprintf("unsupported driver %q", c.Store.Driver)}
	}
	return nil
}

func (o OIDCConfig) validate() error {
	if strings.TrimSpace(o.TenantID) == "" {
		return &ConfigurationError{Field: "OIDC_TENANT_ID", Reason: "required in oidc mode"}
	}
	if strings.TrimSpace(o.ClientID) == "" {
		return &ConfigurationError{Field: "OIDC_CLIENT_ID", Reason: "required in oidc mode"}
	}
	return nil
}

// IssuerURL returns the Azure AD v2.0 issuer for the configured tenant.
func (o OIDCConfig) IssuerURL() string {
	return strings.TrimRight(o.Instance, "/") + "/" + o.TenantID + "/v2.0"
}

// ExpectedAudience returns the audience tokens must carry, defaulting to the client id.
func (o OIDCConfig) ExpectedAudience() string {
	if o.Audience != "" {
		return o.Audience
	}
	return o.ClientID
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ClockSkew returns the tolerated clock drift when validating tokens.
func (a AuthConfig) ClockSkew() time.Duration {
	if a.ClockSkewSeconds <= 0 {
		return 0
	}
	return time.Duration(a.ClockSkewSeconds) * time.Second
}

// LockoutWindow returns how long failed attempts are remembered.
func (t ThrottleConfig) LockoutWindow() time.Duration {
	return time.Duration(t.LockoutSeconds) * time.Second
}

// parseUserHashes reads "name:hash,name:hash" pairs. bcrypt hashes never contain commas.
func parseUserHashes(raw string) (map[string]string, error) {
	out := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, hash, ok := strings.Cut(entry, ":")
		if !ok || name == "" || hash == "" {
			return nil, &ConfigurationError{Field: "AUTH_USER_HASHES", Reason: "entries must be name:hash"}
		}
		out[name] = hash
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
