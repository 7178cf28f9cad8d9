package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	GRPC     GRPCConfig
	OpsPort  string `env:"OPS_PORT" envDefault:"9090"`
	Database DatabaseConfig
	JWT      JWTConfig
	Policy   PolicyConfig
	RabbitMQ RabbitMQConfig

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

type GRPCConfig struct {
	Port            string        `env:"GRPC_PORT" envDefault:"50051"`
	TLSCertFile     string        `env:"TLS_CERT_FILE"`
	TLSKeyFile      string        `env:"TLS_KEY_FILE"`
	CACertFile      string        `env:"TLS_CA_FILE"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// TLSEnabled reports whether a server certificate was configured. Client
// certificates are only required when a CA file is also present.
func (c GRPCConfig) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

type DatabaseConfig struct {
	Driver      string `env:"STORE_DRIVER" envDefault:"postgres"`
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        string `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"POSTGRES_USER"`
	Password    string `env:"POSTGRES_PASSWORD"`
	Name        string `env:"POSTGRES_DB"`
	SSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	SSLRootCert string `env:"DB_SSLROOTCERT"`
}

// ConnString renders the lib/pq keyword/value connection string.
func (c DatabaseConfig) ConnString() string {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		c.SSLMode,
	)
	if c.SSLRootCert != "" {
		connStr += " sslrootcert=" + c.SSLRootCert
	}
	return connStr
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET,required,notEmpty"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

// PolicyConfig toggles the access rules that differ between deployments.
type PolicyConfig struct {
	RequireAuthOnList     bool `env:"AUTH_REQUIRED_LIST" envDefault:"true"`
	RequireAuthOnGet      bool `env:"AUTH_REQUIRED_GET" envDefault:"true"`
	RestrictAdminCreation bool `env:"AUTH_RESTRICT_ADMIN_CREATION" envDefault:"true"`
	IssueTokens           bool `env:"AUTH_ISSUE_TOKENS" envDefault:"true"`
}

type RabbitMQConfig struct {
	URL      string `env:"RABBITMQ_URL"`
	Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"users.events"`
}

func (c RabbitMQConfig) Enabled() bool {
	return c.URL != ""
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config from environment: %w", err)
	}

	switch cfg.Database.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Database.Driver)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// URL renders the connection as a postgres:// URL, the form golang-migrate
// expects.
func (c DatabaseConfig) URL() string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, c.Port),
		User:   url.UserPassword(c.User, c.Password),
		Path:   c.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	if c.SSLRootCert != "" {
		q.Set("sslrootcert", c.SSLRootCert)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
