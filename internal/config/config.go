package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
	Lease    LeaseConfig    `yaml:"lease"`
	Upload   UploadConfig   `yaml:"upload"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"5m"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"10m"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LeaseConfig holds item leasing settings.
type LeaseConfig struct {
	Period time.Duration `yaml:"period" env:"LEASE_PERIOD" env-default:"600s"`
}

// UploadConfig holds dataset upload settings. Password is the single shared
// secret that authorizes POST /csv.
type UploadConfig struct {
	Path     string `yaml:"path"      env:"UPLOAD_PATH"      env-required:"true"`
	Password string `yaml:"password"  env:"UPLOAD_PASSWORD"  env-required:"true"`
	MaxBytes int64  `yaml:"max_bytes" env:"UPLOAD_MAX_BYTES" env-default:"200000000"`
	// RatePerMinute caps POST /csv per client address. Zero disables the limit.
	RatePerMinute int `yaml:"rate_per_minute" env:"UPLOAD_RATE_PER_MINUTE" env-default:"10"`
	// OrphanAge is how old an unregistered upload must be before cleanup
	// removes it, so that uploads still being ingested are left alone.
	OrphanAge time.Duration `yaml:"orphan_age" env:"UPLOAD_ORPHAN_AGE" env-default:"1h"`
}

// TracingConfig holds OpenTelemetry settings. Tracing is off when
// OTLPEndpoint is empty.
type TracingConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"TRACING_OTLP_ENDPOINT"`
	ServiceName  string `yaml:"service_name"  env:"TRACING_SERVICE_NAME"  env-default:"tofix-backend"`
	Insecure     bool   `yaml:"insecure"      env:"TRACING_INSECURE"      env-default:"false"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}

// LeaseSeconds returns the lease period in whole seconds.
func (c LeaseConfig) LeaseSeconds() int64 {
	return int64(c.Period / time.Second)
}
