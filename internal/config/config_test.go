package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("UPLOAD_PATH", t.TempDir())
	t.Setenv("UPLOAD_PASSWORD", "s3cret")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{DSN: "postgres://localhost/test", MaxConns: 10, MinConns: 2},
		Lease:    LeaseConfig{Period: 600 * time.Second},
		Upload:   UploadConfig{Path: "/tmp/uploads", Password: "pw", MaxBytes: 1 << 20, OrphanAge: time.Hour},
		Metrics:  MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2
  migrate_on_start: false

log:
  level: "debug"
  format: "text"

lease:
  period: "300s"

upload:
  path: "/var/lib/tofix/uploads"
  password: "hunter2"
  max_bytes: 1048576

tracing:
  otlp_endpoint: "localhost:4318"
  insecure: true

metrics:
  enabled: true
  path: "/prom"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}
	if cfg.Database.MigrateOnStart {
		t.Error("database.migrate_on_start should be false")
	}

	if cfg.Lease.Period != 300*time.Second {
		t.Errorf("lease.period = %v, want 300s", cfg.Lease.Period)
	}
	if cfg.Lease.LeaseSeconds() != 300 {
		t.Errorf("LeaseSeconds() = %d, want 300", cfg.Lease.LeaseSeconds())
	}

	if cfg.Upload.Path != "/var/lib/tofix/uploads" {
		t.Errorf("upload.path = %q", cfg.Upload.Path)
	}
	if cfg.Upload.Password != "hunter2" {
		t.Errorf("upload.password = %q", cfg.Upload.Password)
	}
	if cfg.Upload.MaxBytes != 1048576 {
		t.Errorf("upload.max_bytes = %d, want 1048576", cfg.Upload.MaxBytes)
	}

	if cfg.Tracing.OTLPEndpoint != "localhost:4318" || !cfg.Tracing.Insecure {
		t.Errorf("tracing = %+v", cfg.Tracing)
	}
	if cfg.Tracing.ServiceName != "tofix-backend" {
		t.Errorf("tracing.service_name = %q, want default", cfg.Tracing.ServiceName)
	}

	if cfg.Metrics.Path != "/prom" {
		t.Errorf("metrics.path = %q, want /prom", cfg.Metrics.Path)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LEASE_PERIOD", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Lease.Period != 90*time.Second {
		t.Errorf("lease.period = %v, want 90s (ENV override)", cfg.Lease.Period)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)

	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("server.port = %d, want 8000 (default)", cfg.Server.Port)
	}
	if cfg.Lease.Period != 600*time.Second {
		t.Errorf("lease.period = %v, want 600s (default)", cfg.Lease.Period)
	}
	if cfg.Upload.MaxBytes != 200000000 {
		t.Errorf("upload.max_bytes = %d, want 200000000 (default)", cfg.Upload.MaxBytes)
	}
	if cfg.Upload.RatePerMinute != 10 {
		t.Errorf("upload.rate_per_minute = %d, want 10 (default)", cfg.Upload.RatePerMinute)
	}
	if !cfg.Database.MigrateOnStart {
		t.Error("database.migrate_on_start should default to true")
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"lease period zero", func(c *Config) { c.Lease.Period = 0 }},
		{"lease period sub-second", func(c *Config) { c.Lease.Period = 500 * time.Millisecond }},
		{"upload path empty", func(c *Config) { c.Upload.Path = "  " }},
		{"upload password empty", func(c *Config) { c.Upload.Password = "" }},
		{"upload max bytes zero", func(c *Config) { c.Upload.MaxBytes = 0 }},
		{"upload negative rate", func(c *Config) { c.Upload.RatePerMinute = -1 }},
		{"upload orphan age too short", func(c *Config) { c.Upload.OrphanAge = time.Second }},
		{"min conns above max", func(c *Config) { c.Database.MinConns = 20 }},
		{"metrics path relative", func(c *Config) { c.Metrics.Path = "metrics" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_MetricsDisabledIgnoresPath(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics.Enabled = false
	cfg.Metrics.Path = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	content := "DATABASE_DSN=postgres://dotenv@localhost/db\nUPLOAD_PATH=/srv/uploads\nUPLOAD_PASSWORD=fromfile\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	// Registered with t.Setenv so the values loaded from the file are restored afterwards.
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("UPLOAD_PATH", "")
	t.Setenv("UPLOAD_PASSWORD", "")
	os.Unsetenv("DATABASE_DSN")
	os.Unsetenv("UPLOAD_PATH")
	os.Unsetenv("UPLOAD_PASSWORD")

	t.Setenv("ENV_FILE", envPath)
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Upload.Password != "fromfile" {
		t.Errorf("upload.password = %q, want value from env file", cfg.Upload.Password)
	}
	if cfg.Database.DSN != "postgres://dotenv@localhost/db" {
		t.Errorf("database.dsn = %q", cfg.Database.DSN)
	}
}

func TestLoad_ExplicitEnvFileMissing(t *testing.T) {
	t.Setenv("ENV_FILE", "/nonexistent/.env")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit env file")
	}
}
