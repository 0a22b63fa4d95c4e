package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create a temporary config file
	content := `
service:
  id: "test-service"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
api:
  host: "0.0.0.0"
  port: 8080
security:
  jwt:
    secret: "test-secret-key-at-least-32-chars!"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "test-service" {
		t.Errorf("Service.ID = %q, want %q", cfg.Service.ID, "test-service")
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}

	if cfg.Security.JWT.AccessTokenTTL != 15 {
		t.Errorf("Security.JWT.AccessTokenTTL = %d, want default 15", cfg.Security.JWT.AccessTokenTTL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
service:
  id: ""
database:
  path: "/tmp/test.db"
api:
  port: 8080
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for empty service.id, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	// validJWTSecret is a secret that meets the 32-character minimum requirement
	validJWTSecret := "test-secret-key-at-least-32-chars!"

	validSecurity := SecurityConfig{
		JWT: JWTConfig{Secret: validJWTSecret, AccessTokenTTL: 15},
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				Service: ServiceConfig{ID: "shelfwise-001"},
				Database: DatabaseConfig{
					Path: "/data/shelfwise.db",
				},
				API: APIConfig{
					Port: 8080,
				},
				Security: validSecurity,
			},
			wantErr: false,
		},
		{
			name: "missing service ID",
			config: &Config{
				Service:  ServiceConfig{ID: ""},
				Database: DatabaseConfig{Path: "/data/shelfwise.db"},
				API:      APIConfig{Port: 8080},
				Security: validSecurity,
			},
			wantErr: true,
		},
		{
			name: "missing database path",
			config: &Config{
				Service:  ServiceConfig{ID: "shelfwise-001"},
				Database: DatabaseConfig{Path: ""},
				API:      APIConfig{Port: 8080},
				Security: validSecurity,
			},
			wantErr: true,
		},
		{
			name: "invalid port low",
			config: &Config{
				Service:  ServiceConfig{ID: "shelfwise-001"},
				Database: DatabaseConfig{Path: "/data/shelfwise.db"},
				API:      APIConfig{Port: 0},
				Security: validSecurity,
			},
			wantErr: true,
		},
		{
			name: "invalid port high",
			config: &Config{
				Service:  ServiceConfig{ID: "shelfwise-001"},
				Database: DatabaseConfig{Path: "/data/shelfwise.db"},
				API:      APIConfig{Port: 70000},
				Security: validSecurity,
			},
			wantErr: true,
		},
		{
			name: "missing JWT secret",
			config: &Config{
				Service:  ServiceConfig{ID: "shelfwise-001"},
				Database: DatabaseConfig{Path: "/data/shelfwise.db"},
				API:      APIConfig{Port: 8080},
				Security: SecurityConfig{JWT: JWTConfig{Secret: "", AccessTokenTTL: 15}},
			},
			wantErr: true,
		},
		{
			name: "JWT secret too short",
			config: &Config{
				Service:  ServiceConfig{ID: "shelfwise-001"},
				Database: DatabaseConfig{Path: "/data/shelfwise.db"},
				API:      APIConfig{Port: 8080},
				Security: SecurityConfig{JWT: JWTConfig{Secret: "short", AccessTokenTTL: 15}},
			},
			wantErr: true,
		},
		{
			name: "zero token TTL",
			config: &Config{
				Service:  ServiceConfig{ID: "shelfwise-001"},
				Database: DatabaseConfig{Path: "/data/shelfwise.db"},
				API:      APIConfig{Port: 8080},
				Security: SecurityConfig{JWT: JWTConfig{Secret: validJWTSecret, AccessTokenTTL: 0}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}

	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}

	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	// Set environment variables
	t.Setenv("SHELFWISE_DATABASE_PATH", "/custom/path.db")
	t.Setenv("SHELFWISE_API_HOST", "192.168.1.1")
	t.Setenv("SHELFWISE_LOG_LEVEL", "debug")
	t.Setenv("SHELFWISE_JWT_SECRET", "jwt-secret")

	applyEnvOverrides(cfg)

	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}

	if cfg.API.Host != "192.168.1.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "192.168.1.1")
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}

	if cfg.Security.JWT.Secret != "jwt-secret" {
		t.Errorf("Security.JWT.Secret = %q, want %q", cfg.Security.JWT.Secret, "jwt-secret")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Service.ID == "" {
		t.Error("defaultConfig should have non-empty Service.ID")
	}

	if cfg.Database.Path == "" {
		t.Error("defaultConfig should have non-empty Database.Path")
	}

	if cfg.API.Port != 8080 {
		t.Errorf("defaultConfig API.Port = %d, want 8080", cfg.API.Port)
	}

	if cfg.Security.JWT.AccessTokenTTL != 15 {
		t.Errorf("defaultConfig Security.JWT.AccessTokenTTL = %d, want 15", cfg.Security.JWT.AccessTokenTTL)
	}
}
