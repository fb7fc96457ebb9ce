package config

import (
	"os"
	"testing"
	"time"
)

var allEnvVars = []string{
	"HOST", "PORT", "READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT", "ENVIRONMENT",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "DB_SQLITE_PATH",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME",
	"SESSION_SECRET", "SESSION_TTL", "SESSION_REFRESH_AFTER", "SESSION_ISSUER",
	"SESSION_COOKIE_NAME", "SESSION_COOKIE_SECURE", "BCRYPT_COST",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPM", "RATE_LIMIT_BURST", "RATE_LIMIT_CLEANUP",
	"CORS_ALLOWED_ORIGINS", "LOG_LEVEL",
	"SEED_ADMIN_NAME", "SEED_ADMIN_EMAIL", "SEED_ADMIN_PASSWORD",
}

func setEnvVars(vars map[string]string) {
	for k, v := range vars {
		os.Setenv(k, v)
	}
}

func clearEnvVars(vars []string) {
	for _, k := range vars {
		os.Unsetenv(k)
	}
}

func withEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(allEnvVars)
	setEnvVars(vars)
	t.Cleanup(func() { clearEnvVars(allEnvVars) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	withEnv(t, nil)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error with default config, got: %v", err)
	}

	if config.Server.Port != "8080" {
		t.Errorf("Expected default port '8080', got %s", config.Server.Port)
	}

	if config.Server.Environment != "development" {
		t.Errorf("Expected default environment 'development', got %s", config.Server.Environment)
	}

	if config.Database.Driver != "postgres" {
		t.Errorf("Expected default driver 'postgres', got %s", config.Database.Driver)
	}

	if config.Database.Name != "task_management" {
		t.Errorf("Expected default DB name 'task_management', got %s", config.Database.Name)
	}

	if config.Database.MaxOpenConns != 10 {
		t.Errorf("Expected default max open conns 10, got %d", config.Database.MaxOpenConns)
	}

	if config.Auth.SessionTTL != 30*24*time.Hour {
		t.Errorf("Expected default session TTL 30 days, got %v", config.Auth.SessionTTL)
	}

	if config.Auth.RefreshAfter != 24*time.Hour {
		t.Errorf("Expected default refresh interval 24h, got %v", config.Auth.RefreshAfter)
	}

	if config.Auth.CookieName != "session_token" {
		t.Errorf("Expected default cookie name 'session_token', got %s", config.Auth.CookieName)
	}

	if config.Auth.BCryptCost != 10 {
		t.Errorf("Expected default bcrypt cost 10, got %d", config.Auth.BCryptCost)
	}

	if !config.RateLimit.Enabled {
		t.Error("Expected rate limiting to be enabled by default")
	}

	if len(config.CORS.AllowedOrigins) != 1 || config.CORS.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("Unexpected default CORS origins: %v", config.CORS.AllowedOrigins)
	}

	if config.Seed.Enabled() {
		t.Error("Expected admin seeding to be disabled without credentials")
	}
}

func TestLoadConfig_CustomEnvironment(t *testing.T) {
	withEnv(t, map[string]string{
		"HOST":                  "0.0.0.0",
		"PORT":                  "9000",
		"ENVIRONMENT":           "production",
		"DB_HOST":               "db.example.com",
		"DB_PASSWORD":           "secure_password",
		"DB_MAX_OPEN_CONNS":     "50",
		"SESSION_SECRET":        "super-secret-key",
		"SESSION_TTL":           "720h",
		"SESSION_REFRESH_AFTER": "1h",
		"SESSION_COOKIE_SECURE": "true",
		"RATE_LIMIT_ENABLED":    "false",
		"CORS_ALLOWED_ORIGINS":  "https://a.example.com, https://b.example.com",
		"SEED_ADMIN_EMAIL":      "admin@example.com",
		"SEED_ADMIN_PASSWORD":   "admin123",
	})

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error with custom config, got: %v", err)
	}

	if config.GetServerAddr() != "0.0.0.0:9000" {
		t.Errorf("Expected server addr '0.0.0.0:9000', got %s", config.GetServerAddr())
	}

	if config.Database.Host != "db.example.com" {
		t.Errorf("Expected DB host 'db.example.com', got %s", config.Database.Host)
	}

	if config.Database.MaxOpenConns != 50 {
		t.Errorf("Expected max open conns 50, got %d", config.Database.MaxOpenConns)
	}

	if config.Auth.SessionSecret != "super-secret-key" {
		t.Errorf("Expected session secret 'super-secret-key', got %s", config.Auth.SessionSecret)
	}

	if config.Auth.SessionTTL != 720*time.Hour {
		t.Errorf("Expected session TTL 720h, got %v", config.Auth.SessionTTL)
	}

	if config.Auth.RefreshAfter != time.Hour {
		t.Errorf("Expected refresh interval 1h, got %v", config.Auth.RefreshAfter)
	}

	if !config.Auth.CookieSecure {
		t.Error("Expected secure cookies")
	}

	if config.RateLimit.Enabled {
		t.Error("Expected rate limiting to be disabled")
	}

	if len(config.CORS.AllowedOrigins) != 2 || config.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("Unexpected CORS origins: %v", config.CORS.AllowedOrigins)
	}

	if !config.Seed.Enabled() {
		t.Error("Expected admin seeding to be enabled")
	}
}

func TestLoadConfig_ProductionValidation(t *testing.T) {
	withEnv(t, map[string]string{
		"ENVIRONMENT":    "production",
		"SESSION_SECRET": "secure-session-secret",
	})

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected error for missing database password in production")
	}

	if err.Error() != "database password is required in production" {
		t.Errorf("Expected specific error message, got: %v", err)
	}
}

func TestLoadConfig_ProductionSessionSecretValidation(t *testing.T) {
	withEnv(t, map[string]string{
		"ENVIRONMENT": "production",
		"DB_PASSWORD": "secure-db-password",
	})

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected error for default session secret in production")
	}

	if err.Error() != "session secret must be set in production" {
		t.Errorf("Expected specific error message, got: %v", err)
	}
}

func TestLoadConfig_SQLiteNeedsNoPassword(t *testing.T) {
	withEnv(t, map[string]string{
		"ENVIRONMENT":    "production",
		"DB_DRIVER":      "sqlite",
		"DB_SQLITE_PATH": "/var/lib/taskboard/app.db",
		"SESSION_SECRET": "secure-session-secret",
	})

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.GetDatabaseDSN() != "/var/lib/taskboard/app.db" {
		t.Errorf("Expected sqlite path as DSN, got %s", config.GetDatabaseDSN())
	}
}

func TestLoadConfig_UnsupportedDriver(t *testing.T) {
	withEnv(t, map[string]string{"DB_DRIVER": "oracle"})

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func TestConfig_GetDatabaseDSN(t *testing.T) {
	config := &Config{
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
			SSLMode:  "require",
		},
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require"
	actual := config.GetDatabaseDSN()

	if actual != expected {
		t.Errorf("Expected DSN '%s', got '%s'", expected, actual)
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		environment string
		expected    bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
		{"", false},
	}

	for _, test := range tests {
		config := &Config{Server: ServerConfig{Environment: test.environment}}

		if actual := config.IsProduction(); actual != test.expected {
			t.Errorf("For environment '%s', expected IsProduction() = %v, got %v",
				test.environment, test.expected, actual)
		}
	}
}

func TestGetEnvAsInt(t *testing.T) {
	key := "TEST_INT_VAR"
	defaultValue := 42

	os.Unsetenv(key)
	if result := getEnvAsInt(key, defaultValue); result != defaultValue {
		t.Errorf("Expected default value %d, got %d", defaultValue, result)
	}

	os.Setenv(key, "100")
	defer os.Unsetenv(key)

	if result := getEnvAsInt(key, defaultValue); result != 100 {
		t.Errorf("Expected env value 100, got %d", result)
	}

	os.Setenv(key, "not-a-number")
	if result := getEnvAsInt(key, defaultValue); result != defaultValue {
		t.Errorf("Expected default value %d for invalid int, got %d", defaultValue, result)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	key := "TEST_BOOL_VAR"
	defaultValue := true

	testCases := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"false", false},
		{"1", true},
		{"0", false},
		{"invalid", defaultValue},
	}

	for _, tc := range testCases {
		os.Setenv(key, tc.value)
		if result := getEnvAsBool(key, defaultValue); result != tc.expected {
			t.Errorf("For value '%s', expected %v, got %v", tc.value, tc.expected, result)
		}
	}

	os.Unsetenv(key)
}

func TestGetEnvAsDuration(t *testing.T) {
	key := "TEST_DURATION_VAR"
	defaultValue := 30 * time.Second

	os.Setenv(key, "5m")
	defer os.Unsetenv(key)

	if result := getEnvAsDuration(key, defaultValue); result != 5*time.Minute {
		t.Errorf("Expected env value 5m, got %v", result)
	}

	os.Setenv(key, "not-a-duration")
	if result := getEnvAsDuration(key, defaultValue); result != defaultValue {
		t.Errorf("Expected default value %v for invalid duration, got %v", defaultValue, result)
	}
}

func TestGetEnvAsList(t *testing.T) {
	key := "TEST_LIST_VAR"

	os.Setenv(key, " a ,, b ")
	defer os.Unsetenv(key)

	result := getEnvAsList(key, nil)
	if len(result) != 2 || result[0] != "a" || result[1] != "b" {
		t.Errorf("Expected [a b], got %v", result)
	}

	os.Setenv(key, " , ")
	if result := getEnvAsList(key, []string{"fallback"}); len(result) != 1 || result[0] != "fallback" {
		t.Errorf("Expected fallback for a list with no items, got %v", result)
	}
}

func BenchmarkLoadConfig(b *testing.B) {
	setEnvVars(map[string]string{
		"ENVIRONMENT":    "production",
		"DB_PASSWORD":    "password",
		"SESSION_SECRET": "secret",
	})
	defer clearEnvVars(allEnvVars)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := LoadConfig(); err != nil {
			b.Fatalf("Failed to load config: %v", err)
		}
	}
}
