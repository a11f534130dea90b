// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("ADMIN_KEY_SALT", "test-salt")
	t.Setenv("SESSION_SLUG_SALT", "test-slug")
}

func TestParseFlags_EnvVars(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("RESULTS_TIMEOUT", "250ms")

	cfg, err := ParseFlags([]string{"-env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.ResultsTimeout != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", cfg.ResultsTimeout)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("RESULTS_TIMEOUT", "")
	t.Setenv("BASE_URL", "")

	cfg, err := ParseFlags([]string{"-env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DefaultDatabaseType {
		t.Errorf("expected default database type, got %s", cfg.DatabaseType)
	}
	if cfg.ResultsTimeout != DefaultResultsTimeout {
		t.Errorf("expected default timeout, got %s", cfg.ResultsTimeout)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %s", cfg.BaseURL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-slug-salt", "s2", "-env-file", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_KEY_SALT", "")
	t.Setenv("SESSION_SLUG_SALT", "")
	// t.Setenv restores whatever godotenv leaves behind

	path := filepath.Join(t.TempDir(), "test.env")
	content := "DATABASE_URL=file:from-dotenv.db\nADMIN_KEY_SALT=dotenv-admin\nSESSION_SLUG_SALT=dotenv-slug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("ADMIN_KEY_SALT")
	os.Unsetenv("SESSION_SLUG_SALT")

	cfg, err := ParseFlags([]string{"-env-file", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseURL != "file:from-dotenv.db" {
		t.Errorf("expected database URL from env file, got %s", cfg.DatabaseURL)
	}
	if cfg.AdminKeySalt != "dotenv-admin" {
		t.Errorf("expected admin salt from env file, got %s", cfg.AdminKeySalt)
	}
}

func TestParseFlags_MissingEnvFileIsFine(t *testing.T) {
	setRequired(t)

	_, err := ParseFlags([]string{"-env-file", filepath.Join(t.TempDir(), "absent.env")})
	if err != nil {
		t.Fatalf("missing env file should be ignored, got %v", err)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database url", map[string]string{"DATABASE_URL": ""}, nil},
		{"missing admin salt", map[string]string{"ADMIN_KEY_SALT": ""}, nil},
		{"missing slug salt", map[string]string{"SESSION_SLUG_SALT": ""}, nil},
		{"bad port", map[string]string{"PORT": "abc"}, nil},
		{"bad timeout", map[string]string{"RESULTS_TIMEOUT": "soon"}, nil},
		{"bad database type", nil, []string{"-t", "mysql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("PORT", "")
			t.Setenv("RESULTS_TIMEOUT", "")
			t.Setenv("DATABASE_TYPE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			args := append([]string{"-env-file", ""}, tt.args...)
			if _, err := ParseFlags(args); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
