package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort           = 3318
	DefaultDatabaseType   = "sqlite"
	DefaultResultsTimeout = 5 * time.Second
	DefaultBaseURL        = "https://conspop.app"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	AdminKeySalt    string
	SessionSlugSalt string
	ResultsTimeout  time.Duration
	BaseURL         string
}

// ParseFlags reads flags, then the optional env file, then the environment.
// Flags win over env values.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	flags := flag.NewFlagSet("conspop", flag.ContinueOnError)

	flags.IntVar(&cfg.Port, "p", 0, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	flags.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	flags.DurationVar(&cfg.ResultsTimeout, "results-timeout", 0, "Upper bound on result computation per request")
	flags.StringVar(&cfg.BaseURL, "base-url", "", "Public base URL used in share links")
	flags.StringVar(&envFile, "env-file", ".env", "Optional dotenv file")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	flags.StringVar(&cfg.SessionSlugSalt, "slug-salt", "", "Session slug salt (prefer env)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	// godotenv.Load never overrides variables already set in the environment
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DefaultDatabaseType
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.ResultsTimeout == 0 {
		if v := os.Getenv("RESULTS_TIMEOUT"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid RESULTS_TIMEOUT env variable")
			}
			cfg.ResultsTimeout = d
		} else {
			cfg.ResultsTimeout = DefaultResultsTimeout
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
		if cfg.BaseURL == "" {
			cfg.BaseURL = DefaultBaseURL
		}
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.SessionSlugSalt == "" {
		cfg.SessionSlugSalt = os.Getenv("SESSION_SLUG_SALT")
	}
	if cfg.SessionSlugSalt == "" {
		return Config{}, errors.New("SESSION_SLUG_SALT required")
	}

	return cfg, nil
}
