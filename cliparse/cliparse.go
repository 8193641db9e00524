package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

const (
	DefaultPort          = 3000
	DefaultRoundDuration = 10 * time.Second
)

type Config struct {
	Port               int
	DatabaseURL        string
	DatabaseType       string
	RoundDuration      time.Duration
	RoomIdleTimeout    time.Duration
	DiscardStaleRounds bool
	AllowedOrigin      string
	PublicURL          string
}

// HistoryEnabled reports whether match history should be recorded
func (c Config) HistoryEnabled() bool {
	return c.DatabaseURL != ""
}

// LoadEnvFile loads variables from a .env file without overriding ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var discardStale string

	fs := flag.NewFlagSet("redblue", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "History database URL (empty disables history)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Game rules
	fs.DurationVar(&cfg.RoundDuration, "round", 0, "Round duration (default 10s)")
	fs.DurationVar(&cfg.RoomIdleTimeout, "room-ttl", 0, "Reap empty rooms idle this long (0 keeps rooms forever)")
	fs.StringVar(&discardStale, "discard-stale", "", "Discard resolutions from superseded rounds (true/false)")

	// HTTP surface
	fs.StringVar(&cfg.AllowedOrigin, "origin", "", "CORS allowed origin (default *)")
	fs.StringVar(&cfg.PublicURL, "public-url", "", "Base URL encoded in room QR codes")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
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
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	if cfg.RoundDuration == 0 {
		d, err := envDuration("ROUND_DURATION", DefaultRoundDuration)
		if err != nil {
			return Config{}, err
		}
		cfg.RoundDuration = d
	}
	if cfg.RoundDuration < 0 {
		return Config{}, errors.New("round duration must be positive")
	}

	if cfg.RoomIdleTimeout == 0 {
		d, err := envDuration("ROOM_IDLE_TIMEOUT", 0)
		if err != nil {
			return Config{}, err
		}
		cfg.RoomIdleTimeout = d
	}
	if cfg.RoomIdleTimeout < 0 {
		return Config{}, errors.New("room idle timeout cannot be negative")
	}

	if discardStale == "" {
		discardStale = os.Getenv("DISCARD_STALE_ROUNDS")
	}
	if discardStale != "" {
		v, err := strconv.ParseBool(discardStale)
		if err != nil {
			return Config{}, fmt.Errorf("invalid discard-stale value %q", discardStale)
		}
		cfg.DiscardStaleRounds = v
	}

	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = os.Getenv("ALLOWED_ORIGIN")
		if cfg.AllowedOrigin == "" {
			cfg.AllowedOrigin = "*"
		}
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = os.Getenv("PUBLIC_URL")
	}

	return cfg, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return d, nil
}
