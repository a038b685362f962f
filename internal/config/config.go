// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// patternCheckYear is formatted into matches_file_pattern to check it takes the year.
const patternCheckYear = 1999

// Config contains process configuration shared by the server and the CLI.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// AllowedOrigins feeds the CORS middleware.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// CacheDir holds downloaded CSVs and the metadata database.
	CacheDir string `koanf:"cache_dir"`

	// DataBaseURL is the raw-file root the CSVs are fetched from.
	DataBaseURL string `koanf:"data_base_url"`
	// PlayersFile and MatchesFilePattern name the files under DataBaseURL.
	// MatchesFilePattern takes the year as its only verb.
	PlayersFile        string `koanf:"players_file"`
	MatchesFilePattern string `koanf:"matches_file_pattern"`

	// HTTPTimeout bounds a single download.
	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// MinYear and MaxYear bound the accepted seasons.
	MinYear int `koanf:"min_year"`
	MaxYear int `koanf:"max_year"`

	ResolverLimit    int `koanf:"resolver_limit"`
	ResolverMinScore int `koanf:"resolver_min_score"`

	// MinFormatRows is the sparse best-of threshold.
	MinFormatRows int `koanf:"min_format_rows"`

	WinThreshold  float64 `koanf:"win_threshold"`
	LossThreshold float64 `koanf:"loss_threshold"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		AllowedOrigins:     []string{"*"},
		CacheDir:           DefaultCacheDir(),
		DataBaseURL:        "https://raw.githubusercontent.com/JeffSackmann/tennis_atp/master",
		PlayersFile:        "atp_players.csv",
		MatchesFilePattern: "atp_matches_%d.csv",
		HTTPTimeout:        30 * time.Second,
		MinYear:            1968,
		MaxYear:            2030,
		ResolverLimit:      5,
		ResolverMinScore:   80,
		MinFormatRows:      50,
		WinThreshold:       0.60,
		LossThreshold:      0.40,
	}
}

// DefaultCacheDir is ~/.tennis-compare, or a relative directory when the
// home directory is unknown.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".tennis-compare"
	}
	return filepath.Join(home, ".tennis-compare")
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CacheDir == "":
		return fmt.Errorf("%w: cache_dir must not be empty", ErrInvalidConfig)
	case c.MinYear > c.MaxYear:
		return fmt.Errorf("%w: min_year %d is after max_year %d", ErrInvalidConfig, c.MinYear, c.MaxYear)
	case c.ResolverLimit <= 0:
		return fmt.Errorf("%w: resolver_limit must be positive", ErrInvalidConfig)
	case c.ResolverMinScore < 0 || c.ResolverMinScore > 100:
		return fmt.Errorf("%w: resolver_min_score must be within 0-100", ErrInvalidConfig)
	case c.MinFormatRows <= 0:
		return fmt.Errorf("%w: min_format_rows must be positive", ErrInvalidConfig)
	case !(c.LossThreshold > 0 && c.LossThreshold < c.WinThreshold && c.WinThreshold < 1):
		return fmt.Errorf("%w: thresholds need 0 < loss (%v) < win (%v) < 1", ErrInvalidConfig, c.LossThreshold, c.WinThreshold)
	case !c.patternTakesYear():
		return fmt.Errorf("%w: matches_file_pattern %q must contain the year verb %%d", ErrInvalidConfig, c.MatchesFilePattern)
	case c.HTTPTimeout <= 0:
		return fmt.Errorf("%w: http_timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) patternTakesYear() bool {
	name := c.MatchesFile(patternCheckYear)
	return strings.Contains(name, strconv.Itoa(patternCheckYear)) && !strings.Contains(name, "%!")
}

// MatchesFile returns the matches file name for year.
func (c *Config) MatchesFile(year int) string {
	return fmt.Sprintf(c.MatchesFilePattern, year)
}
