package service

import (
	"time"

	"github.com/okian/tennis-compare/internal/config"
	"github.com/okian/tennis-compare/internal/domain/compare"
	"github.com/okian/tennis-compare/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCacheDir sets where downloaded files and their metadata live.
func WithCacheDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.cacheDir = dir
		}
	}
}

// WithDataSource sets the remote base URL and file names.
// matchesPattern takes the year as its only verb.
func WithDataSource(baseURL, playersFile, matchesPattern string) Option {
	return func(s *Service) {
		if baseURL != "" {
			s.baseURL = baseURL
		}
		if playersFile != "" {
			s.playersFile = playersFile
		}
		if matchesPattern != "" {
			s.matchesPattern = matchesPattern
		}
	}
}

// WithHTTPTimeout bounds a single download.
func WithHTTPTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.httpTimeout = d
		}
	}
}

// WithYearRange sets the accepted seasons.
func WithYearRange(minYear, maxYear int) Option {
	return func(s *Service) {
		if minYear <= maxYear {
			s.minYear, s.maxYear = minYear, maxYear
		}
	}
}

// WithResolver configures fuzzy name resolution.
func WithResolver(limit, minScore int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.resolverLimit = limit
		}
		if minScore >= 0 && minScore <= 100 {
			s.resolverMinScore = minScore
		}
	}
}

// WithMinFormatRows sets the sparse best-of threshold.
func WithMinFormatRows(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minFormatRows = n
		}
	}
}

// WithThresholds sets the verdict band.
func WithThresholds(win, loss float64) Option {
	return func(s *Service) {
		t := compare.Thresholds{Win: win, Loss: loss}
		if t.Valid() {
			s.thresholds = t
		}
	}
}

// WithRosterProvider injects the roster source instead of the download cache.
func WithRosterProvider(p RosterProvider) Option {
	return func(s *Service) {
		if p != nil {
			s.roster = p
		}
	}
}

// WithMatchProvider injects the season source instead of the download cache.
func WithMatchProvider(p MatchProvider) Option {
	return func(s *Service) {
		if p != nil {
			s.matches = p
		}
	}
}

// FromConfig translates process configuration into service options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithCacheDir(cfg.CacheDir),
		WithDataSource(cfg.DataBaseURL, cfg.PlayersFile, cfg.MatchesFilePattern),
		WithHTTPTimeout(cfg.HTTPTimeout),
		WithYearRange(cfg.MinYear, cfg.MaxYear),
		WithResolver(cfg.ResolverLimit, cfg.ResolverMinScore),
		WithMinFormatRows(cfg.MinFormatRows),
		WithThresholds(cfg.WinThreshold, cfg.LossThreshold),
	}
}
