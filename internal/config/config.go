// SPDX-License-Identifier: MIT

// Package config loads and validates the daemon settings from the
// environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrConfig marks a missing or invalid required setting.
var ErrConfig = errors.New("config: invalid configuration")

// Settings holds the daemon configuration.
type Settings struct {
	Listen     string // HTTP listen address
	AListURL   string // base URL of the AList server
	AListToken string // pre-provisioned AList token
	Root       string // remote root path of the catalog
	TMDBKey    string // TMDB API key; empty disables enrichment
	TMDBProxy  string // optional HTTP(S) proxy for TMDB calls
	TMDBLang   string // TMDB result language
	RedisAddr  string // optional Redis address for the document cache
	RedisDB    int
	LogLevel   string
	PageSize   int // default catalog page size
}

// FromEnv builds Settings from DRIVECAT_* environment variables.
func FromEnv() Settings {
	return Settings{
		Listen:     ParseString("DRIVECAT_LISTEN", ":8080"),
		AListURL:   ParseString("DRIVECAT_ALIST_URL", ""),
		AListToken: ParseString("DRIVECAT_ALIST_TOKEN", ""),
		Root:       ParseString("DRIVECAT_ROOT", ""),
		TMDBKey:    ParseString("DRIVECAT_TMDB_KEY", ""),
		TMDBProxy:  ParseString("DRIVECAT_TMDB_PROXY", ""),
		TMDBLang:   ParseString("DRIVECAT_TMDB_LANG", "en-US"),
		RedisAddr:  ParseString("DRIVECAT_REDIS_ADDR", ""),
		RedisDB:    ParseInt("DRIVECAT_REDIS_DB", 0),
		LogLevel:   ParseString("DRIVECAT_LOG_LEVEL", "info"),
		PageSize:   ParseInt("DRIVECAT_PAGE_SIZE", 20),
	}
}

// Validate checks the settings required for startup. The TMDB key is not
// required here: its absence only disables enrichment at call time.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.AListURL) == "" {
		return fmt.Errorf("%w: DRIVECAT_ALIST_URL is empty", ErrConfig)
	}
	u, err := url.Parse(s.AListURL)
	if err != nil {
		return fmt.Errorf("%w: invalid AList URL %q: %v", ErrConfig, s.AListURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported AList URL scheme %q", ErrConfig, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: AList URL %q is missing host", ErrConfig, s.AListURL)
	}
	if strings.TrimSpace(s.AListToken) == "" {
		return fmt.Errorf("%w: DRIVECAT_ALIST_TOKEN is empty", ErrConfig)
	}
	if !strings.HasPrefix(s.Root, "/") {
		return fmt.Errorf("%w: DRIVECAT_ROOT must be an absolute remote path", ErrConfig)
	}
	if s.PageSize <= 0 {
		return fmt.Errorf("%w: DRIVECAT_PAGE_SIZE must be positive", ErrConfig)
	}
	return nil
}
