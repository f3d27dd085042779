// SPDX-License-Identifier: MIT
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() Settings {
	return Settings{
		Listen:     ":8080",
		AListURL:   "http://alist.local:5244",
		AListToken: "alist-xxxx",
		Root:       "/media",
		PageSize:   20,
	}
}

func TestValidateAcceptsMinimalSettings(t *testing.T) {
	require.NoError(t, validSettings().Validate())
}

func TestValidateRejectsBadSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"missing alist url", func(s *Settings) { s.AListURL = "" }},
		{"bad scheme", func(s *Settings) { s.AListURL = "ftp://alist.local" }},
		{"missing host", func(s *Settings) { s.AListURL = "http://" }},
		{"missing token", func(s *Settings) { s.AListToken = "  " }},
		{"relative root", func(s *Settings) { s.Root = "media" }},
		{"zero page size", func(s *Settings) { s.PageSize = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSettings()
			tc.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestValidateAllowsMissingTMDBKey(t *testing.T) {
	s := validSettings()
	s.TMDBKey = ""
	assert.NoError(t, s.Validate(), "missing TMDB key only disables enrichment")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DRIVECAT_ALIST_URL", "http://alist.local:5244")
	t.Setenv("DRIVECAT_ALIST_TOKEN", "tok")
	t.Setenv("DRIVECAT_ROOT", "/media")
	t.Setenv("DRIVECAT_PAGE_SIZE", "50")
	t.Setenv("DRIVECAT_REDIS_DB", "not-a-number")

	s := FromEnv()
	assert.Equal(t, "http://alist.local:5244", s.AListURL)
	assert.Equal(t, "/media", s.Root)
	assert.Equal(t, 50, s.PageSize)
	assert.Equal(t, 0, s.RedisDB, "invalid integer falls back to default")
	assert.Equal(t, ":8080", s.Listen, "unset variable falls back to default")
	assert.Equal(t, "en-US", s.TMDBLang)
}
