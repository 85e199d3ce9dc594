package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scholartriage/pipeline/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaultBuildsValidConfig(t *testing.T) {
	cfg, err := config.WithDefault("/tmp/run").Build()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/run", cfg.Root())
	assert.Equal(t, 8, cfg.Concurrency())
	assert.Equal(t, 2, cfg.MaxRetries())
	assert.Equal(t, "/tmp/run/tracking/leads.json", cfg.LeadsPath())
}

func TestBuildRejectsNonPositiveConcurrency(t *testing.T) {
	_, err := config.WithDefault("/tmp/run").WithConcurrency(0).Build()
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoadSourcesParsesKeyedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yml")
	content := `sources:
  - name: Example University
    type: university
    url: https://example.edu/scholarships
    enabled: true
    scraper: university
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	sources, err := config.LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "Example University", sources[0].Name)
	assert.True(t, sources[0].Enabled)
}

func TestLoadSourcesMissingFileReturnsError(t *testing.T) {
	_, err := config.LoadSources("/nonexistent/sources.yml")
	assert.ErrorIs(t, err, config.ErrFileDoesNotExist)
}

func TestLoadProfileParsesCriteriaYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "criteria.yml")
	content := `name: Taiwan PhD applicant
target_level: phd
target_countries: [GB, US]
keyword_allow: [fully funded]
keyword_deny: [home fee status]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	profile, err := config.LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "phd", profile.TargetLevel)
	assert.Contains(t, profile.KeywordDeny, "home fee status")
}

func TestProfileMatchesRejectsDenyKeyword(t *testing.T) {
	profile := config.Profile{KeywordDeny: []string{"home fee status"}}
	assert.False(t, profile.Matches("requires home fee status to apply"))
}

func TestProfileMatchesRequiresAllowKeywordWhenConfigured(t *testing.T) {
	profile := config.Profile{KeywordAllow: []string{"fully funded"}}
	assert.True(t, profile.Matches("a fully funded scholarship"))
	assert.False(t, profile.Matches("a partially funded scholarship"))
}
