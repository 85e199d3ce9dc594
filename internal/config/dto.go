package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scholartriage/pipeline/internal/leadmodel"
)

// sourcesDTO is the on-disk shape of sources.yml: a keyed list so the file
// reads naturally ("sources:" followed by one block per source) rather
// than a bare top-level array.
type sourcesDTO struct {
	Sources []leadmodel.Source `yaml:"sources"`
}

// LoadSources reads and parses sources.yml into the Source list the
// Scraper Dispatch and Discovery Engine iterate over.
func LoadSources(path string) ([]leadmodel.Source, error) {
	var dto sourcesDTO
	if err := loadYAML(path, &dto); err != nil {
		return nil, err
	}
	return dto.Sources, nil
}

// Profile is the user profile and keyword allow/deny lists loaded from
// criteria.yml (spec §6 External Interfaces).
type Profile struct {
	Name            string   `yaml:"name"`
	TargetLevel     string   `yaml:"target_level"`
	TargetCountries []string `yaml:"target_countries"`
	KeywordAllow    []string `yaml:"keyword_allow"`
	KeywordDeny     []string `yaml:"keyword_deny"`
}

// LoadProfile reads and parses criteria.yml into a Profile.
func LoadProfile(path string) (Profile, error) {
	var profile Profile
	if err := loadYAML(path, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func loadYAML(path string, out any) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrFileDoesNotExist, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}
	return nil
}
