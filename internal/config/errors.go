package config

import "errors"

// ErrInvalidConfig is wrapped by Build when a required field is missing or
// out of range; config load failure is fatal per spec §7's error taxonomy.
var ErrInvalidConfig = errors.New("invalid config")

// ErrFileDoesNotExist is wrapped when a configured YAML file path is
// missing.
var ErrFileDoesNotExist = errors.New("config file does not exist")

// ErrReadConfigFail is wrapped when a configured YAML file cannot be read.
var ErrReadConfigFail = errors.New("failed to read config file")

// ErrConfigParsingFail is wrapped when a configured YAML file cannot be
// parsed into its target type.
var ErrConfigParsingFail = errors.New("failed to parse config file")
