// Package config holds configuration keys, defaults and path helpers.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. CONSONANCE_RESONANCE_WORKERS.
const EnvPrefix = "CONSONANCE"

// EnvKeyReplacer maps dotted keys to environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Configuration keys.
const (
	KeyLogLevel  = "logging.level"
	KeyLogFormat = "logging.format"
	KeyDBPath    = "database.path"

	KeyDigits     = "consonance.digits"
	KeyThreshold  = "consonance.threshold"
	KeyRange      = "consonance.range"
	KeyMaxDisplay = "consonance.max_display"

	KeyZerosFile         = "resonance.zeros_file"
	KeyResThreshold      = "resonance.threshold"
	KeyDistThreshold     = "resonance.dist_threshold"
	KeyHarmonicThreshold = "resonance.harmonic_threshold"
	KeyPrecision         = "resonance.precision"
	KeyBits              = "resonance.bits"
	KeyWorkers           = "resonance.workers"
)

// Defaults maps every key to its default value.
var Defaults = map[string]any{
	KeyLogLevel:  "info",
	KeyLogFormat: "console",
	KeyDBPath:    "$HOME/.local/share/consonance/consonance.db",

	KeyDigits:     77,
	KeyThreshold:  4,
	KeyRange:      "half",
	KeyMaxDisplay: 10,

	KeyZerosFile:         "data/zeta_zeros_10000.json",
	KeyResThreshold:      0.95,
	KeyDistThreshold:     0.01,
	KeyHarmonicThreshold: 0.02,
	KeyPrecision:         "float64",
	KeyBits:              256,
	KeyWorkers:           1,
}

// SetDefaults registers Defaults on v.
func SetDefaults(v *viper.Viper) {
	for key, value := range Defaults {
		v.SetDefault(key, value)
	}
}

// Dir returns the directory searched for config.yaml under the user's home.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "consonance"), nil
}

// ExpandPath expands a leading ~ and $VAR references in path.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return os.ExpandEnv(path)
}
