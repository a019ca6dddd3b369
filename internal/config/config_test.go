package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("CONSONANCE_TEST_DIR", "/tmp/zeros")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/data/zeros.json", want: filepath.Join(home, "data", "zeros.json")},
		{in: "$CONSONANCE_TEST_DIR/first.json", want: "/tmp/zeros/first.json"},
		{in: "relative/path.db", want: "relative/path.db"},
		{in: "~user/path", want: "~user/path"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	assert.Equal(t, 77, v.GetInt(KeyDigits))
	assert.Equal(t, 4, v.GetInt(KeyThreshold))
	assert.Equal(t, "half", v.GetString(KeyRange))
	assert.InDelta(t, 0.95, v.GetFloat64(KeyResThreshold), 1e-12)
	assert.InDelta(t, 0.01, v.GetFloat64(KeyDistThreshold), 1e-12)
	assert.InDelta(t, 0.02, v.GetFloat64(KeyHarmonicThreshold), 1e-12)
	assert.Equal(t, "float64", v.GetString(KeyPrecision))
	assert.Equal(t, uint(256), v.GetUint(KeyBits))
	assert.Equal(t, 1, v.GetInt(KeyWorkers))
	assert.Equal(t, "info", v.GetString(KeyLogLevel))
}

func TestSetDefaults_EnvOverride(t *testing.T) {
	t.Setenv("CONSONANCE_RESONANCE_WORKERS", "8")

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()

	assert.Equal(t, 8, v.GetInt(KeyWorkers))
}
