package conf

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEnvBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		wantErr bool
	}{
		{"true", false},
		{"0", false},
		{" false ", false},
		{"yes", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			err := validateEnvBool(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid boolean value")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEnvValues(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateEnvURL("https://triage.example.org"))
	assert.Error(t, validateEnvURL("triage.example.org"))
	assert.NoError(t, validateEnvDuration("45s"))
	assert.Error(t, validateEnvDuration("-1s"))
	assert.Error(t, validateEnvDuration("soon"))
	assert.NoError(t, validateEnvTargetWidth("500"))
	assert.Error(t, validateEnvTargetWidth("0"))
	assert.Error(t, validateEnvTargetWidth("wide"))
	assert.NoError(t, validateEnvQuality("0.8"))
	assert.Error(t, validateEnvQuality("80"))
	assert.NoError(t, validateEnvStorageType("memory"))
	assert.Error(t, validateEnvStorageType("postgres"))
}

func TestBindEnvVarsCollectsWarnings(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	env := map[string]string{
		"SAYAH_DEBUG":          "maybe",
		"SAYAH_SERVER_TIMEOUT": "forever",
		"SAYAH_SERVER_URL":     "https://ok.example",
	}
	err := bindEnvVars(func(key string) string { return env[key] })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAYAH_DEBUG")
	assert.Contains(t, err.Error(), "SAYAH_SERVER_TIMEOUT")
	assert.NotContains(t, err.Error(), "SAYAH_SERVER_URL")
}
