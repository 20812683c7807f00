package warmstart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1e-5, cfg.EpsAbs)
	assert.Equal(t, 1e-5, cfg.EpsRel)
	assert.Equal(t, 5000, cfg.MaxIter)
	assert.Equal(t, 2e19, cfg.SolverInfinity)
	assert.True(t, cfg.Polish)
	assert.Equal(t, BackendADMM, cfg.Backend)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero eps_abs", func(c *Config) { c.EpsAbs = 0 }},
		{"negative eps_rel", func(c *Config) { c.EpsRel = -1 }},
		{"zero max_iter", func(c *Config) { c.MaxIter = 0 }},
		{"negative infinity", func(c *Config) { c.SolverInfinity = -1 }},
		{"unknown backend", func(c *Config) { c.Backend = "osqp" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigOverrides(t *testing.T) {
	t.Run("nil overrides keep defaults", func(t *testing.T) {
		var o *ConfigOverrides
		assert.Equal(t, DefaultConfig(), o.Apply(DefaultConfig()))
	})

	t.Run("partial override file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "solver.json")
		require.NoError(t, os.WriteFile(path,
			[]byte(`{"max_iter": 2000, "polish": false}`), 0o644))

		o, err := LoadOverrides(path)
		require.NoError(t, err)
		cfg := o.Apply(DefaultConfig())
		assert.Equal(t, 2000, cfg.MaxIter)
		assert.False(t, cfg.Polish)
		// Untouched fields keep their defaults.
		assert.Equal(t, 1e-5, cfg.EpsAbs)
		assert.Equal(t, 2e19, cfg.SolverInfinity)
	})

	t.Run("rejects non-json extension", func(t *testing.T) {
		_, err := LoadOverrides("solver.yaml")
		assert.Error(t, err)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		_, err := LoadOverrides(path)
		assert.Error(t, err)
	})
}
