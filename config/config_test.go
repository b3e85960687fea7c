package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvlmdr/svmplot/svm"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "linear", cfg.Train.Kernel)
	assert.Equal(t, svm.DefaultC, cfg.Train.C)
	assert.Equal(t, 200, cfg.Blobs.N)
	assert.Equal(t, 0.6, cfg.Blobs.Std)
	assert.Equal(t, "svg", cfg.Output.Format)

	opts, err := cfg.Train.Options()
	require.NoError(t, err)
	assert.Equal(t, svm.Linear{}, opts.Kernel)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid default config", modify: func(c *Config) {}},
		{name: "rbf kernel", modify: func(c *Config) { c.Train.Kernel = "RBF" }},
		{name: "unknown kernel", modify: func(c *Config) { c.Train.Kernel = "poly" }, wantErr: true},
		{name: "negative cost", modify: func(c *Config) { c.Train.C = -1 }, wantErr: true},
		{name: "negative gamma", modify: func(c *Config) { c.Train.Gamma = -1 }, wantErr: true},
		{name: "no blobs", modify: func(c *Config) { c.Blobs.N = 0 }, wantErr: true},
		{name: "3d center", modify: func(c *Config) { c.Blobs.Centers = [][]float64{{1, 2, 3}} }, wantErr: true},
		{name: "factor too large", modify: func(c *Config) { c.Circles.Factor = 1 }, wantErr: true},
		{name: "bad format", modify: func(c *Config) { c.Output.Format = "gif" }, wantErr: true},
		{name: "zero width", modify: func(c *Config) { c.Output.Width = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svmplot.yaml")
	content := `
train:
  kernel: rbf
  gamma: 2.5
  max_epochs: 50
blobs:
  n: 80
  centers: [[0, 0], [3, 3]]
output:
  format: png
  margin: 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rbf", cfg.Train.Kernel)
	assert.Equal(t, 50, cfg.Train.MaxEpochs)
	assert.Equal(t, svm.DefaultC, cfg.Train.C)
	assert.Equal(t, 80, cfg.Blobs.N)
	assert.Equal(t, [][]float64{{0, 0}, {3, 3}}, cfg.Blobs.Centers)
	assert.Equal(t, 0.6, cfg.Blobs.Std)
	assert.Equal(t, "png", cfg.Output.Format)
	assert.Equal(t, 60, cfg.Output.Margin)
	assert.Equal(t, 12.0, cfg.Output.Width)

	opts, err := cfg.Train.Options()
	require.NoError(t, err)
	assert.Equal(t, svm.RBF{Gamma: 2.5}, opts.Kernel)

	d := cfg.Blobs.Dataset()
	assert.Equal(t, 80, d.N)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(err))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("train: [unclosed"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	path = filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("train:\n  kernel: sigmoid\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
