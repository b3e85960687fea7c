// Package config loads the settings of the svmplot command.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/jvlmdr/svmplot/dataset"
	"github.com/jvlmdr/svmplot/demo"
	"github.com/jvlmdr/svmplot/svm"
)

// Config is the complete svmplot configuration.
type Config struct {
	Train   TrainConfig   `yaml:"train"`
	Blobs   BlobsConfig   `yaml:"blobs"`
	Circles CirclesConfig `yaml:"circles"`
	Output  OutputConfig  `yaml:"output"`
}

// TrainConfig configures svm.Fit.
type TrainConfig struct {
	// Kernel is "linear" or "rbf".
	Kernel string `yaml:"kernel"`
	// Gamma of the rbf kernel; 0 selects the scale heuristic.
	Gamma     float64 `yaml:"gamma"`
	C         float64 `yaml:"c"`
	Bias      float64 `yaml:"bias"`
	MaxEpochs int     `yaml:"max_epochs"`
	Tol       float64 `yaml:"tol"`
	Seed      int64   `yaml:"seed"`
}

// BlobsConfig configures the dataset of the demo command.
type BlobsConfig struct {
	N       int         `yaml:"n"`
	Centers [][]float64 `yaml:"centers"`
	Std     float64     `yaml:"std"`
	Seed    int64       `yaml:"seed"`
}

// CirclesConfig configures the dataset of the circles command.
type CirclesConfig struct {
	N      int     `yaml:"n"`
	Factor float64 `yaml:"factor"`
	Noise  float64 `yaml:"noise"`
	Seed   int64   `yaml:"seed"`
}

// OutputConfig controls the figure files.
type OutputConfig struct {
	// Format is used when writing to stdout or when the path has no extension.
	Format string `yaml:"format"`
	// Width and Height are in centimetres.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// Margin is the heat map resolution; 0 disables shading.
	Margin int `yaml:"margin"`
}

// DefaultConfig returns the settings the figures were designed with.
func DefaultConfig() *Config {
	return &Config{
		Train: TrainConfig{
			Kernel:    "linear",
			C:         svm.DefaultC,
			Bias:      svm.DefaultBias,
			MaxEpochs: svm.DefaultMaxEpochs,
			Tol:       svm.DefaultTol,
		},
		Blobs: BlobsConfig{
			N:       demo.Blobs.N,
			Centers: copyCenters(demo.Blobs.Centers),
			Std:     demo.Blobs.Std,
			Seed:    demo.Blobs.Seed,
		},
		Circles: CirclesConfig{
			N:      demo.Circles.N,
			Factor: demo.Circles.Factor,
			Noise:  demo.Circles.Noise,
			Seed:   demo.Circles.Seed,
		},
		Output: OutputConfig{
			Format: "svg",
			Width:  12,
			Height: 12,
		},
	}
}

func copyCenters(c [][]float64) [][]float64 {
	out := make([][]float64, len(c))
	for i, v := range c {
		out[i] = append([]float64(nil), v...)
	}
	return out
}

// LoadFromFile parses a YAML file.
// Fields missing from the file are left zero.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &c, nil
}

// Load returns the defaults overridden by the file at path.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	c := DefaultConfig()
	if path != "" {
		f, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		c.Merge(f)
		log.Debug().Str("path", path).Msg("config: loaded")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Merge copies the non-zero fields of other into c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	t := other.Train
	if t.Kernel != "" {
		c.Train.Kernel = t.Kernel
	}
	if t.Gamma != 0 {
		c.Train.Gamma = t.Gamma
	}
	if t.C != 0 {
		c.Train.C = t.C
	}
	if t.Bias != 0 {
		c.Train.Bias = t.Bias
	}
	if t.MaxEpochs != 0 {
		c.Train.MaxEpochs = t.MaxEpochs
	}
	if t.Tol != 0 {
		c.Train.Tol = t.Tol
	}
	if t.Seed != 0 {
		c.Train.Seed = t.Seed
	}

	b := other.Blobs
	if b.N != 0 {
		c.Blobs.N = b.N
	}
	if b.Centers != nil {
		c.Blobs.Centers = b.Centers
	}
	if b.Std != 0 {
		c.Blobs.Std = b.Std
	}
	if b.Seed != 0 {
		c.Blobs.Seed = b.Seed
	}

	r := other.Circles
	if r.N != 0 {
		c.Circles.N = r.N
	}
	if r.Factor != 0 {
		c.Circles.Factor = r.Factor
	}
	if r.Noise != 0 {
		c.Circles.Noise = r.Noise
	}
	if r.Seed != 0 {
		c.Circles.Seed = r.Seed
	}

	o := other.Output
	if o.Format != "" {
		c.Output.Format = o.Format
	}
	if o.Width != 0 {
		c.Output.Width = o.Width
	}
	if o.Height != 0 {
		c.Output.Height = o.Height
	}
	if o.Margin != 0 {
		c.Output.Margin = o.Margin
	}
}

var formats = map[string]bool{
	"eps": true, "jpg": true, "jpeg": true, "pdf": true,
	"png": true, "svg": true, "tex": true, "tif": true, "tiff": true,
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := c.Train.kernel(); err != nil {
		return err
	}
	if c.Train.C < 0 {
		return fmt.Errorf("config: train.c must be positive, got %g", c.Train.C)
	}
	if c.Train.Gamma < 0 {
		return fmt.Errorf("config: train.gamma must not be negative, got %g", c.Train.Gamma)
	}
	if c.Blobs.N <= 0 {
		return fmt.Errorf("config: blobs.n must be positive, got %d", c.Blobs.N)
	}
	for i, ctr := range c.Blobs.Centers {
		if len(ctr) != 2 {
			return fmt.Errorf("config: blobs.centers[%d] must have 2 coordinates, got %d", i, len(ctr))
		}
	}
	if c.Circles.N <= 0 {
		return fmt.Errorf("config: circles.n must be positive, got %d", c.Circles.N)
	}
	if c.Circles.Factor < 0 || c.Circles.Factor >= 1 {
		return fmt.Errorf("config: circles.factor must be in [0, 1), got %g", c.Circles.Factor)
	}
	if !formats[strings.ToLower(c.Output.Format)] {
		return fmt.Errorf("config: unsupported output.format %q", c.Output.Format)
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return fmt.Errorf("config: output size must be positive, got %gx%g", c.Output.Width, c.Output.Height)
	}
	return nil
}

func (t TrainConfig) kernel() (svm.Kernel, error) {
	switch strings.ToLower(t.Kernel) {
	case "", "linear":
		return svm.Linear{}, nil
	case "rbf":
		return svm.RBF{Gamma: t.Gamma}, nil
	default:
		return nil, fmt.Errorf("config: unknown kernel %q", t.Kernel)
	}
}

// Options converts the training settings for svm.Fit.
func (t TrainConfig) Options() (svm.Options, error) {
	k, err := t.kernel()
	if err != nil {
		return svm.Options{}, err
	}
	return svm.Options{
		Kernel:    k,
		C:         t.C,
		Bias:      t.Bias,
		MaxEpochs: t.MaxEpochs,
		Tol:       t.Tol,
		Seed:      t.Seed,
	}, nil
}

// Dataset converts the blobs settings.
func (b BlobsConfig) Dataset() dataset.BlobsConfig {
	return dataset.BlobsConfig{N: b.N, Centers: b.Centers, Std: b.Std, Seed: b.Seed}
}

// Dataset converts the circles settings.
func (r CirclesConfig) Dataset() dataset.CirclesConfig {
	return dataset.CirclesConfig{N: r.N, Factor: r.Factor, Noise: r.Noise, Seed: r.Seed}
}
