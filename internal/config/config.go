// Package config defines the YAML configuration surface of the kgwalk CLI
// and builds the configured graph, samplers and walkers from it.
//
// Validation is eager: a config that parses but names an unknown strategy or
// carries out-of-range bounds is rejected at load time, never during
// extraction.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/msanta/kgwalk/pkg/connector"
	"github.com/msanta/kgwalk/pkg/graph"
	"github.com/msanta/kgwalk/pkg/sampler"
	"github.com/msanta/kgwalk/pkg/walker"
)

// Config is the top-level structure of the configuration file.
type Config struct {
	Graph      GraphConfig      `yaml:"graph"`
	Walkers    []WalkerConfig   `yaml:"walkers"`
	Extraction ExtractionConfig `yaml:"extraction"`

	// MetricsAddr, when set, exposes Prometheus metrics on this address.
	MetricsAddr string `yaml:"metrics_addr"`
}

// GraphConfig defines where the graph comes from: a local triples file, a
// SPARQL endpoint for lazy resolution, or both (local seed plus remote
// expansion).
type GraphConfig struct {
	Triples        string   `yaml:"triples"`
	Endpoint       string   `yaml:"endpoint"`
	SkipPredicates []string `yaml:"skip_predicates"`
	// Strict surfaces remote resolution failures instead of treating them
	// as dead ends.
	Strict bool `yaml:"strict"`
}

// WalkerConfig defines one traversal strategy instance.
type WalkerConfig struct {
	Strategy    string        `yaml:"strategy"` // "random", "anonymous", "walklet", "halk"
	Depth       int           `yaml:"depth"`
	MaxWalks    int           `yaml:"max_walks"` // 0 = unbounded
	WithReverse bool          `yaml:"with_reverse"`
	Seed        int64         `yaml:"seed"`
	Sampler     SamplerConfig `yaml:"sampler"`
	Thresholds  []float64     `yaml:"thresholds"` // halk only
}

// SamplerConfig defines the edge-selection policy of one walker.
type SamplerConfig struct {
	Strategy string `yaml:"strategy"` // "uniform", "predfreq", "objfreq"
	Inverse  bool   `yaml:"inverse"`
}

// ExtractionConfig defines driver-level options.
type ExtractionConfig struct {
	Workers int    `yaml:"workers"`
	Output  string `yaml:"output"`
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if c.Graph.Triples == "" && c.Graph.Endpoint == "" {
		return fmt.Errorf("graph: either a triples file or an endpoint is required")
	}
	if len(c.Walkers) == 0 {
		return fmt.Errorf("at least one walker must be configured")
	}
	for i, w := range c.Walkers {
		switch w.Strategy {
		case "random", "anonymous", "walklet", "halk":
		default:
			return fmt.Errorf("walkers[%d]: unknown strategy %q", i, w.Strategy)
		}
		if w.Depth < 0 {
			return fmt.Errorf("walkers[%d]: depth must be >= 0, got %d", i, w.Depth)
		}
		if w.MaxWalks < 0 {
			return fmt.Errorf("walkers[%d]: max_walks must be >= 0 (0 = unbounded), got %d", i, w.MaxWalks)
		}
		switch w.Sampler.Strategy {
		case "", "uniform", "predfreq", "objfreq":
		default:
			return fmt.Errorf("walkers[%d]: unknown sampler strategy %q", i, w.Sampler.Strategy)
		}
		if w.Strategy != "halk" && len(w.Thresholds) > 0 {
			return fmt.Errorf("walkers[%d]: thresholds are only valid for the halk strategy", i)
		}
	}
	return nil
}

// BuildGraph constructs the KG described by the config, loading local
// triples when configured and attaching a SPARQL resolver when an endpoint
// is given.
func (c *Config) BuildGraph() (*graph.KG, error) {
	opts := graph.Options{Strict: c.Graph.Strict}
	if c.Graph.Endpoint != "" {
		connOpts := connector.DefaultOptions()
		connOpts.SkipPredicates = c.Graph.SkipPredicates
		opts.Resolver = connector.New(c.Graph.Endpoint, connOpts)
	}
	kg := graph.NewWithOptions(opts)
	if c.Graph.Triples != "" {
		if err := kg.LoadTSV(c.Graph.Triples); err != nil {
			return nil, err
		}
	}
	return kg, nil
}

// BuildWalkers materializes the configured walker instances.
func (c *Config) BuildWalkers() ([]walker.Walker, error) {
	walkers := make([]walker.Walker, 0, len(c.Walkers))
	for i, wc := range c.Walkers {
		opts := walker.Options{
			MaxDepth:    wc.Depth,
			MaxWalks:    wc.MaxWalks,
			WithReverse: wc.WithReverse,
			Seed:        wc.Seed,
		}
		s := buildSampler(wc.Sampler)

		var (
			w   walker.Walker
			err error
		)
		switch wc.Strategy {
		case "random":
			w, err = walker.NewRandom(opts, s)
		case "anonymous":
			w, err = walker.NewAnonymous(opts)
		case "walklet":
			w, err = walker.NewWalklet(opts, s)
		case "halk":
			w, err = walker.NewHALK(opts, s, wc.Thresholds)
		}
		if err != nil {
			return nil, fmt.Errorf("walkers[%d]: %w", i, err)
		}
		walkers = append(walkers, w)
	}
	return walkers, nil
}

func buildSampler(sc SamplerConfig) sampler.Sampler {
	switch sc.Strategy {
	case "predfreq":
		return sampler.NewPredFreq(sc.Inverse)
	case "objfreq":
		return sampler.NewObjFreq(sc.Inverse)
	default:
		return sampler.NewUniform()
	}
}
