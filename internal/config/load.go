package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/dshills/aditor/internal/config/loader"
)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs        loader.FileSystem
	envPrefix string
	useEnv    bool
}

// WithFS reads the config file from fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// WithoutEnv skips the environment layer.
func WithoutEnv() Option {
	return func(o *loadOptions) {
		o.useEnv = false
	}
}

// Load builds the configuration from defaults, the file at path (optional;
// empty or missing means none) and the environment, then validates it.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		useEnv:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var layers []loader.Loader
	if path != "" {
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}
	if o.useEnv {
		layers = append(layers, loader.NewEnvLoader(o.envPrefix))
	}

	merged := make(map[string]any)
	for _, l := range layers {
		m, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, m)
	}

	cfg := Default()
	if err := Decode(merged, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode applies raw onto cfg. Keys absent from raw keep their values.
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
