package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".shellwright.yml"

// Config is the top-level shellwright configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Cache    CacheConfig    `yaml:"cache"`
	Verify   VerifyConfig   `yaml:"verify"`
	Package  PackageConfig  `yaml:"package"`
	Source   SourceConfig   `yaml:"source"`
}

// Load reads configuration from a YAML file.
// If path is empty, it tries the default file.
// Returns sensible defaults if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Pipeline: DefaultPipelineConfig(),
		Cache:    DefaultCacheConfig(),
		Verify:   DefaultVerifyConfig(),
		Package:  DefaultPackageConfig(),
		Source:   DefaultSourceConfig(),
	}
}
