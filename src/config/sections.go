package config

// CacheConfig locates the build cache.
type CacheConfig struct {
	// Dir is the cache base directory. Default: ~/shell-cache.
	Dir string `yaml:"dir,omitempty"`
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{}
}

// VerifyConfig describes the external verification command. The build
// option string is appended unchanged as the final argument.
type VerifyConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
	Env     []string `yaml:"env,omitempty"` // extra KEY=VALUE pairs
}

// DefaultVerifyConfig invokes the shell verification package the way the
// CI bootstrap scripts do.
func DefaultVerifyConfig() VerifyConfig {
	return VerifyConfig{
		Command: "python3",
		Args:    []string{"-u", "-m", "ocs", "-b"},
	}
}

// PackageConfig controls artifact packaging.
type PackageConfig struct {
	// OutDir receives the archive/checksum pairs. Default: "dist".
	OutDir string `yaml:"out_dir,omitempty"`

	// Prefix selects cache entries by name. Default: "js-".
	Prefix string `yaml:"prefix,omitempty"`

	// Patterns refine selection with regexes; "!" prefix negates.
	Patterns []string `yaml:"patterns,omitempty"`

	// Level is the zstd compression level (1..22).
	Level int `yaml:"level,omitempty"`

	// Concurrency caps how many entries are packaged in parallel.
	Concurrency int `yaml:"concurrency,omitempty"`
}

func DefaultPackageConfig() PackageConfig {
	return PackageConfig{
		OutDir: "dist",
		Prefix: "js-",
		Level:  17,
	}
}

// SourceConfig locates the engine source tree.
type SourceConfig struct {
	URL string `yaml:"url,omitempty"`
	Dir string `yaml:"dir,omitempty"`
	Rev string `yaml:"rev,omitempty"` // default: current HEAD
}

// DefaultSourceConfig assumes a tree checked out next to the workspace,
// mirroring the conventional ~/trees layout.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{Dir: "trees/mozilla-central"}
}
