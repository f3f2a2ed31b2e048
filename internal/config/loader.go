package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "QCPIPE"

// Loader handles Viper-based configuration loading.
//
// A Loader seeds Viper with [DefaultConfig] so a config file only has to
// contain the keys it changes. Environment variables override both.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new [Loader] with defaults and environment bindings set.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())

	return &Loader{v: v}
}

// setDefaults registers every key of cfg with Viper. AutomaticEnv only
// overrides keys Viper knows about, so this also enables the env overrides.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("samples_tsv", cfg.SamplesTSV)
	v.SetDefault("outdir", cfg.Outdir)
	v.SetDefault("threads", cfg.Threads)

	v.SetDefault("tools.fastqc", cfg.Tools.FastQC)
	v.SetDefault("tools.fastp", cfg.Tools.Fastp)
	v.SetDefault("tools.multiqc", cfg.Tools.MultiQC)

	v.SetDefault("steps.fastqc_raw", cfg.Steps.FastQCRaw)
	v.SetDefault("steps.trim_fastp", cfg.Steps.TrimFastp)
	v.SetDefault("steps.fastqc_trimmed", cfg.Steps.FastQCTrimmed)
	v.SetDefault("steps.multiqc", cfg.Steps.MultiQC)

	v.SetDefault("fastp.extra_args", cfg.Fastp.ExtraArgs)
	v.SetDefault("multiqc.extra_args", cfg.MultiQC.ExtraArgs)

	v.SetDefault("inputs.check_fastq", cfg.Inputs.CheckFASTQ)
	v.SetDefault("inputs.peek_reads", cfg.Inputs.PeekReads)

	v.SetDefault("output.color", cfg.Output.Color)
}

// Load returns the configuration from defaults and environment variables only.
//
// If QCPIPE_CONFIG_PATH is set, the file it names is loaded instead, as by
// [Loader.LoadFromFile].
func (l *Loader) Load() (*Config, error) {
	if path := os.Getenv(EnvPrefix + "_CONFIG_PATH"); path != "" {
		return l.LoadFromFile(path)
	}
	return l.unmarshal()
}

// LoadFromFile reads the YAML config file at path and merges it over the
// defaults. A missing or unparsable file is an error.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		l.v.SetConfigType("yaml")
	}
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
