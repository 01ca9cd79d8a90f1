// Package config loads the pipeline file and the per-source configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const SupportedSchema = "v1"

// ProcessorSpec is the stage configuration block.
type ProcessorSpec struct {
	AppName        string   `yaml:"app_name"`
	Transformer    string   `yaml:"transformer"`
	Workers        int      `yaml:"workers"`
	PreprocessArgs []string `yaml:"preprocess_args"`
	Archives       []string `yaml:"archives"`
	OnRecordError  string   `yaml:"on_record_error"` // discard|to_error|stop_pipeline
}

// PipelineSpec is the top-level pipeline file.
type PipelineSpec struct {
	SchemaVersion string        `yaml:"schema_version"`
	Processor     ProcessorSpec `yaml:"processor"`

	Source struct {
		Kind   string `yaml:"kind"`
		Driver string `yaml:"driver"`
		Config string `yaml:"config"`
	} `yaml:"source"`

	Sink        string      `yaml:"sink"`
	SinkConfigs SinkConfigs `yaml:"sink_configs"`
}

// SinkConfigs holds the per-driver sink blocks.
type SinkConfigs struct {
	Kafka struct {
		Brokers    []string `yaml:"brokers"`
		Topic      string   `yaml:"topic"`
		ErrorTopic string   `yaml:"error_topic"`
		Acks       int16    `yaml:"required_acks"`
	} `yaml:"kafka"`
	Stdout struct {
		PrintCounter  bool `yaml:"print_counter"`
		PrintValue    bool `yaml:"print_value"`
		ValueMaxBytes int  `yaml:"value_max_bytes"`
	} `yaml:"stdout"`
}

// LoadPipelineSpec parses a pipeline YAML, validates schema_version, and
// returns the parsed spec and an absolute path to the source config (if set).
func LoadPipelineSpec(path string) (PipelineSpec, string, error) {
	var cfg PipelineSpec
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, "", err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, "", err
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedSchema
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, "", fmt.Errorf("pipeline schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedSchema)
	}
	confPath := cfg.Source.Config
	if confPath != "" && !filepath.IsAbs(confPath) {
		confPath = filepath.Join(filepath.Dir(path), confPath)
	}
	return cfg, confPath, nil
}
