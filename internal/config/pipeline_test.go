package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPipelineSpec_ResolvesRelativeSourceConfigAndSchema(t *testing.T) {
	dir := t.TempDir()
	pipe := []byte(`schema_version: v1
processor:
  app_name: orders
  transformer: threshold
  workers: 4
  preprocess_args: ["field=amount", "min=10"]
  on_record_error: to_error
source:
  kind: kafka
  driver: sarama
  config: kafka_source.yml
sink: stdout
`)
	if err := os.WriteFile(filepath.Join(dir, "pipeline.yml"), pipe, 0o644); err != nil {
		t.Fatalf("write pipeline: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "kafka_source.yml"), []byte("schema_version: v1\n"), 0o644); err != nil {
		t.Fatalf("write kafka cfg: %v", err)
	}

	cfg, abs, err := LoadPipelineSpec(filepath.Join(dir, "pipeline.yml"))
	if err != nil {
		t.Fatalf("LoadPipelineSpec: %v", err)
	}
	if cfg.SchemaVersion != SupportedSchema {
		t.Fatalf("want schema %s, got %s", SupportedSchema, cfg.SchemaVersion)
	}
	if cfg.Processor.Transformer != "threshold" || cfg.Processor.Workers != 4 {
		t.Fatalf("processor spec = %+v", cfg.Processor)
	}
	if len(cfg.Processor.PreprocessArgs) != 2 {
		t.Fatalf("preprocess args = %v", cfg.Processor.PreprocessArgs)
	}
	if abs == "" || !filepath.IsAbs(abs) {
		t.Fatalf("want absolute kafka config path, got %q", abs)
	}
}

func TestLoadPipelineSpec_InvalidSchema(t *testing.T) {
	dir := t.TempDir()
	pipe := []byte(`schema_version: v999
processor: { transformer: identity, workers: 1 }
source: { kind: kafka, driver: sarama, config: cf.yml }
sink: stdout
`)
	if err := os.WriteFile(filepath.Join(dir, "pipeline.yml"), pipe, 0o644); err != nil {
		t.Fatalf("write pipeline: %v", err)
	}
	if _, _, err := LoadPipelineSpec(filepath.Join(dir, "pipeline.yml")); err == nil {
		t.Fatal("expected error for invalid schema_version")
	}
}
