package app

import (
	"fmt"

	"prism/internal/config"
	"prism/internal/logging"
	"prism/internal/telemetry"
	"prism/internal/transport"
	"prism/processor"
	"prism/record"
	"prism/sink"
	kafkasink "prism/sink/kafka"
	"prism/sink/stdout"
	"prism/source/kafka"
)

// Config selects the pipeline file and the app's listen ports.
type Config struct {
	PipelineYml string
	GRPCPort    int
	MetricsPort int
}

// Bootstrap builds the whole stage from the pipeline file: output sink, batch
// processor (initialized or the accumulated issues reported), Kafka source,
// control server, and metrics endpoint.
func Bootstrap(cfg Config) (*App, error) {
	spec, confPath, err := config.LoadPipelineSpec(cfg.PipelineYml)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	out, err := buildSink(spec)
	if err != nil {
		return nil, fmt.Errorf("sink: %w", err)
	}

	policy, err := processor.ParseOnRecordError(spec.Processor.OnRecordError)
	if err != nil {
		return nil, fmt.Errorf("processor: %w", err)
	}
	factory := &record.DefaultFactory{StageName: spec.Processor.AppName}
	proc := processor.New(processor.Config{
		AppName:        spec.Processor.AppName,
		Transformer:    spec.Processor.Transformer,
		Workers:        spec.Processor.Workers,
		PreprocessArgs: spec.Processor.PreprocessArgs,
		Archives:       spec.Processor.Archives,
		OnRecordError:  policy,
	}, factory, processor.NewDefaultErrorRecordHandler(policy, out))

	if issues := proc.Init(); len(issues) > 0 {
		for _, issue := range issues {
			logging.L().Error("config issue", "issue", issue.String())
		}
		return nil, fmt.Errorf("processor: initialization failed with %d issue(s)", len(issues))
	}

	src, err := buildSource(spec, confPath, factory)
	if err != nil {
		proc.Destroy()
		return nil, fmt.Errorf("source: %w", err)
	}

	srv, err := transport.StartServer(cfg.GRPCPort)
	if err != nil {
		proc.Destroy()
		_ = src.Close()
		return nil, fmt.Errorf("transport: %w", err)
	}

	telemetry.Expose(cfg.MetricsPort)

	return &App{
		transport: srv,
		source:    src,
		proc:      proc,
		out:       out,
	}, nil
}

func buildSink(spec config.PipelineSpec) (sink.Adapter, error) {
	name := spec.Sink
	if name == "" {
		name = "stdout"
	}
	drv, err := sink.NewAdapter(name)
	if err != nil {
		return nil, err
	}
	switch name {
	case "stdout":
		err = drv.Configure(stdout.Config{
			PrintCounter:  spec.SinkConfigs.Stdout.PrintCounter,
			PrintValue:    spec.SinkConfigs.Stdout.PrintValue,
			ValueMaxBytes: spec.SinkConfigs.Stdout.ValueMaxBytes,
		})
	case "kafka":
		err = drv.Configure(kafkasink.Config{
			Brokers:    spec.SinkConfigs.Kafka.Brokers,
			Topic:      spec.SinkConfigs.Kafka.Topic,
			ErrorTopic: spec.SinkConfigs.Kafka.ErrorTopic,
			Acks:       spec.SinkConfigs.Kafka.Acks,
		})
	default:
		err = fmt.Errorf("no config block for sink %q", name)
	}
	if err != nil {
		return nil, err
	}
	return drv, nil
}

func buildSource(spec config.PipelineSpec, confPath string, factory record.Factory) (kafka.Adapter, error) {
	if spec.Source.Kind != "kafka" {
		return nil, fmt.Errorf("unsupported source %q", spec.Source.Kind)
	}
	kc, err := config.LoadKafkaConfig(confPath)
	if err != nil {
		return nil, err
	}
	src, err := kafka.NewAdapter(spec.Source.Driver)
	if err != nil {
		return nil, err
	}
	if err := src.Configure(kc, factory); err != nil {
		return nil, err
	}
	return src, nil
}
