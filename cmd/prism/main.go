package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"prism/internal/app"
	"prism/internal/logging"
	_ "prism/sink/kafka"
	_ "prism/sink/stdout"
	"prism/source/kafka"
	_ "prism/transformer/builtin"
)

func main() {
	logging.InitFromEnv()

	pipeline := flag.String("pipeline", "pipeline.yml", "pipeline spec file")
	grpcPort := flag.Int("grpc-port", 7070, "control server port")
	metricsPort := flag.Int("metrics-port", 9100, "prometheus metrics port")
	flag.Parse()

	kafka.Register("sarama", func() kafka.Adapter { return &kafka.SaramaDriver{} })

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Bootstrap(app.Config{
		PipelineYml: *pipeline,
		GRPCPort:    *grpcPort,
		MetricsPort: *metricsPort,
	})
	if err != nil {
		logging.L().Error("bootstrap failed", "err", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		logging.L().Error("pipeline stopped", "err", err)
		a.Shutdown()
		os.Exit(1)
	}
	a.Shutdown()
}
