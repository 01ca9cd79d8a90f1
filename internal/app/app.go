// Package app wires the stage together: Kafka batch source, the transformer
// processor, the output sink, the control server, and metrics.
package app

import (
	"context"
	"errors"

	"prism/internal/transport"
	"prism/processor"
	"prism/sink"
	"prism/source/kafka"
)

type App struct {
	transport *transport.Server
	source    kafka.Adapter
	proc      *processor.Processor
	out       sink.Adapter
}

// Run pulls batches from the source until ctx ends. Each batch goes through
// the processor synchronously; its offsets are committed by the source only
// after the processor has finished it.
func (a *App) Run(ctx context.Context) error {
	go func() {
		_ = a.transport.Serve()
	}()
	go func() {
		<-ctx.Done()
		a.transport.Stop()
		_ = a.source.Close()
	}()

	err := a.source.Run(ctx, a.handleBatch)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) handleBatch(b processor.Batch) error {
	return a.proc.Process(b, a.out)
}

// Shutdown tears the stage down after Run has returned.
func (a *App) Shutdown() {
	a.proc.Destroy()
	_ = a.out.Close()
}
