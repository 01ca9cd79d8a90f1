// Package kafka pulls record batches out of Kafka for the batch processor.
// Drivers sit behind a name-keyed registry so the broker client can be
// swapped without touching the pipeline.
package kafka

import (
	"context"

	"prism/processor"
	"prism/record"
)

// HandleFunc consumes one batch. The driver commits the batch's offsets only
// after handle returns nil; a batch-fatal error from the processor stops the
// source without committing.
type HandleFunc func(processor.Batch) error

type Adapter interface {
	Configure(Config, record.Factory) error
	Run(context.Context, HandleFunc) error
	Close() error
}
