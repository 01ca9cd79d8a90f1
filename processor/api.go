package processor

import (
	"iter"
	"slices"

	"prism/record"
)

// Batch is one ordered, single-pass sequence of host records presented to the
// processor for one Process call.
type Batch interface {
	Records() iter.Seq[*record.Record]
}

// NewBatch wraps a record slice as a Batch.
func NewBatch(recs []*record.Record) Batch { return sliceBatch(recs) }

type sliceBatch []*record.Record

func (b sliceBatch) Records() iter.Seq[*record.Record] { return slices.Values(b) }

// BatchMaker is the single output lane: it receives host-domain records in
// emission order.
type BatchMaker interface {
	AddRecord(*record.Record)
}

// ErrorSink receives records routed to the dedicated error lane.
type ErrorSink interface {
	ToError(r *record.Record, code Code, message string)
}

// Config is the processor's configuration surface.
type Config struct {
	// AppName names the engine session.
	AppName string
	// Transformer is the registered name of the transformer plugin.
	Transformer string
	// Workers is the engine session's local worker count.
	Workers int
	// PreprocessArgs are passed verbatim to the transformer's Init.
	PreprocessArgs []string
	// Archives are extra auxiliary archive paths to register with the
	// session, in addition to the discovered runtime-support archives.
	Archives []string
	// OnRecordError is the policy applied to records the transformer flags.
	OnRecordError OnRecordError
}

// Config field names used in issues.
const (
	fieldTransformer = "transformer"
	fieldAppName     = "app_name"
	fieldWorkers     = "workers"
)
