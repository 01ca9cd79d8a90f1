package processor

import (
	"fmt"
	"log/slog"

	"prism/internal/logging"
	"prism/record"
)

// OnRecordError is the host's policy for records the transformer flags.
type OnRecordError int

const (
	// Discard drops the record, leaving only a log line.
	Discard OnRecordError = iota
	// ToError routes the record to the dedicated error lane.
	ToError
	// StopPipeline fails the whole batch on the first flagged record.
	StopPipeline
)

// ParseOnRecordError maps a config string to a policy.
func ParseOnRecordError(s string) (OnRecordError, error) {
	switch s {
	case "", "discard":
		return Discard, nil
	case "to_error":
		return ToError, nil
	case "stop_pipeline":
		return StopPipeline, nil
	}
	return Discard, fmt.Errorf("unknown on_record_error policy %q", s)
}

// ErrorRecordHandler applies the on-error policy to one flagged record. A
// returned error is batch-fatal.
type ErrorRecordHandler interface {
	OnError(r *record.Record, code Code, message string) error
}

// DefaultErrorRecordHandler is the stock policy implementation.
type DefaultErrorRecordHandler struct {
	policy OnRecordError
	sink   ErrorSink
	log    *slog.Logger
}

func NewDefaultErrorRecordHandler(policy OnRecordError, sink ErrorSink) *DefaultErrorRecordHandler {
	return &DefaultErrorRecordHandler{policy: policy, sink: sink, log: logging.L()}
}

func (h *DefaultErrorRecordHandler) OnError(r *record.Record, code Code, message string) error {
	switch h.policy {
	case Discard:
		h.log.Debug("discarding error record", "record", r.String(), "message", message)
		return nil
	case ToError:
		h.sink.ToError(r, code, message)
		return nil
	case StopPipeline:
		return &StageError{Code: code, Err: fmt.Errorf("%s: %s", r.String(), message)}
	}
	return fmt.Errorf("unknown on-record-error policy %d", h.policy)
}
