package processor

import "fmt"

// Code identifies one failure class of the processor. The codes and their
// message templates are the stage's error table; everything the processor
// reports, at init time or per batch, carries one of them.
type Code string

const (
	// CodeNotATransformer: the configured name resolved to a value that does
	// not implement the transformer contract.
	CodeNotATransformer Code = "TRANSFORM_00"
	// CodeUnknownTransformer: no transformer is registered under the name.
	CodeUnknownTransformer Code = "TRANSFORM_01"
	// CodeInstantiationFailed: the transformer factory failed or panicked.
	CodeInstantiationFailed Code = "TRANSFORM_02"
	// CodeRuntimeDirNotFound: the installation layout could not be resolved
	// while discovering runtime-support archives.
	CodeRuntimeDirNotFound Code = "TRANSFORM_03"
	// CodeRecordError: a record the transformer flagged on its error channel.
	CodeRecordError Code = "TRANSFORM_04"
	// CodeInitFailed: the transformer's Init returned an error.
	CodeInitFailed Code = "TRANSFORM_05"
	// CodeTransformFailed: the transform invocation itself failed.
	CodeTransformFailed Code = "TRANSFORM_06"
	// CodeCollectionFailed: gathering a result or error channel failed.
	CodeCollectionFailed Code = "TRANSFORM_07"
	// CodeInvalidWorkerCount: the configured worker count is not positive.
	CodeInvalidWorkerCount Code = "TRANSFORM_08"
	// CodeSessionStartFailed: the engine session could not be started.
	CodeSessionStartFailed Code = "TRANSFORM_09"
)

var messages = map[Code]string{
	CodeNotATransformer:     "'%s' is not a transformer",
	CodeUnknownTransformer:  "transformer '%s' is not registered",
	CodeInstantiationFailed: "could not create an instance of transformer '%s': %s",
	CodeRuntimeDirNotFound:  "cannot locate the installation directory for runtime archives",
	CodeRecordError:         "record failed to transform: %s",
	CodeInitFailed:          "transformer '%s' failed to initialize: %s",
	CodeTransformFailed:     "error while transforming batch: %s",
	CodeCollectionFailed:    "job failed while gathering results: %s",
	CodeInvalidWorkerCount:  "worker count must be positive, got %d",
	CodeSessionStartFailed:  "could not start the execution session: %s",
}

// Message renders the code's template with args.
func (c Code) Message(args ...any) string {
	tmpl, ok := messages[c]
	if !ok {
		return fmt.Sprintf("%s: %v", string(c), args)
	}
	return fmt.Sprintf(tmpl, args...)
}

// ConfigIssue is one structured validation failure discovered during Init.
// Issues are accumulated, not thrown: a single Init reports every problem it
// can find.
type ConfigIssue struct {
	Field   string
	Code    Code
	Message string
}

func (i ConfigIssue) String() string {
	return fmt.Sprintf("%s (%s): %s", i.Field, string(i.Code), i.Message)
}

func newIssue(field string, code Code, args ...any) ConfigIssue {
	return ConfigIssue{Field: field, Code: code, Message: code.Message(args...)}
}

// StageError is a batch-fatal processing failure. The code distinguishes a
// failed transform invocation from a failed collection step.
type StageError struct {
	Code Code
	Err  error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", string(e.Code), e.Code.Message(errText(e.Err)))
}

func (e *StageError) Unwrap() error { return e.Err }

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
