// Package transformer defines the contract a pluggable transformation unit
// must satisfy and the name-keyed registry through which the processor loads
// one. Implementations are stateful and single-instance: exactly one Init,
// zero or more Transform calls, exactly one Destroy.
package transformer

import (
	"prism/engine"
)

// Transformer is the plugin contract.
//
// Init is called once, before any Transform, with the live engine session and
// the stage's preprocessing arguments. Transform is called once per batch
// with a dataset bound to that session and returns the two-channel result;
// an error aborts the batch. Destroy is called exactly once at shutdown,
// provided an Init attempt was made, and should release whatever state the
// plugin holds.
type Transformer interface {
	Init(sess *engine.Session, args []string) error
	Transform(in *engine.Dataset) (*engine.TransformResult, error)
	Destroy() error
}
