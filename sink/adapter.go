// Package sink defines where the processor's output lane and error lane land.
package sink

import (
	"fmt"

	"prism/processor"
	"prism/record"
)

// Adapter is the common behaviour every sink exposes: the single output lane
// plus the dedicated error lane.
type Adapter interface {
	Configure(any) error // driver-specific config block
	AddRecord(*record.Record)
	ToError(r *record.Record, code processor.Code, message string)
	Close() error // idempotent
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q", name)
}
