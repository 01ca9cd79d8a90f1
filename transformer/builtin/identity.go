package builtin

import "prism/engine"

// Identity passes every record through unchanged. Useful for smoke-testing a
// pipeline's plumbing without touching the data.
type Identity struct{}

func (t *Identity) Init(*engine.Session, []string) error { return nil }

func (t *Identity) Transform(in *engine.Dataset) (*engine.TransformResult, error) {
	return &engine.TransformResult{Result: in}, nil
}

func (t *Identity) Destroy() error { return nil }
