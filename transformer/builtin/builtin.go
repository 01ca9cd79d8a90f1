// Package builtin registers the transformers that ship with the engine. They
// double as working examples of the plugin contract: import the package for
// side effects and reference them by name in the pipeline file.
package builtin

import "prism/transformer"

func init() {
	transformer.Register("identity", func() (any, error) { return &Identity{}, nil })
	transformer.Register("uppercase", func() (any, error) { return &Uppercase{}, nil })
	transformer.Register("threshold", func() (any, error) { return &Threshold{}, nil })
}
