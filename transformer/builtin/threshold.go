package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"prism/engine"
	"prism/record"
)

// Threshold keeps records whose numeric field reaches a minimum value and
// flags the rest onto the error channel. Configured through preprocessing
// arguments: "field=<name>" and "min=<number>".
type Threshold struct {
	field string
	min   float64
}

func (t *Threshold) Init(_ *engine.Session, args []string) error {
	t.field = "value"
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("threshold: malformed argument %q", a)
		}
		switch k {
		case "field":
			t.field = v
		case "min":
			min, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("threshold: min %q: %w", v, err)
			}
			t.min = min
		default:
			return fmt.Errorf("threshold: unknown argument %q", k)
		}
	}
	return nil
}

func (t *Threshold) Transform(in *engine.Dataset) (*engine.TransformResult, error) {
	result, errs := in.Divert(func(r *engine.Record) (*engine.Record, error) {
		f, ok := r.Root.At(t.field)
		if !ok {
			return nil, &engine.Flag{Message: fmt.Sprintf("missing field %q", t.field)}
		}
		if f.Type != record.TypeNumber {
			return nil, &engine.Flag{Message: fmt.Sprintf("field %q is %s, want number", t.field, f.Type)}
		}
		if f.NumberValue() < t.min {
			return nil, &engine.Flag{Message: fmt.Sprintf("field %q below threshold %v", t.field, t.min)}
		}
		return r, nil
	})
	return &engine.TransformResult{Result: result, Errors: errs}, nil
}

func (t *Threshold) Destroy() error { return nil }
