package builtin

import (
	"strings"

	"prism/engine"
	"prism/record"
)

// Uppercase upper-cases every string leaf of each record's value tree.
type Uppercase struct{}

func (t *Uppercase) Init(*engine.Session, []string) error { return nil }

func (t *Uppercase) Transform(in *engine.Dataset) (*engine.TransformResult, error) {
	out := in.Map(func(r *engine.Record) (*engine.Record, error) {
		r.Root = upper(r.Root)
		return r, nil
	})
	return &engine.TransformResult{Result: out}, nil
}

func (t *Uppercase) Destroy() error { return nil }

func upper(f record.Field) record.Field {
	switch f.Type {
	case record.TypeString:
		return record.String(strings.ToUpper(f.StringValue()))
	case record.TypeList:
		src := f.ListValue()
		out := make([]record.Field, len(src))
		for i, e := range src {
			out[i] = upper(e)
		}
		return record.List(out)
	case record.TypeMap:
		src := f.MapValue()
		out := make(map[string]record.Field, len(src))
		for k, e := range src {
			out[k] = upper(e)
		}
		return record.Map(out)
	default:
		return f
	}
}
