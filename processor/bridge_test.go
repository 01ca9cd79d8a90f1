package processor

import (
	"fmt"
	"testing"

	"prism/engine"
	"prism/record"
)

func TestRehome_NestedPayloadAndAttributes(t *testing.T) {
	rig := newRig(t, Config{})

	foreign := &engine.Record{
		SourceID: "topic::3::77",
		Root: record.Map(map[string]record.Field{
			"order": record.Map(map[string]record.Field{
				"id":    record.Number(77),
				"items": record.List([]record.Field{record.String("bolt"), record.String("nut")}),
				"paid":  record.Bool(true),
			}),
			"note": record.Null(),
		}),
		Attributes: map[string]string{},
	}
	for i := 0; i < 8; i++ {
		foreign.Attributes[fmt.Sprintf("attr.%d", i)] = fmt.Sprint(i)
	}

	host := rig.proc.rehome(foreign)

	if !host.Get().Equal(foreign.Root) {
		t.Fatal("payload changed during rehoming")
	}
	if host.Header().SourceID != foreign.SourceID {
		t.Fatalf("source ID = %q", host.Header().SourceID)
	}
	attrs := host.Header().AllAttributes()
	for k, v := range foreign.Attributes {
		if attrs[k] != v {
			t.Fatalf("attribute %q = %q, want %q", k, attrs[k], v)
		}
	}
	if host.Header().TrackingID == "" {
		t.Fatal("rehomed record has no tracking ID")
	}

	// The host record owns its payload: mutating the foreign tree afterwards
	// must not reach through.
	foreign.Root.MapValue()["order"].MapValue()["id"] = record.Number(0)
	got, _ := host.Get().At("order")
	id, _ := got.At("id")
	if id.NumberValue() != 77 {
		t.Fatal("rehomed payload shares structure with the foreign record")
	}
}
