package engine

import (
	"testing"

	"prism/record"
)

func hostRecord(sourceID string) *record.Record {
	f := &record.DefaultFactory{StageName: "codec-test"}
	r := f.CreateRecord(sourceID)
	r.Set(record.Map(map[string]record.Field{
		"id":    record.Number(42),
		"name":  record.String("widget"),
		"ok":    record.Bool(true),
		"blank": record.Null(),
		"dims": record.Map(map[string]record.Field{
			"w": record.Number(3.5),
			"h": record.Number(7),
		}),
		"labels": record.List([]record.Field{
			record.String("x"),
			record.Map(map[string]record.Field{"nested": record.Bool(false)}),
		}),
	}))
	r.Header().SetAttribute("attr.one", "1")
	r.Header().SetAttribute("attr.two", "2")
	r.Header().SetAttribute("attr.three", "3")
	return r
}

func TestPartitionCodec_RoundTrip(t *testing.T) {
	in := []*record.Record{hostRecord("a::0::1"), hostRecord("a::0::2")}

	payload, err := encodePartition(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := decodePartition(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 records, got %d", len(out))
	}
	for i, rec := range out {
		if rec.SourceID != in[i].Header().SourceID {
			t.Fatalf("record %d source ID = %q", i, rec.SourceID)
		}
		if !rec.Root.Equal(in[i].Get()) {
			t.Fatalf("record %d payload changed across the boundary", i)
		}
		want := in[i].Header().AllAttributes()
		if len(rec.Attributes) != len(want) {
			t.Fatalf("record %d has %d attributes, want %d", i, len(rec.Attributes), len(want))
		}
		for k, v := range want {
			if rec.Attributes[k] != v {
				t.Fatalf("record %d attribute %q = %q, want %q", i, k, rec.Attributes[k], v)
			}
		}
	}
}

func TestPartitionCodec_EmptyPartition(t *testing.T) {
	payload, err := encodePartition(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := decodePartition(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("want empty partition, got %d records", len(out))
	}
}
