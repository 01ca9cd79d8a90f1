package builtin

import (
	"testing"

	"prism/engine"
	"prism/record"
	"prism/transformer"
)

func startSession(t *testing.T) *engine.Session {
	t.Helper()
	s, err := engine.Start(engine.Options{Name: t.Name(), Workers: 2})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

func makeRecords(t *testing.T, values ...float64) []*record.Record {
	t.Helper()
	f := &record.DefaultFactory{StageName: "builtin-test"}
	recs := make([]*record.Record, len(values))
	for i, v := range values {
		r := f.CreateRecord("t::0::" + t.Name())
		r.Set(record.Map(map[string]record.Field{
			"value": record.Number(v),
			"label": record.String("item"),
		}))
		recs[i] = r
	}
	return recs
}

func TestBuiltinsAreRegistered(t *testing.T) {
	for _, name := range []string{"identity", "uppercase", "threshold"} {
		f, ok := transformer.Lookup(name)
		if !ok {
			t.Fatalf("%s not registered", name)
		}
		v, err := f()
		if err != nil {
			t.Fatalf("%s factory: %v", name, err)
		}
		if _, ok := v.(transformer.Transformer); !ok {
			t.Fatalf("%s does not satisfy the contract", name)
		}
	}
}

func TestUppercase_TransformsStringLeaves(t *testing.T) {
	s := startSession(t)
	var tf transformer.Transformer = &Uppercase{}
	if err := tf.Init(s, nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer tf.Destroy()

	res, err := tf.Transform(s.Parallelize(makeRecords(t, 1), 1))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	out, err := res.Result.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("want 1 record, got %d", len(out))
	}
	label, _ := out[0].Root.At("label")
	if label.StringValue() != "ITEM" {
		t.Fatalf("label = %q", label.StringValue())
	}
	value, _ := out[0].Root.At("value")
	if value.NumberValue() != 1 {
		t.Fatalf("non-string leaf changed: %v", value.NumberValue())
	}
}

func TestThreshold_RoutesBelowMinimum(t *testing.T) {
	s := startSession(t)
	var tf transformer.Transformer = &Threshold{}
	if err := tf.Init(s, []string{"field=value", "min=10"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer tf.Destroy()

	res, err := tf.Transform(s.Parallelize(makeRecords(t, 5, 10, 15), 2))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	out, err := res.Result.Collect()
	if err != nil {
		t.Fatalf("result Collect: %v", err)
	}
	flagged, err := res.Errors.Collect()
	if err != nil {
		t.Fatalf("errors Collect: %v", err)
	}
	if len(out) != 2 || len(flagged) != 1 {
		t.Fatalf("split = %d ok / %d flagged, want 2/1", len(out), len(flagged))
	}
	if flagged[0].Message != `field "value" below threshold 10` {
		t.Fatalf("flag message = %q", flagged[0].Message)
	}
}

func TestThreshold_RejectsMalformedArgs(t *testing.T) {
	tf := &Threshold{}
	if err := tf.Init(nil, []string{"min"}); err == nil {
		t.Fatal("malformed argument should fail Init")
	}
	if err := tf.Init(nil, []string{"min=abc"}); err == nil {
		t.Fatal("non-numeric min should fail Init")
	}
}
