package record

import "testing"

func nestedField() Field {
	return Map(map[string]Field{
		"name":   String("sensor-7"),
		"online": Bool(true),
		"reading": Map(map[string]Field{
			"value": Number(21.5),
			"unit":  String("C"),
		}),
		"tags":    List([]Field{String("a"), String("b"), Null()}),
		"comment": Null(),
	})
}

func TestFieldClone_DeepCopy(t *testing.T) {
	orig := nestedField()
	clone := orig.Clone()

	if !clone.Equal(orig) {
		t.Fatal("clone should equal the original")
	}

	// Mutating the clone must not touch the original.
	clone.MapValue()["name"] = String("changed")
	reading := clone.MapValue()["reading"].MapValue()
	reading["value"] = Number(99)
	clone.MapValue()["tags"].ListValue()[0] = String("z")

	if got := orig.MapValue()["name"].StringValue(); got != "sensor-7" {
		t.Fatalf("original name changed to %q", got)
	}
	if got := orig.MapValue()["reading"].MapValue()["value"].NumberValue(); got != 21.5 {
		t.Fatalf("original reading.value changed to %v", got)
	}
	if got := orig.MapValue()["tags"].ListValue()[0].StringValue(); got != "a" {
		t.Fatalf("original tags[0] changed to %q", got)
	}
}

func TestFieldEqual_TypeAndValueSensitive(t *testing.T) {
	if String("1").Equal(Number(1)) {
		t.Fatal("string and number must not be equal")
	}
	if List([]Field{String("a")}).Equal(List([]Field{String("a"), String("b")})) {
		t.Fatal("lists of different length must not be equal")
	}
	if !nestedField().Equal(nestedField()) {
		t.Fatal("identical trees must be equal")
	}
}

func TestFieldInterface_PlainShapes(t *testing.T) {
	v := nestedField().Interface()
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("want map[string]any, got %T", v)
	}
	if m["name"] != "sensor-7" {
		t.Fatalf("name = %v", m["name"])
	}
	reading, ok := m["reading"].(map[string]any)
	if !ok || reading["value"] != 21.5 {
		t.Fatalf("reading = %v", m["reading"])
	}
	tags, ok := m["tags"].([]any)
	if !ok || len(tags) != 3 || tags[2] != nil {
		t.Fatalf("tags = %v", m["tags"])
	}
}

func TestFieldAt_MissingKey(t *testing.T) {
	f := nestedField()
	if _, ok := f.At("nope"); ok {
		t.Fatal("At should miss on unknown key")
	}
	if got, ok := f.At("name"); !ok || got.StringValue() != "sensor-7" {
		t.Fatalf("At(name) = %v, %v", got, ok)
	}
}
