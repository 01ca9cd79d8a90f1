package transformer

import "testing"

func TestRegistry_LookupAndShadowing(t *testing.T) {
	if _, ok := Lookup("registry-test-missing"); ok {
		t.Fatal("lookup of unregistered name should miss")
	}

	Register("registry-test", func() (any, error) { return "first", nil })
	Register("registry-test", func() (any, error) { return "second", nil })

	f, ok := Lookup("registry-test")
	if !ok {
		t.Fatal("registered name not found")
	}
	v, err := f()
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if v != "second" {
		t.Fatalf("later registration should win, got %v", v)
	}
}
