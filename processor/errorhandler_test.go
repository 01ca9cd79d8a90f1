package processor

import (
	"errors"
	"testing"

	"prism/record"
)

type captureSink struct {
	recs     []*record.Record
	codes    []Code
	messages []string
}

func (s *captureSink) ToError(r *record.Record, code Code, message string) {
	s.recs = append(s.recs, r)
	s.codes = append(s.codes, code)
	s.messages = append(s.messages, message)
}

func errorRecord() *record.Record {
	f := &record.DefaultFactory{StageName: "handler-test"}
	return f.CreateRecord("t::0::1")
}

func TestParseOnRecordError(t *testing.T) {
	cases := map[string]OnRecordError{
		"":              Discard,
		"discard":       Discard,
		"to_error":      ToError,
		"stop_pipeline": StopPipeline,
	}
	for in, want := range cases {
		got, err := ParseOnRecordError(in)
		if err != nil || got != want {
			t.Fatalf("ParseOnRecordError(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseOnRecordError("explode"); err == nil {
		t.Fatal("unknown policy should error")
	}
}

func TestHandler_Discard(t *testing.T) {
	sink := &captureSink{}
	h := NewDefaultErrorRecordHandler(Discard, sink)

	if err := h.OnError(errorRecord(), CodeRecordError, "nope"); err != nil {
		t.Fatalf("OnError: %v", err)
	}
	if len(sink.recs) != 0 {
		t.Fatal("discard must not touch the error lane")
	}
}

func TestHandler_ToError(t *testing.T) {
	sink := &captureSink{}
	h := NewDefaultErrorRecordHandler(ToError, sink)

	if err := h.OnError(errorRecord(), CodeRecordError, "bad value"); err != nil {
		t.Fatalf("OnError: %v", err)
	}
	if len(sink.recs) != 1 || sink.codes[0] != CodeRecordError || sink.messages[0] != "bad value" {
		t.Fatalf("error lane got %v / %v / %v", sink.recs, sink.codes, sink.messages)
	}
}

func TestHandler_StopPipeline(t *testing.T) {
	h := NewDefaultErrorRecordHandler(StopPipeline, &captureSink{})

	err := h.OnError(errorRecord(), CodeRecordError, "fatal enough")
	var se *StageError
	if !errors.As(err, &se) || se.Code != CodeRecordError {
		t.Fatalf("err = %v", err)
	}
}
