package engine

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"prism/record"
)

// The session's serialization strategy is fixed: records travel between the
// driving side and workers as protobuf value trees inside an lz4 frame. Every
// worker decodes with the same codec, so a partition always rehydrates to the
// same shape regardless of which worker picks it up.

const (
	wireSourceID   = "source_id"
	wireAttributes = "attributes"
	wireRoot       = "root"
)

func encodePartition(recs []*record.Record) ([]byte, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(recs))}
	for _, r := range recs {
		attrs := &structpb.Struct{Fields: map[string]*structpb.Value{}}
		for k, v := range r.Header().AllAttributes() {
			attrs.Fields[k] = structpb.NewStringValue(v)
		}
		rec := &structpb.Struct{Fields: map[string]*structpb.Value{
			wireSourceID:   structpb.NewStringValue(r.Header().SourceID),
			wireAttributes: structpb.NewStructValue(attrs),
			wireRoot:       fieldToValue(r.Get()),
		}}
		list.Values = append(list.Values, structpb.NewStructValue(rec))
	}
	raw, err := proto.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal partition: %w", err)
	}
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("codec: compress partition: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("codec: compress partition: %w", err)
	}
	return buf.Bytes(), nil
}

func decodePartition(payload []byte) ([]*Record, error) {
	zr := lz4.NewReader(bytes.NewReader(payload))
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("codec: decompress partition: %w", err)
	}
	list := &structpb.ListValue{}
	if err := proto.Unmarshal(raw, list); err != nil {
		return nil, fmt.Errorf("codec: unmarshal partition: %w", err)
	}
	out := make([]*Record, 0, len(list.Values))
	for i, v := range list.Values {
		st := v.GetStructValue()
		if st == nil {
			return nil, fmt.Errorf("codec: partition entry %d is not a record", i)
		}
		rec := &Record{
			SourceID:   st.Fields[wireSourceID].GetStringValue(),
			Attributes: map[string]string{},
			Root:       valueToField(st.Fields[wireRoot]),
		}
		if attrs := st.Fields[wireAttributes].GetStructValue(); attrs != nil {
			for k, av := range attrs.Fields {
				rec.Attributes[k] = av.GetStringValue()
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func fieldToValue(f record.Field) *structpb.Value {
	switch f.Type {
	case record.TypeBool:
		return structpb.NewBoolValue(f.BoolValue())
	case record.TypeNumber:
		return structpb.NewNumberValue(f.NumberValue())
	case record.TypeString:
		return structpb.NewStringValue(f.StringValue())
	case record.TypeList:
		src := f.ListValue()
		lv := &structpb.ListValue{Values: make([]*structpb.Value, len(src))}
		for i, e := range src {
			lv.Values[i] = fieldToValue(e)
		}
		return structpb.NewListValue(lv)
	case record.TypeMap:
		src := f.MapValue()
		st := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(src))}
		for k, e := range src {
			st.Fields[k] = fieldToValue(e)
		}
		return structpb.NewStructValue(st)
	default:
		return structpb.NewNullValue()
	}
}

func valueToField(v *structpb.Value) record.Field {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return record.Bool(kind.BoolValue)
	case *structpb.Value_NumberValue:
		return record.Number(kind.NumberValue)
	case *structpb.Value_StringValue:
		return record.String(kind.StringValue)
	case *structpb.Value_ListValue:
		src := kind.ListValue.GetValues()
		out := make([]record.Field, len(src))
		for i, e := range src {
			out[i] = valueToField(e)
		}
		return record.List(out)
	case *structpb.Value_StructValue:
		src := kind.StructValue.GetFields()
		out := make(map[string]record.Field, len(src))
		for k, e := range src {
			out[k] = valueToField(e)
		}
		return record.Map(out)
	default:
		return record.Null()
	}
}
