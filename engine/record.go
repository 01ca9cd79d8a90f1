package engine

import "prism/record"

// Record is an engine-domain record: the form a record takes after worker-side
// deserialization. It shares the Field value representation with the host
// model but is deliberately a distinct type, so engine output cannot be handed
// to host-side APIs without going through an explicit rebuild.
type Record struct {
	SourceID   string
	Attributes map[string]string
	Root       record.Field
}

// Attribute returns the named header attribute.
func (r *Record) Attribute(key string) (string, bool) {
	v, ok := r.Attributes[key]
	return v, ok
}

// FlaggedRecord is one entry of a transform's error channel: the offending
// record paired with the plugin's message.
type FlaggedRecord struct {
	Record  *Record
	Message string
}
