// Package record holds the host pipeline's record model: a value-tree payload
// plus a header of string attributes and tracking metadata. Records are owned
// by the process that created them; anything arriving from another
// serialization domain must be rebuilt into a fresh host record before use.
package record

import (
	"fmt"

	"github.com/google/uuid"
)

// Header carries a record's identity and its string-keyed attributes.
type Header struct {
	TrackingID string
	SourceID   string

	attributes map[string]string
}

func (h *Header) Attribute(key string) (string, bool) {
	v, ok := h.attributes[key]
	return v, ok
}

func (h *Header) SetAttribute(key, value string) {
	if h.attributes == nil {
		h.attributes = make(map[string]string)
	}
	h.attributes[key] = value
}

// AllAttributes returns a copy of the attribute map.
func (h *Header) AllAttributes() map[string]string {
	out := make(map[string]string, len(h.attributes))
	for k, v := range h.attributes {
		out[k] = v
	}
	return out
}

// SetAllAttributes replaces or overlays attributes from src, keeping entries
// not present in src.
func (h *Header) SetAllAttributes(src map[string]string) {
	for k, v := range src {
		h.SetAttribute(k, v)
	}
}

// Record is a host-domain record.
type Record struct {
	header Header
	root   Field
}

func (r *Record) Header() *Header { return &r.header }
func (r *Record) Get() Field      { return r.root }
func (r *Record) Set(f Field)     { r.root = f }

func (r *Record) String() string {
	return fmt.Sprintf("record[%s]", r.header.SourceID)
}

// Factory mints host-domain records. The processor uses it to rebuild records
// that crossed the engine's serialization boundary, so implementations must
// return records acceptable to every host-side consumer.
type Factory interface {
	// CreateRecord returns an empty record whose header carries the given
	// source ID and a fresh tracking ID derived from it.
	CreateRecord(sourceID string) *Record
}

// DefaultFactory is the stock Factory used outside of tests.
type DefaultFactory struct {
	// StageName is recorded on each tracking ID so a record's path through
	// the pipeline stays reconstructable.
	StageName string
}

func (f *DefaultFactory) CreateRecord(sourceID string) *Record {
	r := &Record{}
	r.header.SourceID = sourceID
	r.header.TrackingID = fmt.Sprintf("%s::%s::%s", sourceID, f.StageName, uuid.NewString())
	return r
}
