package processor

import (
	"prism/engine"
	"prism/record"
)

// rehome rebuilds an engine-domain record as a host-domain one. Records
// coming back from a collect were deserialized by the session codec into the
// engine's own record type; host-side lanes only accept record.Record, so a
// fresh record is created through the factory, seeded with the foreign
// record's source ID, and the payload and every header attribute are copied
// over. The foreign object itself is never handed to the host.
func (p *Processor) rehome(f *engine.Record) *record.Record {
	r := p.factory.CreateRecord(f.SourceID)
	r.Set(f.Root.Clone())
	r.Header().SetAllAttributes(f.Attributes)
	return r
}
