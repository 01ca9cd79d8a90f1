package stdout

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"prism/processor"
	"prism/record"
	"prism/sink"
)

/* ────────── public YAML config ────────── */
type Config struct {
	PrintCounter  bool `yaml:"print_counter"`   // prepend seq#
	PrintValue    bool `yaml:"print_value"`     // render the payload as JSON
	ValueMaxBytes int  `yaml:"value_max_bytes"` // 0 = unlimited
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config
}

var seq uint64

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	d.cfg = c
	return nil
}

func (d *driver) AddRecord(r *record.Record) {
	d.print("out", r, "")
}

func (d *driver) ToError(r *record.Record, code processor.Code, message string) {
	d.print(fmt.Sprintf("err %s", string(code)), r, message)
}

func (d *driver) Close() error { return nil }

func (d *driver) print(lane string, r *record.Record, message string) {
	line := fmt.Sprintf("[%s] %s", lane, r.Header().SourceID)
	if d.cfg.PrintCounter {
		line = fmt.Sprintf("[%06d]%s", atomic.AddUint64(&seq, 1), line)
	}
	if message != "" {
		line += " " + message
	}
	if d.cfg.PrintValue {
		raw, err := json.Marshal(r.Get().Interface())
		if err == nil {
			if max := d.cfg.ValueMaxBytes; max > 0 && len(raw) > max {
				raw = raw[:max]
			}
			line += " " + string(raw)
		}
	}
	fmt.Println(line)
}

func init() { sink.Register("stdout", func() sink.Adapter { return &driver{} }) }
