package engine

import (
	"sync"

	"prism/record"
)

// MapFunc transforms one engine-domain record. Returning a *Flag error from a
// Divert stage sends the input record to the error channel; any other error
// is fatal to the execution and surfaces when a channel is collected.
type MapFunc func(*Record) (*Record, error)

// Flag marks a single record as failed without failing the whole execution.
type Flag struct {
	Message string
}

func (f *Flag) Error() string { return f.Message }

// TransformResult is the two-channel output of a transformer: zero or more
// transformed records and zero or more flagged records. Either channel may be
// nil, meaning the transformer produced nothing on it.
type TransformResult struct {
	Result *Dataset
	Errors *ErrorDataset
}

type op struct {
	fn     MapFunc
	divert bool
}

// Dataset is a lazy, partitioned collection of engine-domain records bound to
// a session. Nothing is serialized or executed until Collect is called.
type Dataset struct {
	exec *execution
}

// ErrorDataset is the flagged-record channel of a Divert stage.
type ErrorDataset struct {
	exec *execution
}

// Map derives a dataset by applying fn to every record. Errors returned by fn
// are fatal at collection time.
func (d *Dataset) Map(fn MapFunc) *Dataset {
	return &Dataset{exec: d.exec.extend(op{fn: fn})}
}

// Divert derives a two-channel dataset: records fn maps successfully stay on
// the result channel, records fn rejects with a *Flag error move to the error
// channel with the flag's message. Both returned views share one execution,
// so collecting each channel runs the work once.
func (d *Dataset) Divert(fn MapFunc) (*Dataset, *ErrorDataset) {
	ex := d.exec.extend(op{fn: fn, divert: true})
	return &Dataset{exec: ex}, &ErrorDataset{exec: ex}
}

// Collect executes the computation and gathers every partition's records to
// the caller, partitions in index order, records in within-partition order.
// It blocks until all workers have finished.
func (d *Dataset) Collect() ([]*Record, error) {
	d.exec.run()
	if d.exec.err != nil {
		return nil, d.exec.err
	}
	var out []*Record
	for _, part := range d.exec.out {
		out = append(out, part...)
	}
	return out, nil
}

// Collect gathers the flagged records of all partitions. It blocks until the
// shared execution has finished.
func (e *ErrorDataset) Collect() ([]FlaggedRecord, error) {
	e.exec.run()
	if e.exec.err != nil {
		return nil, e.exec.err
	}
	var out []FlaggedRecord
	for _, part := range e.exec.flagged {
		out = append(out, part...)
	}
	return out, nil
}

// execution is one lazy distributed computation: host-side input partitions,
// a chain of record-wise ops, and the gathered output of both channels.
// Derived datasets get their own execution over the same input; only the two
// views of a Divert share one.
type execution struct {
	sess  *Session
	input [][]*record.Record
	ops   []op

	once    sync.Once
	out     [][]*Record
	flagged [][]FlaggedRecord
	err     error
}

func (ex *execution) extend(o op) *execution {
	ops := make([]op, 0, len(ex.ops)+1)
	ops = append(ops, ex.ops...)
	ops = append(ops, o)
	return &execution{sess: ex.sess, input: ex.input, ops: ops}
}

// run encodes each input partition, hands it to a pool worker for decoding
// and op application, and waits for every partition to finish. The first
// failure wins; a failed execution yields no partial results.
func (ex *execution) run() {
	ex.once.Do(func() {
		n := len(ex.input)
		ex.out = make([][]*Record, n)
		ex.flagged = make([][]FlaggedRecord, n)

		var (
			wg    sync.WaitGroup
			errMu sync.Mutex
		)
		fail := func(err error) {
			errMu.Lock()
			if ex.err == nil {
				ex.err = err
			}
			errMu.Unlock()
		}

		for i, part := range ex.input {
			payload, err := encodePartition(part)
			if err != nil {
				fail(err)
				break
			}
			i := i
			wg.Add(1)
			task := func() {
				defer wg.Done()
				out, flagged, err := ex.runPartition(payload)
				if err != nil {
					fail(err)
					return
				}
				ex.out[i] = out
				ex.flagged[i] = flagged
			}
			if err := ex.sess.submit(task); err != nil {
				wg.Done()
				fail(err)
				break
			}
		}
		wg.Wait()
		if ex.err != nil {
			ex.out, ex.flagged = nil, nil
		}
	})
}

// runPartition is the worker-side body: rehydrate the partition through the
// session codec, then push every record through the op chain.
func (ex *execution) runPartition(payload []byte) ([]*Record, []FlaggedRecord, error) {
	recs, err := decodePartition(payload)
	if err != nil {
		return nil, nil, err
	}
	var flagged []FlaggedRecord
	out := make([]*Record, 0, len(recs))
next:
	for _, r := range recs {
		cur := r
		for _, o := range ex.ops {
			mapped, err := o.fn(cur)
			if err != nil {
				if flag, ok := err.(*Flag); ok && o.divert {
					flagged = append(flagged, FlaggedRecord{Record: cur, Message: flag.Message})
					continue next
				}
				return nil, nil, err
			}
			cur = mapped
		}
		out = append(out, cur)
	}
	return out, flagged, nil
}
