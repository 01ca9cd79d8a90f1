// Package engine provides a local parallel-execution session: batches of
// records are partitioned, shipped to a worker pool through a fixed
// serialization codec, and gathered back on the driving side. Transformer
// plugins run against lazy datasets bound to one session.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"prism/internal/logging"
	"prism/record"
)

// Options configure a session. The serialization and compression strategy is
// not configurable; see codec.go.
type Options struct {
	// Name is the session's display name, used in logs only.
	Name string
	// Workers is the local worker pool size. Must be positive.
	Workers int
	// Archives are auxiliary archive paths registered with the session so
	// their contents are available to workers.
	Archives []string
}

// Session owns one worker pool. A session is created at most once per
// processor lifetime and must be stopped exactly once; Stop is safe to call
// more than once but only the first call takes effect.
type Session struct {
	name     string
	workers  int
	archives []string
	pool     *ants.Pool
	log      *slog.Logger

	stopOnce sync.Once
	mu       sync.Mutex
	running  bool
}

// Start brings up a session with opts.Workers local workers.
func Start(opts Options) (*Session, error) {
	if opts.Workers < 1 {
		return nil, fmt.Errorf("engine: worker count must be positive, got %d", opts.Workers)
	}
	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("engine: start worker pool: %w", err)
	}
	s := &Session{
		name:    opts.Name,
		workers: opts.Workers,
		pool:    pool,
		log:     logging.L().With("session", opts.Name),
		running: true,
	}
	for _, a := range opts.Archives {
		s.archives = append(s.archives, a)
		s.log.Info("registered auxiliary archive", "path", a)
	}
	s.log.Info("session started", "workers", opts.Workers)
	return s, nil
}

func (s *Session) Name() string       { return s.name }
func (s *Session) Workers() int       { return s.workers }
func (s *Session) Archives() []string { return s.archives }

// Running reports whether the session has not been stopped.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop releases the worker pool. Only the first call has any effect.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.pool.Release()
		s.log.Info("session stopped")
	})
}

// Parallelize turns a slice of host records into a dataset split across up to
// partitions contiguous chunks. Within a partition the input order is kept;
// nothing is serialized until the dataset is executed.
func (s *Session) Parallelize(recs []*record.Record, partitions int) *Dataset {
	if partitions < 1 {
		partitions = 1
	}
	if partitions > len(recs) {
		partitions = len(recs)
	}
	var parts [][]*record.Record
	if partitions > 0 {
		parts = make([][]*record.Record, 0, partitions)
		base := len(recs) / partitions
		extra := len(recs) % partitions
		at := 0
		for i := 0; i < partitions; i++ {
			n := base
			if i < extra {
				n++
			}
			parts = append(parts, recs[at:at+n])
			at += n
		}
	}
	return &Dataset{exec: &execution{sess: s, input: parts}}
}

// submit schedules fn on the worker pool.
func (s *Session) submit(fn func()) error {
	return s.pool.Submit(fn)
}
