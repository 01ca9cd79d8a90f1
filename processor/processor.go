// Package processor implements the single-lane batch stage that drives a
// transformer plugin on a parallel execution session. Init accumulates every
// discoverable config issue before aborting, Process dispatches one batch and
// reconciles the plugin's two result channels back into the host lane, and
// Destroy tears the plugin and the session down in that order.
package processor

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"prism/engine"
	"prism/internal/logging"
	"prism/internal/telemetry"
	"prism/record"
	"prism/transformer"
)

// State tracks init progress. It is informational: the issue list, not the
// state, decides whether the processor is usable.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateSessionStarting
	StateTransformerInitializing
	StateReady
	StateAborted
)

// Processor is a single-lane batch processor around one transformer plugin
// and one engine session. It is driven by a single pipeline thread; it adds
// no concurrency of its own.
type Processor struct {
	cfg     Config
	factory record.Factory
	handler ErrorRecordHandler
	log     *slog.Logger

	tf       transformer.Transformer
	sess     *engine.Session
	tfInited bool
	state    State

	// Swapped in tests.
	startSession func(engine.Options) (*engine.Session, error)
	execPath     func() (string, error)
}

func New(cfg Config, factory record.Factory, handler ErrorRecordHandler) *Processor {
	return &Processor{
		cfg:          cfg,
		factory:      factory,
		handler:      handler,
		log:          logging.L().With("stage", cfg.AppName),
		startSession: engine.Start,
		execPath:     os.Executable,
	}
}

// State returns the orchestrator's current lifecycle state.
func (p *Processor) State() State { return p.state }

// Init validates the configuration, loads the transformer, starts the engine
// session, and initializes the plugin. All discoverable issues are collected
// and returned together; an empty list means ready for processing. If any
// issue exists and a session was started, the session is stopped before Init
// returns.
func (p *Processor) Init() []ConfigIssue {
	// Keep moving forward and adding issues so one Init reports as many
	// problems as possible.
	var issues []ConfigIssue
	p.state = StateLoading
	if p.cfg.Workers < 1 {
		issues = append(issues, newIssue(fieldWorkers, CodeInvalidWorkerCount, p.cfg.Workers))
	}
	p.tf = p.loadTransformer(&issues)
	archives := p.findRuntimeArchives(&issues)
	if len(issues) == 0 {
		p.state = StateSessionStarting
		sess, err := p.startSession(engine.Options{
			Name:     p.cfg.AppName,
			Workers:  p.cfg.Workers,
			Archives: append(archives, p.cfg.Archives...),
		})
		if err != nil {
			p.log.Error("session start failed", "err", err)
			issues = append(issues, newIssue(fieldAppName, CodeSessionStartFailed, err.Error()))
		} else {
			p.sess = sess
		}
	}
	p.initTransformer(&issues)
	if len(issues) > 0 {
		if p.sess != nil {
			p.sess.Stop()
		}
		p.state = StateAborted
		return issues
	}
	p.state = StateReady
	return nil
}

// loadTransformer resolves the configured name against the registry and
// instantiates the plugin. Every failure becomes an issue; nothing is thrown.
func (p *Processor) loadTransformer(issues *[]ConfigIssue) transformer.Transformer {
	factory, ok := transformer.Lookup(p.cfg.Transformer)
	if !ok {
		p.log.Error("transformer not registered", "name", p.cfg.Transformer)
		*issues = append(*issues, newIssue(fieldTransformer, CodeUnknownTransformer, p.cfg.Transformer))
		return nil
	}
	v, err := construct(factory)
	if err != nil {
		p.log.Error("error while creating transformer", "name", p.cfg.Transformer, "err", err)
		*issues = append(*issues, newIssue(fieldTransformer, CodeInstantiationFailed, p.cfg.Transformer, err.Error()))
		return nil
	}
	tf, ok := v.(transformer.Transformer)
	if !ok {
		*issues = append(*issues, newIssue(fieldTransformer, CodeNotATransformer, p.cfg.Transformer))
		return nil
	}
	return tf
}

// construct runs a factory, converting a panic into an error.
func construct(factory transformer.Factory) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transformer factory panicked: %v", r)
		}
	}()
	return factory()
}

func (p *Processor) initTransformer(issues *[]ConfigIssue) {
	if len(*issues) != 0 {
		return
	}
	p.state = StateTransformerInitializing
	if err := p.tf.Init(p.sess, p.cfg.PreprocessArgs); err != nil {
		p.log.Error("error while initializing transformer", "name", p.cfg.Transformer, "err", err)
		*issues = append(*issues, newIssue(fieldTransformer, CodeInitFailed, p.cfg.Transformer, err.Error()))
	}
	// Even when Init failed, an attempt was made: Destroy must run later so
	// the transformer can clean up after itself.
	p.tfInited = true
}

// Process dispatches one batch through the transformer and reconciles both
// result channels. A transform-invocation failure and a collection failure
// surface as StageErrors with distinct codes; flagged records go through the
// configured error policy one by one.
func (p *Processor) Process(batch Batch, out BatchMaker) error {
	in := p.sess.Parallelize(slices.Collect(batch.Records()), p.cfg.Workers)

	processed, err := p.tf.Transform(in)
	if err != nil {
		p.log.Error("error while transforming batch", "err", err)
		telemetry.BatchFailures.Inc()
		return &StageError{Code: CodeTransformFailed, Err: err}
	}
	if processed != nil && processed.Result != nil {
		results, err := processed.Result.Collect()
		if err != nil {
			p.log.Error("job failed while collecting results", "err", err)
			telemetry.BatchFailures.Inc()
			return &StageError{Code: CodeCollectionFailed, Err: err}
		}
		for _, r := range results {
			out.AddRecord(p.rehome(r))
			telemetry.RecordsEmitted.Inc()
		}
	}
	if processed != nil && processed.Errors != nil {
		flagged, err := processed.Errors.Collect()
		if err != nil {
			p.log.Error("job failed while collecting error records", "err", err)
			telemetry.BatchFailures.Inc()
			return &StageError{Code: CodeCollectionFailed, Err: err}
		}
		for _, fr := range flagged {
			if err := p.handler.OnError(p.rehome(fr.Record), CodeRecordError, fr.Message); err != nil {
				telemetry.BatchFailures.Inc()
				return err
			}
			telemetry.ErrorRecords.Inc()
		}
	}
	telemetry.BatchesProcessed.Inc()
	return nil
}

// Destroy tears the stage down: the transformer's Destroy runs iff an Init
// attempt was made on it, its failures are logged and swallowed, and the
// session is stopped unconditionally. Safe to call after a failed Init.
func (p *Processor) Destroy() {
	if p.tf != nil && p.tfInited {
		if err := destroyTransformer(p.tf); err != nil {
			p.log.Warn("transformer failed during destroy", "err", err)
		}
		p.tfInited = false
	}
	if p.sess != nil {
		p.sess.Stop()
	}
}

// destroyTransformer shields shutdown from a panicking plugin.
func destroyTransformer(tf transformer.Transformer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transformer panicked during destroy: %v", r)
		}
	}()
	return tf.Destroy()
}
