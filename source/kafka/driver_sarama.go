package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/cenkalti/backoff/v4"

	"prism/internal/logging"
	"prism/processor"
	"prism/record"
)

type SaramaDriver struct {
	cfg     Config
	factory record.Factory
	cl      sarama.Client
	group   sarama.ConsumerGroup
}

func (d *SaramaDriver) Configure(config Config, factory record.Factory) error {
	d.cfg, d.factory = config, factory

	ver, err := sarama.ParseKafkaVersion(config.Version)
	if err != nil {
		return err
	}
	sc := sarama.NewConfig()
	sc.Version = ver
	sc.Consumer.Return.Errors = true
	if config.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if config.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = config.SASLUser, config.SASLPass
	}
	switch config.StartFrom {
	case "oldest":
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	if d.cl, err = sarama.NewClient(config.Brokers, sc); err != nil {
		return err
	}
	d.group, err = sarama.NewConsumerGroupFromClient(config.GroupID, d.cl)
	return err
}

// Run consumes until ctx ends. Broker-side failures are retried with
// exponential backoff; a StageError from the processor is batch-fatal and
// stops the source with offsets of the failed batch uncommitted.
func (d *SaramaDriver) Run(ctx context.Context, handle HandleFunc) error {
	handler := &groupHandler{driver: d, handle: handle}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0

	for {
		err := d.group.Consume(ctx, d.cfg.Topics, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var se *processor.StageError
		if errors.As(err, &se) {
			return err
		}
		if err != nil {
			wait := bo.NextBackOff()
			logging.L().Warn("sarama-driver: consume failed, retrying", "err", err, "backoff", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		bo.Reset()
	}
}

func (d *SaramaDriver) Close() error {
	_ = d.group.Close()
	return d.cl.Close()
}

func (d *SaramaDriver) toRecord(msg *sarama.ConsumerMessage) *record.Record {
	sourceID := fmt.Sprintf("%s::%d::%d", msg.Topic, msg.Partition, msg.Offset)
	r := d.factory.CreateRecord(sourceID)

	root := map[string]record.Field{
		"value": record.String(string(msg.Value)),
	}
	if len(msg.Key) > 0 {
		root["key"] = record.String(string(msg.Key))
	}
	r.Set(record.Map(root))

	h := r.Header()
	h.SetAttribute("kafka.topic", msg.Topic)
	h.SetAttribute("kafka.partition", strconv.FormatInt(int64(msg.Partition), 10))
	h.SetAttribute("kafka.offset", strconv.FormatInt(msg.Offset, 10))
	for _, hdr := range msg.Headers {
		h.SetAttribute(string(hdr.Key), string(hdr.Value))
	}
	return r
}

type groupHandler struct {
	driver *SaramaDriver
	handle HandleFunc
}

func (*groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (*groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim assembles messages into batches of up to batch.size records,
// cutting a partial batch after batch.max_wait. Offsets are marked and
// committed only once the processor has finished the batch, so a crash
// mid-batch redelivers it.
func (h *groupHandler) ConsumeClaim(
	sess sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	var (
		recs []*record.Record
		msgs []*sarama.ConsumerMessage
	)
	maxWait := h.driver.cfg.Batch.MaxWait
	timer := time.NewTimer(maxWait)
	defer timer.Stop()

	flush := func() error {
		if len(recs) == 0 {
			return nil
		}
		if err := h.handle(processor.NewBatch(recs)); err != nil {
			return err
		}
		for _, m := range msgs {
			sess.MarkMessage(m, "")
		}
		sess.Commit()
		recs, msgs = nil, nil
		return nil
	}

	for {
		select {
		case <-sess.Context().Done():
			return sess.Context().Err()
		case <-timer.C:
			if err := flush(); err != nil {
				return err
			}
			timer.Reset(maxWait)
		case msg, ok := <-claim.Messages():
			if !ok {
				return flush()
			}
			recs = append(recs, h.driver.toRecord(msg))
			msgs = append(msgs, msg)
			if len(recs) >= h.driver.cfg.Batch.Size {
				if err := flush(); err != nil {
					return err
				}
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(maxWait)
			}
		}
	}
}
