package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"prism/internal/logging"
	"prism/processor"
	"prism/record"
	"prism/sink"
)

type Config struct {
	Brokers    []string `yaml:"brokers"`
	Topic      string   `yaml:"topic"`
	ErrorTopic string   `yaml:"error_topic"` // empty: error records are logged only
	Acks       int16    `yaml:"required_acks"`
}

type driver struct {
	cfg Config
	p   sarama.AsyncProducer
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config")
	}
	d.cfg = cfg

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	var err error
	d.p, err = sarama.NewAsyncProducer(cfg.Brokers, sc)
	return err
}

func (d *driver) AddRecord(r *record.Record) {
	d.produce(d.cfg.Topic, r, nil)
}

func (d *driver) ToError(r *record.Record, code processor.Code, message string) {
	if d.cfg.ErrorTopic == "" {
		logging.L().Warn("kafka-sink: dropping error record", "record", r.String(), "code", string(code), "message", message)
		return
	}
	d.produce(d.cfg.ErrorTopic, r, map[string]string{
		"error.code":    string(code),
		"error.message": message,
	})
}

func (d *driver) produce(topic string, r *record.Record, extra map[string]string) {
	value, err := json.Marshal(r.Get().Interface())
	if err != nil {
		logging.L().Error("kafka-sink: cannot encode record", "record", r.String(), "err", err)
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(r.Header().SourceID),
		Value: sarama.ByteEncoder(value),
	}
	for k, v := range r.Header().AllAttributes() {
		msg.Headers = append(msg.Headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	for k, v := range extra {
		msg.Headers = append(msg.Headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	d.p.Input() <- msg
}

func (d *driver) Close() error {
	return d.p.Close()
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
