package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/alexanderjulianmartinez/countcheck/internal/config"
	"github.com/alexanderjulianmartinez/countcheck/internal/ctxlog"
	"github.com/alexanderjulianmartinez/countcheck/internal/drift"
)

// SummaryKey keys the message that closes every published run.
const SummaryKey = "_summary"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes one message per comparison row, keyed by table name, then
// a summary message.
type Publisher struct {
	topic  string
	writer messageWriter
	now    func() time.Time
}

type Summary struct {
	RunAt     time.Time `json:"run_at"`
	Tables    int       `json:"tables"`
	Failures  []string  `json:"failures"`
	Unmatched []string  `json:"unmatched"`
	Threshold float64   `json:"threshold"`
	Passed    bool      `json:"passed"`
}

func New(cfg config.KafkaConfig) *Publisher {
	return newWithWriter(cfg.Topic, &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	})
}

func newWithWriter(topic string, w messageWriter) *Publisher {
	return &Publisher{topic: topic, writer: w, now: time.Now}
}

func (p *Publisher) Name() string {
	return "kafka"
}

func (p *Publisher) Publish(ctx context.Context, rep *drift.Report) error {
	runAt := p.now().UTC()
	headers := []kafka.Header{{Key: "run_at", Value: []byte(runAt.Format(time.RFC3339))}}

	msgs := make([]kafka.Message, 0, len(rep.Rows)+1)
	for _, row := range rep.Rows {
		value, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode row %s: %w", row.Table, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(row.Table), Value: value, Headers: headers})
	}

	summary, err := json.Marshal(Summary{
		RunAt:     runAt,
		Tables:    len(rep.Rows),
		Failures:  rep.Failures,
		Unmatched: rep.Unmatched,
		Threshold: rep.Threshold,
		Passed:    rep.Passed(),
	})
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	msgs = append(msgs, kafka.Message{Key: []byte(SummaryKey), Value: summary, Headers: headers})

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish to kafka topic %s: %w", p.topic, err)
	}

	ctxlog.FromContext(ctx).Info("Published comparison.", "topic", p.topic, "messages", len(msgs))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
