package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/countcheck/internal/drift"
	"github.com/alexanderjulianmartinez/countcheck/internal/publish"
	"github.com/alexanderjulianmartinez/countcheck/internal/source"
	"github.com/alexanderjulianmartinez/countcheck/pkg/types"
)

var _ publish.Publisher = (*Publisher)(nil)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func report() *drift.Report {
	td := &source.InspectionResult{Tables: []source.TableInfo{{Name: "A", RowCount: 100}, {Name: "B", RowCount: 50}, {Name: "C", RowCount: 1}}}
	dbx := &source.InspectionResult{Tables: []source.TableInfo{{Name: "A", RowCount: 100}, {Name: "B", RowCount: 40}}}
	return drift.Validate(td, dbx, 1.0)
}

func TestPublish_RowsThenSummary(t *testing.T) {
	w := &fakeWriter{}
	p := newWithWriter("migration.count-check", w)
	fixed := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	require.NoError(t, p.Publish(context.Background(), report()))
	require.Len(t, w.msgs, 3)

	require.Equal(t, "A", string(w.msgs[0].Key))
	require.Equal(t, "B", string(w.msgs[1].Key))
	require.Equal(t, SummaryKey, string(w.msgs[2].Key))

	var row types.ComparisonRow
	require.NoError(t, json.Unmarshal(w.msgs[1].Value, &row))
	require.Equal(t, types.StatusFail, row.Status)
	require.Equal(t, int64(-10), row.CountDiff)

	var summary Summary
	require.NoError(t, json.Unmarshal(w.msgs[2].Value, &summary))
	require.Equal(t, fixed, summary.RunAt)
	require.Equal(t, 2, summary.Tables)
	require.Equal(t, []string{"B"}, summary.Failures)
	require.Equal(t, []string{"C"}, summary.Unmatched)
	require.False(t, summary.Passed)

	for _, m := range w.msgs {
		require.Equal(t, "run_at", m.Headers[0].Key)
		require.Equal(t, "2026-10-16T12:00:00Z", string(m.Headers[0].Value))
	}
}

func TestPublish_WriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newWithWriter("t", w)

	err := p.Publish(context.Background(), report())
	require.ErrorContains(t, err, "broker down")
	require.ErrorContains(t, err, "topic t")
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	p := newWithWriter("t", w)
	require.Equal(t, "kafka", p.Name())
	require.NoError(t, p.Close())
	require.True(t, w.closed)
}
