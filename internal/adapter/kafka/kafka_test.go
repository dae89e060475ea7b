package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rainfall-grid-etl/internal/domain"
)

type recordingWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func testEvent() domain.DatasetFetched {
	return domain.DatasetFetched{
		Year:      2019,
		Path:      "data/RF25_ind2019_rfp25.nc",
		Bytes:     4096,
		FetchedAt: time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestSerializeToMessage(t *testing.T) {
	ev := testEvent()

	msg, err := serializeToMessage(ev)
	require.NoError(t, err)

	assert.Equal(t, []byte("2019"), msg.Key)
	assert.JSONEq(t, `{"year":2019,"path":"data/RF25_ind2019_rfp25.nc","bytes":4096,"fetched_at":"2024-06-01T09:30:00Z"}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "year", msg.Headers[0].Key)
	assert.Equal(t, []byte("2019"), msg.Headers[0].Value)
	assert.Equal(t, "fetched_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-06-01T09:30:00Z"), msg.Headers[1].Value)
}

func TestNotifier_NotifyFetched(t *testing.T) {
	w := &recordingWriter{}
	n := &Notifier{writer: w, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	require.NoError(t, n.NotifyFetched(context.Background(), testEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("2019"), w.msgs[0].Key)

	require.NoError(t, n.Close())
	assert.True(t, w.closed)
}

func TestNotifier_NotifyFetched_WriteError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	n := &Notifier{writer: w, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := n.NotifyFetched(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish dataset 2019")
}
