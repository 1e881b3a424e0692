package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_PublishBatchEncodesValues(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "gzip")

	err := p.PublishBatch(context.Background(), "alerts", []Message{
		{Key: []byte("a"), Value: map[string]int{"change": 12}},
		{Key: []byte("b"), Value: "raw"},
		{Key: []byte("c"), Value: []byte("bytes")},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 3)
	assert.Equal(t, "alerts", w.msgs[0].Topic)
	assert.JSONEq(t, `{"change":12}`, string(w.msgs[0].Value))
	assert.Equal(t, "raw", string(w.msgs[1].Value))
	assert.Equal(t, "bytes", string(w.msgs[2].Value))
	assert.Equal(t, w.msgs[0].Time, w.msgs[2].Time)
}

func TestProducer_EmptyBatchIsNoop(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "gzip")
	require.NoError(t, p.PublishBatch(context.Background(), "alerts", nil))
	assert.Empty(t, w.msgs)
}

func TestProducer_WrapsWriteError(t *testing.T) {
	boom := errors.New("leader not available")
	p := NewProducerWithWriter(&recordingWriter{err: boom}, "gzip")

	err := p.Publish(context.Background(), "alerts", nil, "x")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "alerts")
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Snappy, parseCompression("snappy"))
	assert.Equal(t, kafka.Zstd, parseCompression("zstd"))
	assert.Equal(t, kafka.Gzip, parseCompression("unknown"))
}
