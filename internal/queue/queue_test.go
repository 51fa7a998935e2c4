package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	q := NewInMemory(4)
	require.NoError(t, q.Publish(ctx, Message{Type: "complaint", Body: []byte("c-1")}))

	messages, err := q.Consume(ctx)
	require.NoError(t, err)

	select {
	case msg := <-messages:
		assert.Equal(t, "complaint", msg.Type)
		assert.Equal(t, "c-1", string(msg.Body))
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestInMemoryPublishHonorsCancellation(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, q.Publish(ctx, Message{Type: "complaint"}))

	cancel()
	err := q.Publish(ctx, Message{Type: "complaint"})
	assert.ErrorIs(t, err, context.Canceled)
}
