package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimasrn/ledger-api/pkg/redis"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr := miniredis.RunT(t)

	// unique name per test, adapters are cached by name
	adapter, err := redis.NewRedisAdapter(t.Name()+"-"+mr.Addr(), "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })

	return mr, adapter
}

func testConfig(name string) QueueConfig {
	return QueueConfig{
		Name:              name,
		ConsumerGroup:     "test-group",
		ConsumerName:      "test-consumer",
		MaxRetries:        3,
		VisibilityTimeout: 5 * time.Second,
		PollInterval:      50 * time.Millisecond,
		BatchSize:         10,
	}
}

func TestQueue_PublishAndConsume(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig("test:queue"))
	require.NoError(t, err)
	defer q.Stop(time.Second)

	_, err = q.PublishJSON(context.Background(), map[string]int64{"notificationId": 42}, map[string]string{"kind": "sms"})
	require.NoError(t, err)

	received := make(chan *Message, 1)
	require.NoError(t, q.Consume(func(ctx context.Context, msg *Message) error {
		received <- msg
		return nil
	}))

	select {
	case msg := <-received:
		var body struct {
			NotificationID int64 `json:"notificationId"`
		}
		require.NoError(t, msg.Decode(&body))
		assert.Equal(t, int64(42), body.NotificationID)
		assert.Equal(t, "sms", msg.Metadata["kind"])
	case <-time.After(2 * time.Second):
		t.Fatal("message not received")
	}

	assert.Eventually(t, func() bool {
		stats, err := q.GetStats(context.Background())
		return err == nil && stats.PendingMessages == 0
	}, 2*time.Second, 50*time.Millisecond)
}

func TestQueue_FailedMessageStaysPending(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig("test:pending:queue"))
	require.NoError(t, err)
	defer q.Stop(time.Second)

	_, err = q.Publish(context.Background(), []byte(`{}`), nil)
	require.NoError(t, err)

	var calls int32
	require.NoError(t, q.Consume(func(ctx context.Context, msg *Message) error {
		atomic.AddInt32(&calls, 1)
		return assert.AnError
	}))

	assert.Eventually(t, func() bool {
		stats, err := q.GetStats(context.Background())
		return err == nil && stats.PendingMessages == 1
	}, 2*time.Second, 50*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestQueue_GetStats(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig("test:stats:queue"))
	require.NoError(t, err)
	defer q.Stop(time.Second)

	for i := 0; i < 5; i++ {
		_, err := q.PublishJSON(context.Background(), map[string]int{"count": i}, nil)
		require.NoError(t, err)
	}

	stats, err := q.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalMessages)
}

func TestNewQueue(t *testing.T) {
	_, adapter := setupTestRedis(t)

	t.Run("name required", func(t *testing.T) {
		_, err := NewQueue(adapter, QueueConfig{})
		assert.Error(t, err)
	})

	t.Run("existing group is reused", func(t *testing.T) {
		q1, err := NewQueue(adapter, testConfig("test:group:queue"))
		require.NoError(t, err)
		defer q1.Stop(time.Second)

		q2, err := NewQueue(adapter, testConfig("test:group:queue"))
		require.NoError(t, err)
		defer q2.Stop(time.Second)
	})

	t.Run("defaults applied", func(t *testing.T) {
		q, err := NewQueue(adapter, QueueConfig{Name: "test:defaults"})
		require.NoError(t, err)
		defer q.Stop(time.Second)

		assert.Equal(t, "default-group", q.config.ConsumerGroup)
		assert.Equal(t, 3, q.config.MaxRetries)
		assert.Equal(t, int64(10), q.config.BatchSize)
	})
}

func TestQueue_Stop(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig("test:stop:queue"))
	require.NoError(t, err)

	require.NoError(t, q.Consume(func(ctx context.Context, msg *Message) error { return nil }))
	assert.NoError(t, q.Stop(2*time.Second))
}
