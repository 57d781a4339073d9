package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/domain"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue"
)

// MockSubscriber is a mock implementation of queue.Subscriber
type MockSubscriber struct {
	mock.Mock
}

func (m *MockSubscriber) Subscribe(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSubscriber) Receive(ctx context.Context) (*queue.Message, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.Message), args.Error(1)
}

func (m *MockSubscriber) Commit(ctx context.Context, msg *queue.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockSubscriber) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRecordWriter is a mock implementation of RecordWriter
type MockRecordWriter struct {
	mock.Mock
}

func (m *MockRecordWriter) InsertPurchase(ctx context.Context, record *domain.PurchaseRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// subscribedMock returns a subscriber whose subscribe step succeeds
func subscribedMock() *MockSubscriber {
	sub := subscribedMock()
	sub.On("Subscribe", mock.Anything).Return(nil)
	return sub
}

func testMessage(id, body string) *queue.Message {
	return queue.NewMessage(id, "user123", []byte(body), time.Time{}, nil)
}

const validBody = `{"username":"testuser","userId":"user123","price":99.99,"timestamp":"2024-01-01T00:00:00Z"}`

// blockUntilCancelled makes Receive behave like an idle topic
func blockUntilCancelled(sub *MockSubscriber) {
	sub.On("Receive", mock.Anything).Run(func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	}).Return(nil, context.Canceled)
}

func TestConsumer_Run_StoresMessagesInDeliveryOrder(t *testing.T) {
	sub := subscribedMock()
	store := new(MockRecordWriter)
	consumer := NewConsumer(sub, store, NewLiveness(), zap.NewNop())

	sub.On("Receive", mock.Anything).Return(testMessage("m-1", `{"username":"a","userId":"user-1","price":1}`), nil).Once()
	sub.On("Receive", mock.Anything).Return(testMessage("m-2", `{"username":"b","userId":"user-2","price":2}`), nil).Once()
	blockUntilCancelled(sub)
	sub.On("Commit", mock.Anything, mock.Anything).Return(nil)

	var mu sync.Mutex
	var stored []string
	store.On("InsertPurchase", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		mu.Lock()
		defer mu.Unlock()
		stored = append(stored, args.Get(1).(*domain.PurchaseRecord).UserID)
	}).Return(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := consumer.Run(ctx)

	assert.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"user-1", "user-2"}, stored)
	sub.AssertNumberOfCalls(t, "Commit", 2)
}

func TestConsumer_Run_BuildsRecordFromEvent(t *testing.T) {
	sub := subscribedMock()
	store := new(MockRecordWriter)
	consumer := NewConsumer(sub, store, NewLiveness(), zap.NewNop())
	now := time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)
	consumer.writer.now = func() time.Time { return now }

	sub.On("Receive", mock.Anything).Return(testMessage("m-1", validBody), nil).Once()
	blockUntilCancelled(sub)
	sub.On("Commit", mock.Anything, mock.Anything).Return(nil)
	store.On("InsertPurchase", mock.Anything, mock.MatchedBy(func(r *domain.PurchaseRecord) bool {
		return r.Username == "testuser" &&
			r.UserID == "user123" &&
			r.Price == 99.99 &&
			r.Timestamp.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			r.CreatedAt.Equal(now)
	})).Return(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.NoError(t, consumer.Run(ctx))
	store.AssertExpectations(t)
}

func TestConsumer_Run_SkipsMalformedMessages(t *testing.T) {
	sub := subscribedMock()
	store := new(MockRecordWriter)
	consumer := NewConsumer(sub, store, NewLiveness(), zap.NewNop())

	malformed := testMessage("bad", `{"username": "testuser", invalid}`)
	missingField := testMessage("partial", `{"username":"testuser"}`)
	good := testMessage("good", validBody)

	sub.On("Receive", mock.Anything).Return(malformed, nil).Once()
	sub.On("Receive", mock.Anything).Return(missingField, nil).Once()
	sub.On("Receive", mock.Anything).Return(good, nil).Once()
	blockUntilCancelled(sub)
	sub.On("Commit", mock.Anything, mock.Anything).Return(nil)
	store.On("InsertPurchase", mock.Anything, mock.Anything).Return(nil).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.NoError(t, consumer.Run(ctx))
	store.AssertNumberOfCalls(t, "InsertPurchase", 1)
	sub.AssertCalled(t, "Commit", mock.Anything, malformed)
	sub.AssertCalled(t, "Commit", mock.Anything, missingField)
	sub.AssertCalled(t, "Commit", mock.Anything, good)
}

func TestConsumer_Run_DropsEventOnStoreFailure(t *testing.T) {
	sub := subscribedMock()
	store := new(MockRecordWriter)
	consumer := NewConsumer(sub, store, NewLiveness(), zap.NewNop())

	first := testMessage("m-1", validBody)
	second := testMessage("m-2", validBody)

	sub.On("Receive", mock.Anything).Return(first, nil).Once()
	sub.On("Receive", mock.Anything).Return(second, nil).Once()
	blockUntilCancelled(sub)
	sub.On("Commit", mock.Anything, mock.Anything).Return(nil)
	store.On("InsertPurchase", mock.Anything, mock.Anything).Return(errors.New("database connection error")).Once()
	store.On("InsertPurchase", mock.Anything, mock.Anything).Return(nil).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.NoError(t, consumer.Run(ctx))
	store.AssertNumberOfCalls(t, "InsertPurchase", 2)
	sub.AssertCalled(t, "Commit", mock.Anything, first)
	sub.AssertCalled(t, "Commit", mock.Anything, second)
}

func TestConsumer_Run_RecoversFromPanic(t *testing.T) {
	sub := subscribedMock()
	store := new(MockRecordWriter)
	consumer := NewConsumer(sub, store, NewLiveness(), zap.NewNop())

	sub.On("Receive", mock.Anything).Return(testMessage("m-1", validBody), nil).Once()
	sub.On("Receive", mock.Anything).Return(testMessage("m-2", validBody), nil).Once()
	blockUntilCancelled(sub)
	sub.On("Commit", mock.Anything, mock.Anything).Return(nil)
	store.On("InsertPurchase", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		panic("nil map write")
	}).Return(nil).Once()
	store.On("InsertPurchase", mock.Anything, mock.Anything).Return(nil).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.NoError(t, consumer.Run(ctx))
	store.AssertNumberOfCalls(t, "InsertPurchase", 2)
}

func TestConsumer_Run_FatalReceiveError(t *testing.T) {
	sub := subscribedMock()
	store := new(MockRecordWriter)
	liveness := NewLiveness()
	consumer := NewConsumer(sub, store, liveness, zap.NewNop())

	sub.On("Receive", mock.Anything).Return(nil, errors.New("subscription revoked"))

	err := consumer.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscription revoked")
	assert.Equal(t, StateStopped, liveness.State())
	assert.False(t, liveness.IsConsuming())
	store.AssertNotCalled(t, "InsertPurchase", mock.Anything, mock.Anything)
}

func TestConsumer_Run_LivenessTransitions(t *testing.T) {
	sub := subscribedMock()
	store := new(MockRecordWriter)
	liveness := NewLiveness()
	consumer := NewConsumer(sub, store, liveness, zap.NewNop())
	blockUntilCancelled(sub)

	assert.Equal(t, StateStarting, liveness.State())
	assert.False(t, liveness.IsConsuming())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- consumer.Run(ctx)
	}()

	assert.Eventually(t, liveness.IsConsuming, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Graceful shutdown took too long")
	}
	assert.Equal(t, StateStopped, liveness.State())
}

func TestConsumer_NewConsumer_ComponentInitialization(t *testing.T) {
	liveness := NewLiveness()
	consumer := NewConsumer(new(MockSubscriber), new(MockRecordWriter), liveness, zap.NewNop())

	assert.NotNil(t, consumer.receiver)
	assert.NotNil(t, consumer.parser)
	assert.NotNil(t, consumer.writer)
	assert.Same(t, liveness, consumer.Liveness())
}

func TestConsumer_Run_SubscribeFailureNeverConsumes(t *testing.T) {
	sub := new(MockSubscriber)
	store := new(MockRecordWriter)
	liveness := NewLiveness()
	consumer := NewConsumer(sub, store, liveness, zap.NewNop())

	sub.On("Subscribe", mock.Anything).Return(errors.New("dial tcp 127.0.0.1:1: connection refused"))

	err := consumer.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, liveness.IsConsuming())
	assert.Equal(t, StateStopped, liveness.State())
	sub.AssertNotCalled(t, "Receive", mock.Anything)
}

func TestConsumer_Run_SubscribeBlockedStaysNotConsuming(t *testing.T) {
	sub := new(MockSubscriber)
	liveness := NewLiveness()
	consumer := NewConsumer(sub, new(MockRecordWriter), liveness, zap.NewNop())

	entered := make(chan struct{})
	sub.On("Subscribe", mock.Anything).Run(func(args mock.Arguments) {
		close(entered)
		<-args.Get(0).(context.Context).Done()
	}).Return(context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- consumer.Run(ctx)
	}()

	<-entered
	assert.Never(t, liveness.IsConsuming, 100*time.Millisecond, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
	assert.False(t, liveness.IsConsuming())
}

func TestConsumer_Run_ResubscribesOnRestart(t *testing.T) {
	sub := new(MockSubscriber)
	liveness := NewLiveness()
	consumer := NewConsumer(sub, new(MockRecordWriter), liveness, zap.NewNop())

	sub.On("Subscribe", mock.Anything).Return(errors.New("broker down")).Once()
	sub.On("Subscribe", mock.Anything).Return(nil)
	blockUntilCancelled(sub)

	s := NewSupervisor(consumer, RestartPolicy{
		Enabled:        true,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
	}, zap.NewNop())
	s.Start(context.Background())

	assert.Eventually(t, liveness.IsConsuming, time.Second, 5*time.Millisecond)

	s.Stop()
	assert.NoError(t, s.Wait())
	sub.AssertNumberOfCalls(t, "Subscribe", 2)
	assert.False(t, liveness.IsConsuming())
}
