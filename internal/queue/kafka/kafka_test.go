package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/config"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue"
)

// MockWriter is a mock implementation of messageWriter
type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockReader is a mock implementation of messageReader
type MockReader struct {
	mock.Mock
}

func (m *MockReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	args := m.Called(ctx)
	return args.Get(0).(kafkago.Message), args.Error(1)
}

func (m *MockReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockReader) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockConn is a mock implementation of metadataConn
type MockConn struct {
	mock.Mock
}

func (m *MockConn) ReadPartitions(topics ...string) ([]kafkago.Partition, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kafkago.Partition), args.Error(1)
}

func (m *MockConn) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestProducer_Send_KeysByUser(t *testing.T) {
	writer := new(MockWriter)
	producer := &Producer{writer: writer, topic: "purchases", log: zap.NewNop()}

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafkago.Message) bool {
		return len(msgs) == 1 && string(msgs[0].Key) == "user123" && string(msgs[0].Value) == `{"price":1}`
	})).Return(nil)

	err := producer.Send(context.Background(), "user123", []byte(`{"price":1}`))

	assert.NoError(t, err)
	writer.AssertExpectations(t)
}

func TestProducer_Send_Error(t *testing.T) {
	writer := new(MockWriter)
	producer := &Producer{writer: writer, topic: "purchases", log: zap.NewNop()}

	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available"))

	err := producer.Send(context.Background(), "user123", []byte(`{}`))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "purchases")
	assert.Contains(t, err.Error(), "leader not available")
}

func TestSubscriber_ReceiveAndCommit(t *testing.T) {
	reader := new(MockReader)
	subscriber := &Subscriber{reader: reader, log: zap.NewNop()}

	fetched := kafkago.Message{
		Topic:     "purchases",
		Partition: 2,
		Offset:    42,
		Key:       []byte("user123"),
		Value:     []byte(`{"userId":"user123"}`),
		Time:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	reader.On("FetchMessage", mock.Anything).Return(fetched, nil)
	reader.On("CommitMessages", mock.Anything, mock.MatchedBy(func(msgs []kafkago.Message) bool {
		return len(msgs) == 1 && msgs[0].Offset == 42
	})).Return(nil)

	msg, err := subscriber.Receive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "purchases/2/42", msg.ID)
	assert.Equal(t, "user123", msg.Key)
	assert.Equal(t, fetched.Value, msg.Body)
	assert.NoError(t, subscriber.Commit(context.Background(), msg))
	reader.AssertExpectations(t)
}

func TestSubscriber_Receive_Error(t *testing.T) {
	reader := new(MockReader)
	subscriber := &Subscriber{reader: reader, log: zap.NewNop()}

	reader.On("FetchMessage", mock.Anything).Return(kafkago.Message{}, errors.New("group coordinator unavailable"))

	_, err := subscriber.Receive(context.Background())

	assert.Error(t, err)
}

func TestSubscriber_Commit_ForeignMessage(t *testing.T) {
	subscriber := &Subscriber{reader: new(MockReader), log: zap.NewNop()}

	err := subscriber.Commit(context.Background(), queue.NewMessage("x", "", nil, time.Time{}, "not-kafka"))

	assert.Error(t, err)
}

func TestSubscriber_Subscribe_FirstReachableBroker(t *testing.T) {
	conn := new(MockConn)
	conn.On("ReadPartitions").Return([]kafkago.Partition{{Topic: "purchases", ID: 0}}, nil)
	conn.On("Close").Return(nil)

	var dialed []string
	subscriber := &Subscriber{
		brokers: []string{"kafka-1:9092", "kafka-2:9092"},
		topic:   "purchases",
		dial: func(ctx context.Context, address string) (metadataConn, error) {
			dialed = append(dialed, address)
			if address == "kafka-1:9092" {
				return nil, errors.New("connection refused")
			}
			return conn, nil
		},
		log: zap.NewNop(),
	}

	err := subscriber.Subscribe(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, dialed)
	conn.AssertExpectations(t)
}

func TestSubscriber_Subscribe_TopicNotCreatedYet(t *testing.T) {
	conn := new(MockConn)
	conn.On("ReadPartitions").Return([]kafkago.Partition{{Topic: "other"}}, nil)
	conn.On("Close").Return(nil)

	subscriber := &Subscriber{
		brokers: []string{"kafka-1:9092"},
		topic:   "purchases",
		dial: func(ctx context.Context, address string) (metadataConn, error) {
			return conn, nil
		},
		log: zap.NewNop(),
	}

	assert.NoError(t, subscriber.Subscribe(context.Background()))
}

func TestSubscriber_Subscribe_Unreachable(t *testing.T) {
	subscriber := &Subscriber{
		brokers: []string{"kafka-1:9092"},
		topic:   "purchases",
		dial: func(ctx context.Context, address string) (metadataConn, error) {
			return nil, errors.New("connection refused")
		},
		log: zap.NewNop(),
	}

	err := subscriber.Subscribe(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), "purchases")
}

func TestSubscriber_Subscribe_MetadataError(t *testing.T) {
	conn := new(MockConn)
	conn.On("ReadPartitions").Return(nil, errors.New("broker not available"))
	conn.On("Close").Return(nil)

	subscriber := &Subscriber{
		brokers: []string{"kafka-1:9092"},
		topic:   "purchases",
		dial: func(ctx context.Context, address string) (metadataConn, error) {
			return conn, nil
		},
		log: zap.NewNop(),
	}

	err := subscriber.Subscribe(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker not available")
	conn.AssertCalled(t, "Close")
}

func TestSubscriber_Subscribe_RealDialUnreachable(t *testing.T) {
	subscriber := NewSubscriber(config.Kafka{
		Brokers: []string{"127.0.0.1:1"},
		Topic:   "purchases",
		GroupID: "test",
	}, zap.NewNop())
	defer func() { _ = subscriber.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, subscriber.Subscribe(ctx))
}
