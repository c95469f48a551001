package events

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/chrisdamba/foodswipe/internal/cloudwriter"
	"github.com/chrisdamba/foodswipe/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var eventTime = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func encoded(t *testing.T, e Event) []byte {
	t.Helper()
	if e.Timestamp == 0 {
		e.Timestamp = eventTime.UnixMilli()
	}
	msg, err := json.Marshal(e)
	require.NoError(t, err)
	return msg
}

type memOutput struct {
	mu     sync.Mutex
	topics []string
	msgs   [][]byte
	err    error
	closed bool
}

func (m *memOutput) WriteMessage(topic string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.topics = append(m.topics, topic)
	m.msgs = append(m.msgs, append([]byte(nil), msg...))
	return nil
}

func (m *memOutput) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func TestSwipeEventFields(t *testing.T) {
	item := models.CandidateItem{ID: "42", Name: "Ramen", Calories: 690, Tags: []string{"japanese", "soup"}}
	e := SwipeEvent(models.SwipeDown, item)

	assert.Equal(t, models.EventSwipe, e.EventType)
	assert.Equal(t, "DOWN", e.Direction)
	assert.Equal(t, "japanese,soup", e.Tags)
	assert.EqualValues(t, 690, e.Calories)
}

func TestPartitionPath(t *testing.T) {
	e := Event{Timestamp: eventTime.UnixMilli()}
	assert.Equal(t, "year=2024/month=05/day=01/hour=12", partitionPath(e))
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleOutput(&buf)

	require.NoError(t, out.WriteMessage("swipe_events", []byte(`{"a":1}`)))
	assert.Equal(t, "[swipe_events] {\"a\":1}\n", buf.String())
	assert.NoError(t, out.Close())
}

func TestJSONOutputWritesPartitionedLines(t *testing.T) {
	dir := t.TempDir()
	out := NewJSONOutput(dir, "events")

	require.NoError(t, out.WriteMessage("swipe_events", encoded(t, Event{EventType: "swipe", ItemID: "a"})))
	require.NoError(t, out.WriteMessage("swipe_events", encoded(t, Event{EventType: "swipe", ItemID: "b"})))
	require.NoError(t, out.Close())

	f, err := os.Open(filepath.Join(dir, "events", "swipe_events", "year=2024", "month=05", "day=01", "hour=12", "data.json"))
	require.NoError(t, err)
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		ids = append(ids, e.ItemID)
	}
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestJSONOutputRejectsBadMessages(t *testing.T) {
	out := NewJSONOutput(t.TempDir(), "events")
	defer out.Close()

	assert.Error(t, out.WriteMessage("t", []byte("not json")))
	assert.Error(t, out.WriteMessage("t", []byte(`{"eventType":"swipe"}`)))
}

func TestParquetOutputLocal(t *testing.T) {
	dir := t.TempDir()
	out := NewParquetOutput(dir, "events", nil, "")

	require.NoError(t, out.WriteMessage("swipe_events", encoded(t, Event{EventType: "swipe", ItemID: "a", Live: true})))
	require.NoError(t, out.Close())

	info, err := os.Stat(filepath.Join(dir, "events", "swipe_events", "year=2024", "month=05", "day=01", "hour=12", "data.parquet"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestParquetOutputCloud(t *testing.T) {
	factory := cloudwriter.NewMemoryFactory()
	out := NewParquetOutput("", "events", factory, "analytics")

	require.NoError(t, out.WriteMessage("swipe_events", encoded(t, Event{EventType: "login"})))
	require.NoError(t, out.Close())

	data, ok := factory.Object("analytics/events/swipe_events/year=2024/month=05/day=01/hour=12/data.parquet")
	require.True(t, ok, "uploaded keys: %v", factory.Keys())
	require.GreaterOrEqual(t, len(data), 8)
	assert.Equal(t, "PAR1", string(data[:4]))
	assert.Equal(t, "PAR1", string(data[len(data)-4:]))
}

func TestKafkaOutputKeysBySession(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(pm *sarama.ProducerMessage) error {
		if pm.Topic != "swipe_events" {
			return errors.New("unexpected topic " + pm.Topic)
		}
		key, err := pm.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "session-1" {
			return errors.New("unexpected key " + string(key))
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	out := NewKafkaOutputWithProducer(producer)
	require.NoError(t, out.WriteMessage("swipe_events", encoded(t, Event{EventType: "swipe", SessionID: "session-1"})))
	assert.ErrorIs(t, out.WriteMessage("swipe_events", encoded(t, Event{EventType: "swipe"})), sarama.ErrOutOfBrokers)

	require.NoError(t, out.Close())
	assert.Error(t, out.WriteMessage("swipe_events", nil))
}

func TestNewOutputSelectsDestination(t *testing.T) {
	cases := map[string]any{
		"none":    NopOutput{},
		"console": &ConsoleOutput{},
		"json":    &JSONOutput{},
		"parquet": &ParquetOutput{},
	}
	for dest, want := range cases {
		out, err := NewOutput(context.Background(), &models.Config{OutputDestination: dest, OutputPath: t.TempDir(), OutputFolder: "events"})
		require.NoError(t, err, dest)
		assert.IsType(t, want, out, dest)
		require.NoError(t, out.Close())
	}

	_, err := NewOutput(context.Background(), &models.Config{OutputDestination: "carrier-pigeon"})
	assert.Error(t, err)

	_, err = NewOutput(context.Background(), &models.Config{
		OutputDestination: "parquet",
		CloudStorage:      models.CloudStorageConfig{Provider: "gcs", BucketName: "b"},
	})
	assert.Error(t, err)
}

func TestRecorderStampsAndDrains(t *testing.T) {
	out := &memOutput{}
	r := newRecorder(out, "swipe_events", "sess", "ana", func() time.Time { return eventTime })

	r.Record(LoginEvent())
	r.Record(SwipeEvent(models.SwipeLeft, models.CandidateItem{ID: "1", Name: "Tacos"}))
	require.NoError(t, r.Close())

	out.mu.Lock()
	defer out.mu.Unlock()
	require.Len(t, out.msgs, 2)
	assert.True(t, out.closed)

	var e Event
	require.NoError(t, json.Unmarshal(out.msgs[1], &e))
	assert.Equal(t, eventTime.UnixMilli(), e.Timestamp)
	assert.Equal(t, "sess", e.SessionID)
	assert.Equal(t, "ana", e.Username)
	assert.Equal(t, "LEFT", e.Direction)
	assert.Equal(t, []string{"swipe_events", "swipe_events"}, out.topics)

	written, failed := r.Stats()
	assert.Equal(t, 2, written)
	assert.Zero(t, failed)
}

func TestRecorderSwallowsOutputErrors(t *testing.T) {
	out := &memOutput{err: errors.New("disk full")}
	r := NewRecorder(out, "t", "s", "")

	r.Record(LoginEvent())
	require.NoError(t, r.Close())

	_, failed := r.Stats()
	assert.Equal(t, 1, failed)

	// dropped after close
	r.Record(LoginEvent())
	assert.NoError(t, r.Close())
}
