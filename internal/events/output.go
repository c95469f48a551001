// Package events records swipe-session analytics to a configurable
// destination: the console, partitioned JSON or parquet files (local or S3),
// or a Kafka topic.
package events

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/chrisdamba/foodswipe/internal/cloudwriter"
	"github.com/chrisdamba/foodswipe/internal/models"
)

type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// NewOutput picks the destination named by cfg.OutputDestination.
func NewOutput(ctx context.Context, cfg *models.Config) (OutputDestination, error) {
	switch cfg.OutputDestination {
	case "", "none":
		return NopOutput{}, nil
	case "console":
		return NewConsoleOutput(os.Stdout), nil
	case "json":
		return NewJSONOutput(cfg.OutputPath, cfg.OutputFolder), nil
	case "parquet":
		if cfg.CloudStorage.Provider == "" {
			return NewParquetOutput(cfg.OutputPath, cfg.OutputFolder, nil, ""), nil
		}
		factory, err := cloudWriterFactory(ctx, cfg.CloudStorage)
		if err != nil {
			return nil, err
		}
		return NewParquetOutput(cfg.OutputPath, cfg.OutputFolder, factory, cfg.CloudStorage.BucketName), nil
	case "kafka":
		return NewKafkaOutput(cfg)
	default:
		return nil, fmt.Errorf("unsupported output destination: %s", cfg.OutputDestination)
	}
}

func cloudWriterFactory(ctx context.Context, cs models.CloudStorageConfig) (cloudwriter.CloudWriterFactory, error) {
	switch cs.Provider {
	case "s3":
		factory, err := cloudwriter.NewS3WriterFactory(ctx, cs.Region, "application/vnd.apache.parquet")
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		return factory, nil
	default:
		return nil, fmt.Errorf("unsupported cloud storage provider: %s", cs.Provider)
	}
}

// partitionPath lays events out by hour, e.g. year=2024/month=05/day=01/hour=12.
func partitionPath(e Event) string {
	t := e.Time()
	year, month, day := t.Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d/hour=%02d", year, month, day, t.Hour())
}

func decodeEvent(msg []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(msg, &e); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if e.Timestamp <= 0 {
		return Event{}, fmt.Errorf("invalid timestamp")
	}
	return e, nil
}

type NopOutput struct{}

func (NopOutput) WriteMessage(string, []byte) error { return nil }
func (NopOutput) Close() error                      { return nil }

type ConsoleOutput struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleOutput(out io.Writer) *ConsoleOutput {
	return &ConsoleOutput{out: out}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.out, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }

// JSONOutput appends newline-delimited events to
// <basePath>/<folder>/<topic>/<partition>/data.json.
type JSONOutput struct {
	basePath string
	folder   string
	mu       sync.Mutex
	files    map[string]*os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	event, err := decodeEvent(msg)
	if err != nil {
		return err
	}

	partition := partitionPath(event)
	fullPath := filepath.Join(j.basePath, j.folder, topic, partition)

	j.mu.Lock()
	defer j.mu.Unlock()

	fileKey := topic + "/" + partition
	file, ok := j.files[fileKey]
	if !ok {
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return err
		}
		file, err = os.OpenFile(filepath.Join(fullPath, "data.json"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		j.files[fileKey] = file
	}

	line, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = file.Write(append(line, '\n'))
	return err
}

func (j *JSONOutput) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var lastErr error
	for key, file := range j.files {
		if err := file.Close(); err != nil {
			lastErr = err
		}
		delete(j.files, key)
	}
	return lastErr
}
