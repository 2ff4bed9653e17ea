package logger

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
)

// DefaultBufferSize caps the retained log volume at roughly 2 MiB.
const DefaultBufferSize = 2 * 1024 * 1024

// Record is a retained log entry.
type Record struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Buffer is a logrus hook keeping the most recent entries up to a byte budget.
// The oldest records are dropped first.
type Buffer struct {
	mu       sync.Mutex
	records  []Record
	sizes    []int
	size     int
	maxBytes int
}

var _ logrus.Hook = (*Buffer)(nil)

// NewBuffer creates a buffer bounded by maxBytes of JSON-encoded records.
func NewBuffer(maxBytes int) *Buffer {
	if maxBytes <= 0 {
		maxBytes = DefaultBufferSize
	}
	return &Buffer{maxBytes: maxBytes}
}

func (b *Buffer) Levels() []logrus.Level { return logrus.AllLevels }

func (b *Buffer) Fire(entry *logrus.Entry) error {
	rec := Record{
		Timestamp: entry.Time,
		Level:     entry.Level.String(),
		Message:   entry.Message,
	}
	if len(entry.Data) > 0 {
		rec.Fields = make(map[string]any, len(entry.Data))
		for k, v := range entry.Data {
			if err, ok := v.(error); ok {
				v = err.Error()
			}
			rec.Fields[k] = v
		}
	}

	data, err := sonic.Marshal(rec)
	if err != nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, rec)
	b.sizes = append(b.sizes, len(data))
	b.size += len(data)
	for b.size > b.maxBytes && len(b.records) > 0 {
		b.size -= b.sizes[0]
		b.records = b.records[1:]
		b.sizes = b.sizes[1:]
	}
	return nil
}

// Records returns a copy of the retained entries, oldest first.
func (b *Buffer) Records() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Record, len(b.records))
	copy(out, b.records)
	return out
}

// Size is the current retained volume in bytes.
func (b *Buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Clear drops every retained entry.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = nil
	b.sizes = nil
	b.size = 0
}
