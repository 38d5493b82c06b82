// Package audit appends house mutations to hourly-rotated JSONL+zstd files.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"houseregions.ai/internal/housing/geometry"
)

const (
	ActionCreate   = "HOUSE_CREATE"
	ActionDelete   = "HOUSE_DELETE"
	ActionResize   = "HOUSE_RESIZE"
	ActionTransfer = "HOUSE_TRANSFER"
	ActionShare    = "HOUSE_SHARE"
	ActionUnshare  = "HOUSE_UNSHARE"
)

type Entry struct {
	Time    time.Time      `json:"time"`
	Actor   string         `json:"actor"`
	Action  string         `json:"action"`
	Region  string         `json:"region"`
	Owner   string         `json:"owner,omitempty"`
	Area    *geometry.Rect `json:"area,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Recorder accepts audit entries. Implementations must be safe for concurrent use.
type Recorder interface {
	Record(e Entry) error
}

type Nop struct{}

func (Nop) Record(Entry) error { return nil }

type Logger struct {
	baseDir string
	prefix  string
	now     func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

// DefaultWriter names the server's audit files.
const DefaultWriter = "houses"

func NewLogger(dataDir string) *Logger {
	return NewWriterLogger(dataDir, DefaultWriter)
}

// NewWriterLogger logs to <dataDir>/audit/<writer>-<hour>.jsonl.zst. Each
// process that records entries needs its own writer name; ReadAll merges
// them by time.
func NewWriterLogger(dataDir, writer string) *Logger {
	return &Logger{
		baseDir: filepath.Join(dataDir, "audit"),
		prefix:  writer,
		now:     time.Now,
	}
}

func (l *Logger) Record(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().UTC()
	if e.Time.IsZero() {
		e.Time = now
	}
	hour := now.Format("2006-01-02-15")
	if hour != l.curHour {
		if err := l.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := l.w.Flush(); err != nil {
		return err
	}
	// Ends the current zstd block so readers see the entry before Close.
	return l.enc.Flush()
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeLocked()
}

func (l *Logger) rotateLocked(hour string) error {
	if err := l.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.f = f
	l.enc = enc
	l.w = bufio.NewWriterSize(enc, 64*1024)
	l.curHour = hour
	return nil
}

func (l *Logger) closeLocked() error {
	var err error
	if l.w != nil {
		_ = l.w.Flush()
	}
	if l.enc != nil {
		err = l.enc.Close()
		l.enc = nil
	}
	if l.f != nil {
		_ = l.f.Close()
		l.f = nil
	}
	l.w = nil
	l.curHour = ""
	return err
}

func (l *Logger) pathForHour(hour string) string {
	return filepath.Join(l.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", l.prefix, hour))
}
