package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Writer appends JSON lines to a zstd stream.
type Writer struct {
	mu     sync.Mutex
	f      io.Closer // Underlying file, nil when writing to a caller's stream
	enc    *zstd.Encoder
	w      *bufio.Writer
	header bool
}

// NewWriter wraps an arbitrary stream. Closing the Writer flushes the
// compressor but leaves dst open.
func NewWriter(dst io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	return &Writer{enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// Create opens a new recording file, creating parent directories.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.f = f
	return w, nil
}

// WriteHeader writes the header line. It must be called exactly once,
// before any frame.
func (w *Writer) WriteHeader(h Header) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.header {
		return fmt.Errorf("replay: header already written")
	}
	if h.Version == 0 {
		h.Version = Version
	}
	w.header = true
	return w.writeLocked(h)
}

// WriteFrame appends one step.
func (w *Writer) WriteFrame(f Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.header {
		return fmt.Errorf("replay: frame before header")
	}
	return w.writeLocked(f)
}

func (w *Writer) writeLocked(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if _, err := w.w.Write(b); err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	return nil
}

// Close flushes buffered frames and finishes the zstd stream.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	if w.w != nil {
		firstErr = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		if err := w.enc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		w.enc = nil
	}
	if w.f != nil {
		if err := w.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		w.f = nil
	}
	if firstErr != nil {
		return fmt.Errorf("replay: close: %w", firstErr)
	}
	return nil
}
