package gen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Writer formats generated files and writes them to disk. Files whose
// content did not change are left untouched so watchers are not triggered.
type Writer struct {
	log     *zap.Logger
	workers int

	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks generation performance.
type WriterMetrics struct {
	FilesWritten   int
	FilesUnchanged int
	TotalBytes     int64
	FormatTime     time.Duration
	WriteTime      time.Duration
}

// File is one generated file.
type File struct {
	Path string
	Src  []byte
}

// NewWriter creates a writer. A nil logger discards events.
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{log: logger, workers: 4}
}

// WithWorkers sets the number of files written in parallel.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns a snapshot of the writer metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// WriteAll writes files in parallel.
func (w *Writer) WriteAll(ctx context.Context, files ...File) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.Write(f.Path, f.Src)
			}
		})
	}
	return eg.Wait()
}

// WriteJen renders f and writes it to path.
func (w *Writer) WriteJen(path string, f *jen.File) error {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return NewGenerationError("render", path, "", err)
	}
	return w.Write(path, buf.Bytes())
}

// Format runs goimports on src. The path only determines the package
// directory used to resolve missing imports.
func Format(path string, src []byte) ([]byte, error) {
	formatted, err := imports.Process(path, src, nil)
	if err != nil {
		return nil, NewGenerationError("format", path, "", err)
	}
	return formatted, nil
}

// Write formats src and writes it to path.
func (w *Writer) Write(path string, src []byte) error {
	start := time.Now()
	formatted, err := imports.Process(path, src, nil)
	if err != nil {
		// Keep the unformatted output around for debugging.
		debugPath := path + ".error"
		_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
		_ = os.WriteFile(debugPath, src, 0o644)
		return NewGenerationError("format", path, "unformatted output written to "+debugPath, err)
	}
	formatTime := time.Since(start)

	start = time.Now()
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, formatted) {
		w.log.Debug("file unchanged", zap.String("path", path))
		w.record(func(m *WriterMetrics) { m.FilesUnchanged++; m.FormatTime += formatTime })
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewGenerationError("write", path, "create directory", err)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return NewGenerationError("write", path, "", err)
	}
	writeTime := time.Since(start)

	w.log.Info("file written", zap.String("path", path), zap.Int("bytes", len(formatted)))
	w.record(func(m *WriterMetrics) {
		m.FilesWritten++
		m.TotalBytes += int64(len(formatted))
		m.FormatTime += formatTime
		m.WriteTime += writeTime
	})
	return nil
}

func (w *Writer) record(update func(*WriterMetrics)) {
	w.mu.Lock()
	update(&w.metrics)
	w.mu.Unlock()
}
