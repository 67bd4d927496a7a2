package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/syssam/erdgen/compiler/load"
	"github.com/syssam/erdgen/compiler/naming"
)

// Encode writes v in the given format. JSON output is indented and keeps
// "<" and ">" unescaped so that renderer types such as "Record<string, any>"
// stay readable.
func Encode(w io.Writer, v any, format load.Format) error {
	switch format {
	case load.YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	}
}

// Writer writes normalized schemas and their module manifests to a directory.
type Writer struct {
	outDir    string
	format    load.Format
	inflector naming.Inflector
	workers   int

	// Metrics for reporting
	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks written output.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
}

// NewWriter creates a writer for the given output directory and format.
func NewWriter(outDir string, format load.Format) *Writer {
	return &Writer{
		outDir:    outDir,
		format:    format,
		inflector: naming.Simple{},
		workers:   runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of parallel file writes.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// WithInflector sets the inflector used for the manifest class names.
func (w *Writer) WithInflector(inf naming.Inflector) *Writer {
	if inf != nil {
		w.inflector = inf
	}
	return w
}

// Metrics returns a snapshot of the writer metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Write writes the schema as "<name>.<ext>" and its manifest as
// "<name>.manifest.<ext>". It returns the written paths.
func (w *Writer) Write(ctx context.Context, name string, s *Schema) ([]string, error) {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return nil, NewGenerationError("write", w.outDir, "create output directory", err)
	}
	files := []fileTask{
		{name: name + w.format.Ext(), data: s},
		{name: name + ".manifest" + w.format.Ext(), data: BuildManifest(s, w.inflector)},
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(f)
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(w.outDir, f.name)
	}
	return paths, nil
}

// fileTask represents a single file to write.
type fileTask struct {
	name string // output file path (relative to outDir)
	data any
}

func (w *Writer) writeFile(f fileTask) error {
	n, err := writeFile(filepath.Join(w.outDir, f.name), f.data, w.format)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(n)
	w.mu.Unlock()
	return nil
}

// WriteFile encodes v in the given format and writes it to path.
func WriteFile(path string, v any, format load.Format) error {
	_, err := writeFile(path, v, format)
	return err
}

func writeFile(path string, v any, format load.Format) (int, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v, format); err != nil {
		return 0, NewGenerationError("encode", path, fmt.Sprintf("encode %s", format), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, NewGenerationError("write", path, "", err)
	}
	return buf.Len(), nil
}
