package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MeKo-Tech/pixelcanvas/internal/codec"
	"github.com/MeKo-Tech/pixelcanvas/internal/config"
	"github.com/MeKo-Tech/pixelcanvas/internal/editor"
)

// FilterProcessor loads each input into a fresh editor, applies the configured
// filter and encodes the result.
type FilterProcessor struct {
	Tool   config.Tool
	Codec  codec.FileCodec
	Logger *slog.Logger
}

// Process implements Processor.
func (fp FilterProcessor) Process(ctx context.Context, task Task) (string, error) {
	ed, err := editor.New(editor.WithLogger(fp.Logger), editor.WithSize(1, 1))
	if err != nil {
		return "", err
	}
	if err := ed.Load(task.In, fp.Codec); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := ed.ApplyFilter(fp.Tool); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(task.Out), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := fp.Codec.Encode(task.Out, ed.Buffer()); err != nil {
		return "", err
	}
	return task.Out, nil
}

// PlanTasks lists the decodable images directly inside inDir and maps each to
// outDir. A non-empty format replaces the output extension (for example "png").
// WebP inputs are written as PNG unless a format is given, since WebP has no
// encoder.
func PlanTasks(inDir, outDir, format string) ([]Task, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", inDir, err)
	}

	var tasks []Task
	for _, entry := range entries {
		if entry.IsDir() || !codec.IsImage(entry.Name()) {
			continue
		}
		name := entry.Name()
		outFormat := format
		if outFormat == "" && codec.FormatFromPath(name) == "webp" {
			outFormat = "png"
		}
		outName := name
		if outFormat != "" {
			outName = strings.TrimSuffix(name, filepath.Ext(name)) + "." + outFormat
		}
		tasks = append(tasks, Task{
			In:  filepath.Join(inDir, name),
			Out: filepath.Join(outDir, outName),
		})
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].In < tasks[j].In })
	return tasks, nil
}
