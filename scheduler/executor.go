package scheduler

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/darkroom"
)

// EngineExecutor runs the built-in task kinds against a darkroom engine:
// loads decode from disk, adjustment tasks run the hybrid pipeline, and
// histogram tasks use the engine's GPU/CPU histogram path.
//
// Load tasks stage the encoded file bytes in buffers recycled through
// Pool, so back-to-back loads of multi-megabyte files do not each
// allocate a fresh read buffer.
type EngineExecutor struct {
	Engine *darkroom.Engine
	Pool   *MemoryPool
}

// NewEngineExecutor wraps an engine for use as the scheduler's executor.
func NewEngineExecutor(e *darkroom.Engine) *EngineExecutor {
	return &EngineExecutor{
		Engine: e,
		Pool:   NewMemoryPool(),
	}
}

// Execute runs one task. Failures are reported in the result, never
// panicked or retried.
func (x *EngineExecutor) Execute(t Task) TaskResult {
	switch t.Kind {
	case TaskLoadImage:
		img, err := x.loadImage(t.Path)
		return TaskResult{Image: img, Err: err}

	case TaskLoadThumbnail:
		img, err := x.loadImage(t.Path)
		if err != nil {
			return TaskResult{Err: err}
		}
		return TaskResult{Image: img.Thumbnail(t.MaxSize)}

	case TaskLoadExif:
		// Metadata parsing lives in a collaborator; report rather than
		// silently drop so callers see the task complete.
		return TaskResult{Err: fmt.Errorf("scheduler: exif parsing not supported for %s", t.Path)}

	case TaskComputeHistogram:
		if t.Image == nil {
			return TaskResult{Err: fmt.Errorf("scheduler: histogram task without image: %s", t.Path)}
		}
		return TaskResult{Histogram: x.Engine.Histogram(t.Image)}

	case TaskApplyAdjustments:
		if t.Image == nil {
			return TaskResult{Err: fmt.Errorf("scheduler: adjustments task without image: %s", t.Path)}
		}
		return TaskResult{Image: x.Engine.Apply(t.Image, t.Adjustments)}

	default:
		return TaskResult{Err: fmt.Errorf("scheduler: unknown task kind %d", t.Kind)}
	}
}

// loadImage reads the encoded file through a pooled buffer and decodes
// it. A nil Pool falls back to the plain file loader.
func (x *EngineExecutor) loadImage(path string) (*darkroom.Image, error) {
	if x.Pool == nil {
		return darkroom.LoadImageFile(path)
	}

	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("scheduler: open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("scheduler: stat %s: %w", path, err)
	}

	buf := x.Pool.Allocate(int(info.Size()))
	defer x.Pool.Deallocate(buf)

	data := buf[:info.Size()]
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, fmt.Errorf("scheduler: read %s: %w", path, err)
	}

	img, err := darkroom.DecodeImage(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
