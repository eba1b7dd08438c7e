// Package scheduler provides a priority-ordered task scheduler with a
// worker pool for background image work: loads, adjustment passes and
// histogram computation. Results are emitted on a completion channel in
// completion order, not submission order; callers correlate results by
// path or task id.
package scheduler

import (
	"github.com/gogpu/darkroom"
)

// Priority orders tasks in the queue. Higher priorities run first;
// within one priority, earlier-submitted tasks run first.
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// TaskKind discriminates the task variants.
type TaskKind int

const (
	// TaskLoadImage decodes a full-resolution image from disk.
	TaskLoadImage TaskKind = iota

	// TaskLoadThumbnail decodes and downscales an image from disk.
	TaskLoadThumbnail

	// TaskLoadExif requests EXIF metadata for a file. Metadata parsing
	// is a collaborator's job; executing this kind yields an error
	// result unless a custom Executor handles it.
	TaskLoadExif

	// TaskComputeHistogram computes the histogram of a pixel buffer.
	TaskComputeHistogram

	// TaskApplyAdjustments runs the adjustment pipeline on a pixel buffer.
	TaskApplyAdjustments
)

// String returns the task kind name.
func (k TaskKind) String() string {
	switch k {
	case TaskLoadImage:
		return "load_image"
	case TaskLoadThumbnail:
		return "load_thumbnail"
	case TaskLoadExif:
		return "load_exif"
	case TaskComputeHistogram:
		return "compute_histogram"
	case TaskApplyAdjustments:
		return "apply_adjustments"
	default:
		return "unknown"
	}
}

// Task describes one unit of background work. Tasks are immutable once
// created; ownership transfers from the submitter to the queue to the
// worker that dequeues it, and each task is executed exactly once.
type Task struct {
	Kind TaskKind

	// Path identifies the source file for load tasks and correlates
	// results for pixel-buffer tasks.
	Path string

	// MaxSize bounds the longest side for TaskLoadThumbnail.
	MaxSize int

	// Image carries the input pixel buffer for TaskComputeHistogram and
	// TaskApplyAdjustments.
	Image *darkroom.Image

	// Adjustments carries the parameters for TaskApplyAdjustments.
	Adjustments darkroom.ImageAdjustments
}

// LoadImage creates a full-resolution load task.
func LoadImage(path string) Task {
	return Task{Kind: TaskLoadImage, Path: path}
}

// LoadThumbnail creates a thumbnail load task.
func LoadThumbnail(path string, maxSize int) Task {
	return Task{Kind: TaskLoadThumbnail, Path: path, MaxSize: maxSize}
}

// LoadExif creates a metadata load task.
func LoadExif(path string) Task {
	return Task{Kind: TaskLoadExif, Path: path}
}

// ComputeHistogram creates a histogram task over an in-memory image.
func ComputeHistogram(path string, img *darkroom.Image) Task {
	return Task{Kind: TaskComputeHistogram, Path: path, Image: img}
}

// ApplyAdjustments creates an adjustment task over an in-memory image.
func ApplyAdjustments(path string, img *darkroom.Image, adj darkroom.ImageAdjustments) Task {
	return Task{Kind: TaskApplyAdjustments, Path: path, Image: img, Adjustments: adj}
}

// TaskResult is the outcome of one executed task. Exactly one of Image,
// Histogram or Err is meaningful depending on the task kind; Err is
// non-nil for failed tasks and the result carries the originating task
// so callers can decide whether to retry, skip or surface the failure.
type TaskResult struct {
	// TaskID is the id returned by Submit for the originating task.
	TaskID uint64

	// Task is the originating task.
	Task Task

	// Image holds the result of load and adjustment tasks.
	Image *darkroom.Image

	// Histogram holds the result of histogram tasks.
	Histogram *darkroom.Histogram

	// Err is non-nil when the task failed. Failed tasks are never
	// retried automatically.
	Err error
}
