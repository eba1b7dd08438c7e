package scheduler

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/darkroom"
)

// gateExecutor blocks the worker on the task named "gate" until released,
// then records the order in which the remaining tasks execute. With one
// worker this exposes the queue's drain order.
type gateExecutor struct {
	started chan struct{}
	release chan struct{}

	mu    sync.Mutex
	order []string
}

func newGateExecutor() *gateExecutor {
	return &gateExecutor{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gateExecutor) Execute(t Task) TaskResult {
	if t.Path == "gate" {
		close(g.started)
		<-g.release
		return TaskResult{}
	}
	g.mu.Lock()
	g.order = append(g.order, t.Path)
	g.mu.Unlock()
	return TaskResult{}
}

func (g *gateExecutor) executed() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.order...)
}

func drain(t *testing.T, s *Scheduler, n int) []TaskResult {
	t.Helper()
	out := make([]TaskResult, 0, n)
	timeout := time.After(5 * time.Second)
	for len(out) < n {
		select {
		case res, ok := <-s.Results():
			if !ok {
				t.Fatalf("results channel closed after %d of %d results", len(out), n)
			}
			out = append(out, res)
		case <-timeout:
			t.Fatalf("timed out waiting for results, got %d of %d", len(out), n)
		}
	}
	return out
}

func TestPriorityOrdering(t *testing.T) {
	exec := newGateExecutor()
	s := New(exec, WithWorkers(1))
	defer s.Shutdown()

	s.Submit(LoadExif("gate"), PriorityCritical)
	<-exec.started

	// Queued while the single worker is blocked; drained by priority,
	// submission order breaking ties.
	s.Submit(LoadExif("low"), PriorityLow)
	s.Submit(LoadExif("crit-1"), PriorityCritical)
	s.Submit(LoadExif("medium"), PriorityMedium)
	s.Submit(LoadExif("crit-2"), PriorityCritical)
	close(exec.release)

	drain(t, s, 5)

	want := []string{"crit-1", "crit-2", "medium", "low"}
	got := exec.executed()
	if len(got) != len(want) {
		t.Fatalf("executed %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("execution order = %v, want %v", got, want)
		}
	}
}

func TestSubmitIDsMonotonic(t *testing.T) {
	exec := newGateExecutor()
	s := New(exec, WithWorkers(1))
	defer s.Shutdown()

	s.Submit(LoadExif("gate"), PriorityCritical)
	<-exec.started

	a := s.Submit(LoadExif("a"), PriorityLow)
	b := s.Submit(LoadExif("b"), PriorityLow)
	if a == 0 || b <= a {
		t.Errorf("ids not monotonic: %d then %d", a, b)
	}
	close(exec.release)
}

func TestCancelPendingTask(t *testing.T) {
	exec := newGateExecutor()
	s := New(exec, WithWorkers(1))
	defer s.Shutdown()

	s.Submit(LoadExif("gate"), PriorityCritical)
	<-exec.started

	id := s.Submit(LoadExif("victim"), PriorityLow)
	keep := s.Submit(LoadExif("keeper"), PriorityLow)

	if !s.Cancel(id) {
		t.Fatal("cancel of a queued task should succeed")
	}
	if s.Cancel(id) {
		t.Error("double cancel should fail")
	}
	if s.Cancel(keep + 1000) {
		t.Error("cancel of an unknown id should fail")
	}

	close(exec.release)
	drain(t, s, 2) // gate + keeper

	for _, path := range exec.executed() {
		if path == "victim" {
			t.Error("cancelled task was executed")
		}
	}
}

func TestQueueSizeAndClear(t *testing.T) {
	exec := newGateExecutor()
	s := New(exec, WithWorkers(1))
	defer s.Shutdown()

	s.Submit(LoadExif("gate"), PriorityCritical)
	<-exec.started

	s.Submit(LoadExif("a"), PriorityLow)
	s.Submit(LoadExif("b"), PriorityLow)
	s.Submit(LoadExif("c"), PriorityLow)
	if got := s.QueueSize(); got != 3 {
		t.Errorf("QueueSize = %d, want 3", got)
	}

	if dropped := s.ClearQueue(); dropped != 3 {
		t.Errorf("ClearQueue dropped %d, want 3", dropped)
	}
	if got := s.QueueSize(); got != 0 {
		t.Errorf("QueueSize after clear = %d", got)
	}
	close(exec.release)
}

func TestShutdownClosesResults(t *testing.T) {
	exec := newGateExecutor()
	s := New(exec, WithWorkers(2))

	s.Shutdown()
	s.Shutdown() // idempotent

	if _, ok := s.RecvResult(); ok {
		t.Error("RecvResult after shutdown should report closed")
	}
	if id := s.Submit(LoadExif("late"), PriorityHigh); id != 0 {
		t.Errorf("Submit after shutdown returned id %d, want 0", id)
	}
}

func TestTryRecvResultNonBlocking(t *testing.T) {
	exec := newGateExecutor()
	s := New(exec, WithWorkers(1))
	defer s.Shutdown()

	if _, ok := s.TryRecvResult(); ok {
		t.Error("TryRecvResult on an idle scheduler should report no result")
	}
}

func TestEngineExecutorHistogram(t *testing.T) {
	e := darkroom.NewEngine(darkroom.WithWorkers(2))
	defer e.Close()
	s := New(NewEngineExecutor(e), WithWorkers(2))
	defer s.Shutdown()

	img := darkroom.NewImage(8, 8)
	img.Fill(100, 150, 200, 255)

	id := s.Submit(ComputeHistogram("mem:a", img), PriorityHigh)
	res, ok := s.RecvResult()
	if !ok {
		t.Fatal("no result received")
	}
	if res.TaskID != id {
		t.Errorf("result id = %d, want %d", res.TaskID, id)
	}
	if res.Err != nil {
		t.Fatalf("histogram task failed: %v", res.Err)
	}
	if res.Histogram == nil || res.Histogram.R[100] != 64 {
		t.Error("histogram result missing or wrong")
	}
}

func TestEngineExecutorAdjustments(t *testing.T) {
	e := darkroom.NewEngine(darkroom.WithWorkers(2))
	defer e.Close()
	s := New(NewEngineExecutor(e), WithWorkers(2))
	defer s.Shutdown()

	img := darkroom.NewImage(8, 8)
	img.Fill(128, 128, 128, 255)
	adj := darkroom.DefaultAdjustments()
	adj.Exposure = 1

	s.Submit(ApplyAdjustments("mem:b", img, adj), PriorityCritical)
	res, ok := s.RecvResult()
	if !ok || res.Err != nil {
		t.Fatalf("adjustment task failed: %v", res.Err)
	}
	r, _, _, _ := res.Image.PixelRGBA(4, 4)
	if r <= 128 {
		t.Errorf("adjusted pixel = %d, want brighter than 128", r)
	}
}

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()

	src := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.SetRGBA(x, y, color.RGBA{uint8(x * 6), uint8(y * 8), 100, 255})
		}
	}

	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEngineExecutorPooledLoads(t *testing.T) {
	e := darkroom.NewEngine(darkroom.WithWorkers(2))
	defer e.Close()
	exec := NewEngineExecutor(e)

	path := writeTestPNG(t, 40, 30)

	res := exec.Execute(LoadImage(path))
	if res.Err != nil {
		t.Fatalf("load failed: %v", res.Err)
	}
	if res.Image.Width() != 40 || res.Image.Height() != 30 {
		t.Fatalf("loaded %dx%d, want 40x30", res.Image.Width(), res.Image.Height())
	}

	st := exec.Pool.Stats()
	if st.Classes[0].Misses != 1 {
		t.Errorf("first load should miss the pool, misses = %d", st.Classes[0].Misses)
	}
	if st.Classes[0].Free != 1 {
		t.Errorf("read buffer should return to the pool, free = %d", st.Classes[0].Free)
	}

	res = exec.Execute(LoadThumbnail(path, 16))
	if res.Err != nil {
		t.Fatalf("thumbnail load failed: %v", res.Err)
	}
	if res.Image.Width() != 16 || res.Image.Height() != 12 {
		t.Fatalf("thumbnail %dx%d, want 16x12", res.Image.Width(), res.Image.Height())
	}

	st = exec.Pool.Stats()
	if st.Classes[0].Hits != 1 {
		t.Errorf("second load should reuse the pooled read buffer, hits = %d", st.Classes[0].Hits)
	}
}

func TestEngineExecutorLoadErrors(t *testing.T) {
	e := darkroom.NewEngine(darkroom.WithWorkers(2))
	defer e.Close()
	exec := NewEngineExecutor(e)

	res := exec.Execute(LoadImage("/does/not/exist.png"))
	if res.Err == nil {
		t.Error("loading a missing file should fail")
	}

	res = exec.Execute(LoadExif("/photo.jpg"))
	if res.Err == nil {
		t.Error("exif tasks need a collaborating executor and should error here")
	}

	res = exec.Execute(ComputeHistogram("x", nil))
	if res.Err == nil {
		t.Error("nil image histogram should fail")
	}
	if errors.Is(res.Err, darkroom.ErrDecode) {
		t.Error("nil image error should not masquerade as a decode error")
	}
}
