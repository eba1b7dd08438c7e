package scheduler

import "testing"

func TestAllocateZeroed(t *testing.T) {
	p := NewMemoryPool()

	buf := p.Allocate(1000)
	if len(buf) < 1000 {
		t.Fatalf("buffer too small: %d", len(buf))
	}
	for i := range buf {
		buf[i] = 0xff
	}
	p.Deallocate(buf)

	// Recycled buffer must come back zeroed.
	buf = p.Allocate(1000)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("recycled buffer dirty at byte %d", i)
		}
	}
}

func TestAllocateRoundsToSizeClass(t *testing.T) {
	p := NewMemoryPool()

	buf := p.Allocate(100)
	if len(buf) != 1<<20 {
		t.Errorf("small request got %d bytes, want the 1 MiB class", len(buf))
	}

	buf = p.Allocate(5 << 20)
	if len(buf) != 16<<20 {
		t.Errorf("5 MiB request got %d bytes, want the 16 MiB class", len(buf))
	}
}

func TestAllocateOversized(t *testing.T) {
	p := NewMemoryPool()

	size := 100 << 20
	buf := p.Allocate(size)
	if len(buf) != size {
		t.Errorf("oversized request got %d bytes, want exactly %d", len(buf), size)
	}

	p.Deallocate(buf)
	st := p.Stats()
	for _, c := range st.Classes {
		if c.Free != 0 {
			t.Error("oversized buffers must not be pooled")
		}
	}
}

func TestPoolReuse(t *testing.T) {
	p := NewMemoryPool()

	a := p.Allocate(1 << 20)
	p.Deallocate(a)
	p.Allocate(1 << 20)

	st := p.Stats()
	if st.Classes[0].Hits != 1 {
		t.Errorf("hits = %d, want 1", st.Classes[0].Hits)
	}
	if st.Classes[0].Misses != 1 {
		t.Errorf("misses = %d, want 1", st.Classes[0].Misses)
	}
}

func TestPoolCapsIdleBuffers(t *testing.T) {
	p := NewMemoryPool()

	bufs := make([][]byte, 15)
	for i := range bufs {
		bufs[i] = p.Allocate(1 << 20)
	}
	for _, b := range bufs {
		p.Deallocate(b)
	}

	st := p.Stats()
	if st.Classes[0].Free != maxBuffersPerClass {
		t.Errorf("idle buffers = %d, want cap of %d", st.Classes[0].Free, maxBuffersPerClass)
	}
}

func TestDeallocateForeignBuffer(t *testing.T) {
	p := NewMemoryPool()

	p.Deallocate(make([]byte, 12345)) // not a class size, dropped
	st := p.Stats()
	for _, c := range st.Classes {
		if c.Free != 0 {
			t.Error("foreign buffer should be dropped, not pooled")
		}
	}
}
