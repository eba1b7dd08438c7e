package scheduler

import "sync"

// Memory pool size classes. Requests above the largest class are
// allocated fresh and never pooled.
var sizeClasses = [...]int{1 << 20, 4 << 20, 16 << 20, 64 << 20}

// maxBuffersPerClass caps idle memory held by each class.
const maxBuffersPerClass = 10

// MemoryPool recycles large byte buffers across tasks to avoid repeated
// multi-megabyte allocations in the workers. Pooling is a pure
// throughput optimization: a buffer returned by Allocate is always
// zero-filled and at least the requested size, whether it came from the
// pool or the allocator.
//
// MemoryPool is safe for concurrent use.
type MemoryPool struct {
	mu     sync.Mutex
	free   [len(sizeClasses)][][]byte
	hits   [len(sizeClasses)]uint64
	misses [len(sizeClasses)]uint64
}

// NewMemoryPool creates an empty pool.
func NewMemoryPool() *MemoryPool {
	return &MemoryPool{}
}

// Allocate returns a zeroed buffer of at least size bytes, reusing a
// pooled buffer from the smallest fitting size class when one is
// available.
func (p *MemoryPool) Allocate(size int) []byte {
	class := classFor(size)
	if class < 0 {
		// Oversized request, not pooled.
		return make([]byte, size)
	}

	p.mu.Lock()
	if n := len(p.free[class]); n > 0 {
		buf := p.free[class][n-1]
		p.free[class][n-1] = nil
		p.free[class] = p.free[class][:n-1]
		p.hits[class]++
		p.mu.Unlock()
		return buf
	}
	p.misses[class]++
	p.mu.Unlock()

	return make([]byte, sizeClasses[class])
}

// Deallocate clears the buffer and returns it to its size class if that
// class has spare capacity; otherwise the buffer is dropped. Buffers not
// originating from Allocate are dropped.
func (p *MemoryPool) Deallocate(buf []byte) {
	class := -1
	for i, s := range sizeClasses {
		if len(buf) == s {
			class = i
			break
		}
	}
	if class < 0 {
		return
	}

	// Clear before pooling so Allocate always hands out zeroed memory.
	clear(buf)

	p.mu.Lock()
	if len(p.free[class]) < maxBuffersPerClass {
		p.free[class] = append(p.free[class], buf)
	}
	p.mu.Unlock()
}

// ClassStats describes one size class of the pool.
type ClassStats struct {
	// Size is the buffer size of this class in bytes.
	Size int
	// Free is the number of idle pooled buffers.
	Free int
	// Hits counts allocations served from the pool.
	Hits uint64
	// Misses counts allocations that fell through to the allocator.
	Misses uint64
}

// PoolStats is a snapshot of the pool, one entry per size class.
type PoolStats struct {
	Classes [len(sizeClasses)]ClassStats
}

// Stats returns a snapshot of pool occupancy and hit counters.
func (p *MemoryPool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	var st PoolStats
	for i := range sizeClasses {
		st.Classes[i] = ClassStats{
			Size:   sizeClasses[i],
			Free:   len(p.free[i]),
			Hits:   p.hits[i],
			Misses: p.misses[i],
		}
	}
	return st
}

// classFor returns the index of the smallest size class that fits size,
// or -1 when size exceeds the largest class.
func classFor(size int) int {
	for i, s := range sizeClasses {
		if size <= s {
			return i
		}
	}
	return -1
}
