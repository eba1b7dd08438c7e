package parallel

import "testing"

func TestChunksCoverRange(t *testing.T) {
	tests := []struct {
		total, n int
	}{
		{100, 4},
		{101, 4},
		{7, 3},
		{3, 8},
		{1, 1},
		{1000000, 13},
	}
	for _, tt := range tests {
		chunks := Chunks(tt.total, tt.n)

		covered := 0
		prev := 0
		for _, c := range chunks {
			if c.Start != prev {
				t.Fatalf("Chunks(%d,%d): gap at %d", tt.total, tt.n, c.Start)
			}
			if c.End <= c.Start {
				t.Fatalf("Chunks(%d,%d): empty chunk [%d,%d)", tt.total, tt.n, c.Start, c.End)
			}
			covered += c.End - c.Start
			prev = c.End
		}
		if covered != tt.total {
			t.Errorf("Chunks(%d,%d): covered %d items", tt.total, tt.n, covered)
		}
	}
}

func TestChunksNearEqualSizes(t *testing.T) {
	chunks := Chunks(103, 4)
	minSize, maxSize := 103, 0
	for _, c := range chunks {
		size := c.End - c.Start
		if size < minSize {
			minSize = size
		}
		if size > maxSize {
			maxSize = size
		}
	}
	if maxSize-minSize > 1 {
		t.Errorf("chunk sizes differ by %d, want at most 1", maxSize-minSize)
	}
}

func TestChunksDegenerateInputs(t *testing.T) {
	if Chunks(0, 4) != nil {
		t.Error("zero items should return nil")
	}
	if Chunks(-5, 4) != nil {
		t.Error("negative items should return nil")
	}
	if got := len(Chunks(10, 0)); got != 1 {
		t.Errorf("n=0 should clamp to one chunk, got %d", got)
	}
	if got := len(Chunks(3, 100)); got != 3 {
		t.Errorf("n > total should clamp to total, got %d chunks", got)
	}
}
