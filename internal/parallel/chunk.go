package parallel

// Chunk is a half-open [Start, End) range of item indices.
type Chunk struct {
	Start int
	End   int
}

// Chunks partitions total items into at most n contiguous ranges of
// near-equal size. Remainder items go to the leading chunks so sizes
// differ by at most one. Returns nil when total is zero.
func Chunks(total, n int) []Chunk {
	if total <= 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}

	base := total / n
	rem := total % n

	out := make([]Chunk, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		out = append(out, Chunk{Start: start, End: start + size})
		start += size
	}
	return out
}
