package layout

// TotalPages returns the number of pages an export of trackCount tracks produces.
//
// Every chunk of up to Capacity tracks yields a label page and a code page, and an export always has at least one of
// each, so the result is max(2, 2*ceil(trackCount/capacity)).
func TotalPages(trackCount int, s Style) int {
	capacity := s.Capacity()
	if capacity < 1 {
		capacity = 1
	}
	chunks := (trackCount + capacity - 1) / capacity
	return max(2, 2*chunks)
}

// Chunks splits items into consecutive groups of at most size elements, preserving order.
//
// An empty input yields a single empty chunk so that an empty export still produces its label and code page.
func Chunks[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	if len(items) == 0 {
		return [][]T{{}}
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}
