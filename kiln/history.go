package kiln

// DefaultHistoryCapacity bounds the trend history to one simulated hour at
// dt=1s unless the caller asks for more.
const DefaultHistoryCapacity = 3600

// History is a bounded, append-only ring of Samples ordered by time. When
// full, the oldest sample is evicted, keeping visualization cost constant
// regardless of run duration.
type History struct {
	buf  []Sample
	head int // index of the oldest sample
	size int
}

// NewHistory creates a ring with the given capacity; non-positive values fall
// back to DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{buf: make([]Sample, capacity)}
}

// Append records a sample, evicting the oldest when the ring is full.
func (h *History) Append(s Sample) {
	if h.size < len(h.buf) {
		h.buf[(h.head+h.size)%len(h.buf)] = s
		h.size++
		return
	}
	h.buf[h.head] = s
	h.head = (h.head + 1) % len(h.buf)
}

// Len returns the number of retained samples.
func (h *History) Len() int {
	return h.size
}

// Last returns the most recent sample, if any.
func (h *History) Last() (Sample, bool) {
	if h.size == 0 {
		return Sample{}, false
	}
	return h.buf[(h.head+h.size-1)%len(h.buf)], true
}

// Samples returns the retained samples oldest-first as a fresh slice, safe to
// hand to concurrent readers.
func (h *History) Samples() []Sample {
	out := make([]Sample, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.head+i)%len(h.buf)]
	}
	return out
}

// Clear drops all retained samples.
func (h *History) Clear() {
	h.head = 0
	h.size = 0
}
