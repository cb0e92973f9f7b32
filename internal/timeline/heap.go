package timeline

// maxHeap is a binary max-heap of packed ChainLink values (see package
// feed's encoding) stored directly as uint64s. Because that encoding puts
// the timestamp in the high 32 bits and the post index in the low 32
// bits, comparing two packed values as plain unsigned integers already
// implements the spec's (timestamp, post-index) descending order — no
// decode is needed on the hot push/pop path, only when a link is actually
// consumed into the output.
//
// Implemented as a manual array-based heap, rather than container/heap,
// so TimelineFetcher can reuse the backing slice across calls without
// going through an interface indirection on every compare/swap.
type maxHeap struct {
	data []uint64
}

func (h *maxHeap) reset(buf []uint64) []uint64 {
	h.data = buf[:0]
	return h.data
}

func (h *maxHeap) len() int { return len(h.data) }

func (h *maxHeap) push(v uint64) {
	h.data = append(h.data, v)
	i := len(h.data) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if h.data[parent] >= h.data[i] {
			break
		}
		h.data[parent], h.data[i] = h.data[i], h.data[parent]
		i = parent
	}
}

func (h *maxHeap) pop() uint64 {
	top := h.data[0]
	last := len(h.data) - 1
	h.data[0] = h.data[last]
	h.data = h.data[:last]
	h.siftDown(0)
	return top
}

func (h *maxHeap) siftDown(i int) {
	n := len(h.data)
	for {
		left, right := 2*i+1, 2*i+2
		largest := i
		if left < n && h.data[left] > h.data[largest] {
			largest = left
		}
		if right < n && h.data[right] > h.data[largest] {
			largest = right
		}
		if largest == i {
			return
		}
		h.data[i], h.data[largest] = h.data[largest], h.data[i]
		i = largest
	}
}
