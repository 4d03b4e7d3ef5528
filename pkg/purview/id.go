package purview

import "sync/atomic"

// handleIDCounter is the source of unique IDs for handles.
var handleIDCounter uint64

// nextID returns the next unique handle ID.
// IDs are monotonically increasing and never reused.
func nextID() uint64 {
	return atomic.AddUint64(&handleIDCounter, 1)
}
