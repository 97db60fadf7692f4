package buf

import "sync"

const BufferSize = 20 * 1024

var pool = sync.Pool{
	New: func() any {
		buffer := make([]byte, BufferSize)
		return &buffer
	},
}

// Get returns a slice of the requested size. Slices no larger than
// BufferSize come from a shared pool; larger ones are allocated directly.
func Get(size int) []byte {
	if size > BufferSize {
		return make([]byte, size)
	}
	return (*pool.Get().(*[]byte))[:size]
}

// Put returns a pooled slice obtained from Get. Slices larger than
// BufferSize are left to the garbage collector.
func Put(buffer []byte) {
	if cap(buffer) != BufferSize {
		return
	}
	buffer = buffer[:BufferSize]
	pool.Put(&buffer)
}
