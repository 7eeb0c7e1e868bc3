package pool

import (
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BufferPool implements a pool of byte slices for efficient memory reuse
type BufferPool struct {
	pool sync.Pool
	size int
}

// NewBufferPool creates a new buffer pool with buffers of the specified size
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				buffer := make([]byte, 0, size)
				return &buffer
			},
		},
		size: size,
	}
}

// Get retrieves a buffer from the pool or creates a new one if none are available
func (bp *BufferPool) Get() *[]byte {
	return bp.pool.Get().(*[]byte)
}

// Put returns a buffer to the pool for reuse
func (bp *BufferPool) Put(buffer *[]byte) {
	// Oversized buffers are dropped so one huge review does not pin memory.
	if cap(*buffer) > 64*bp.size {
		return
	}
	*buffer = (*buffer)[:0]
	bp.pool.Put(buffer)
}

// CaserPool pools lower-casing transformers. A cases.Caser keeps state between
// calls and must not be shared by concurrent goroutines.
type CaserPool struct {
	pool sync.Pool
}

// NewCaserPool creates a pool of lower-casers for the given language.
func NewCaserPool(tag language.Tag) *CaserPool {
	return &CaserPool{
		pool: sync.Pool{
			New: func() interface{} {
				c := cases.Lower(tag)
				return &c
			},
		},
	}
}

// Get retrieves a caser from the pool
func (cp *CaserPool) Get() *cases.Caser {
	return cp.pool.Get().(*cases.Caser)
}

// Put resets a caser and returns it to the pool
func (cp *CaserPool) Put(c *cases.Caser) {
	c.Reset()
	cp.pool.Put(c)
}
