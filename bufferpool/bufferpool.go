// Package bufferpool provides a pool of reusable bytes.Buffers for reading
// response bodies.
package bufferpool

import (
	"bytes"
	"sync"
)

// BufferPool hands out empty buffers and takes them back for reuse, dropping
// any that have grown past its retention limit.
type BufferPool struct {
	pool   sync.Pool
	maxCap int
}

// New creates an empty BufferPool that will not retain buffers whose capacity
// exceeds maxCap. A maxCap of zero or less retains every buffer.
func New(maxCap int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
		maxCap: maxCap,
	}
}

// Get returns an empty buffer.
func (bp *BufferPool) Get() *bytes.Buffer {
	buf := bp.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Put returns buf to the pool. The caller must not retain any slice of its
// contents.
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil || (bp.maxCap > 0 && buf.Cap() > bp.maxCap) {
		return
	}
	bp.pool.Put(buf)
}
