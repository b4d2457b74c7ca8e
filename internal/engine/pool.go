package engine

// Buffer is one fixed-capacity slab of a BufferPool. The goroutine that
// dequeued it owns it until it is queued again.
type Buffer struct {
	ID   int
	data []byte
	n    int
}

// Bytes returns the filled portion of the buffer.
func (b *Buffer) Bytes() []byte { return b.data[:b.n] }

// BufferPool is a fixed set of buffers carved from a single allocation.
// Buffers cycle through the free queue for the lifetime of one transfer;
// Get blocks when every buffer is in flight.
type BufferPool struct {
	free    *BoundedQueue[*Buffer]
	bufs    []Buffer
	bufSize int
}

// NewBufferPool allocates count buffers of size bytes each, all free.
func NewBufferPool(count, size int) *BufferPool {
	if count < 1 {
		count = 1
	}
	backing := make([]byte, count*size)
	p := &BufferPool{
		free:    NewBoundedQueue[*Buffer](count),
		bufs:    make([]Buffer, count),
		bufSize: size,
	}
	for i := range p.bufs {
		p.bufs[i] = Buffer{ID: i, data: backing[i*size : (i+1)*size : (i+1)*size]}
		p.free.Enqueue(&p.bufs[i])
	}
	return p
}

// Get takes a free buffer, waiting until one is returned.
func (p *BufferPool) Get() *Buffer {
	b := p.free.Dequeue()
	b.n = 0
	return b
}

// GetOr is Get that gives up once stop is closed.
func (p *BufferPool) GetOr(stop <-chan struct{}) (*Buffer, bool) {
	b, ok := p.free.DequeueOr(stop)
	if ok {
		b.n = 0
	}
	return b, ok
}

// Put returns b to the free queue.
func (p *BufferPool) Put(b *Buffer) {
	p.free.Enqueue(b)
}

// Free returns the number of buffers currently available.
func (p *BufferPool) Free() int { return p.free.Len() }

// Size returns the number of buffers in the pool.
func (p *BufferPool) Size() int { return len(p.bufs) }

// BufSize returns the capacity of each buffer.
func (p *BufferPool) BufSize() int { return p.bufSize }
