package raster

import (
	"strconv"
	"sync"
)

// Mask is a dense bitset addressed by y*width+x.
type Mask struct {
	n    int
	bits []uint64
}

// NewMask returns a cleared mask for n pixels.
func NewMask(n int) *Mask {
	if n < 0 {
		n = 0
	}
	return &Mask{n: n, bits: make([]uint64, (n+63)/64)}
}

// Len is the number of addressable bits.
func (m *Mask) Len() int { return m.n }

func (m *Mask) Test(i int) bool {
	return m.bits[i>>6]&(1<<(uint(i)&63)) != 0
}

func (m *Mask) Set(i int) {
	m.bits[i>>6] |= 1 << (uint(i) & 63)
}

// TestAndSet sets bit i and reports whether it was already set.
func (m *Mask) TestAndSet(i int) bool {
	w, bit := i>>6, uint64(1)<<(uint(i)&63)
	was := m.bits[w]&bit != 0
	m.bits[w] |= bit
	return was
}

func (m *Mask) Reset() {
	clear(m.bits)
}

// MaskPool recycles masks to reduce GC pressure when many rasters of the
// same size are analysed back to back.
type MaskPool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = &MaskPool{
	pools: make(map[string]*sync.Pool),
}

// GetMask returns a cleared mask for n pixels, from the pool when possible.
func GetMask(n int) *Mask {
	return globalPool.Get(n)
}

// PutMask hands m back to the pool.
func PutMask(m *Mask) {
	globalPool.Put(m)
}

func (p *MaskPool) Get(n int) *Mask {
	key := strconv.Itoa(n)
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return NewMask(n)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	m := pool.Get().(*Mask)
	m.Reset()
	return m
}

func (p *MaskPool) Put(m *Mask) {
	if m == nil {
		return
	}
	key := strconv.Itoa(m.n)
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(m)
	}
}
