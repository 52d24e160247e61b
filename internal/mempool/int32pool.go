package mempool

import (
	"sync"
)

// Sized pools for []int32 and []bool scratch buffers used by the verification
// engine's per-trial state (vote histograms, cell pairings, masks).

var (
	int32Pools sync.Map // key: size class (int), value: *sync.Pool
	boolPools  sync.Map // key: size class (int), value: *sync.Pool
)

// sizeClass rounds n up to a bucket to reduce churn across grid resolutions.
func sizeClass(n int) int {
	const step = 256
	if n <= step {
		return step
	}
	r := (n + step - 1) / step
	return r * step
}

// GetInt32 retrieves a zeroed []int32 buffer of length n from the pool.
// The caller must return it via PutInt32 when done.
func GetInt32(n int) []int32 {
	cls := sizeClass(n)
	pAny, _ := int32Pools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]int32, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return make([]int32, n)
	}
	buf, ok := p.Get().([]int32)
	if !ok || cap(buf) < cls {
		buf = make([]int32, cls)
	}
	buf = buf[:cap(buf)]
	for i := range buf[:n] {
		buf[i] = 0
	}
	return buf[:n]
}

// PutInt32 returns a buffer to the pool. It is safe to pass a nil slice.
func PutInt32(buf []int32) {
	if buf == nil {
		return
	}
	cls := sizeClass(cap(buf))
	pAny, _ := int32Pools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]int32, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return
	}
	p.Put(buf[:cap(buf)]) //nolint:staticcheck
}

// GetBool retrieves a zeroed []bool buffer of length n from the pool.
// The caller must return it via PutBool when done.
func GetBool(n int) []bool {
	cls := sizeClass(n)
	pAny, _ := boolPools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]bool, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return make([]bool, n)
	}
	buf, ok := p.Get().([]bool)
	if !ok || cap(buf) < cls {
		buf = make([]bool, cls)
	}
	buf = buf[:cap(buf)]
	for i := range buf[:n] {
		buf[i] = false
	}
	return buf[:n]
}

// PutBool returns a buffer to the pool. It is safe to pass a nil slice.
func PutBool(buf []bool) {
	if buf == nil {
		return
	}
	cls := sizeClass(cap(buf))
	pAny, _ := boolPools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]bool, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return
	}
	p.Put(buf[:cap(buf)]) //nolint:staticcheck
}
