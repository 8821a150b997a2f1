package luxeval

import (
	"errors"
	"fmt"

	"github.com/soypat/glgl/math/ms2"
)

// VecPool holds reusable scratch buffers for evaluators. It is not safe for
// concurrent use: each worker goroutine should own its VecPool.
type VecPool struct {
	Float bufPool[float32]
	V2    bufPool[ms2.Vec]
}

// GetVecPool extracts a [VecPool] from userData. userData may be a *VecPool or
// implement a VecPool() *VecPool method.
func GetVecPool(userData any) (*VecPool, error) {
	switch vp := userData.(type) {
	case *VecPool:
		if vp == nil {
			return nil, errors.New("nil *VecPool")
		}
		return vp, nil
	case interface{ VecPool() *VecPool }:
		p := vp.VecPool()
		if p == nil {
			return nil, errors.New("nil VecPool returned by userData")
		}
		return p, nil
	}
	return nil, fmt.Errorf("want userData type *luxeval.VecPool, got %T", userData)
}

// AssertAllReleased returns an error if any buffer is still acquired.
func (vp *VecPool) AssertAllReleased() error {
	if err := vp.Float.assertAllReleased(); err != nil {
		return fmt.Errorf("float pool: %w", err)
	}
	if err := vp.V2.assertAllReleased(); err != nil {
		return fmt.Errorf("ms2.Vec pool: %w", err)
	}
	return nil
}

type bufPool[T any] struct {
	_ins      [][]T
	_acquired []bool
}

// Acquire returns a buffer of the given length from the pool, allocating one if
// no free buffer is large enough. Contents are not zeroed.
func (bp *bufPool[T]) Acquire(length int) []T {
	for i, inUse := range bp._acquired {
		if !inUse && cap(bp._ins[i]) >= length {
			bp._acquired[i] = true
			return bp._ins[i][:length]
		}
	}
	newSlice := make([]T, length)
	bp._ins = append(bp._ins, newSlice)
	bp._acquired = append(bp._acquired, true)
	return newSlice
}

// Release returns a buffer obtained with Acquire to the pool.
func (bp *bufPool[T]) Release(buf []T) error {
	if cap(buf) == 0 {
		return errors.New("release of zero capacity buffer")
	}
	for i, instance := range bp._ins {
		if cap(instance) > 0 && &instance[:1][0] == &buf[:1][0] {
			if !bp._acquired[i] {
				return errors.New("release of unacquired buffer")
			}
			bp._acquired[i] = false
			return nil
		}
	}
	return errors.New("release of buffer not in pool")
}

// NumBuffers returns the amount of buffers allocated by the pool.
func (bp *bufPool[T]) NumBuffers() int { return len(bp._ins) }

func (bp *bufPool[T]) assertAllReleased() error {
	for _, inUse := range bp._acquired {
		if inUse {
			return errors.New("buffer not released")
		}
	}
	return nil
}
