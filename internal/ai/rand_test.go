package ai

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRandIsDeterministic(t *testing.T) {
	a, b := NewRand(99), NewRand(99)
	for i := 0; i < 20; i++ {
		require.Equal(t, a.IntN(9), b.IntN(9))
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestLockedRandConcurrentUse(t *testing.T) {
	r := Locked(NewRand(3))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				n := r.IntN(9)
				assert.GreaterOrEqual(t, n, 0)
				assert.Less(t, n, 9)
				f := r.Float64()
				assert.GreaterOrEqual(t, f, 0.0)
				assert.Less(t, f, 1.0)
			}
		}()
	}
	wg.Wait()
}
