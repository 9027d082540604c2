package schedule

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard_StaleResultIsDropped(t *testing.T) {
	var g Guard
	var shown string

	first := g.Next()
	second := g.Next()

	assert.True(t, g.Commit(second, func() { shown = "second" }))
	assert.False(t, g.Commit(first, func() { shown = "first" }))
	assert.Equal(t, "second", shown)
	assert.True(t, g.Current(second))
	assert.False(t, g.Current(first))
}

func TestGuard_ConcurrentNext(t *testing.T) {
	var g Guard
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Next()
		}()
	}
	wg.Wait()
	assert.True(t, g.Current(50))
}
