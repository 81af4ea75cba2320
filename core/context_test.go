package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	const numGoroutines = 50
	done := make(chan bool, numGoroutines)

	for i := range numGoroutines {
		go func(id int) {
			defer func() { done <- true }()

			// Concurrent reads should be safe
			suppress := shouldSuppressHeader(ctx)
			assert.True(t, suppress, "Goroutine %d: shouldSuppressHeader should be true", id)
		}(i)
	}

	// Wait for all goroutines to complete
	for range numGoroutines {
		<-done
	}
}

// TestContextIsolation tests that different contexts maintain isolation.
func TestContextIsolation(t *testing.T) {
	baseCtx := context.Background()
	suppressed := WithSuppressHeader(baseCtx)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		assert.False(t, shouldSuppressHeader(baseCtx))
	}()

	go func() {
		defer wg.Done()
		assert.True(t, shouldSuppressHeader(suppressed))
	}()

	wg.Wait()
}

func TestShouldSuppressHeaderDefault(t *testing.T) {
	assert.False(t, shouldSuppressHeader(context.Background()))
}
