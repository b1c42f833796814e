package shutdown

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"table2spatial/internal/logger"
)

func TestShutdownRunsInReverseOrder(t *testing.T) {
	m := NewManager(logger.NewNop())

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) ShutdownFunc {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}
	m.Register("first", record("first"))
	m.Register("second", record("second"))
	m.Register("third", record("third"))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"third", "second", "first"}, order)
	assert.Error(t, m.Context().Err())
	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestShutdownTimeout(t *testing.T) {
	m := NewManager(logger.NewNop())
	m.SetTimeout(20 * time.Millisecond)

	block := make(chan struct{})
	defer close(block)
	ran := false
	m.Register("stuck", ShutdownFunc(func() { <-block }))
	m.Register("fast", ShutdownFunc(func() { ran = true }))

	start := time.Now()
	m.Shutdown()
	assert.True(t, ran)
	assert.Less(t, time.Since(start), time.Second)
}
