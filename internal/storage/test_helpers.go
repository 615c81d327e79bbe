package storage

import (
	"context"
	"testing"
	"time"
)

// testContext returns a bounded context cancelled at test cleanup
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
