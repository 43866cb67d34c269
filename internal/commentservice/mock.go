package commentservice

import (
	"context"
	"sync"

	"github.com/elmwoodlabs/quillpress/internal/common"
)

// MockMessageProducer records published messages, or fails every publish
// when Err is set.
type MockMessageProducer struct {
	mu        sync.Mutex
	Published [][]byte
	Err       error
}

func (m *MockMessageProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.Published = append(m.Published, msg)
	return nil
}
