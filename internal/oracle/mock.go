package oracle

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar al oraculo real.
type MockClient struct {
	mu      sync.Mutex
	Results []Result
	Calls   []string
	// Block, si no es nil, retiene cada llamada hasta que se cierre o reciba.
	Block chan struct{}
}

func (m *MockClient) Classify(ctx context.Context, symptomText string) Result {
	m.mu.Lock()
	m.Calls = append(m.Calls, symptomText)
	block := m.Block
	var res Result
	if len(m.Results) > 0 {
		res = m.Results[0]
		if len(m.Results) > 1 {
			m.Results = m.Results[1:]
		}
	}
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	return res
}

// CallCount devuelve cuantas veces se llamo a Classify.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
