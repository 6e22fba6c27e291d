package aggregate

import "sync"

// names is embedded by both aggregator variants to satisfy
// DisplayNamer without duplicating the mapping logic.
type names struct {
	mu sync.RWMutex
	m  map[int]string
}

func (n *names) SetDisplayNames(m map[int]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.m = m
}

func (n *names) DisplayName(readerID int) string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.m == nil {
		return ""
	}
	return n.m[readerID]
}
