package uitest

import "sync"

// ManualSpawner holds request work until the test releases it, so a
// response can be made to arrive after later gestures.
type ManualSpawner struct {
	mu      sync.Mutex
	pending []func()
}

// Spawn queues fn; pass it to the scope as the spawner.
func (m *ManualSpawner) Spawn(fn func()) {
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.mu.Unlock()
}

// Pending reports how many requests are held.
func (m *ManualSpawner) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// ReleaseNext runs the oldest held request, reporting whether one was
// held.
func (m *ManualSpawner) ReleaseNext() bool {
	m.mu.Lock()
	if len(m.pending) == 0 {
		m.mu.Unlock()
		return false
	}
	fn := m.pending[0]
	m.pending = m.pending[1:]
	m.mu.Unlock()
	fn()
	return true
}

// ReleaseAll runs every held request in order.
func (m *ManualSpawner) ReleaseAll() {
	for m.ReleaseNext() {
	}
}
