package interview

import "sync"

// TranscriptMailbox holds the latest transcript snapshot produced by a
// capture. Each Put replaces the previous value.
type TranscriptMailbox struct {
	mu   sync.Mutex
	text string
	n    int
}

// Put replaces the current snapshot.
func (m *TranscriptMailbox) Put(snapshot string) {
	m.mu.Lock()
	m.text = snapshot
	m.n++
	m.mu.Unlock()
}

// Peek returns the current snapshot without consuming it.
func (m *TranscriptMailbox) Peek() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Take returns the current snapshot and empties the slot.
func (m *TranscriptMailbox) Take() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.text
	m.text = ""
	return t
}

// Updates reports how many snapshots have been delivered since the last Clear.
func (m *TranscriptMailbox) Updates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n
}

// Clear empties the slot and resets the update counter.
func (m *TranscriptMailbox) Clear() {
	m.mu.Lock()
	m.text = ""
	m.n = 0
	m.mu.Unlock()
}
