package interview

import (
	"sync"
	"testing"
)

func TestTranscriptMailbox_LastWriteWins(t *testing.T) {
	var m TranscriptMailbox
	m.Put("I think")
	m.Put("I think the answer")
	m.Put("I think the answer is caching")

	if got := m.Peek(); got != "I think the answer is caching" {
		t.Errorf("Peek = %q", got)
	}
	if m.Updates() != 3 {
		t.Errorf("Updates = %d, want 3", m.Updates())
	}
	if got := m.Take(); got != "I think the answer is caching" {
		t.Errorf("Take = %q", got)
	}
	if got := m.Take(); got != "" {
		t.Errorf("second Take = %q, want empty", got)
	}
}

func TestTranscriptMailbox_ConcurrentPut(t *testing.T) {
	var m TranscriptMailbox
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Put("snapshot")
		}()
	}
	wg.Wait()
	if m.Peek() != "snapshot" || m.Updates() != 50 {
		t.Errorf("unexpected mailbox state: %q / %d", m.Peek(), m.Updates())
	}
	m.Clear()
	if m.Peek() != "" || m.Updates() != 0 {
		t.Error("Clear did not empty the mailbox")
	}
}
