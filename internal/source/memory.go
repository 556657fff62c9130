package source

import "sync"

// Memory is an in-memory text buffer. Every change, including writes made
// through WriteAllText, raises a notification the way a watched file would.
type Memory struct {
	mu       sync.Mutex
	text     string
	writes   int
	readErr  error
	writeErr error
	changes  chan struct{}
}

// NewMemory returns a buffer holding text.
func NewMemory(text string) *Memory {
	return &Memory{
		text:    text,
		changes: make(chan struct{}, 1),
	}
}

// ReadAllText returns the buffer contents.
func (m *Memory) ReadAllText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return "", m.readErr
	}
	return m.text, nil
}

// WriteAllText replaces the buffer contents.
func (m *Memory) WriteAllText(text string) error {
	m.mu.Lock()
	if m.writeErr != nil {
		err := m.writeErr
		m.mu.Unlock()
		return err
	}
	m.text = text
	m.writes++
	m.mu.Unlock()

	notify(m.changes)
	return nil
}

// Set simulates an external edit.
func (m *Memory) Set(text string) {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()

	notify(m.changes)
}

// Writes returns how many successful WriteAllText calls were made.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FailReads makes subsequent reads return err. A nil err clears the failure.
func (m *Memory) FailReads(err error) {
	m.mu.Lock()
	m.readErr = err
	m.mu.Unlock()
}

// FailWrites makes subsequent writes return err. A nil err clears the failure.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	m.writeErr = err
	m.mu.Unlock()
}

// Changes returns the notification channel.
func (m *Memory) Changes() <-chan struct{} {
	return m.changes
}
