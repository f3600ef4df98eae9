// Package notify decouples the core from presentation: components emit
// semantic events and a presentation layer subscribes and renders them.
package notify

import "sync"

// Level classifies an event for presentation.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Event is one user-facing message.
type Event struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier fans events out to subscribers. A Notifier with no subscribers
// drops events silently, so emitting is always safe.
type Notifier struct {
	mu          sync.Mutex
	subscribers map[chan Event]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{subscribers: make(map[chan Event]struct{})}
}

// Subscribe returns a channel of events. The caller must invoke the returned
// cancel function to avoid leaks.
func (n *Notifier) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	n.mu.Lock()
	n.subscribers[ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if _, ok := n.subscribers[ch]; ok {
			delete(n.subscribers, ch)
			close(ch)
		}
		n.mu.Unlock()
	}
	return ch, cancel
}

// Emit delivers an event to every subscriber, dropping the oldest pending
// event for a subscriber that is not keeping up so broadcast never blocks.
func (n *Notifier) Emit(level Level, message string) {
	event := Event{Level: level, Message: message}

	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subscribers {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}

func (n *Notifier) Info(message string)    { n.Emit(LevelInfo, message) }
func (n *Notifier) Success(message string) { n.Emit(LevelSuccess, message) }
func (n *Notifier) Warning(message string) { n.Emit(LevelWarning, message) }
func (n *Notifier) Error(message string)   { n.Emit(LevelError, message) }
