package calendar

import (
	"sync"

	"github.com/angelmondragon/prodeel-backend/pkg/enums"
)

// Notifier surfaces user-facing feedback. Calls are fire-and-forget.
type Notifier interface {
	NotifyUser(message string, severity enums.Severity)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string, severity enums.Severity)

func (f NotifierFunc) NotifyUser(message string, severity enums.Severity) {
	if f != nil {
		f(message, severity)
	}
}

// Notice is one collected notification.
type Notice struct {
	Message  string         `json:"message"`
	Severity enums.Severity `json:"severity"`
}

// Collector buffers notices so a request handler can return them with its response.
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

func (c *Collector) NotifyUser(message string, severity enums.Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, Notice{Message: message, Severity: severity})
}

// Notices returns the collected notices, never nil.
func (c *Collector) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

type nopNotifier struct{}

func (nopNotifier) NotifyUser(string, enums.Severity) {}
