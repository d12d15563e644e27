// Package upgrader installs and replaces plugin, theme and core packages in the
// content filesystem from zip archives.
package upgrader

import (
	"fmt"
	"sync"
)

// Skin receives progress feedback from an upgrader run.
type Skin interface {
	Feedback(format string, args ...any)
	Error(err error)
}

// QuietSkin records feedback without emitting it.
type QuietSkin struct {
	mu       sync.Mutex
	messages []string
	errors   []error
}

func (s *QuietSkin) Feedback(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, fmt.Sprintf(format, args...))
}

func (s *QuietSkin) Error(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err)
}

// Messages returns the recorded feedback.
func (s *QuietSkin) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

// Errors returns the recorded errors.
func (s *QuietSkin) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errors...)
}
