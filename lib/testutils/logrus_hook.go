// Package testutils contains small helpers for tests, mostly around
// capturing and asserting on log output.
package testutils

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// SimpleLogrusHook implements logrus.Hook and caches every fired entry, so
// tests can assert on what was logged.
type SimpleLogrusHook struct {
	HookedLevels []logrus.Level
	mutex        sync.Mutex
	messageCache []logrus.Entry
}

// NewLogHook returns a hook for the given levels, or for all levels if none
// are specified.
func NewLogHook(levels ...logrus.Level) *SimpleLogrusHook {
	if len(levels) == 0 {
		levels = logrus.AllLevels
	}
	return &SimpleLogrusHook{HookedLevels: levels}
}

// Levels returns the hooked levels.
func (h *SimpleLogrusHook) Levels() []logrus.Level {
	return h.HookedLevels
}

// Fire caches the entry.
func (h *SimpleLogrusHook) Fire(e *logrus.Entry) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.messageCache = append(h.messageCache, *e)
	return nil
}

// Drain returns the cached entries and empties the cache.
func (h *SimpleLogrusHook) Drain() []logrus.Entry {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	res := h.messageCache
	h.messageCache = []logrus.Entry{}
	return res
}

// Lines drains the cache and returns just the messages.
func (h *SimpleLogrusHook) Lines() []string {
	entries := h.Drain()
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = entry.Message
	}
	return lines
}

// LastEntry returns the most recently cached entry, or nil if the cache is
// empty.
func (h *SimpleLogrusHook) LastEntry() *logrus.Entry {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	i := len(h.messageCache) - 1
	if i < 0 {
		return nil
	}
	return &h.messageCache[i]
}

var _ logrus.Hook = &SimpleLogrusHook{}

// LogContains reports whether entries contain a message with the given level
// and contents.
func LogContains(entries []logrus.Entry, expLevel logrus.Level, expContents string) bool {
	for _, entry := range entries {
		if entry.Level == expLevel && strings.Contains(entry.Message, expContents) {
			return true
		}
	}
	return false
}
