// Package progress tracks scan completion percentage for external observers
// (the review UI polls it while a background scan runs). Entries expire on
// their own; a finished or abandoned task disappears after the TTL without
// explicit cleanup.
package progress

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	// How long a task's progress stays readable after its last update.
	progressTTL = 30 * time.Minute

	keyPrefix = "task_progress:"
)

// State is the last reported progress of one task.
type State struct {
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// Store is an in-process TTL cache of scan progress keyed by task id. All
// methods are safe for concurrent use.
type Store struct {
	c *cache.Cache
}

func NewStore() *Store {
	return &Store{c: cache.New(progressTTL, 10*time.Minute)}
}

// Set records the task's progress, refreshing its TTL.
func (s *Store) Set(taskID string, percent int, message string) {
	s.c.Set(keyPrefix+taskID, State{Percent: percent, Message: message}, cache.DefaultExpiration)
}

// Get returns the last recorded state, or a zero "Pending" state for tasks
// that have not reported yet (or whose entry expired).
func (s *Store) Get(taskID string) State {
	if v, ok := s.c.Get(keyPrefix + taskID); ok {
		return v.(State)
	}
	return State{Percent: 0, Message: "Pending"}
}

// Clear drops the task's entry immediately.
func (s *Store) Clear(taskID string) {
	s.c.Delete(keyPrefix + taskID)
}

// Update implements the scanner's progress sink.
func (s *Store) Update(taskID string, percent int, message string) error {
	s.Set(taskID, percent, message)
	return nil
}
