package schedule

import "sync"

// CompletionSet tracks the activities the user has marked done, keyed by
// activity display name. It survives adjustment round-trips so marks made
// before a re-plan stay visible when the same activity name comes back, and
// is reset only when a brand-new schedule is loaded. The set is shared
// between handler goroutines and renderers, so it locks internally.
type CompletionSet struct {
	mu      sync.Mutex
	members map[string]struct{}
	order   []string
}

// NewCompletionSet returns an empty completion set.
func NewCompletionSet() *CompletionSet {
	return &CompletionSet{members: make(map[string]struct{})}
}

// Toggle flips the completion mark for an activity name. Toggling twice
// restores the original membership.
func (s *CompletionSet) Toggle(activity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[activity]; ok {
		delete(s.members, activity)
		for i, name := range s.order {
			if name == activity {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return
	}
	s.members[activity] = struct{}{}
	s.order = append(s.order, activity)
}

// IsCompleted reports whether the activity has been marked done.
func (s *CompletionSet) IsCompleted(activity string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.members[activity]
	return ok
}

// Names returns the completed activity names in insertion order, the order
// they are serialized into adjustment requests.
func (s *CompletionSet) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Len returns the number of completed activities.
func (s *CompletionSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Reset clears all completion marks. Called exactly on transition to a newly
// created schedule, never when an adjustment result is applied.
func (s *CompletionSet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = make(map[string]struct{})
	s.order = nil
}
