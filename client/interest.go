package client

import "sync"

// InterestSelector holds the (topic, level) pair the user is looking at.
// It has no remote effect.
type InterestSelector struct {
	mu     sync.Mutex
	active Interest
}

// NewInterestSelector returns a selector with no active topic.
func NewInterestSelector() *InterestSelector { return &InterestSelector{} }

// SetActive replaces topic and level together.
func (s *InterestSelector) SetActive(topic string, level Level) {
	s.mu.Lock()
	s.active = Interest{Topic: topic, Level: level}
	s.mu.Unlock()
}

// Active returns the current selection.
func (s *InterestSelector) Active() Interest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
