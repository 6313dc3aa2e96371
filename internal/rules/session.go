package rules

import (
	"sync"

	"fjacquet/bankrec/internal/models"
)

type ignoreKey struct {
	transactionID string
	ruleID        string
}

// Session remembers suggestions the user dismissed. It lives in memory only
// and is never persisted.
type Session struct {
	mu      sync.Mutex
	ignored map[ignoreKey]struct{}
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{ignored: make(map[ignoreKey]struct{})}
}

// Ignore hides the suggestion of ruleID for transactionID.
func (s *Session) Ignore(transactionID, ruleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ignored == nil {
		s.ignored = make(map[ignoreKey]struct{})
	}
	s.ignored[ignoreKey{transactionID, ruleID}] = struct{}{}
}

// IsIgnored reports whether the pair was dismissed.
func (s *Session) IsIgnored(transactionID, ruleID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ignored[ignoreKey{transactionID, ruleID}]
	return ok
}

// Filter drops the dismissed suggestions of transactionID.
func (s *Session) Filter(transactionID string, suggestions []models.AutoMatchSuggestion) []models.AutoMatchSuggestion {
	out := make([]models.AutoMatchSuggestion, 0, len(suggestions))
	for _, sg := range suggestions {
		if !s.IsIgnored(transactionID, sg.RuleID) {
			out = append(out, sg)
		}
	}
	return out
}
