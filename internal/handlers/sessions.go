package handlers

import (
	"html/template"
	"sync"
	"time"

	"precioustime/internal/models"
)

// session is one visitor's wizard state plus the rendered results, kept so a
// refresh of the results page does not refetch.
type session struct {
	state models.WizardState

	results  template.HTML
	quote    template.HTML
	lastSeen time.Time

	// fetching guards against a second submit while a life-expectancy
	// request is in flight.
	fetching bool
}

// SessionStore keeps wizard sessions in memory, keyed by the session cookie.
// Nothing persists across a server restart.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	maxIdle  time.Duration
}

// NewSessionStore creates a store that forgets sessions idle longer than
// maxIdle and starts the background sweep.
func NewSessionStore(maxIdle time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*session),
		maxIdle:  maxIdle,
	}
	go s.sweep()
	return s
}

// update stores a new state for an ID, clearing rendered results when the
// visitor moved off the results step.
func (s *SessionStore) update(id string, state models.WizardState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{}
		s.sessions[id] = sess
	}
	if state.Step != models.StepResults && state.Step != models.StepHelp {
		sess.results = ""
		sess.quote = ""
	}
	sess.state = state
	sess.lastSeen = time.Now()
}

// setResults stores the rendered results and quote areas
func (s *SessionStore) setResults(id string, results, quote template.HTML) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.results = results
		sess.quote = quote
	}
}

// beginFetch marks a life-expectancy fetch in flight. It reports false when
// one is already running, in which case the caller must not start another.
func (s *SessionStore) beginFetch(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	if sess.fetching {
		return false
	}
	sess.fetching = true
	return true
}

// endFetch clears the in-flight flag
func (s *SessionStore) endFetch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.fetching = false
	}
}

// snapshot returns a copy of the session for rendering
func (s *SessionStore) snapshot(id string) session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return *sess
	}
	return session{state: models.NewWizardState()}
}

// sweep periodically removes idle sessions to prevent memory growth
func (s *SessionStore) sweep() {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-s.maxIdle)
		s.mu.Lock()
		for id, sess := range s.sessions {
			if sess.lastSeen.Before(cutoff) {
				delete(s.sessions, id)
			}
		}
		s.mu.Unlock()
	}
}
