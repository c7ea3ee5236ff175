// Package conversation drives manual recipe entry one user at a time.
package conversation

import (
	"sync"

	"recipe-bot/internal/core/recipe"
)

// State is where a user is in the entry flow.
type State int

const (
	StateIdle State = iota
	StateSelectingCategory
	StateAddingTitle
	StateAddingPhoto
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelectingCategory:
		return "selecting_category"
	case StateAddingTitle:
		return "adding_title"
	case StateAddingPhoto:
		return "adding_photo"
	default:
		return "unknown"
	}
}

// Session is one user's progress. Handlers mutate it in place.
type Session struct {
	UserID        int64
	State         State
	Draft         *recipe.Recipe
	Classified    []recipe.Ingredient
	PendingDelete string
}

// SessionStore owns every live session. The mutex guards the map only;
// two updates from the same user may still race on one *Session.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Get returns the user's session, creating an idle one on first use.
func (s *SessionStore) Get(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{UserID: userID, State: StateIdle}
		s.sessions[userID] = sess
	}
	return sess
}

// Reset forgets the user's session.
func (s *SessionStore) Reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
