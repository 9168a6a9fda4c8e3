package quiz

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type ownerKey struct {
	userID   uuid.UUID
	lessonID int64
}

// Store keeps active sessions in memory. A user has at most one session per
// lesson; starting another replaces it. Idle sessions older than ttl are
// dropped on access, so an abandoned quiz simply disappears.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[uuid.UUID]*Session
	byOwner  map[ownerKey]uuid.UUID
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Store{
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*Session),
		byOwner:  make(map[ownerKey]uuid.UUID),
	}
}

// Put stores s and returns the id of the session it replaced, if any.
func (st *Store) Put(s *Session) (replaced uuid.UUID, ok bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	key := ownerKey{userID: s.UserID, lessonID: s.Lesson.ID}
	if old, exists := st.byOwner[key]; exists {
		delete(st.sessions, old)
		replaced, ok = old, true
	}
	st.sessions[s.ID] = s
	st.byOwner[key] = s.ID
	return replaced, ok
}

// Get returns the session if it exists, belongs to userID and has not
// expired. It refreshes the session's LastSeen.
func (st *Store) Get(id, userID uuid.UUID, now time.Time) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	if now.Sub(s.LastSeen) > st.ttl {
		st.deleteLocked(s)
		return nil, false
	}
	if s.UserID != userID {
		return nil, false
	}
	s.LastSeen = now
	return s, true
}

// Delete removes the session.
func (st *Store) Delete(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		st.deleteLocked(s)
	}
}

// Sweep drops every expired session and returns how many were removed.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	n := 0
	for _, s := range st.sessions {
		if now.Sub(s.LastSeen) > st.ttl {
			st.deleteLocked(s)
			n++
		}
	}
	return n
}

// Len is the number of stored sessions, expired ones included.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) deleteLocked(s *Session) {
	delete(st.sessions, s.ID)
	key := ownerKey{userID: s.UserID, lessonID: s.Lesson.ID}
	if st.byOwner[key] == s.ID {
		delete(st.byOwner, key)
	}
}
