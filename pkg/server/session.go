package server

import (
	"sync"
)

// Session represents a live, authenticated client connection: the binding
// between a connection and a username.
type Session struct {
	ID         uint64
	Username   string
	Conn       *SafeConn
	RemoteAddr string
	Transport  string // "tcp" or "ws"
}

// SessionManager owns the session set and the username index as a single
// aggregate behind one lock. Registration, deregistration, and resolve all
// touch both maps; guarding them together means no caller ever orders two
// lock acquisitions, which removes the circular-wait hazard outright.
//
// Invariant: byUsername is the exact reverse of the username column of
// sessions. Every entry points at a session in the map, and every session in
// the map holds the index entry for its username - except in the eviction
// window where a newer session for the same username has taken the entry over.
type SessionManager struct {
	mu         sync.RWMutex
	sessions   map[uint64]*Session
	byUsername map[string]*Session
	nextID     uint64
	metrics    *Metrics
}

// NewSessionManager creates an empty session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions:   make(map[uint64]*Session),
		byUsername: make(map[string]*Session),
		nextID:     1,
	}
}

// SetMetrics attaches metrics to the session manager.
func (sm *SessionManager) SetMetrics(metrics *Metrics) {
	sm.metrics = metrics
}

// Register creates a session for an authenticated connection and installs it
// in both maps. If the username already had a live session, that session is
// removed from the registry and returned so the caller can notify and close
// it - the design allows one session per username, and a fresh login wins
// over a possibly half-dead old connection.
func (sm *SessionManager) Register(username string, conn *SafeConn, transportName string) (sess, evicted *Session) {
	sess = &Session{
		Username:   username,
		Conn:       conn,
		RemoteAddr: conn.RemoteAddr().String(),
		Transport:  transportName,
	}

	sm.mu.Lock()
	sess.ID = sm.nextID
	sm.nextID++
	if prior, ok := sm.byUsername[username]; ok {
		delete(sm.sessions, prior.ID)
		evicted = prior
	}
	sm.sessions[sess.ID] = sess
	sm.byUsername[username] = sess
	count := len(sm.sessions)
	sm.mu.Unlock()

	if sm.metrics != nil {
		sm.metrics.SetActiveSessions(count)
	}
	return sess, evicted
}

// Remove deregisters a session. It reports whether the session was still the
// index holder for its username; an evicted session finds its index entry
// already owned by its successor and must not tear down that user's state.
func (sm *SessionManager) Remove(sessionID uint64) bool {
	sm.mu.Lock()
	sess, ok := sm.sessions[sessionID]
	current := false
	if ok {
		delete(sm.sessions, sessionID)
		if sm.byUsername[sess.Username] == sess {
			delete(sm.byUsername, sess.Username)
			current = true
		}
	}
	count := len(sm.sessions)
	sm.mu.Unlock()

	if ok && sm.metrics != nil {
		sm.metrics.SetActiveSessions(count)
	}
	return current
}

// Resolve looks up the live session for a username.
func (sm *SessionManager) Resolve(username string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sess, ok := sm.byUsername[username]
	return sess, ok
}

// Snapshot returns all live sessions. Callers iterate the copy outside the
// lock, so a slow recipient never stalls the registry.
func (sm *SessionManager) Snapshot() []*Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sessions := make([]*Session, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		sessions = append(sessions, sess)
	}
	return sessions
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// CloseAll closes every connection and empties the registry. Used during
// shutdown after the listener has stopped accepting.
func (sm *SessionManager) CloseAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for _, sess := range sm.sessions {
		sess.Conn.Close()
	}
	sm.sessions = make(map[uint64]*Session)
	sm.byUsername = make(map[string]*Session)
}
