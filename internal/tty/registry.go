package tty

import "sync"

// registry is the concurrent SessionID -> *Session mapping described in
// spec.md's "Session Registry" component (C2). Readers clone the shared
// Session handle out of the map and drop the lock before doing any
// blocking work; writers hold the lock only for the map mutation itself.
type registry struct {
	mu       sync.RWMutex
	nextID   SessionID
	sessions map[SessionID]*Session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[SessionID]*Session)}
}

// nextSessionID reserves the next strictly-increasing SessionID under the
// write lock, so ids stay dense and monotone (I5). It takes the lock on
// its own: insert is a separate call, and the id is not in the map until
// that call is made.
func (r *registry) nextSessionID() SessionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return r.nextID
}

// insert registers a newly-spawned session.
func (r *registry) insert(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.id] = s
}

// get returns the shared Session handle for id, or ok=false.
func (r *registry) get(id SessionID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// remove performs exactly-once removal: both the explicit destroy path and
// the Lifecycle Monitor call this, and only one sees ok=true.
func (r *registry) remove(id SessionID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

// list returns a snapshot of all currently-registered session ids.
func (r *registry) list() []SessionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]SessionID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// snapshot returns a copy of all currently-registered session handles,
// used by broadcast signal delivery and Engine.Close so the lock is never
// held across a syscall.
func (r *registry) snapshot() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// count returns the number of registered sessions.
func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
