package session

import (
	"container/list"
	"sync"
	"time"
)

// Store is the process-wide session table: TTL per entry and size-based LRU
// eviction so abandoned dialogues do not accumulate.
type Store struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[int64]*list.Element
	lru     *list.List
}

type storeItem struct {
	userID    int64
	sess      Session
	expiresAt time.Time
}

// NewStore creates a session store with the given capacity and entry TTL.
func NewStore(maxSize int, ttl time.Duration) *Store {
	return &Store{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[int64]*list.Element),
		lru:     list.New(),
	}
}

// Get returns the user's session if present and not expired.
func (s *Store) Get(userID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, exists := s.items[userID]
	if !exists {
		return Session{}, false
	}

	item := elem.Value.(*storeItem)
	if time.Now().After(item.expiresAt) {
		s.removeElement(elem)
		return Session{}, false
	}

	s.lru.MoveToFront(elem)
	return item.sess, true
}

// Put stores the session and refreshes its TTL.
func (s *Store) Put(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := &storeItem{
		userID:    sess.UserID,
		sess:      sess,
		expiresAt: time.Now().Add(s.ttl),
	}

	if elem, exists := s.items[sess.UserID]; exists {
		elem.Value = item
		s.lru.MoveToFront(elem)
		return
	}

	elem := s.lru.PushFront(item)
	s.items[sess.UserID] = elem

	if s.lru.Len() > s.maxSize {
		oldest := s.lru.Back()
		if oldest != nil {
			s.removeElement(oldest)
		}
	}
}

// Delete removes the user's session, ending the conversation.
func (s *Store) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, exists := s.items[userID]; exists {
		s.removeElement(elem)
	}
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

func (s *Store) removeElement(elem *list.Element) {
	item := elem.Value.(*storeItem)
	delete(s.items, item.userID)
	s.lru.Remove(elem)
}
