// Package mapping owns the durable user → topic mapping. All access goes
// through Store; mutations hold one lock across the read-modify-write-persist
// sequence so concurrent handlers cannot interleave partial state into the
// backing file.
package mapping

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/Germiningeld/topicbridge/internal/fsstore"
)

// Store maps Telegram user ids to forum topic ids and keeps a reverse index
// in sync under the same lock. Every successful Put is persisted
// synchronously so a restart recovers the full mapping.
type Store struct {
	mu      sync.RWMutex
	path    string
	logger  *slog.Logger
	byUser  map[int64]int64
	byTopic map[int64]int64
}

func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:    path,
		logger:  logger,
		byUser:  make(map[int64]int64),
		byTopic: make(map[int64]int64),
	}
}

// Load reads the persisted mapping. Missing or malformed state yields an
// empty store: a broken file must never keep the bridge from starting.
func (s *Store) Load() {
	var raw map[string]int64
	ok, err := fsstore.ReadJSON(s.path, &raw)
	if err != nil {
		s.logger.Warn("mapping_load_error", "path", s.path, "error", err.Error())
		return
	}
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, topicID := range raw {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			s.logger.Warn("mapping_load_bad_key", "path", s.path, "key", key)
			continue
		}
		s.byUser[userID] = topicID
		s.byTopic[topicID] = userID
	}
	s.logger.Info("mapping_loaded", "path", s.path, "entries", len(s.byUser))
}

func (s *Store) Get(userID int64) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	topicID, ok := s.byUser[userID]
	return topicID, ok
}

// UserByTopic is the reverse lookup used by the outbound router.
func (s *Store) UserByTopic(topicID int64) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byTopic[topicID]
	return userID, ok
}

// Put records userID → topicID and persists the whole mapping. A persist
// failure is logged, not returned: the in-memory entry stays live and the
// relay keeps going, at the cost of losing that entry on a crash before the
// next successful save.
func (s *Store) Put(userID, topicID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byUser[userID]; ok {
		delete(s.byTopic, old)
	}
	s.byUser[userID] = topicID
	s.byTopic[topicID] = userID
	s.saveLocked()
}

// Rebind re-points an already mapped user at a new topic, for operator
// recovery when a topic was deleted or archived. It reports false when the
// user has no mapping to replace.
func (s *Store) Rebind(userID, newTopicID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.byUser[userID]
	if !ok {
		return false
	}
	delete(s.byTopic, old)
	s.byUser[userID] = newTopicID
	s.byTopic[newTopicID] = userID
	s.saveLocked()
	return true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUser)
}

// saveLocked serializes the forward mapping as a JSON object of string user
// id → topic id, the same layout the reference implementation persisted.
// Callers must hold s.mu.
func (s *Store) saveLocked() {
	raw := make(map[string]int64, len(s.byUser))
	for userID, topicID := range s.byUser {
		raw[strconv.FormatInt(userID, 10)] = topicID
	}
	if err := fsstore.WriteJSONAtomic(s.path, raw, fsstore.FileOptions{}); err != nil {
		s.logger.Error("mapping_save_error", "path", s.path, "error", err.Error())
	}
}
