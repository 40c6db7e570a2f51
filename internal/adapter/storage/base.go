package storage

import (
	"github.com/burenotti/go_bmi_backend/internal/domain"
	"sync"
)

type EventSource interface {
	PopEvents() []domain.Event
}

// BaseStorage remembers the aggregates a storage handed out or accepted, so
// their events can be collected once the unit of work succeeds.
type BaseStorage struct {
	DB     DBContext
	seenMu sync.Mutex
	seen   map[string]EventSource
}

func NewBaseStorage(db DBContext) *BaseStorage {
	return &BaseStorage{
		DB:   db,
		seen: make(map[string]EventSource),
	}
}

func (s *BaseStorage) MarkSeen(id string, src EventSource) {
	s.seenMu.Lock()
	s.seen[id] = src
	s.seenMu.Unlock()
}

func (s *BaseStorage) CollectEvents() []domain.Event {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()

	var events []domain.Event
	for _, src := range s.seen {
		events = append(events, src.PopEvents()...)
	}
	s.seen = make(map[string]EventSource)
	return events
}

func (s *BaseStorage) Close() {
	s.seenMu.Lock()
	s.seen = make(map[string]EventSource)
	s.seenMu.Unlock()
}
