package store

import (
	"context"
	"sync"

	"dayplanner/internal/model"
)

// MemRecords is an in-process Records backend (tests and --ephemeral runs).
// Values go through the same encoding as SQLiteRecords.
type MemRecords struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemRecords() *MemRecords {
	return &MemRecords{data: map[string][]byte{}}
}

func (m *MemRecords) get(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data[key]...)
}

func (m *MemRecords) PutRaw(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = append([]byte(nil), value...)
}

func (m *MemRecords) LoadEvents(context.Context) []model.Event { return decodeEvents(m.get(KeyEvents)) }

func (m *MemRecords) LoadTasks(context.Context) []model.Task { return decodeTasks(m.get(KeyTasks)) }

func (m *MemRecords) LoadNextID(context.Context) uint32 { return decodeNextID(m.get(KeyNextID)) }

func (m *MemRecords) SaveEvents(_ context.Context, events []model.Event) error {
	b, err := encodeEvents(events)
	if err != nil {
		return err
	}
	m.PutRaw(KeyEvents, b)
	return nil
}

func (m *MemRecords) SaveTasks(_ context.Context, tasks []model.Task) error {
	b, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	m.PutRaw(KeyTasks, b)
	return nil
}

func (m *MemRecords) SaveNextID(_ context.Context, next uint32) error {
	m.PutRaw(KeyNextID, encodeNextID(next))
	return nil
}
