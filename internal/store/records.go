package store

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"dayplanner/internal/model"
)

// Records is the planner's persistence contract: three keys in one namespace.
// Loads never fail; missing or unparseable values come back as defaults.
type Records interface {
	LoadEvents(ctx context.Context) []model.Event
	LoadTasks(ctx context.Context) []model.Task
	LoadNextID(ctx context.Context) uint32

	SaveEvents(ctx context.Context, events []model.Event) error
	SaveTasks(ctx context.Context, tasks []model.Task) error
	SaveNextID(ctx context.Context, next uint32) error
}

// snapshotSaver is implemented by backends that can write all three keys atomically.
type snapshotSaver interface {
	SaveSnapshot(ctx context.Context, snap model.Snapshot) error
}

// Load reads the full snapshot through r.
func Load(ctx context.Context, r Records) model.Snapshot {
	return model.Snapshot{
		Events: r.LoadEvents(ctx),
		Tasks:  r.LoadTasks(ctx),
		NextID: r.LoadNextID(ctx),
	}
}

// Save writes all three keys, atomically when the backend supports it.
func Save(ctx context.Context, r Records, snap model.Snapshot) error {
	if s, ok := r.(snapshotSaver); ok {
		return s.SaveSnapshot(ctx, snap)
	}
	if err := r.SaveEvents(ctx, snap.Events); err != nil {
		return err
	}
	if err := r.SaveTasks(ctx, snap.Tasks); err != nil {
		return err
	}
	return r.SaveNextID(ctx, snap.NextID)
}

// Persister adapts a Records backend to the planner's save hook.
type Persister struct {
	Records Records
}

func (p Persister) Save(ctx context.Context, snap model.Snapshot) error {
	return Save(ctx, p.Records, snap)
}

func encodeEvents(events []model.Event) ([]byte, error) {
	if events == nil {
		events = []model.Event{}
	}
	return json.Marshal(events)
}

func encodeTasks(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return json.Marshal(tasks)
}

func encodeNextID(next uint32) []byte {
	return []byte(strconv.FormatUint(uint64(next), 10))
}

func decodeEvents(raw []byte) []model.Event {
	var events []model.Event
	if len(raw) == 0 || json.Unmarshal(raw, &events) != nil {
		return []model.Event{}
	}
	return model.SanitizeEvents(events)
}

func decodeTasks(raw []byte) []model.Task {
	var tasks []model.Task
	if len(raw) == 0 || json.Unmarshal(raw, &tasks) != nil {
		return []model.Task{}
	}
	return model.SanitizeTasks(tasks)
}

func decodeNextID(raw []byte) uint32 {
	n, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 32)
	if err != nil || n == 0 {
		return 1
	}
	return uint32(n)
}
