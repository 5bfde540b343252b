package model

// Snapshot is a full copy of the planner's persisted state: the three records
// of the store namespace. Holders never share slices with the live collections.
type Snapshot struct {
	Events []Event `json:"events" yaml:"events"`
	Tasks  []Task  `json:"tasks" yaml:"tasks"`
	NextID uint32  `json:"nextId" yaml:"next_id"`
}

func (s Snapshot) Clone() Snapshot {
	out := Snapshot{NextID: s.NextID}
	out.Events = CloneEvents(s.Events)
	out.Tasks = append([]Task{}, s.Tasks...)
	return out
}
