package planner

import (
	"context"

	"dayplanner/internal/calendar"
	"dayplanner/internal/model"

	"go.uber.org/zap"
)

type State int

const (
	StateDayView State = iota
	StateTaskList
	StateAddEvent
	StateEditEvent
	StateAddTask
	StateConfirmDel
	StateMonthView
)

// ParseView maps a remembered view name (day|tasks|month) back to its state.
func ParseView(name string) (State, bool) {
	switch name {
	case "day":
		return StateDayView, true
	case "tasks":
		return StateTaskList, true
	case "month":
		return StateMonthView, true
	default:
		return StateDayView, false
	}
}

func (s State) String() string {
	switch s {
	case StateDayView:
		return "day"
	case StateTaskList:
		return "tasks"
	case StateAddEvent:
		return "add-event"
	case StateEditEvent:
		return "edit-event"
	case StateAddTask:
		return "add-task"
	case StateConfirmDel:
		return "confirm-delete"
	case StateMonthView:
		return "month"
	default:
		return "unknown"
	}
}

type TargetKind int

const (
	TargetEvent TargetKind = iota
	TargetTask
)

// DeleteTarget is the single pending delete awaiting confirmation.
type DeleteTarget struct {
	Kind TargetKind
	ID   uint32
}

// MonthCursor is the month view's displayed month and highlighted day.
type MonthCursor struct {
	Year  uint16
	Month uint8
	Day   uint8
}

// Persister receives a full snapshot after every structural mutation.
type Persister interface {
	Save(ctx context.Context, snap model.Snapshot) error
}

// App is the planner state machine. It exclusively owns the event and task
// collections; callers get copies through the accessors.
//
// App is not safe for concurrent use. One key is handled to completion before the next.
type App struct {
	state State
	dirty bool

	current calendar.Date
	events  []model.Event
	tasks   []model.Task
	ids     *model.IDSequence

	dayCursor  int
	taskCursor int

	form      EventForm
	editingID uint32
	editing   bool

	taskInput string

	deleteTarget *DeleteTarget

	month MonthCursor

	persist Persister
	log     *zap.Logger
}

// New builds an App positioned on start in the day view. snap is copied.
// A nil persister disables saving; a nil logger discards logs.
func New(start calendar.Date, snap model.Snapshot, p Persister, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	snap = snap.Clone()
	ids := model.NewIDSequence(snap.NextID)
	ids.Observe(model.MaxID(snap.Events, snap.Tasks))
	model.SortTasks(snap.Tasks)

	return &App{
		state:   StateDayView,
		dirty:   true,
		current: start,
		events:  snap.Events,
		tasks:   snap.Tasks,
		ids:     ids,
		form:    NewEventForm(),
		month:   MonthCursor{Year: start.Year, Month: start.Month, Day: start.Day},
		persist: p,
		log:     log,
	}
}

// HandleKey dispatches one key to the active view. It returns false only when
// the user asked to quit from the day view.
func (a *App) HandleKey(k Key) bool {
	a.dirty = true
	switch a.state {
	case StateDayView:
		return a.handleDayView(k)
	case StateTaskList:
		a.handleTaskList(k)
	case StateAddEvent:
		a.handleAddEvent(k)
	case StateEditEvent:
		a.handleEditEvent(k)
	case StateAddTask:
		a.handleAddTask(k)
	case StateConfirmDel:
		a.handleConfirmDel(k)
	case StateMonthView:
		a.handleMonthView(k)
	}
	return true
}

// Snapshot copies the persisted state.
func (a *App) Snapshot() model.Snapshot {
	return model.Snapshot{
		Events: model.CloneEvents(a.events),
		Tasks:  append([]model.Task{}, a.tasks...),
		NextID: a.ids.Peek(),
	}
}

// Flush saves the full state regardless of what changed (shutdown, focus loss).
func (a *App) Flush() error {
	if a.persist == nil {
		return nil
	}
	return a.persist.Save(context.Background(), a.Snapshot())
}

// save is best-effort: a failed write is logged and the in-memory state stays authoritative.
func (a *App) save(reason string) {
	if a.persist == nil {
		return
	}
	if err := a.persist.Save(context.Background(), a.Snapshot()); err != nil {
		a.log.Warn("persist failed", zap.String("reason", reason), zap.Error(err))
		return
	}
	a.log.Debug("persisted",
		zap.String("reason", reason),
		zap.Int("events", len(a.events)),
		zap.Int("tasks", len(a.tasks)),
		zap.Uint32("next_id", a.ids.Peek()),
	)
}

func (a *App) State() State { return a.state }

func (a *App) Dirty() bool { return a.dirty }

func (a *App) ClearDirty() { a.dirty = false }

func (a *App) CurrentDate() calendar.Date { return a.current }

func (a *App) DayCursor() int { return a.dayCursor }

func (a *App) TaskCursor() int { return a.taskCursor }

func (a *App) Form() EventForm { return a.form }

// EditingID reports the event being edited, if the edit view is active.
func (a *App) EditingID() (uint32, bool) { return a.editingID, a.editing }

func (a *App) TaskInput() string { return a.taskInput }

func (a *App) Month() MonthCursor { return a.month }

func (a *App) DeleteTarget() (DeleteTarget, bool) {
	if a.deleteTarget == nil {
		return DeleteTarget{}, false
	}
	return *a.deleteTarget, true
}

// Agenda is the ordered event list for the current date.
func (a *App) Agenda() []model.Event {
	return model.EventsForDate(a.events, a.current)
}

func (a *App) Events() []model.Event { return model.CloneEvents(a.events) }

func (a *App) Tasks() []model.Task { return append([]model.Task{}, a.tasks...) }

func (a *App) EventCountFor(d calendar.Date) int { return model.EventCountFor(a.events, d) }

func (a *App) PendingTaskCount() int { return model.PendingTaskCount(a.tasks) }

func (a *App) NextID() uint32 { return a.ids.Peek() }

// IDsExhausted reports that no further event or task can be created.
func (a *App) IDsExhausted() bool { return a.ids.Exhausted() }

// FindEvent looks up a live event by id.
func (a *App) FindEvent(id uint32) (model.Event, bool) {
	for _, e := range a.events {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return model.Event{}, false
}

func (a *App) FindTask(id uint32) (model.Task, bool) {
	for _, t := range a.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// SelectedEvent is the agenda row under the day cursor.
func (a *App) SelectedEvent() (model.Event, bool) {
	agenda := a.Agenda()
	if a.dayCursor < 0 || a.dayCursor >= len(agenda) {
		return model.Event{}, false
	}
	return agenda[a.dayCursor], true
}

func (a *App) SelectedTask() (model.Task, bool) {
	if a.taskCursor < 0 || a.taskCursor >= len(a.tasks) {
		return model.Task{}, false
	}
	return a.tasks[a.taskCursor], true
}
