package planner

import (
	"dayplanner/internal/calendar"
	"dayplanner/internal/model"

	"go.uber.org/zap"
)

func (a *App) handleDayView(k Key) bool {
	count := len(a.Agenda())
	switch k.Type {
	case KeyMenu:
		return false
	case KeyUp:
		if count > 0 && a.dayCursor > 0 {
			a.dayCursor--
		}
		return true
	case KeyDown:
		if count > 0 && a.dayCursor < count-1 {
			a.dayCursor++
		}
		return true
	case KeyLeft:
		a.current = calendar.PrevDay(a.current)
		a.dayCursor = 0
		return true
	case KeyRight:
		a.current = calendar.NextDay(a.current)
		a.dayCursor = 0
		return true
	}

	switch {
	case k.Is('a'):
		a.form = NewEventForm()
		a.editing = false
		a.editingID = 0
		a.state = StateAddEvent
	case k.Is('e'):
		if ev, ok := a.SelectedEvent(); ok {
			a.form = EventFormFrom(ev)
			a.editing = true
			a.editingID = ev.ID
			a.state = StateEditEvent
		}
	case k.Is('d'):
		if ev, ok := a.SelectedEvent(); ok {
			a.deleteTarget = &DeleteTarget{Kind: TargetEvent, ID: ev.ID}
			a.state = StateConfirmDel
		}
	case k.Is('t'):
		a.OpenView(StateTaskList)
	case k.Is('m'):
		a.OpenView(StateMonthView)
	}
	return true
}

// OpenView switches to one of the top-level views the same way the day
// view's keys do. Forms and the delete prompt can't be opened directly;
// anything else falls back to the day view.
func (a *App) OpenView(s State) {
	a.dirty = true
	switch s {
	case StateTaskList:
		a.taskCursor = 0
		a.state = StateTaskList
	case StateMonthView:
		a.month = MonthCursor{Year: a.current.Year, Month: a.current.Month, Day: a.current.Day}
		a.state = StateMonthView
	default:
		a.state = StateDayView
	}
}

func (a *App) handleTaskList(k Key) {
	count := len(a.tasks)
	switch k.Type {
	case KeyMenu, KeyLeft:
		a.state = StateDayView
		return
	case KeyUp:
		if count > 0 && a.taskCursor > 0 {
			a.taskCursor--
		}
		return
	case KeyDown:
		if count > 0 && a.taskCursor < count-1 {
			a.taskCursor++
		}
		return
	case KeyEnter:
		if a.taskCursor >= 0 && a.taskCursor < count {
			a.tasks[a.taskCursor].Done = !a.tasks[a.taskCursor].Done
			model.SortTasks(a.tasks)
			a.save("toggle-done")
		}
		return
	}

	switch {
	case k.Is('a'):
		a.taskInput = ""
		a.state = StateAddTask
	case k.Is('p'):
		if a.taskCursor >= 0 && a.taskCursor < count {
			a.tasks[a.taskCursor].Priority = a.tasks[a.taskCursor].Priority.Cycle()
			model.SortTasks(a.tasks)
			a.save("cycle-priority")
		}
	case k.Is('d'):
		if a.taskCursor >= 0 && a.taskCursor < count {
			a.deleteTarget = &DeleteTarget{Kind: TargetTask, ID: a.tasks[a.taskCursor].ID}
			a.state = StateConfirmDel
		}
	}
}

func (a *App) handleAddEvent(k Key) {
	switch a.form.HandleKey(k) {
	case FormSubmit:
		if a.form.Title != "" {
			a.AddEvent(a.current, a.form.Title, a.form.Time(), a.form.Priority)
		}
		a.state = StateDayView
	case FormAbort:
		a.state = StateDayView
	}
}

func (a *App) handleEditEvent(k Key) {
	switch a.form.HandleKey(k) {
	case FormSubmit:
		if a.editing {
			a.applyEdit(a.editingID, a.form)
		}
		a.editing = false
		a.state = StateDayView
	case FormAbort:
		a.editing = false
		a.state = StateDayView
	}
}

// applyEdit keeps the old title when the form's title was cleared; time and
// priority always take the form's values.
func (a *App) applyEdit(id uint32, f EventForm) {
	for i := range a.events {
		if a.events[i].ID != id {
			continue
		}
		if f.Title != "" {
			a.events[i].Title = f.Title
		}
		a.events[i].Time = f.Time()
		a.events[i].Priority = f.Priority
		break
	}
	a.save("edit-event")
}

func (a *App) handleAddTask(k Key) {
	switch k.Type {
	case KeyMenu:
		a.state = StateTaskList
	case KeyBackspace:
		if n := len(a.taskInput); n > 0 {
			a.taskInput = a.taskInput[:n-1]
		}
	case KeyEnter:
		if a.taskInput != "" {
			a.AddTask(a.taskInput, model.PriorityNormal)
		}
		a.state = StateTaskList
	case KeyRune:
		if r, ok := k.Printable(); ok && len(a.taskInput) < model.MaxTaskTitleLen {
			a.taskInput += string(r)
		}
	}
}

// handleConfirmDel returns to the day view on cancel even when the pending
// target was a task. That routing is long-standing behavior and is kept as is.
func (a *App) handleConfirmDel(k Key) {
	confirm := k.Type == KeyEnter || k.Is('y')
	if !confirm {
		a.deleteTarget = nil
		a.state = StateDayView
		return
	}

	target := a.deleteTarget
	a.deleteTarget = nil
	if target == nil {
		a.state = StateDayView
		return
	}

	switch target.Kind {
	case TargetEvent:
		a.events = removeEvent(a.events, target.ID)
		a.dayCursor = 0
		a.state = StateDayView
		a.save("delete-event")
	case TargetTask:
		a.tasks = removeTask(a.tasks, target.ID)
		if a.taskCursor >= len(a.tasks) {
			a.taskCursor = len(a.tasks) - 1
		}
		if a.taskCursor < 0 {
			a.taskCursor = 0
		}
		a.state = StateTaskList
		a.save("delete-task")
	}
}

func (a *App) handleMonthView(k Key) {
	dim := calendar.DaysInMonth(a.month.Year, a.month.Month)
	switch k.Type {
	case KeyMenu, KeyEnter:
		if a.month.Day >= 1 && a.month.Day <= dim {
			a.current = calendar.NewDate(a.month.Year, a.month.Month, a.month.Day)
			a.dayCursor = 0
		}
		a.state = StateDayView
		return
	case KeyLeft:
		if a.month.Day > 1 {
			a.month.Day--
		}
		return
	case KeyRight:
		if a.month.Day < dim {
			a.month.Day++
		}
		return
	case KeyUp:
		if a.month.Day > 7 {
			a.month.Day -= 7
		} else {
			a.month.Day = 1
		}
		return
	case KeyDown:
		if int(a.month.Day)+7 <= int(dim) {
			a.month.Day += 7
		} else {
			a.month.Day = dim
		}
		return
	}

	switch {
	case k.Is('['):
		a.month.Year, a.month.Month = calendar.PrevMonth(a.month.Year, a.month.Month)
		a.clampMonthDay()
	case k.Is(']'):
		a.month.Year, a.month.Month = calendar.NextMonth(a.month.Year, a.month.Month)
		a.clampMonthDay()
	}
}

func (a *App) clampMonthDay() {
	if dim := calendar.DaysInMonth(a.month.Year, a.month.Month); a.month.Day > dim {
		a.month.Day = dim
	}
}

// AddEvent allocates an id from the shared sequence, appends and persists.
// An empty title creates nothing.
func (a *App) AddEvent(date calendar.Date, title string, t *model.Time, p model.Priority) (model.Event, bool) {
	if title == "" {
		return model.Event{}, false
	}
	id, ok := a.nextID("add-event")
	if !ok {
		return model.Event{}, false
	}
	ev := model.NewEvent(id, date, model.TruncateTitle(title, model.MaxEventTitleLen))
	if t != nil {
		tt := model.NewTime(t.Hour, t.Minute)
		ev.Time = &tt
	}
	ev.Priority = p
	a.events = append(a.events, ev)
	a.log.Debug("event added", zap.Uint32("id", ev.ID), zap.Stringer("date", ev.Date))
	a.save("add-event")
	return ev.Clone(), true
}

// AddTask allocates an id from the shared sequence, appends, re-sorts and persists.
func (a *App) AddTask(title string, p model.Priority) (model.Task, bool) {
	if title == "" {
		return model.Task{}, false
	}
	id, ok := a.nextID("add-task")
	if !ok {
		return model.Task{}, false
	}
	t := model.NewTask(id, model.TruncateTitle(title, model.MaxTaskTitleLen))
	t.Priority = p
	a.tasks = append(a.tasks, t)
	model.SortTasks(a.tasks)
	a.log.Debug("task added", zap.Uint32("id", t.ID))
	a.save("add-task")
	return t, true
}

// ImportEvents appends externally sourced events with fresh ids, persisting once.
// Dates and times are clamped on the way in.
func (a *App) ImportEvents(events []model.Event) int {
	n := 0
	for _, e := range model.SanitizeEvents(events) {
		if e.Title == "" {
			continue
		}
		id, ok := a.nextID("import-events")
		if !ok {
			break
		}
		e.ID = id
		a.events = append(a.events, e)
		n++
	}
	if n > 0 {
		a.save("import-events")
	}
	return n
}

// nextID draws from the shared sequence; once it is exhausted nothing more
// can be created.
func (a *App) nextID(op string) (uint32, bool) {
	id, ok := a.ids.Next()
	if !ok {
		a.log.Warn("id space exhausted", zap.String("op", op))
	}
	return id, ok
}

func removeEvent(events []model.Event, id uint32) []model.Event {
	out := events[:0]
	for _, e := range events {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func removeTask(tasks []model.Task, id uint32) []model.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
