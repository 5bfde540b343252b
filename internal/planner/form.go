package planner

import "dayplanner/internal/model"

// Field is the event form's field cursor.
type Field int

const (
	FieldTitle Field = iota
	FieldHour
	FieldMinute
	FieldPriority
)

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldHour:
		return "hour"
	case FieldMinute:
		return "minute"
	case FieldPriority:
		return "priority"
	default:
		return "unknown"
	}
}

// FormSignal is what the form reports back after a key. Submit and abort are
// consumed by the owning state (add or edit); the form never acts on them.
type FormSignal int

const (
	FormContinue FormSignal = iota
	FormSubmit
	FormAbort
)

const (
	defaultFormHour   = 9
	defaultFormMinute = 0
	minuteStep        = 5
)

// EventForm is the field editor shared by the add-event and edit-event views.
type EventForm struct {
	Title    string
	Hour     uint8
	Minute   uint8
	HasTime  bool
	Priority model.Priority
	Field    Field
}

func NewEventForm() EventForm {
	return EventForm{
		Hour:     defaultFormHour,
		Minute:   defaultFormMinute,
		HasTime:  true,
		Priority: model.PriorityNormal,
		Field:    FieldTitle,
	}
}

// EventFormFrom loads an existing event. All-day events keep the default 09:00
// in the hidden time fields so toggling the time back on starts somewhere sensible.
func EventFormFrom(e model.Event) EventForm {
	f := NewEventForm()
	f.Title = e.Title
	f.Priority = e.Priority
	f.HasTime = e.Time != nil
	if e.Time != nil {
		f.Hour = e.Time.Hour
		f.Minute = e.Time.Minute
	}
	return f
}

// Time is nil when the form is set to all-day.
func (f EventForm) Time() *model.Time {
	if !f.HasTime {
		return nil
	}
	t := model.NewTime(f.Hour, f.Minute)
	return &t
}

func (f *EventForm) HandleKey(k Key) FormSignal {
	switch k.Type {
	case KeyMenu:
		return FormAbort
	case KeyEnter:
		return FormSubmit
	}

	switch f.Field {
	case FieldTitle:
		f.handleTitle(k)
	case FieldHour:
		f.handleHour(k)
	case FieldMinute:
		f.handleMinute(k)
	case FieldPriority:
		f.handlePriority(k)
	}
	return FormContinue
}

func (f *EventForm) handleTitle(k Key) {
	switch k.Type {
	case KeyBackspace:
		if n := len(f.Title); n > 0 {
			f.Title = f.Title[:n-1]
		}
	case KeyDown:
		f.Field = FieldHour
	case KeyRune:
		if r, ok := k.Printable(); ok && len(f.Title) < model.MaxEventTitleLen {
			f.Title += string(r)
		}
	}
}

func (f *EventForm) handleHour(k Key) {
	switch k.Type {
	case KeyUp:
		f.Field = FieldTitle
	case KeyDown:
		f.Field = FieldMinute
	case KeyLeft:
		if f.Hour > 0 {
			f.Hour--
		} else {
			f.Hour = 23
		}
	case KeyRight:
		if f.Hour < 23 {
			f.Hour++
		} else {
			f.Hour = 0
		}
	case KeyRune:
		if k.Rune == ' ' {
			f.HasTime = !f.HasTime
		}
	}
}

func (f *EventForm) handleMinute(k Key) {
	switch k.Type {
	case KeyUp:
		f.Field = FieldHour
	case KeyDown:
		f.Field = FieldPriority
	case KeyLeft:
		if f.Minute >= minuteStep {
			f.Minute -= minuteStep
		} else {
			f.Minute = 60 - minuteStep
		}
	case KeyRight:
		if f.Minute < 60-minuteStep {
			f.Minute += minuteStep
		} else {
			f.Minute = 0
		}
	}
}

func (f *EventForm) handlePriority(k Key) {
	switch k.Type {
	case KeyUp:
		f.Field = FieldMinute
	case KeyLeft, KeyRight:
		f.Priority = f.Priority.Cycle()
	case KeyRune:
		if k.Rune == ' ' {
			f.Priority = f.Priority.Cycle()
		}
	}
}
