// Package schedule generates the bookable time-of-day slots for a working
// day. It is pure: no clock, no I/O.
package schedule

import (
	"fmt"
	"time"

	"github.com/jwalitptl/booking-api/pkg/errors"
)

// SlotLayout is the time-of-day format slots are rendered in.
const SlotLayout = "15:04"

// Default working window.
const (
	DefaultStart       = "09:00"
	DefaultEnd         = "17:00"
	DefaultStepMinutes = 30
)

// Window describes a daily schedule window. Start and End are "HH:MM"
// time-of-day values; the end boundary is itself a bookable slot.
type Window struct {
	Start       string
	End         string
	StepMinutes int
}

// DefaultWindow returns the standard 09:00-17:00 window with 30-minute slots.
func DefaultWindow() Window {
	return Window{Start: DefaultStart, End: DefaultEnd, StepMinutes: DefaultStepMinutes}
}

// Slots returns the ordered sequence of slot strings from Start to End
// inclusive, advancing by StepMinutes. Degenerate windows fail instead of
// looping forever or silently returning nothing.
func (w Window) Slots() ([]string, error) {
	if w.StepMinutes <= 0 {
		return nil, errors.InvalidScheduleWindow(fmt.Sprintf("step must be positive, got %d", w.StepMinutes), nil)
	}

	start, err := time.Parse(SlotLayout, w.Start)
	if err != nil {
		return nil, errors.InvalidScheduleWindow(fmt.Sprintf("invalid window start %q", w.Start), err)
	}
	end, err := time.Parse(SlotLayout, w.End)
	if err != nil {
		return nil, errors.InvalidScheduleWindow(fmt.Sprintf("invalid window end %q", w.End), err)
	}
	if start.After(end) {
		return nil, errors.InvalidScheduleWindow(fmt.Sprintf("window start %s is after end %s", w.Start, w.End), nil)
	}

	step := time.Duration(w.StepMinutes) * time.Minute
	var slots []string
	for t := start; !t.After(end); t = t.Add(step) {
		slots = append(slots, t.Format(SlotLayout))
	}
	return slots, nil
}
