package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/pkg/errors"
)

func TestDefaultWindowSlots(t *testing.T) {
	slots, err := DefaultWindow().Slots()
	require.NoError(t, err)

	assert.Len(t, slots, 17)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "17:00", slots[16])
}

func TestSlotsSpacingAndOrder(t *testing.T) {
	w := Window{Start: "08:15", End: "11:00", StepMinutes: 45}
	slots, err := w.Slots()
	require.NoError(t, err)

	assert.Equal(t, []string{"08:15", "09:00", "09:45", "10:30"}, slots)

	for i := 1; i < len(slots); i++ {
		prev, err := time.Parse(SlotLayout, slots[i-1])
		require.NoError(t, err)
		cur, err := time.Parse(SlotLayout, slots[i])
		require.NoError(t, err)
		assert.Equal(t, 45*time.Minute, cur.Sub(prev))
	}
}

func TestSlotsEndBoundaryInclusive(t *testing.T) {
	w := Window{Start: "09:00", End: "10:00", StepMinutes: 30}
	slots, err := w.Slots()
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, slots)
}

func TestSlotsSingleSlotWindow(t *testing.T) {
	w := Window{Start: "09:00", End: "09:00", StepMinutes: 30}
	slots, err := w.Slots()
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, slots)
}

func TestSlotsDegenerateWindows(t *testing.T) {
	cases := []struct {
		name string
		w    Window
	}{
		{"zero step", Window{Start: "09:00", End: "17:00", StepMinutes: 0}},
		{"negative step", Window{Start: "09:00", End: "17:00", StepMinutes: -30}},
		{"start after end", Window{Start: "17:00", End: "09:00", StepMinutes: 30}},
		{"bad start", Window{Start: "9am", End: "17:00", StepMinutes: 30}},
		{"bad end", Window{Start: "09:00", End: "25:99", StepMinutes: 30}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slots, err := tc.w.Slots()
			require.Error(t, err)
			assert.Nil(t, slots)
			assert.True(t, errors.HasCode(err, errors.ErrInvalidScheduleWindow))
		})
	}
}
