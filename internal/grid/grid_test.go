package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facultyhub/calendar_engine/internal/model"
)

func TestNewConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		start, end  int
		slotMinutes int
		wantErr     bool
	}{
		{"standard working day", 8, 20, 30, false},
		{"full day hour slots", 0, 24, 60, false},
		{"quarter slots", 9, 17, 15, false},
		{"start equals end", 9, 9, 30, true},
		{"start after end", 18, 9, 30, true},
		{"negative start", -1, 10, 30, true},
		{"end past midnight", 8, 25, 30, true},
		{"slot does not divide hour", 8, 20, 45, true},
		{"zero slot", 8, 20, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.start, tt.end, tt.slotMinutes, time.UTC)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildDayAxisGapless(t *testing.T) {
	for _, slotMinutes := range []int{15, 30, 60} {
		cfg, err := NewConfig(8, 20, slotMinutes, time.UTC)
		require.NoError(t, err)

		axis := cfg.BuildDayAxis()

		// количество слотов = (end-start)*60/slotMinutes
		assert.Len(t, axis, (20-8)*60/slotMinutes)

		// соседние слоты отличаются ровно на slotMinutes
		for i := 1; i < len(axis); i++ {
			assert.Equal(t, slotMinutes, axis[i].Minutes()-axis[i-1].Minutes(),
				"gap between slot %d and %d", i-1, i)
		}

		// первый слот начинается в StartHour, конец последнего не превышает EndHour
		assert.Equal(t, SlotTime{Hour: 8}, axis[0])
		last := axis[len(axis)-1]
		assert.LessOrEqual(t, last.Minutes()+slotMinutes, 20*60)
	}
}

func TestBuildWeekAxis(t *testing.T) {
	cfg, err := NewConfig(8, 20, 30, time.UTC)
	require.NoError(t, err)

	window := model.WeekOf(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	days := cfg.BuildWeekAxis(window)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), days[0])
	assert.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), days[6])
	for i := 1; i < 7; i++ {
		assert.Equal(t, days[i-1].AddDate(0, 0, 1), days[i])
	}
}

func TestSlotStartEnd(t *testing.T) {
	cfg, err := NewConfig(8, 20, 30, time.UTC)
	require.NoError(t, err)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	slot := SlotTime{Hour: 9, Minute: 30}

	assert.Equal(t, time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), cfg.SlotStart(day, slot))
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), cfg.SlotEnd(day, slot))
}
