package recurrence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/facultyhub/calendar_engine/internal/model"
)

func window(start, end time.Time) model.WeekWindow {
	return model.WeekWindow{Start: start, End: end}
}

func masterEntry(start, end time.Time) model.ScheduleEntry {
	return model.ScheduleEntry{
		ID:        uuid.New(),
		Title:     "Лекция",
		EntryType: model.EntryTypeLecture,
		StartTime: start,
		EndTime:   end,
	}
}

func TestExpandNonRecurring(t *testing.T) {
	e := NewExpander(zap.NewNop())

	master := masterEntry(
		time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC),
	)

	inside := model.WeekOf(master.StartTime)
	occs, err := e.Expand(master, inside)
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, master.ID, occs[0].MasterID)
	assert.Equal(t, master.StartTime, occs[0].Start)
	assert.Equal(t, master.EndTime, occs[0].End)

	outside := inside.Next()
	occs, err = e.Expand(master, outside)
	require.NoError(t, err)
	assert.Empty(t, occs)
}

func TestExpandWeekly(t *testing.T) {
	e := NewExpander(zap.NewNop())

	// Мастер: понедельник 2024-01-01 09:00–10:00, weekly по понедельникам.
	// Окно 01.01–29.01 включительно даёт ровно 5 вхождений, по одному
	// на каждый понедельник, ни одного раньше мастера.
	master := masterEntry(
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	)
	master.IsRecurring = true
	master.RecurrencePattern = model.RecurrenceWeekly
	master.DaysOfWeek = []model.Weekday{model.Monday}

	w := window(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
	)

	occs, err := e.Expand(master, w)
	require.NoError(t, err)
	require.Len(t, occs, 5)

	for i, occ := range occs {
		expected := time.Date(2024, 1, 1+7*i, 9, 0, 0, 0, time.UTC)
		assert.True(t, occ.Start.Equal(expected), "occurrence %d: got %v", i, occ.Start)
		assert.Equal(t, time.Hour, occ.End.Sub(occ.Start))
		assert.Equal(t, master.ID, occ.MasterID)
		assert.False(t, occ.Start.Before(master.StartTime))
	}
}

func TestExpandWeeklyNotBeforeMaster(t *testing.T) {
	e := NewExpander(zap.NewNop())

	// Мастер начинается в середине окна — вхождений до него нет
	master := masterEntry(
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	)
	master.IsRecurring = true
	master.RecurrencePattern = model.RecurrenceWeekly
	master.DaysOfWeek = []model.Weekday{model.Monday}

	w := window(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
	)

	occs, err := e.Expand(master, w)
	require.NoError(t, err)
	require.Len(t, occs, 3)
	assert.True(t, occs[0].Start.Equal(master.StartTime))
}

func TestExpandBiweeklyParity(t *testing.T) {
	e := NewExpander(zap.NewNop())

	// Чётность недель относительно первого вхождения мастера:
	// недели 0, 2, 4 → 01.01, 15.01, 29.01
	master := masterEntry(
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	)
	master.IsRecurring = true
	master.RecurrencePattern = model.RecurrenceBiweekly
	master.DaysOfWeek = []model.Weekday{model.Monday}

	w := window(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
	)

	occs, err := e.Expand(master, w)
	require.NoError(t, err)
	require.Len(t, occs, 3)

	expected := []int{1, 15, 29}
	for i, occ := range occs {
		assert.Equal(t, expected[i], occ.Start.Day())
	}
}

func TestExpandDaily(t *testing.T) {
	e := NewExpander(zap.NewNop())

	master := masterEntry(
		time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	)
	master.IsRecurring = true
	master.RecurrencePattern = model.RecurrenceDaily

	w := model.WeekOf(master.StartTime)

	occs, err := e.Expand(master, w)
	require.NoError(t, err)
	require.Len(t, occs, 7)

	for i, occ := range occs {
		// время внутри дня сохраняется
		assert.Equal(t, 8, occ.Start.Hour())
		assert.Equal(t, 30, occ.Start.Minute())
		assert.Equal(t, 1+i, occ.Start.Day())
	}
}

func TestExpandMonthlyDaySkip(t *testing.T) {
	e := NewExpander(zap.NewNop())

	// Мастер 31 января. В феврале и апреле 31-го числа нет —
	// эти месяцы пропускаются, а не сдвигаются
	master := masterEntry(
		time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 11, 0, 0, 0, time.UTC),
	)
	master.IsRecurring = true
	master.RecurrencePattern = model.RecurrenceMonthly

	w := window(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	)

	occs, err := e.Expand(master, w)
	require.NoError(t, err)
	require.Len(t, occs, 2)

	assert.True(t, occs[0].Start.Equal(time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)))
	assert.True(t, occs[1].Start.Equal(time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC)))
}

func TestExpandMonthlyRegularDay(t *testing.T) {
	e := NewExpander(zap.NewNop())

	master := masterEntry(
		time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC),
	)
	master.IsRecurring = true
	master.RecurrencePattern = model.RecurrenceMonthly

	w := window(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	)

	occs, err := e.Expand(master, w)
	require.NoError(t, err)
	require.Len(t, occs, 4)
}

func TestExpandWindowBoundaryHalfOpen(t *testing.T) {
	e := NewExpander(zap.NewNop())

	// Вхождение ровно в момент конца окна не попадает в выборку
	master := masterEntry(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
	)
	master.IsRecurring = true
	master.RecurrencePattern = model.RecurrenceDaily

	w := window(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	)

	occs, err := e.Expand(master, w)
	require.NoError(t, err)
	require.Len(t, occs, 2)
}

func TestExpandInvalidEntry(t *testing.T) {
	e := NewExpander(zap.NewNop())

	master := masterEntry(
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	)
	master.IsRecurring = true // паттерн не задан

	_, err := e.Expand(master, model.WeekOf(master.StartTime))
	assert.ErrorIs(t, err, model.ErrInvalidEntry)
}

func TestExpandAllSkipsInvalid(t *testing.T) {
	e := NewExpander(zap.NewNop())

	good := masterEntry(
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	)
	bad := masterEntry(
		time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), // конец раньше начала
	)

	w := model.WeekOf(good.StartTime)
	occs, skipped := e.ExpandAll([]model.ScheduleEntry{good, bad}, w)

	// плохая запись исключена, расчёт для остальных не сорван
	require.Len(t, occs, 1)
	assert.Equal(t, good.ID, occs[0].MasterID)
	require.Len(t, skipped, 1)
	assert.ErrorIs(t, skipped[0], model.ErrInvalidEntry)
}
