package model

import (
	"fmt"
	"time"
)

// WeekWindow — полуоткрытое окно [Start, End) ровно в 7 дней,
// всегда привязанное к понедельнику.
type WeekWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WeekOf нормализует произвольную дату к неделе, которая её содержит:
// Start — понедельник 00:00 в локации даты, End — следующий понедельник.
func WeekOf(date time.Time) WeekWindow {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	// time.Weekday считает от воскресенья, наш индекс — от понедельника
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)

	return WeekWindow{
		Start: start,
		End:   start.AddDate(0, 0, 7),
	}
}

// Next возвращает окно следующей недели
func (w WeekWindow) Next() WeekWindow {
	return WeekWindow{
		Start: w.Start.AddDate(0, 0, 7),
		End:   w.End.AddDate(0, 0, 7),
	}
}

// Prev возвращает окно предыдущей недели
func (w WeekWindow) Prev() WeekWindow {
	return WeekWindow{
		Start: w.Start.AddDate(0, 0, -7),
		End:   w.End.AddDate(0, 0, -7),
	}
}

// Contains проверяет попадание момента в окно (полуоткрытый интервал)
func (w WeekWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Day возвращает дату дня недели по индексу (0 = понедельник, 6 = воскресенье).
// Индекс за пределами недели — ошибка программирования: окно всегда ровно 7 дней.
func (w WeekWindow) Day(index int) time.Time {
	if index < 0 || index > 6 {
		panic(fmt.Sprintf("week day index out of range: %d", index))
	}
	return w.Start.AddDate(0, 0, index)
}

// Equal сравнивает два окна
func (w WeekWindow) Equal(other WeekWindow) bool {
	return w.Start.Equal(other.Start) && w.End.Equal(other.End)
}
