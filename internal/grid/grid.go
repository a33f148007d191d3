package grid

import (
	"errors"
	"fmt"
	"time"

	"github.com/facultyhub/calendar_engine/internal/model"
)

// ErrInvalidConfiguration — параметры сетки нарушают ограничения.
// Фатальна при создании, в процессе работы не возникает.
var ErrInvalidConfiguration = errors.New("invalid grid configuration")

// Config определяет временную сетку одного дня
type Config struct {
	StartHour   int // первый отображаемый час, 0-23
	EndHour     int // час окончания сетки, 1-24
	SlotMinutes int // длительность слота, должна делить 60 нацело
	Location    *time.Location
}

// NewConfig валидирует параметры и возвращает конфигурацию сетки
func NewConfig(startHour, endHour, slotMinutes int, loc *time.Location) (Config, error) {
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return Config{}, fmt.Errorf("%w: hours must satisfy 0 <= start < end <= 24, got %d..%d",
			ErrInvalidConfiguration, startHour, endHour)
	}
	if slotMinutes <= 0 || 60%slotMinutes != 0 {
		return Config{}, fmt.Errorf("%w: slot minutes must divide 60 evenly, got %d",
			ErrInvalidConfiguration, slotMinutes)
	}
	if loc == nil {
		loc = time.UTC
	}

	return Config{
		StartHour:   startHour,
		EndHour:     endHour,
		SlotMinutes: slotMinutes,
		Location:    loc,
	}, nil
}

// SlotTime — время начала слота внутри дня
type SlotTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Minutes возвращает смещение слота от полуночи в минутах
func (s SlotTime) Minutes() int {
	return s.Hour*60 + s.Minute
}

// SlotCount возвращает количество слотов в дне
func (c Config) SlotCount() int {
	return (c.EndHour - c.StartHour) * 60 / c.SlotMinutes
}

// BuildDayAxis строит упорядоченную ось слотов одного дня.
// Ось полная и без пропусков: соседние слоты отличаются ровно на SlotMinutes,
// конец последнего слота не превышает EndHour.
func (c Config) BuildDayAxis() []SlotTime {
	slots := make([]SlotTime, 0, c.SlotCount())
	for m := c.StartHour * 60; m < c.EndHour*60; m += c.SlotMinutes {
		slots = append(slots, SlotTime{Hour: m / 60, Minute: m % 60})
	}
	return slots
}

// BuildWeekAxis возвращает семь последовательных дат недели, начиная с понедельника
func (c Config) BuildWeekAxis(window model.WeekWindow) [7]time.Time {
	var days [7]time.Time
	for i := range days {
		days[i] = window.Day(i)
	}
	return days
}

// SlotStart возвращает абсолютный момент начала слота в заданный день
func (c Config) SlotStart(day time.Time, slot SlotTime) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), slot.Hour, slot.Minute, 0, 0, c.Location)
}

// SlotEnd возвращает абсолютный момент конца слота (полуоткрытый интервал)
func (c Config) SlotEnd(day time.Time, slot SlotTime) time.Time {
	return c.SlotStart(day, slot).Add(time.Duration(c.SlotMinutes) * time.Minute)
}
