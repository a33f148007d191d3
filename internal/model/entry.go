package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecurrencePattern определяет частоту повторения записи
type RecurrencePattern string

const (
	RecurrenceDaily    RecurrencePattern = "daily"
	RecurrenceWeekly   RecurrencePattern = "weekly"
	RecurrenceBiweekly RecurrencePattern = "biweekly"
	RecurrenceMonthly  RecurrencePattern = "monthly"
)

// Weekday — индекс дня недели, 0 = понедельник, 6 = воскресенье
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// EntryType определяет тип записи расписания.
// Допустимые значения задаются конфигурацией роли, движок их не хардкодит.
type EntryType string

const (
	EntryTypeLecture           EntryType = "lecture"
	EntryTypeOfficeHours       EntryType = "office_hours"
	EntryTypeDepartmentMeeting EntryType = "department_meeting"
	EntryTypeGrading           EntryType = "grading"
	EntryTypeAdvising          EntryType = "advising"
	EntryTypeResearch          EntryType = "research"
	EntryTypeMeeting           EntryType = "meeting"
	EntryTypeCourseEvent       EntryType = "course_event"
	EntryTypeAdminTask         EntryType = "admin_task"
	EntryTypePersonal          EntryType = "personal"
)

// Ошибки валидации записи. Все обёрнуты в ErrInvalidEntry,
// чтобы вызывающий мог отфильтровать невалидные записи одним errors.Is.
var (
	ErrInvalidEntry        = errors.New("invalid schedule entry")
	ErrEndBeforeStart      = fmt.Errorf("%w: end time is not after start time", ErrInvalidEntry)
	ErrMissingPattern      = fmt.Errorf("%w: recurring entry without recurrence pattern", ErrInvalidEntry)
	ErrMissingWeekdays     = fmt.Errorf("%w: weekly recurrence without days of week", ErrInvalidEntry)
	ErrUnknownPattern      = fmt.Errorf("%w: unknown recurrence pattern", ErrInvalidEntry)
	ErrWeekdayOutOfRange   = fmt.Errorf("%w: weekday index out of range", ErrInvalidEntry)
	ErrPatternWithoutRecur = fmt.Errorf("%w: recurrence pattern set on non-recurring entry", ErrInvalidEntry)
)

// ScheduleEntry представляет запись расписания (лекция, консультация, встреча и т.д.)
type ScheduleEntry struct {
	ID                uuid.UUID         `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description,omitempty"`
	EntryType         EntryType         `json:"entry_type"`
	StartTime         time.Time         `json:"start_time"`
	EndTime           time.Time         `json:"end_time"`
	IsRecurring       bool              `json:"is_recurring"`
	RecurrencePattern RecurrencePattern `json:"recurrence_pattern,omitempty"` // обязателен если is_recurring
	DaysOfWeek        []Weekday         `json:"days_of_week,omitempty"`       // обязателен для weekly/biweekly
	Location          string            `json:"location,omitempty"`
	Color             string            `json:"color,omitempty"` // подсказка для отображения, ядром не используется
	DepartmentID      *uuid.UUID        `json:"department_id,omitempty"`
	CourseID          *uuid.UUID        `json:"course_id,omitempty"`
	IsCancelled       bool              `json:"is_cancelled"`
	IsCompleted       bool              `json:"is_completed"`
	Attendees         []uuid.UUID       `json:"attendees,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Validate проверяет временные инварианты записи.
// Чистый предикат, без побочных эффектов.
func (e *ScheduleEntry) Validate() error {
	if !e.StartTime.Before(e.EndTime) {
		return ErrEndBeforeStart
	}

	if !e.IsRecurring {
		if e.RecurrencePattern != "" {
			return ErrPatternWithoutRecur
		}
		return nil
	}

	switch e.RecurrencePattern {
	case RecurrenceDaily, RecurrenceMonthly:
		// дни недели не требуются
	case RecurrenceWeekly, RecurrenceBiweekly:
		if len(e.DaysOfWeek) == 0 {
			return ErrMissingWeekdays
		}
	case "":
		return ErrMissingPattern
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPattern, e.RecurrencePattern)
	}

	for _, d := range e.DaysOfWeek {
		if d < Monday || d > Sunday {
			return fmt.Errorf("%w: %d", ErrWeekdayOutOfRange, d)
		}
	}

	return nil
}

// Duration возвращает длительность записи
func (e *ScheduleEntry) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// HasAttendee проверяет, участвует ли пользователь в записи
func (e *ScheduleEntry) HasAttendee(id uuid.UUID) bool {
	for _, a := range e.Attendees {
		if a == id {
			return true
		}
	}
	return false
}

// Occurrence представляет конкретное вхождение записи после разворачивания
// повторений. Вхождения никогда не сохраняются — они пересчитываются
// при каждой смене окна.
type Occurrence struct {
	MasterID uuid.UUID `json:"master_id"` // ID исходной записи
	Entry    ScheduleEntry
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}
