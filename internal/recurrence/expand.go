package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/facultyhub/calendar_engine/internal/model"
)

// maxOccurrencesPerMaster — защитный предел, чтобы некорректное правило
// не раздуло разворачивание
const maxOccurrencesPerMaster = 1000

// Expander разворачивает повторяющиеся записи в конкретные вхождения
type Expander struct {
	logger *zap.Logger
}

// NewExpander создаёт новый разворачиватель повторений
func NewExpander(logger *zap.Logger) *Expander {
	return &Expander{logger: logger}
}

// Expand возвращает вхождения записи, попадающие в окно [window.Start, window.End).
// Для неповторяющейся записи это сама запись, если её начало внутри окна.
// Вхождения — независимые read-only экземпляры со ссылкой на ID мастера.
func (e *Expander) Expand(master model.ScheduleEntry, window model.WeekWindow) ([]model.Occurrence, error) {
	if err := master.Validate(); err != nil {
		return nil, err
	}

	if !master.IsRecurring {
		if !window.Contains(master.StartTime) {
			return nil, nil
		}
		return []model.Occurrence{makeOccurrence(master, master.StartTime)}, nil
	}

	opt, err := ruleOption(master)
	if err != nil {
		return nil, err
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build recurrence rule: %w", err)
	}

	// Переводим окно в локацию мастера, чтобы границы недели
	// сравнивались в его собственном времени. Between включает обе границы,
	// окно полуоткрытое — поэтому правую границу сдвигаем на секунду.
	loc := master.StartTime.Location()
	rangeStart := window.Start.In(loc)
	rangeEnd := window.End.In(loc).Add(-time.Second)

	starts := rule.Between(rangeStart, rangeEnd, true)
	if len(starts) > maxOccurrencesPerMaster {
		e.logger.Warn("Recurrence expansion truncated",
			zap.String("entry_id", master.ID.String()),
			zap.Int("cap", maxOccurrencesPerMaster))
		starts = starts[:maxOccurrencesPerMaster]
	}

	// Дедупликация: одно вхождение на (мастер, момент)
	seen := make(map[int64]struct{}, len(starts))
	occurrences := make([]model.Occurrence, 0, len(starts))
	for _, start := range starts {
		key := start.Unix()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		occurrences = append(occurrences, makeOccurrence(master, start))
	}

	return occurrences, nil
}

// ExpandAll разворачивает пакет записей. Невалидные записи исключаются
// и возвращаются отдельно — одна плохая запись не срывает расчёт сетки.
func (e *Expander) ExpandAll(entries []model.ScheduleEntry, window model.WeekWindow) ([]model.Occurrence, []error) {
	var all []model.Occurrence
	var skipped []error

	for _, entry := range entries {
		occs, err := e.Expand(entry, window)
		if err != nil {
			e.logger.Warn("Skipping entry in expansion",
				zap.String("entry_id", entry.ID.String()),
				zap.Error(err))
			skipped = append(skipped, fmt.Errorf("entry %s: %w", entry.ID, err))
			continue
		}
		all = append(all, occs...)
	}

	return all, skipped
}

// ruleOption переводит паттерн повторения записи в rrule.ROption.
// DTSTART равен началу мастера, поэтому вхождений раньше его собственной
// даты не возникает; чётность biweekly считается от первой недели мастера.
func ruleOption(master model.ScheduleEntry) (rrule.ROption, error) {
	opt := rrule.ROption{
		Dtstart: master.StartTime,
	}

	switch master.RecurrencePattern {
	case model.RecurrenceDaily:
		opt.Freq = rrule.DAILY
	case model.RecurrenceWeekly:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = ruleWeekdays(master.DaysOfWeek)
	case model.RecurrenceBiweekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 2
		opt.Byweekday = ruleWeekdays(master.DaysOfWeek)
	case model.RecurrenceMonthly:
		// Месяц без нужного числа (31-е в феврале) пропускается, не сдвигается —
		// стандартная семантика FREQ=MONTHLY с якорем на дне DTSTART
		opt.Freq = rrule.MONTHLY
	default:
		return opt, fmt.Errorf("%w: %q", model.ErrUnknownPattern, master.RecurrencePattern)
	}

	return opt, nil
}

// ruleWeekdays переводит индексы дней недели (0 = понедельник) в константы rrule
func ruleWeekdays(days []model.Weekday) []rrule.Weekday {
	table := [7]rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

	out := make([]rrule.Weekday, 0, len(days))
	for _, d := range days {
		if d >= model.Monday && d <= model.Sunday {
			out = append(out, table[d])
		}
	}
	return out
}

// makeOccurrence создаёт вхождение с длительностью мастера
func makeOccurrence(master model.ScheduleEntry, start time.Time) model.Occurrence {
	return model.Occurrence{
		MasterID: master.ID,
		Entry:    master,
		Start:    start,
		End:      start.Add(master.Duration()),
	}
}
