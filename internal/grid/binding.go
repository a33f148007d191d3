package grid

import (
	"sort"
	"time"

	"github.com/facultyhub/calendar_engine/internal/model"
)

// BoundEntry — вхождение, привязанное к конкретной ячейке сетки,
// с метаданными для отрисовки.
type BoundEntry struct {
	Occurrence model.Occurrence
	// SpanSlots — сколько последовательных слотов занимает вхождение
	SpanSlots int
	// IsRenderRoot истинен только в первом занятом слоте:
	// вхождение рисуется один раз и визуально тянется вниз
	IsRenderRoot bool
}

// WeekGrid — готовый снимок недельной сетки, достаточный для отрисовки
// без повторного вывода временной логики. Только для чтения.
type WeekGrid struct {
	Window model.WeekWindow
	Days   [7]time.Time
	Slots  []SlotTime
	// Cells[day][slot] — записи, привязанные к ячейке, в стабильном порядке
	Cells [7][][]BoundEntry
}

// EntriesInSlot возвращает вхождения, чей интервал [Start, End) пересекает
// полуоткрытый интервал слота [slotStart, slotEnd). Запись, заканчивающаяся
// ровно на границе слота, следующий слот не занимает.
func (c Config) EntriesInSlot(day time.Time, slot SlotTime, occurrences []model.Occurrence) []model.Occurrence {
	slotStart := c.SlotStart(day, slot)
	slotEnd := c.SlotEnd(day, slot)

	var result []model.Occurrence
	for _, occ := range occurrences {
		if occ.Start.Before(slotEnd) && occ.End.After(slotStart) {
			result = append(result, occ)
		}
	}

	sortOccurrences(result)
	return result
}

// SpanSlots вычисляет количество слотов, которое занимает вхождение:
// ceil(длительность / SlotMinutes), минимум 1.
func (c Config) SpanSlots(occ model.Occurrence) int {
	slotDur := time.Duration(c.SlotMinutes) * time.Minute
	span := int((occ.End.Sub(occ.Start) + slotDur - 1) / slotDur)
	if span < 1 {
		span = 1
	}
	return span
}

// Layout возвращает метаданные отрисовки вхождения внутри конкретного слота
func (c Config) Layout(day time.Time, slot SlotTime, occ model.Occurrence) BoundEntry {
	slotStart := c.SlotStart(day, slot)
	slotEnd := c.SlotEnd(day, slot)

	// Корень отрисовки — слот, содержащий начало вхождения. Если вхождение
	// начинается раньше видимой оси, корнем становится первый занятый слот.
	isRoot := !occ.Start.Before(slotStart) && occ.Start.Before(slotEnd)
	axisStart := c.SlotStart(day, SlotTime{Hour: c.StartHour})
	if occ.Start.Before(axisStart) && slotStart.Equal(axisStart) {
		isRoot = true
	}

	return BoundEntry{
		Occurrence:   occ,
		SpanSlots:    c.SpanSlots(occ),
		IsRenderRoot: isRoot,
	}
}

// BindWeek раскладывает вхождения по ячейкам (день, слот) недельной сетки.
// Результат детерминирован: для одних и тех же входов порядок всегда одинаков.
// Пересекающиеся записи сохраняются все — разрешение наложений остаётся
// за отрисовщиком.
func (c Config) BindWeek(window model.WeekWindow, occurrences []model.Occurrence) WeekGrid {
	g := WeekGrid{
		Window: window,
		Days:   c.BuildWeekAxis(window),
		Slots:  c.BuildDayAxis(),
	}

	for d := 0; d < 7; d++ {
		g.Cells[d] = make([][]BoundEntry, len(g.Slots))
		for s, slot := range g.Slots {
			inSlot := c.EntriesInSlot(g.Days[d], slot, occurrences)
			if len(inSlot) == 0 {
				continue
			}
			bound := make([]BoundEntry, 0, len(inSlot))
			for _, occ := range inSlot {
				bound = append(bound, c.Layout(g.Days[d], slot, occ))
			}
			g.Cells[d][s] = bound
		}
	}

	return g
}

// sortOccurrences сортирует вхождения по началу, затем по ID мастера —
// стабильный порядок для отрисовки
func sortOccurrences(occs []model.Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		if !occs[i].Start.Equal(occs[j].Start) {
			return occs[i].Start.Before(occs[j].Start)
		}
		return occs[i].MasterID.String() < occs[j].MasterID.String()
	})
}
