package render

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/facultyhub/calendar_engine/internal/grid"
	"github.com/facultyhub/calendar_engine/internal/model"
)

// Константы размеров и отступов
const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	leftLabelsWidth = 80
	dayPaddingX     = 6
	slotPaddingY    = 1.5
	totalDaysInWeek = 7
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	todayBgColor   = color.NRGBA{255, 99, 71, 60}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	entryCancelledColor = color.RGBA{158, 158, 158, 200}
	entryDefaultColor   = color.RGBA{133, 193, 235, 230}
	entryTextColor      = color.RGBA{20, 24, 28, 230}
)

// Цвета по типам записей. Неизвестный тип получает цвет по умолчанию.
var entryTypeColors = map[model.EntryType]color.RGBA{
	model.EntryTypeLecture:           {133, 193, 85, 230},
	model.EntryTypeOfficeHours:       {255, 206, 84, 230},
	model.EntryTypeDepartmentMeeting: {171, 130, 255, 230},
	model.EntryTypeMeeting:           {171, 130, 255, 230},
	model.EntryTypeCourseEvent:       {100, 181, 246, 230},
	model.EntryTypeGrading:           {255, 138, 101, 230},
	model.EntryTypeAdvising:          {77, 182, 172, 230},
	model.EntryTypeResearch:          {149, 117, 205, 230},
	model.EntryTypeAdminTask:         {144, 164, 174, 230},
	model.EntryTypePersonal:          {240, 98, 146, 230},
}

// WeekImage рисует недельную сетку в PNG. Вся временная логика уже решена
// привязкой: рисуются только корни отрисовки, высота берётся из SpanSlots.
func WeekImage(g *grid.WeekGrid, cfg grid.Config, now time.Time) (*bytes.Buffer, error) {
	if g == nil {
		return nil, fmt.Errorf("render week image: grid is nil")
	}
	if len(g.Slots) == 0 {
		return nil, fmt.Errorf("render week image: empty slot axis")
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(len(g.Slots))

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, cfg.Location)

	drawHeader(dc, g.Window)
	drawHourLabels(dc, g.Slots, cellHeight)

	for day := 0; day < totalDaysInWeek; day++ {
		x := float64(leftLabelsWidth + day*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, day, isSameDay(g.Days[day], today))
		drawDayHeader(dc, g.Days[day], x, dayWidth)
		drawHourLines(dc, x, y, dayWidth, g.Slots, cellHeight)
		drawDayEntries(dc, g, day, x, y, dayWidth, cellHeight)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return &buf, nil
}

// drawHeader рисует заголовок с границами недели
func drawHeader(dc *gg.Context, window model.WeekWindow) {
	title := fmt.Sprintf("%s — %s",
		window.Start.Format("02.01.2006"),
		window.End.AddDate(0, 0, -1).Format("02.01.2006"))

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, imageWidth/2, float64(headerHeight)/3, 0.5, 0.5)
}

// drawHourLabels рисует колонку времени слева. Подписываются только слоты,
// начинающие час, чтобы колонка не слипалась при мелкой сетке.
func drawHourLabels(dc *gg.Context, slots []grid.SlotTime, cellHeight float64) {
	dc.SetColor(hourLabelColor)

	for i, slot := range slots {
		if slot.Minute != 0 {
			continue
		}
		y := float64(headerHeight) + float64(i)*cellHeight
		label := fmt.Sprintf("%02d:00", slot.Hour)
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDayBackground рисует фон колонки дня, чередуя оттенки;
// сегодняшний день подсвечивается
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()

	if isToday {
		dc.SetColor(todayBgColor)
		dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
		dc.Fill()
	}
}

// drawDayHeader рисует дату над колонкой дня
func drawDayHeader(dc *gg.Context, date time.Time, x float64, dayWidth int) {
	dc.SetColor(textColor)
	label := date.Format("Mon 02.01")
	dc.DrawStringAnchored(label, x+float64(dayWidth)/2, float64(headerHeight)*2/3, 0.5, 0.5)
}

// drawHourLines рисует горизонтальные линии на границах часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, slots []grid.SlotTime, cellHeight float64) {
	dc.SetColor(hourLineColor)
	dc.SetLineWidth(0.5)

	for i, slot := range slots {
		if slot.Minute != 0 {
			continue
		}
		lineY := y + float64(i)*cellHeight
		dc.DrawLine(x, lineY, x+float64(dayWidth), lineY)
		dc.Stroke()
	}
}

// drawDayEntries рисует записи одного дня. Каждая запись рисуется один раз —
// в своём корневом слоте — и тянется вниз на SpanSlots ячеек.
func drawDayEntries(dc *gg.Context, g *grid.WeekGrid, day int, x, y float64, dayWidth int, cellHeight float64) {
	for slotIdx, cell := range g.Cells[day] {
		for _, bound := range cell {
			if !bound.IsRenderRoot {
				continue
			}

			entryY := y + float64(slotIdx)*cellHeight + slotPaddingY
			entryH := float64(bound.SpanSlots)*cellHeight - 2*slotPaddingY

			// Хвост записи не должен вылезать за низ сетки
			maxH := y + float64(len(g.Slots))*cellHeight - entryY
			if entryH > maxH {
				entryH = maxH
			}

			dc.SetColor(entryColor(bound.Occurrence.Entry))
			dc.DrawRoundedRectangle(x+dayPaddingX, entryY, float64(dayWidth)-2*dayPaddingX, entryH, 4)
			dc.Fill()

			dc.SetColor(entryTextColor)
			label := fmt.Sprintf("%s %s", bound.Occurrence.Start.Format("15:04"), bound.Occurrence.Entry.Title)
			dc.DrawStringAnchored(label, x+float64(dayWidth)/2, entryY+entryH/2, 0.5, 0.5)
		}
	}
}

// entryColor подбирает цвет записи: отменённые серые, остальные — по типу
func entryColor(entry model.ScheduleEntry) color.RGBA {
	if entry.IsCancelled {
		return entryCancelledColor
	}
	if c, ok := entryTypeColors[entry.EntryType]; ok {
		return c
	}
	return entryDefaultColor
}

func isSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
