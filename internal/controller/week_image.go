package controller

import (
	"bytes"
	"image/color"
	"strconv"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/clinixnote/backend/internal/model"
)

const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	leftLabelsWidth = 80
	legendWidth     = 120
	dayPaddingX     = 8
	minSlotHeight   = 8.0
	slotRadius      = 6.0
	shadowOffset    = 3.0
	daysInWeek      = 7
	hourPaddingTop  = 2
	hourPaddingBot  = 2
	defaultMinHour  = 8
	defaultMaxHour  = 18
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	todayBgColor   = color.NRGBA{255, 99, 71, 125}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	slotFreeColor       = color.RGBA{133, 193, 85, 220}
	slotBookedColor     = color.RGBA{255, 182, 193, 255}
	slotTextColor       = color.RGBA{20, 24, 28, 230}
	slotBookedTextColor = color.RGBA{120, 40, 50, 255}
	slotShadowColor     = color.RGBA{0, 0, 0, 20}

	legendTextColor = color.RGBA{90, 95, 100, 220}
)

type weekBounds struct {
	start time.Time
	end   time.Time
}

type hourRange struct {
	start int
	end   int
	total int
}

// RenderWeek draws a Monday-to-Sunday grid of the doctor's slots around
// the given date and encodes it as PNG. Free and booked slots get
// distinct colors, today's column is highlighted.
func RenderWeek(date time.Time, slots []*model.TimeSlot) ([]byte, error) {
	week := normalizeToWeekBounds(date)
	today := normalizeToDay(time.Now())
	highlightToday := !today.Before(week.start) && !today.After(week.end)

	slotsByDay := groupSlotsByDay(slots)
	hours := calculateHourRange(slots)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / daysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)

	current := week.start
	for dayIndex := 0; dayIndex < daysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)
		isToday := highlightToday && current.Equal(today)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, isToday)
		drawDayHeader(dc, current, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, slot := range slotsByDay[current.Format("2006-01-02")] {
			drawSlot(dc, slot, x, y, dayWidth, hours, cellHeight)
		}

		current = current.AddDate(0, 0, 1)
	}

	drawLegend(dc)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalizeToWeekBounds snaps a date to its Monday-to-Sunday week.
func normalizeToWeekBounds(date time.Time) weekBounds {
	normalized := normalizeToDay(date)

	sinceMonday := int(normalized.Weekday()) - 1
	if normalized.Weekday() == time.Sunday {
		sinceMonday = 6
	}

	start := normalized.AddDate(0, 0, -sinceMonday)
	return weekBounds{start: start, end: start.AddDate(0, 0, 6)}
}

func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func groupSlotsByDay(slots []*model.TimeSlot) map[string][]*model.TimeSlot {
	byDay := make(map[string][]*model.TimeSlot)
	for _, slot := range slots {
		key := slot.Date.Format("2006-01-02")
		byDay[key] = append(byDay[key], slot)
	}
	return byDay
}

// clockHour extracts the hour from an HH:MM string, with a minute flag.
func clockHour(clock string) (hour, minute int) {
	if len(clock) < 5 {
		return 0, 0
	}
	hour, _ = strconv.Atoi(clock[:2])
	minute, _ = strconv.Atoi(clock[3:5])
	return hour, minute
}

func clockFraction(clock string) float64 {
	h, m := clockHour(clock)
	return float64(h) + float64(m)/60.0
}

// calculateHourRange trims the grid to the hours the slots actually use,
// with a little padding.
func calculateHourRange(slots []*model.TimeSlot) hourRange {
	minHour := 24
	maxHour := 0

	for _, slot := range slots {
		startH, _ := clockHour(slot.StartTime)
		endH, endM := clockHour(slot.EndTime)
		if endM > 0 {
			endH++
		}
		if startH < minHour {
			minHour = startH
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}

	return hourRange{start: startHour, end: endHour, total: endHour - startHour + 1}
}

func drawHeader(dc *gg.Context, week weekBounds) {
	title := week.start.Format("Jan 2") + " - " + week.end.Format("Jan 2, 2006")

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/3, 0.5, 0.5)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(hourLabelColor)

	for idx := 0; idx < hours.total; idx++ {
		hour := hours.start + idx
		y := float64(headerHeight) + float64(idx)*cellHeight
		label := strconv.Itoa(hour) + ":00"
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y-28, 0.5, 0.5)
	dc.DrawStringAnchored(date.Weekday().String()[:3], x+float64(dayWidth)/2, y-12, 0.5, 0.5)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for idx := 0; idx <= hours.total; idx++ {
		hy := y + float64(idx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawSlot(dc *gg.Context, slot *model.TimeSlot, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := clockFraction(slot.StartTime)
	endHour := clockFraction(slot.EndTime)

	slotY := y + (startHour-float64(hours.start))*cellHeight
	slotHeight := (endHour - startHour) * cellHeight
	if slotHeight < minSlotHeight {
		slotHeight = minSlotHeight
	}

	fill := slotFreeColor
	label := slotTextColor
	if slot.IsBooked {
		fill = slotBookedColor
		label = slotBookedTextColor
	}
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), slotY+2, slotWidth, slotHeight-4, slotRadius)
	dc.Fill()

	if slotHeight >= 14 {
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetColor(label)
		text := slot.StartTime + "-" + slot.EndTime
		dc.DrawStringAnchored(text, x+float64(dayWidth)/2, slotY+slotHeight/2, 0.5, 0.5)
	}
}

func drawLegend(dc *gg.Context) {
	x := float64(imageWidth - legendWidth + 10)
	y := float64(headerHeight + 10)

	dc.SetFontFace(basicfont.Face7x13)

	entries := []struct {
		name  string
		color color.RGBA
	}{
		{"free", slotFreeColor},
		{"booked", slotBookedColor},
	}
	for i, e := range entries {
		ey := y + float64(i)*24
		dc.SetColor(e.color)
		dc.DrawRoundedRectangle(x, ey, 16, 16, 3)
		dc.Fill()
		dc.SetColor(legendTextColor)
		dc.DrawStringAnchored(e.name, x+24, ey+8, 0, 0.5)
	}
}
