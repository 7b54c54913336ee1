package orders

import "time"

// MonthDay feriado fijo que se repite cada año.
type MonthDay struct {
	Month time.Month
	Day   int
}

// FixedHolidays feriados nacionales considerados para el plazo de cierre.
var FixedHolidays = []MonthDay{
	{time.January, 1},
	{time.April, 15},
	{time.April, 21},
	{time.May, 1},
	{time.September, 7},
	{time.October, 12},
	{time.November, 2},
	{time.November, 15},
	{time.December, 25},
	{time.December, 31},
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func civil(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{y, m, d}
}

// Calendar días hábiles: lunes a viernes menos los feriados materializados en [fromYear, toYear].
type Calendar struct {
	holidays map[civilDate]struct{}
}

// NewCalendar materializa days para cada año del rango, inclusive.
func NewCalendar(fromYear, toYear int, days []MonthDay) *Calendar {
	c := &Calendar{holidays: make(map[civilDate]struct{})}
	for y := fromYear; y <= toYear; y++ {
		for _, md := range days {
			c.holidays[civilDate{y, md.Month, md.Day}] = struct{}{}
		}
	}
	return c
}

// IsHoliday indica si t cae en un feriado materializado.
func (c *Calendar) IsHoliday(t time.Time) bool {
	if c == nil {
		return false
	}
	_, ok := c.holidays[civil(t)]
	return ok
}

// IsBusinessDay fin de semana y feriados no son hábiles.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.IsHoliday(t)
}

// AddBusinessDays avanza n días hábiles desde t. Si t no es hábil, el primer paso
// cae en el siguiente día hábil.
func (c *Calendar) AddBusinessDays(t time.Time, n int) time.Time {
	for n > 0 {
		t = t.AddDate(0, 0, 1)
		if c.IsBusinessDay(t) {
			n--
		}
	}
	return t
}
