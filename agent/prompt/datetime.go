package prompt

import (
	"fmt"
	"time"
)

var spanishDays = [...]string{
	time.Sunday:    "domingo",
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miércoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sábado",
}

var spanishMonths = [...]string{
	time.January:   "enero",
	time.February:  "febrero",
	time.March:     "marzo",
	time.April:     "abril",
	time.May:       "mayo",
	time.June:      "junio",
	time.July:      "julio",
	time.August:    "agosto",
	time.September: "septiembre",
	time.October:   "octubre",
	time.November:  "noviembre",
	time.December:  "diciembre",
}

// FormatSpanishDateTime renders the temporal context line the system
// prompt uses to resolve relative dates, e.g.
// "Hoy es lunes, 02 de junio de 2025 a las 04:05 PM."
func FormatSpanishDateTime(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	meridiem := "AM"
	if t.Hour() >= 12 {
		meridiem = "PM"
	}
	return fmt.Sprintf("Hoy es %s, %02d de %s de %d a las %02d:%02d %s.",
		spanishDays[t.Weekday()], t.Day(), spanishMonths[t.Month()], t.Year(),
		hour, t.Minute(), meridiem)
}
