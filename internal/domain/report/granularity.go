package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/reportes-ventas/internal/domain"
)

// Granularity tamaño del bucket temporal de las columnas del reporte.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// Umbrales en días (inclusive): acotan el número de columnas del pivote
// (<= 31 diarias, <= 27 semanales).
const (
	maxDailyDays  = 31
	maxWeeklyDays = 183
)

// Choose elige la granularidad a partir del rango. Yearly nunca se elige
// automáticamente; sólo llega por ParseGranularity.
func Choose(from, to time.Time) Granularity {
	days := DaysInclusive(from, to)
	switch {
	case days <= maxDailyDays:
		return Daily
	case days <= maxWeeklyDays:
		return Weekly
	default:
		return Monthly
	}
}

// ParseGranularity interpreta un override explícito (sin distinguir mayúsculas).
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: granularidad %q no soportada", domain.ErrValidation, s)
	}
	return g, nil
}

// Valid indica si g es una de las cuatro granularidades.
func (g Granularity) Valid() bool {
	switch g {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Truncate devuelve la clave de orden del bucket que contiene d:
// el día, el lunes de su semana ISO, el día 1 del mes o el 1 de enero.
func (g Granularity) Truncate(d time.Time) time.Time {
	d = CivilDate(d)
	switch g {
	case Weekly:
		return d.AddDate(0, 0, -isoWeekdayOffset(d))
	case Monthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Yearly:
		return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// Label etiqueta legible de un bucket que cubre [start, end].
func (g Granularity) Label(start, end time.Time) string {
	switch g {
	case Weekly:
		return start.Format("02 Jan") + " - " + end.Format("02 Jan")
	case Monthly:
		return start.Format("Jan-2006")
	case Yearly:
		return start.Format("2006")
	default:
		return start.Format(DateLayout)
	}
}

// isoWeekdayOffset días transcurridos desde el lunes (lunes = 0, domingo = 6).
func isoWeekdayOffset(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}
