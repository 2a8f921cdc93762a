package report

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Bucket periodo normalizado. Start es la clave de orden; Key la forma canónica
// del periodo crudo (2024-03-01, 2024-W02, 2024-03, 2024).
type Bucket struct {
	Granularity Granularity
	Key         string
	Label       string
	Start       time.Time
	End         time.Time
}

var weekPattern = regexp.MustCompile(`^(\d{4})-?[Ww]?(\d{1,2})$`)

// ISOWeekStart devuelve el lunes de la semana ISO (year, week). La semana 1 es la que
// contiene el primer jueves del año (equivalente: la que contiene el 4 de enero).
func ISOWeekStart(year, week int) (time.Time, error) {
	if week < 1 || week > 53 {
		return time.Time{}, fmt.Errorf("semana ISO fuera de rango: %d", week)
	}
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	start := jan4.AddDate(0, 0, -isoWeekdayOffset(jan4)+(week-1)*7)
	if y, w := start.ISOWeek(); y != year || w != week {
		return time.Time{}, fmt.Errorf("el año %d no tiene semana ISO %d", year, week)
	}
	return start, nil
}

// Normalize convierte un periodo crudo del ejecutor en un Bucket dentro de [from, to].
// Devuelve false si el periodo no se puede interpretar o queda fuera del rango:
//   - weekly: (año, semana) ISO → rango lunes-domingo recortado a [from, to];
//   - daily: sólo se acepta si from <= día <= to;
//   - monthly/yearly: se aceptan tal cual, el truncado aguas arriba ya respeta el rango.
func Normalize(raw string, g Granularity, from, to time.Time) (Bucket, bool) {
	raw = strings.TrimSpace(raw)
	from, to = CivilDate(from), CivilDate(to)
	switch g {
	case Daily:
		d, err := parseLeadingDate(raw, DateLayout)
		if err != nil || d.Before(from) || d.After(to) {
			return Bucket{}, false
		}
		return dailyBucket(d), true
	case Weekly:
		m := weekPattern.FindStringSubmatch(raw)
		if m == nil {
			return Bucket{}, false
		}
		year, _ := strconv.Atoi(m[1])
		week, _ := strconv.Atoi(m[2])
		start, err := ISOWeekStart(year, week)
		if err != nil {
			return Bucket{}, false
		}
		return weeklyBucket(start, from, to)
	case Monthly:
		d, err := parseLeadingDate(raw, "2006-01")
		if err != nil {
			return Bucket{}, false
		}
		return monthlyBucket(d), true
	case Yearly:
		d, err := parseLeadingDate(raw, "2006")
		if err != nil {
			return Bucket{}, false
		}
		return yearlyBucket(d), true
	}
	return Bucket{}, false
}

// Buckets enumera en orden cronológico todos los buckets que tocan [from, to].
// Los semanales salen recortados al rango igual que en Normalize.
func Buckets(g Granularity, from, to time.Time) []Bucket {
	from, to = CivilDate(from), CivilDate(to)
	if from.After(to) || !g.Valid() {
		return nil
	}
	var out []Bucket
	for cur := g.Truncate(from); !cur.After(to); {
		switch g {
		case Daily:
			out = append(out, dailyBucket(cur))
			cur = cur.AddDate(0, 0, 1)
		case Weekly:
			if b, ok := weeklyBucket(cur, from, to); ok {
				out = append(out, b)
			}
			cur = cur.AddDate(0, 0, 7)
		case Monthly:
			out = append(out, monthlyBucket(cur))
			cur = cur.AddDate(0, 1, 0)
		case Yearly:
			out = append(out, yearlyBucket(cur))
			cur = cur.AddDate(1, 0, 0)
		}
	}
	return out
}

// SortBuckets ordena por fecha de inicio (nunca por la etiqueta) y desempata por clave.
func SortBuckets(bs []Bucket) {
	sort.SliceStable(bs, func(i, j int) bool {
		if !bs[i].Start.Equal(bs[j].Start) {
			return bs[i].Start.Before(bs[j].Start)
		}
		return bs[i].Key < bs[j].Key
	})
}

// Normalizer memoriza la normalización de una corrida para que la misma clave
// cruda produzca siempre el mismo bucket, y cuenta los periodos descartados.
type Normalizer struct {
	granularity Granularity
	from, to    time.Time
	cache       map[string]normalized
	dropped     int
}

type normalized struct {
	bucket Bucket
	ok     bool
}

// NewNormalizer construye el normalizador para una corrida del reporte.
func NewNormalizer(g Granularity, from, to time.Time) *Normalizer {
	return &Normalizer{
		granularity: g,
		from:        CivilDate(from),
		to:          CivilDate(to),
		cache:       make(map[string]normalized),
	}
}

// Bucket normaliza raw (con caché). Cada llamada que termina descartada suma a Dropped.
func (n *Normalizer) Bucket(raw string) (Bucket, bool) {
	res, hit := n.cache[raw]
	if !hit {
		b, ok := Normalize(raw, n.granularity, n.from, n.to)
		res = normalized{bucket: b, ok: ok}
		n.cache[raw] = res
	}
	if !res.ok {
		n.dropped++
	}
	return res.bucket, res.ok
}

// Dropped número de filas cuyo periodo fue descartado.
func (n *Normalizer) Dropped() int { return n.dropped }

func dailyBucket(d time.Time) Bucket {
	return Bucket{
		Granularity: Daily,
		Key:         d.Format(DateLayout),
		Label:       Daily.Label(d, d),
		Start:       d,
		End:         d,
	}
}

func weeklyBucket(weekStart, from, to time.Time) (Bucket, bool) {
	weekEnd := weekStart.AddDate(0, 0, 6)
	start, end := weekStart, weekEnd
	if from.After(start) {
		start = from
	}
	if to.Before(end) {
		end = to
	}
	if start.After(end) {
		return Bucket{}, false
	}
	y, w := weekStart.ISOWeek()
	return Bucket{
		Granularity: Weekly,
		Key:         fmt.Sprintf("%04d-W%02d", y, w),
		Label:       Weekly.Label(start, end),
		Start:       start,
		End:         end,
	}, true
}

func monthlyBucket(d time.Time) Bucket {
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Bucket{
		Granularity: Monthly,
		Key:         start.Format("2006-01"),
		Label:       Monthly.Label(start, start),
		Start:       start,
		End:         start.AddDate(0, 1, -1),
	}
}

func yearlyBucket(d time.Time) Bucket {
	start := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return Bucket{
		Granularity: Yearly,
		Key:         start.Format("2006"),
		Label:       Yearly.Label(start, start),
		Start:       start,
		End:         time.Date(d.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// parseLeadingDate interpreta el prefijo de raw con el layout dado; así se aceptan
// tanto "2024-03" como "2024-03-01" o "2024-03-01T00:00:00Z".
func parseLeadingDate(raw, layout string) (time.Time, error) {
	if len(raw) < len(layout) {
		return time.Time{}, fmt.Errorf("periodo %q demasiado corto", raw)
	}
	if len(raw) > len(layout) {
		// el prefijo debe terminar en un separador para no aceptar "20245"
		if sep := raw[len(layout)]; sep != '-' && sep != 'T' && sep != ' ' {
			return time.Time{}, fmt.Errorf("periodo %q inválido", raw)
		}
	}
	t, err := time.Parse(layout, raw[:len(layout)])
	if err != nil {
		return time.Time{}, err
	}
	return CivilDate(t), nil
}
