package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reportes-ventas/internal/domain/report"
)

func TestChoose_Umbrales(t *testing.T) {
	from := date(t, "2024-01-01")
	tests := []struct {
		days int
		want report.Granularity
	}{
		{1, report.Daily},
		{31, report.Daily},
		{32, report.Weekly},
		{183, report.Weekly},
		{184, report.Monthly},
		{900, report.Monthly},
	}
	for _, tt := range tests {
		to := from.AddDate(0, 0, tt.days-1)
		assert.Equal(t, tt.want, report.Choose(from, to), "days=%d", tt.days)
	}
}

func TestParseGranularity(t *testing.T) {
	g, err := report.ParseGranularity(" Yearly ")
	require.NoError(t, err)
	assert.Equal(t, report.Yearly, g)

	_, err = report.ParseGranularity("hourly")
	assert.Error(t, err)
}

func TestISOWeekStart(t *testing.T) {
	tests := []struct {
		year, week int
		want       string
	}{
		{2024, 1, "2024-01-01"},
		{2024, 2, "2024-01-08"},
		{2021, 1, "2021-01-04"},
		{2020, 53, "2020-12-28"},
		{2023, 52, "2023-12-25"},
	}
	for _, tt := range tests {
		got, err := report.ISOWeekStart(tt.year, tt.week)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Format(report.DateLayout))
	}

	_, err := report.ISOWeekStart(2023, 53)
	assert.Error(t, err, "2023 sólo tiene 52 semanas ISO")
}

func TestNormalize_SemanaRecortadaAlRango(t *testing.T) {
	from, to := date(t, "2024-01-10"), date(t, "2024-01-20")

	b, ok := report.Normalize("2024-02", report.Weekly, from, to)
	require.True(t, ok)
	assert.Equal(t, "2024-01-10", b.Start.Format(report.DateLayout))
	assert.Equal(t, "2024-01-14", b.End.Format(report.DateLayout))
	assert.Equal(t, "10 Jan - 14 Jan", b.Label)
	assert.Equal(t, "2024-W02", b.Key)

	b, ok = report.Normalize("2024-W03", report.Weekly, from, to)
	require.True(t, ok)
	assert.Equal(t, "15 Jan - 20 Jan", b.Label)

	_, ok = report.Normalize("2024-05", report.Weekly, from, to)
	assert.False(t, ok, "una semana completamente fuera del rango se descarta")
}

func TestNormalize_Diario(t *testing.T) {
	from, to := date(t, "2024-03-01"), date(t, "2024-03-10")

	b, ok := report.Normalize("2024-03-05", report.Daily, from, to)
	require.True(t, ok)
	assert.Equal(t, "2024-03-05", b.Label)

	b, ok = report.Normalize("2024-03-10T00:00:00Z", report.Daily, from, to)
	require.True(t, ok)
	assert.Equal(t, "2024-03-10", b.Key)

	_, ok = report.Normalize("2024-03-11", report.Daily, from, to)
	assert.False(t, ok)
	_, ok = report.Normalize("basura", report.Daily, from, to)
	assert.False(t, ok)
}

func TestNormalize_MensualYAnualSinRecorte(t *testing.T) {
	from, to := date(t, "2024-03-15"), date(t, "2024-11-02")

	b, ok := report.Normalize("2024-03", report.Monthly, from, to)
	require.True(t, ok)
	assert.Equal(t, "Mar-2024", b.Label)
	assert.Equal(t, "2024-03-01", b.Start.Format(report.DateLayout))

	b, ok = report.Normalize("2024-01-01", report.Monthly, from, to)
	require.True(t, ok, "mensual no recorta")
	assert.Equal(t, "2024-01", b.Key)

	b, ok = report.Normalize("2024", report.Yearly, from, to)
	require.True(t, ok)
	assert.Equal(t, "2024", b.Label)
	assert.Equal(t, "2024-01-01", b.Start.Format(report.DateLayout))

	_, ok = report.Normalize("20245", report.Yearly, from, to)
	assert.False(t, ok)
}

func TestSortBuckets_CronologicoNoLexicografico(t *testing.T) {
	from, to := date(t, "2023-12-01"), date(t, "2024-01-31")
	a, ok := report.Normalize("2024-W01", report.Weekly, from, to)
	require.True(t, ok)
	b, ok := report.Normalize("2023-W52", report.Weekly, from, to)
	require.True(t, ok)

	bs := []report.Bucket{a, b}
	report.SortBuckets(bs)
	assert.Equal(t, "2023-W52", bs[0].Key)
	assert.Equal(t, "2024-W01", bs[1].Key)

	m1, _ := report.Normalize("2024-01", report.Monthly, from, to)
	m2, _ := report.Normalize("2023-12", report.Monthly, from, to)
	ms := []report.Bucket{m1, m2}
	report.SortBuckets(ms)
	assert.Equal(t, []string{"Dec-2023", "Jan-2024"}, []string{ms[0].Label, ms[1].Label},
		"por etiqueta Jan-2024 iría primero")
}

func TestBuckets_DiezDias(t *testing.T) {
	bs := report.Buckets(report.Daily, date(t, "2024-03-01"), date(t, "2024-03-10"))
	require.Len(t, bs, 10)
	for i, b := range bs {
		assert.Equal(t, date(t, "2024-03-01").AddDate(0, 0, i).Format(report.DateLayout), b.Label)
	}
}

func TestBuckets_SemanasRecortadas(t *testing.T) {
	bs := report.Buckets(report.Weekly, date(t, "2024-01-10"), date(t, "2024-01-20"))
	require.Len(t, bs, 2)
	assert.Equal(t, "10 Jan - 14 Jan", bs[0].Label)
	assert.Equal(t, "15 Jan - 20 Jan", bs[1].Label)

	assert.Nil(t, report.Buckets(report.Daily, date(t, "2024-02-01"), date(t, "2024-01-01")))
}

func TestNormalizer_CacheYDescartes(t *testing.T) {
	n := report.NewNormalizer(report.Daily, date(t, "2024-03-01"), date(t, "2024-03-02"))
	a, ok := n.Bucket("2024-03-01")
	require.True(t, ok)
	b, _ := n.Bucket("2024-03-01")
	assert.Equal(t, a, b)
	_, ok = n.Bucket("2024-04-01")
	assert.False(t, ok)
	_, _ = n.Bucket("2024-04-01")
	assert.Equal(t, 2, n.Dropped())
}
