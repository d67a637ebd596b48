// Package members загружает реестр участников и считает возраст каждого.
package members

import (
	"strings"
	"time"

	"github.com/ryabkov82/clubstats/internal/age"
	"github.com/ryabkov82/clubstats/internal/aggregate"
	"github.com/ryabkov82/clubstats/internal/apperr"
	"github.com/ryabkov82/clubstats/internal/config"
	"github.com/ryabkov82/clubstats/internal/table"
	"github.com/ryabkov82/clubstats/internal/workbook"
	log "github.com/sirupsen/logrus"
)

type Member struct {
	FirstName string
	LastName  string
	BirthDate string
	Gender    string
	Age       int
	Bucket    age.Bucket
}

// Load читает лист, нормализует заголовки и вычисляет возраст на дату ref.
func Load(path, sheet string, cols config.MemberColumns, ref time.Time) ([]Member, error) {
	t, err := workbook.ReadSheet(path, sheet)
	if err != nil {
		return nil, err
	}
	mapping, err := t.NormalizeColumns()
	if err != nil {
		return nil, apperr.Wrapf(err, "лист %q", sheet)
	}
	log.WithFields(log.Fields{"sheet": sheet, "renamed": mapping.Renamed()}).Debug("заголовки нормализованы")
	return FromTable(t, cols, ref)
}

// FromTable ожидает уже нормализованные заголовки.
func FromTable(t *table.Table, cols config.MemberColumns, ref time.Time) ([]Member, error) {
	first, err := t.Column(cols.FirstName)
	if err != nil {
		return nil, err
	}
	last, err := t.Column(cols.LastName)
	if err != nil {
		return nil, err
	}
	born, err := t.Column(cols.BirthDate)
	if err != nil {
		return nil, err
	}
	gender, err := t.Column(cols.Gender)
	if err != nil {
		return nil, err
	}

	out := make([]Member, t.Len())
	for i := range out {
		if strings.TrimSpace(gender[i]) == "" {
			return nil, apperr.Newf(apperr.CodeParse, "строка %d: не указан пол", i+2)
		}
		years, err := age.Derive(born[i], ref)
		if err != nil {
			return nil, apperr.Wrapf(err, "строка %d", i+2)
		}
		bucket, ok := age.BucketFor(years)
		if !ok {
			return nil, apperr.Newf(apperr.CodeParse,
				"строка %d: дата рождения %s позже %s", i+2, born[i], ref.Format(age.DateLayout))
		}
		out[i] = Member{
			FirstName: first[i],
			LastName:  last[i],
			BirthDate: born[i],
			Gender:    gender[i],
			Age:       years,
			Bucket:    bucket,
		}
	}
	return out, nil
}

func Entries(ms []Member) []aggregate.Entry {
	out := make([]aggregate.Entry, len(ms))
	for i, m := range ms {
		out[i] = aggregate.Entry{Gender: m.Gender, Bucket: m.Bucket}
	}
	return out
}

func Ages(ms []Member) []float64 {
	out := make([]float64, len(ms))
	for i, m := range ms {
		out[i] = float64(m.Age)
	}
	return out
}

// DataSheet лист с исходными полями и вычисленным возрастом.
func DataSheet(ms []Member, cols config.MemberColumns) workbook.Sheet {
	s := workbook.Sheet{
		Name:    "Data",
		Headers: []string{cols.FirstName, cols.LastName, cols.BirthDate, cols.Gender, "age", "binned"},
		Rows:    make([][]interface{}, len(ms)),
	}
	for i, m := range ms {
		s.Rows[i] = []interface{}{m.FirstName, m.LastName, m.BirthDate, m.Gender, m.Age, m.Bucket.Label}
	}
	return s
}

// StatSheet лист со сгруппированными количествами.
func StatSheet(counts []aggregate.AggregatedCount) workbook.Sheet {
	s := workbook.Sheet{
		Name:    "Stat",
		Headers: []string{"Kön", "Ålder", "Antal"},
		Rows:    make([][]interface{}, len(counts)),
	}
	for i, c := range counts {
		s.Rows[i] = []interface{}{c.Gender, c.Bucket.Label, c.Count}
	}
	return s
}

// TrendSheet то же с колонкой года, для сравнения нескольких лет.
func TrendSheet(counts []aggregate.AggregatedCount) workbook.Sheet {
	s := workbook.Sheet{
		Name:    "Stat",
		Headers: []string{"År", "Kön", "Ålder", "Antal"},
		Rows:    make([][]interface{}, len(counts)),
	}
	for i, c := range counts {
		s.Rows[i] = []interface{}{c.Year, c.Gender, c.Bucket.Label, c.Count}
	}
	return s
}
