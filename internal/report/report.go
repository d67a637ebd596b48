// Package report формирует текстовую сводку для годового отчёта.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/montanaflynn/stats"
	"github.com/ryabkov82/clubstats/internal/aggregate"
	"github.com/ryabkov82/clubstats/internal/apperr"
)

type Summary struct {
	Title  string
	Counts []aggregate.AggregatedCount
	// Ages возраст каждой записи, для среднего и медианы.
	Ages []float64
}

func (s Summary) Write(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintln(&b, s.Title)
	total := aggregate.Total(s.Counts, nil)
	parts := make([]string, 0, 4)
	for _, g := range aggregate.Genders(s.Counts) {
		g := g
		n := aggregate.Total(s.Counts, func(c aggregate.AggregatedCount) bool { return c.Gender == g })
		parts = append(parts, fmt.Sprintf("%s %d", g, n))
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, "Totalt: %d (%s)\n", total, strings.Join(parts, ", "))
	} else {
		fmt.Fprintf(&b, "Totalt: %d\n", total)
	}

	if len(s.Ages) > 0 {
		mean, err := stats.Mean(s.Ages)
		if err != nil {
			return apperr.Wrap(err, "ошибка расчёта среднего возраста")
		}
		median, err := stats.Median(s.Ages)
		if err != nil {
			return apperr.Wrap(err, "ошибка расчёта медианы возраста")
		}
		fmt.Fprintf(&b, "Medelålder: %.1f, median: %.1f\n", mean, median)
	}

	b.WriteString("\n")
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Kön\tÅlder\tAntal")
	for _, c := range s.Counts {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Gender, c.Bucket.Label, c.Count)
	}
	if err := tw.Flush(); err != nil {
		return apperr.Wrap(err, "ошибка форматирования таблицы")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Save записывает сводку в файл.
func (s Summary) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperr.Wrapf(err, "ошибка создания файла %s", path)
	}
	if err := s.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
