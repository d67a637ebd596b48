// Package activity считает посещаемость тренировок по листу
// "одна колонка на дату".
package activity

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/ryabkov82/clubstats/internal/age"
	"github.com/ryabkov82/clubstats/internal/apperr"
	"github.com/ryabkov82/clubstats/internal/table"
)

// Имена колонок после переименования.
const (
	NameColumn = "name"
	BornColumn = "born"
)

// Отметки выгрузки: цифра до скобок номер занятия, в скобках присутствие.
var markers = map[string]int{
	"1(0)": 0,
	"2(0)": 0,
	"1(1)": 1,
	"2(1)": 1,
}

type DailyTotal struct {
	Date  string
	Total float64
}

// DateColumns колонки, имя которых начинается с года.
func DateColumns(t *table.Table, year int) []string {
	prefix := strconv.Itoa(year)
	var out []string
	for _, c := range t.Columns() {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// ParseMarker переводит отметку в число посещений. Пустая ячейка 0.
func ParseMarker(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	if n, ok := markers[v]; ok {
		return n, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, apperr.Newf(apperr.CodeParse, "неизвестная отметка %q", v)
	}
	return n, nil
}

// CleanMarkers заменяет отметки в колонках дат на числа.
func CleanMarkers(t *table.Table, year int) error {
	return t.Apply(DateColumns(t, year), func(v string) (string, error) {
		n, err := ParseMarker(v)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil
	})
}

// BirthYear берёт год из "2004", "2004.0" или полной даты "2004-03-01".
// Любой другой хвост после года считается ошибкой.
func BirthYear(v string) (int, error) {
	v = strings.TrimSpace(v)
	bad := apperr.Newf(apperr.CodeParse, "год рождения %q", v)
	if len(v) < 4 {
		return 0, bad
	}
	for _, c := range v[:4] {
		if c < '0' || c > '9' {
			return 0, bad
		}
	}
	switch rest := v[4:]; {
	case rest == "", rest == ".0":
	case strings.HasPrefix(rest, "-"):
		if _, err := time.Parse(age.DateLayout, v); err != nil {
			return 0, bad
		}
	default:
		return 0, bad
	}
	y, err := strconv.Atoi(v[:4])
	if err != nil {
		return 0, bad
	}
	return y, nil
}

// PickYouths оставляет записи с грубым возрастом (только по году) не
// старше maxAge.
func PickYouths(t *table.Table, bornColumn string, year, maxAge int) (*table.Table, error) {
	born, err := t.Column(bornColumn)
	if err != nil {
		return nil, err
	}
	return t.Filter(func(r int) (bool, error) {
		y, err := BirthYear(born[r])
		if err != nil {
			return false, apperr.Wrapf(err, "строка %d", r+2)
		}
		return age.IsYouth(year, y, maxAge), nil
	})
}

// PickDays удаляет колонки дат года, день недели которых не входит в days.
func PickDays(t *table.Table, year int, days []string) (*table.Table, error) {
	allowed := make(map[string]bool, len(days))
	for _, d := range days {
		allowed[d] = true
	}
	var remove []string
	for _, c := range DateColumns(t, year) {
		d, err := time.Parse(age.DateLayout, c)
		if err != nil {
			return nil, apperr.Newf(apperr.CodeParse, "колонка %q не является датой", c)
		}
		if !allowed[d.Weekday().String()] {
			remove = append(remove, c)
		}
	}
	return t.Drop(remove...)
}

// Anonymize удаляет персональные колонки. Вызывается последним перед
// подсчётом: отбор по возрасту и дням использует эти колонки.
func Anonymize(t *table.Table, columns ...string) (*table.Table, error) {
	if len(columns) == 0 {
		columns = []string{BornColumn, NameColumn}
	}
	return t.Drop(columns...)
}

// DailyTotals суммирует посещения по каждой колонке даты.
func DailyTotals(t *table.Table, year int) ([]DailyTotal, error) {
	cols := DateColumns(t, year)
	out := make([]DailyTotal, 0, len(cols))
	for _, c := range cols {
		values, err := t.Column(c)
		if err != nil {
			return nil, err
		}
		sum := 0
		for r, v := range values {
			n, err := ParseMarker(v)
			if err != nil {
				return nil, apperr.Wrapf(err, "строка %d, колонка %q", r+2, c)
			}
			sum += n
		}
		out = append(out, DailyTotal{Date: c, Total: float64(sum)})
	}
	return out, nil
}

// Above оставляет дни строго больше порога.
func Above(totals []DailyTotal, threshold float64) []DailyTotal {
	out := make([]DailyTotal, 0, len(totals))
	for _, d := range totals {
		if d.Total > threshold {
			out = append(out, d)
		}
	}
	return out
}

// Mean среднее посещение, округлённое до одного знака; для пустого ряда 0.
func Mean(totals []DailyTotal) (float64, error) {
	if len(totals) == 0 {
		return 0, nil
	}
	values := make([]float64, len(totals))
	for i, d := range totals {
		values[i] = d.Total
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0, apperr.Wrap(err, "ошибка расчёта среднего")
	}
	return math.Round(m*10) / 10, nil
}
