// Package reminder составляет список адресов для напоминания об оплате.
package reminder

import (
	"encoding/csv"
	"os"
	"sort"
	"strings"

	"github.com/ryabkov82/clubstats/internal/apperr"
	"github.com/ryabkov82/clubstats/internal/table"
)

const (
	EmailColumn  = "email"
	RemindColumn = "remind"
)

// Emails возвращает множество адресов колонки в нижнем регистре.
func Emails(t *table.Table, column string) (map[string]bool, error) {
	values, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out[v] = true
		}
	}
	return out, nil
}

// Intersect адреса, присутствующие в обоих множествах, по алфавиту.
func Intersect(a, b map[string]bool) []string {
	var out []string
	for e := range a {
		if b[e] {
			out = append(out, e)
		}
	}
	sort.Strings(out)
	return out
}

// Remind сопоставляет участников и неоплативших. Колонки файла участников
// переименовываются по позиции, в файле неоплативших колонка одна.
func Remind(members, notPaid *table.Table, memberColumns []string) ([]string, error) {
	if err := members.SetColumns(memberColumns...); err != nil {
		return nil, apperr.Wrap(err, "файл участников")
	}
	if err := notPaid.SetColumns(EmailColumn); err != nil {
		return nil, apperr.Wrap(err, "файл неоплативших")
	}
	m, err := Emails(members, EmailColumn)
	if err != nil {
		return nil, err
	}
	n, err := Emails(notPaid, EmailColumn)
	if err != nil {
		return nil, err
	}
	return Intersect(m, n), nil
}

// WriteCSV пишет одну колонку remind с заголовком.
func WriteCSV(path string, emails []string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperr.Wrapf(err, "ошибка создания файла %s", path)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{RemindColumn}); err != nil {
		_ = f.Close()
		return apperr.Wrap(err, "ошибка записи заголовка")
	}
	for _, e := range emails {
		if err := w.Write([]string{e}); err != nil {
			_ = f.Close()
			return apperr.Wrap(err, "ошибка записи строки")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return apperr.Wrap(err, "ошибка записи csv")
	}
	return f.Close()
}
