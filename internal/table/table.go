// Package table хранит лист книги в памяти: упорядоченные колонки и строки
// строковых значений.
package table

import (
	"github.com/ryabkov82/clubstats/internal/apperr"
	"github.com/ryabkov82/clubstats/internal/columns"
)

type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New копирует данные; короткие строки дополняются пустыми значениями.
func New(cols []string, rows [][]string) (*Table, error) {
	t := &Table{
		columns: append([]string(nil), cols...),
		rows:    make([][]string, 0, len(rows)),
	}
	if err := t.reindex(); err != nil {
		return nil, err
	}
	for _, r := range rows {
		t.rows = append(t.rows, t.pad(r))
	}
	return t, nil
}

func (t *Table) reindex() error {
	t.index = make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		if _, ok := t.index[c]; ok {
			return apperr.Newf(apperr.CodeColumnCollision, "колонка %q встречается дважды", c)
		}
		t.index[c] = i
	}
	return nil
}

func (t *Table) pad(r []string) []string {
	row := make([]string, len(t.columns))
	copy(row, r)
	return row
}

func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Col возвращает индекс колонки или ErrMissingColumn.
func (t *Table) Col(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return -1, apperr.Newf(apperr.CodeMissingColumn, "колонка %q не найдена", name)
	}
	return i, nil
}

func (t *Table) Row(i int) []string {
	return append([]string(nil), t.rows[i]...)
}

// Column возвращает все значения колонки.
func (t *Table) Column(name string) ([]string, error) {
	i, err := t.Col(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, nil
}

// NormalizeColumns переименовывает все колонки через columns.NormalizeHeaders.
func (t *Table) NormalizeColumns() (columns.Mapping, error) {
	m, err := columns.NormalizeHeaders(t.columns)
	if err != nil {
		return columns.Mapping{}, err
	}
	t.columns = append([]string(nil), m.Canonical...)
	return m, t.reindex()
}

// Rename переименовывает колонки по словарю; отсутствующие ключи
// пропускаются, как в DataFrame.rename.
func (t *Table) Rename(names map[string]string) error {
	for i, c := range t.columns {
		if n, ok := names[c]; ok {
			t.columns[i] = n
		}
	}
	return t.reindex()
}

// SetColumns задаёт новые имена по позициям, число имён должно совпадать.
func (t *Table) SetColumns(names ...string) error {
	if len(names) != len(t.columns) {
		return apperr.Newf(apperr.CodeMissingColumn,
			"ожидалось %d колонок, в листе %d", len(names), len(t.columns))
	}
	t.columns = append([]string(nil), names...)
	return t.reindex()
}

// Drop удаляет колонки; каждая должна существовать.
func (t *Table) Drop(names ...string) (*Table, error) {
	drop := make(map[int]bool, len(names))
	for _, n := range names {
		i, err := t.Col(n)
		if err != nil {
			return nil, err
		}
		drop[i] = true
	}
	keep := make([]int, 0, len(t.columns))
	for i := range t.columns {
		if !drop[i] {
			keep = append(keep, i)
		}
	}
	return t.project(keep)
}

func (t *Table) project(keep []int) (*Table, error) {
	cols := make([]string, len(keep))
	for j, i := range keep {
		cols[j] = t.columns[i]
	}
	rows := make([][]string, len(t.rows))
	for r, row := range t.rows {
		out := make([]string, len(keep))
		for j, i := range keep {
			out[j] = row[i]
		}
		rows[r] = out
	}
	return New(cols, rows)
}

// Filter оставляет строки, для которых keep вернула true. Первая ошибка
// прерывает отбор.
func (t *Table) Filter(keep func(row int) (bool, error)) (*Table, error) {
	rows := make([][]string, 0, len(t.rows))
	for r, row := range t.rows {
		ok, err := keep(r)
		if err != nil {
			return nil, err
		}
		if ok {
			rows = append(rows, row)
		}
	}
	return New(t.columns, rows)
}

// Apply заменяет значения указанных колонок.
func (t *Table) Apply(names []string, fn func(value string) (string, error)) error {
	idx := make([]int, 0, len(names))
	for _, n := range names {
		i, err := t.Col(n)
		if err != nil {
			return err
		}
		idx = append(idx, i)
	}
	for r, row := range t.rows {
		for _, i := range idx {
			v, err := fn(row[i])
			if err != nil {
				return apperr.Wrapf(err, "строка %d, колонка %q", r+2, t.columns[i])
			}
			row[i] = v
		}
	}
	return nil
}
