// Package workbook читает листы .xlsx в таблицы и пишет отчётные книги.
package workbook

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/ryabkov82/clubstats/internal/apperr"
	"github.com/ryabkov82/clubstats/internal/table"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const isoDate = "2006-01-02"

type Reader struct {
	path       string
	file       *excelize.File
	dateStyles map[int]bool
}

func Open(path string) (*Reader, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.Newf(apperr.CodeMissingFile, "файл не найден: %s", path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperr.Wrapf(err, "ошибка открытия файла %s", path)
	}
	return &Reader{path: path, file: f, dateStyles: make(map[int]bool)}, nil
}

func (r *Reader) Close() error {
	return r.file.Close()
}

func (r *Reader) Sheets() []string {
	return r.file.GetSheetList()
}

// ReadFirstSheet читает первый лист книги.
func (r *Reader) ReadFirstSheet() (*table.Table, error) {
	sheets := r.Sheets()
	if len(sheets) == 0 {
		return nil, apperr.Newf(apperr.CodeMissingFile, "в файле %s нет листов", r.path)
	}
	return r.ReadSheet(sheets[0])
}

// ReadSheet читает лист целиком: первая строка заголовки, пустые строки
// пропускаются. Ячейки с форматом даты возвращаются как ГГГГ-ММ-ДД.
func (r *Reader) ReadSheet(sheet string) (*table.Table, error) {
	if !r.hasSheet(sheet) {
		return nil, apperr.Newf(apperr.CodeMissingFile, "лист %q не найден в %s", sheet, r.path)
	}

	rows, err := r.file.Rows(sheet)
	if err != nil {
		return nil, apperr.Wrapf(err, "ошибка чтения строк из %s", r.path)
	}
	defer rows.Close()

	var (
		headers []string
		data    [][]string
		width   int
	)
	rowIdx := 0
	for rows.Next() {
		rowIdx++
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, apperr.Wrapf(err, "ошибка чтения строки %d", rowIdx)
		}
		for i, v := range cols {
			if v == "" {
				continue
			}
			cols[i] = r.render(sheet, i+1, rowIdx, v)
		}

		if headers == nil {
			headers = cols
			continue
		}
		if blank(cols) {
			continue
		}
		data = append(data, cols)
		width = max(width, len(cols))
	}
	if err := rows.Error(); err != nil {
		return nil, apperr.Wrapf(err, "ошибка чтения листа %q", sheet)
	}

	// Ячейки правее последнего заголовка получают имена unnamed_N.
	for len(headers) < width {
		headers = append(headers, "")
	}
	headers = trimHeaders(headers)

	log.WithFields(log.Fields{
		"file":    r.path,
		"sheet":   sheet,
		"columns": len(headers),
		"rows":    len(data),
	}).Debug("лист прочитан")

	return table.New(headers, data)
}

func (r *Reader) hasSheet(sheet string) bool {
	for _, s := range r.Sheets() {
		if s == sheet {
			return true
		}
	}
	return false
}

// render переводит серийный номер даты в ISO, остальное оставляет как есть.
func (r *Reader) render(sheet string, col, row int, raw string) string {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	styleID, err := r.file.GetCellStyle(sheet, cell)
	if err != nil || !r.isDateStyle(styleID) {
		return raw
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return raw
	}
	return t.Format(isoDate)
}

func (r *Reader) isDateStyle(styleID int) bool {
	if v, ok := r.dateStyles[styleID]; ok {
		return v
	}
	v := false
	if style, err := r.file.GetStyle(styleID); err == nil && style != nil {
		v = isDateFormat(style.NumFmt)
		if !v && style.CustomNumFmt != nil {
			v = isCustomDateFormat(*style.CustomNumFmt)
		}
	}
	r.dateStyles[styleID] = v
	return v
}

// Пустые заголовки получают имя unnamed_<номер колонки>.
func trimHeaders(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.TrimSpace(c)
		if out[i] == "" {
			out[i] = "unnamed_" + strconv.Itoa(i+1)
		}
	}
	return out
}

func blank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ReadSheet открывает файл, читает один лист и закрывает файл.
func ReadSheet(path, sheet string) (*table.Table, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadSheet(sheet)
}

// ReadFirstSheet то же для первого листа.
func ReadFirstSheet(path string) (*table.Table, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadFirstSheet()
}
