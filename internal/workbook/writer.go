package workbook

import (
	"fmt"
	"unicode/utf8"

	"github.com/ryabkov82/clubstats/internal/apperr"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	minColWidth = 8
	maxColWidth = 60
)

// Sheet содержимое одного листа отчёта.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

type layout struct {
	Headers      []string
	MaxColWidths map[int]int
}

func (l *layout) Init(headers []string) {
	l.Headers = headers
	l.MaxColWidths = make(map[int]int)
	for i, h := range headers {
		l.observe(i, h)
	}
}

// AnalyzeSample определяет ширину колонок по содержимому.
func (l *layout) AnalyzeSample(rows [][]interface{}) {
	for _, row := range rows {
		for i, v := range row {
			l.observe(i, fmt.Sprint(v))
		}
	}
}

func (l *layout) observe(col int, s string) {
	w := utf8.RuneCountInString(s) + 2
	if w > maxColWidth {
		w = maxColWidth
	}
	if w > l.MaxColWidths[col] {
		l.MaxColWidths[col] = w
	}
}

func (l *layout) width(col int) float64 {
	w := l.MaxColWidths[col]
	if w < minColWidth {
		w = minColWidth
	}
	return float64(w)
}

// Writer пишет листы потоково, по одному.
type Writer struct {
	file        *excelize.File
	headerStyle int
	sheets      int
}

func NewWriter() (*Writer, error) {
	f := excelize.NewFile()
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		_ = f.Close()
		return nil, apperr.Wrap(err, "ошибка создания стиля заголовка")
	}
	return &Writer{file: f, headerStyle: style}, nil
}

func (w *Writer) AddSheet(s Sheet) error {
	if w.sheets == 0 {
		if first := w.file.GetSheetName(0); first != s.Name {
			if err := w.file.SetSheetName(first, s.Name); err != nil {
				return apperr.Wrapf(err, "ошибка переименования листа %q", s.Name)
			}
		}
	} else if _, err := w.file.NewSheet(s.Name); err != nil {
		return apperr.Wrapf(err, "ошибка создания листа %q", s.Name)
	}
	w.sheets++

	var l layout
	l.Init(s.Headers)
	l.AnalyzeSample(s.Rows)

	sw, err := w.file.NewStreamWriter(s.Name)
	if err != nil {
		return apperr.Wrap(err, "ошибка создания StreamWriter")
	}
	for col := range s.Headers {
		if err := sw.SetColWidth(col+1, col+1, l.width(col)); err != nil {
			return apperr.Wrap(err, "ошибка установки ширины колонки")
		}
	}

	headerRow := make([]interface{}, len(s.Headers))
	for i, h := range s.Headers {
		headerRow[i] = excelize.Cell{Value: h, StyleID: w.headerStyle}
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return apperr.Wrap(err, "ошибка записи заголовков")
	}

	for i, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperr.Wrap(err, "ошибка адреса ячейки")
		}
		if err := sw.SetRow(cell, row); err != nil {
			return apperr.Wrapf(err, "ошибка записи строки %d", i+2)
		}
	}

	if err := sw.Flush(); err != nil {
		return apperr.Wrap(err, "ошибка финального flush")
	}

	log.WithFields(log.Fields{"sheet": s.Name, "rows": len(s.Rows)}).Debug("лист записан")
	return nil
}

func (w *Writer) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return apperr.Wrapf(err, "ошибка сохранения файла %s", path)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.file.Close()
}

// Save создаёт книгу из листов и сохраняет её.
func Save(path string, sheets ...Sheet) error {
	w, err := NewWriter()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, s := range sheets {
		if err := w.AddSheet(s); err != nil {
			return err
		}
	}
	return w.SaveAs(path)
}
