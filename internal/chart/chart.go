// Package chart рисует столбчатые диаграммы для отчётов.
package chart

import (
	"errors"
	"math"
	"strconv"

	"github.com/ryabkov82/clubstats/internal/apperr"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var ErrNoData = errors.New("нет данных для графика")

type Series struct {
	Name   string
	Values []float64
}

// Bars описание диаграммы: одна серия даёт обычные столбцы с подписями,
// несколько серий рисуются рядом в каждой категории.
type Bars struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Series     []Series
	Width      vg.Length
	Height     vg.Length
	Rotate     bool
}

func (b Bars) validate() error {
	if len(b.Categories) == 0 || len(b.Series) == 0 {
		return ErrNoData
	}
	for _, s := range b.Series {
		if len(s.Values) != len(b.Categories) {
			return apperr.Newf(apperr.CodeInternal,
				"серия %q: %d значений на %d категорий", s.Name, len(s.Values), len(b.Categories))
		}
	}
	return nil
}

func (b Bars) build() (*plot.Plot, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = b.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = b.XLabel
	p.Y.Label.Text = b.YLabel
	p.Y.Min = 0

	n := len(b.Series)
	barWidth := vg.Points(40 / float64(n))
	if n == 1 {
		barWidth = vg.Points(20)
	}

	maxValue := 0.0
	for i, s := range b.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), barWidth)
		if err != nil {
			return nil, apperr.Wrapf(err, "ошибка построения серии %q", s.Name)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * barWidth
		p.Add(bars)
		if n > 1 {
			p.Legend.Add(s.Name, bars)
		}
		for _, v := range s.Values {
			maxValue = math.Max(maxValue, v)
		}
	}
	p.Legend.Top = true
	p.Y.Max = maxValue * 1.15
	if p.Y.Max == 0 {
		p.Y.Max = 1
	}

	if n == 1 {
		if err := addValueLabels(p, b.Series[0].Values, maxValue); err != nil {
			return nil, err
		}
	}

	p.NominalX(b.Categories...)
	if b.Rotate {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return p, nil
}

func addValueLabels(p *plot.Plot, values []float64, maxValue float64) error {
	xys := make([]plotter.XY, 0, len(values))
	texts := make([]string, 0, len(values))
	for i, v := range values {
		if v <= 0 {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(i), Y: v + maxValue*0.02})
		texts = append(texts, strconv.FormatFloat(v, 'f', -1, 64))
	}
	if len(xys) == 0 {
		return nil
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return apperr.Wrap(err, "ошибка подписей столбцов")
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(labels)
	return nil
}

// Save рисует диаграмму в файл; формат определяется расширением.
func (b Bars) Save(path string) error {
	p, err := b.build()
	if err != nil {
		return err
	}
	width, height := b.Width, b.Height
	if width == 0 {
		width = 14 * vg.Inch
	}
	if height == 0 {
		height = 6 * vg.Inch
	}
	if err := p.Save(width, height, path); err != nil {
		return apperr.Wrapf(err, "ошибка сохранения графика %s", path)
	}
	log.WithFields(log.Fields{"file": path, "categories": len(b.Categories)}).Debug("график сохранён")
	return nil
}
