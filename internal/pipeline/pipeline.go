// Package pipeline связывает чтение книг, расчёты и запись отчётов в
// прогоны для каждой команды.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ryabkov82/clubstats/internal/activity"
	"github.com/ryabkov82/clubstats/internal/aggregate"
	"github.com/ryabkov82/clubstats/internal/apperr"
	"github.com/ryabkov82/clubstats/internal/chart"
	"github.com/ryabkov82/clubstats/internal/config"
	"github.com/ryabkov82/clubstats/internal/members"
	"github.com/ryabkov82/clubstats/internal/paths"
	"github.com/ryabkov82/clubstats/internal/reminder"
	"github.com/ryabkov82/clubstats/internal/report"
	"github.com/ryabkov82/clubstats/internal/workbook"
	log "github.com/sirupsen/logrus"
)

type Result struct {
	OutputFiles []string
	RowCount    int64
}

func (r *Result) add(path string) {
	r.OutputFiles = append(r.OutputFiles, path)
}

type Runner struct {
	Cfg   *config.Config
	Paths *paths.Resolver
}

func New(cfg *config.Config) (*Runner, error) {
	resolver, err := paths.NewResolver(cfg.Root)
	if err != nil {
		return nil, apperr.Wrap(err, "ошибка определения корня проекта")
	}
	return &Runner{Cfg: cfg, Paths: resolver}, nil
}

// loadMembers читает реестр года и считает группы.
func (r *Runner) loadMembers(year int, input string) (string, []members.Member, []aggregate.AggregatedCount, error) {
	file, err := r.Cfg.MembersFile(year, input)
	if err != nil {
		return "", nil, nil, err
	}
	path := r.Paths.Resolve(file)

	ref, err := r.Cfg.ReferenceDate(year)
	if err != nil {
		return "", nil, nil, err
	}

	ms, err := members.Load(path, r.Cfg.MembersSheet(year), r.Cfg.Members.Columns, ref)
	if err != nil {
		return "", nil, nil, apperr.Wrapf(err, "реестр %d", year)
	}
	counts := aggregate.Count(year, members.Entries(ms))

	log.WithFields(log.Fields{
		"year":      year,
		"file":      path,
		"reference": ref.Format("2006-01-02"),
		"members":   len(ms),
		"groups":    len(counts),
	}).Info("реестр участников загружен")

	return path, ms, counts, nil
}

// Members строит отчёт по возрасту участников за год: книга Data/Stat,
// график и текстовая сводка рядом с входным файлом.
func (r *Runner) Members(ctx context.Context, year int, input string) (*Result, error) {
	path, ms, counts, err := r.loadMembers(year, input)
	if err != nil {
		return nil, err
	}
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	res := &Result{RowCount: int64(len(ms))}
	cols := r.Cfg.Members.Columns

	xlsx := paths.Sibling(path, config.OutputName(r.Cfg.Members.Output, year))
	if err := workbook.Save(xlsx, members.DataSheet(ms, cols), members.StatSheet(counts)); err != nil {
		return nil, err
	}
	res.add(xlsx)

	title := fmt.Sprintf("Medlemmar %d", year)
	png := paths.Sibling(path, config.OutputName(r.Cfg.Members.Chart, year))
	if ok, err := saveChart(chart.AgeDistribution(title, counts), png); err != nil {
		return nil, err
	} else if ok {
		res.add(png)
	}

	summary := report.Summary{Title: title, Counts: counts, Ages: members.Ages(ms)}
	txt := paths.Sibling(path, config.OutputName(r.Cfg.Members.Summary, year))
	if err := summary.Save(txt); err != nil {
		return nil, err
	}
	res.add(txt)

	log.WithFields(log.Fields{"year": year, "files": len(res.OutputFiles)}).Info("отчёт по участникам готов")
	return res, nil
}

// Trend сравнивает распределение по возрасту за несколько лет.
func (r *Runner) Trend(ctx context.Context, years []int, output string) (*Result, error) {
	if len(years) == 0 {
		return nil, apperr.New(apperr.CodeConfig, "не указаны годы")
	}

	res := &Result{}
	sets := make([][]aggregate.AggregatedCount, 0, len(years))
	var first string
	for _, year := range years {
		path, ms, counts, err := r.loadMembers(year, "")
		if err != nil {
			return nil, err
		}
		if first == "" {
			first = path
		}
		sets = append(sets, counts)
		res.RowCount += int64(len(ms))
		if err := checkCtx(ctx); err != nil {
			return nil, err
		}
	}
	merged := aggregate.Merge(sets...)

	if output == "" {
		output = paths.Sibling(first, fmt.Sprintf("PersonAges_%d-%d.xlsx", years[0], years[len(years)-1]))
	} else {
		output = r.Paths.Resolve(output)
	}
	if err := workbook.Save(output, members.TrendSheet(merged)); err != nil {
		return nil, err
	}
	res.add(output)

	png := strings.TrimSuffix(output, filepath.Ext(output)) + ".png"
	title := fmt.Sprintf("Medlemmar %d-%d", years[0], years[len(years)-1])
	if ok, err := saveChart(chart.YearTrend(title, merged), png); err != nil {
		return nil, err
	} else if ok {
		res.add(png)
	}
	return res, nil
}

// Activity строит график посещаемости молодёжи по выбранным дням недели.
func (r *Runner) Activity(ctx context.Context, year int, input string) (*Result, error) {
	file, err := r.Cfg.ActivityFile(year, input)
	if err != nil {
		return nil, err
	}
	path := r.Paths.Resolve(file)
	ac := r.Cfg.Activity

	t, err := workbook.ReadSheet(path, r.Cfg.ActivitySheet(year))
	if err != nil {
		return nil, err
	}
	mapping, err := t.NormalizeColumns()
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"file": path, "renamed": mapping.Renamed()}).Debug("заголовки нормализованы")
	if err := t.Rename(map[string]string{
		ac.NameColumn: activity.NameColumn,
		ac.BornColumn: activity.BornColumn,
	}); err != nil {
		return nil, err
	}

	// Отметки проверяются только в оставшихся днях, номера строк листа
	// сохраняются до отбора молодёжи.
	days, err := activity.PickDays(t, year, ac.Days)
	if err != nil {
		return nil, err
	}
	if err := activity.CleanMarkers(days, year); err != nil {
		return nil, err
	}
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	youths, err := activity.PickYouths(days, activity.BornColumn, year, ac.YouthMaxAge)
	if err != nil {
		return nil, err
	}
	anon, err := activity.Anonymize(youths)
	if err != nil {
		return nil, err
	}

	totals, err := activity.DailyTotals(anon, year)
	if err != nil {
		return nil, err
	}
	shown := activity.Above(totals, ac.MinDailyTotal)
	mean, err := activity.Mean(shown)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"year":   year,
		"file":   path,
		"rows":   t.Len(),
		"youths": youths.Len(),
		"days":   len(totals),
		"shown":  len(shown),
		"mean":   mean,
	}).Info("посещаемость посчитана")

	res := &Result{RowCount: int64(anon.Len())}
	bars := chart.Bars{
		Title:      fmt.Sprintf("%s, medel = %.1f", ac.Title, mean),
		YLabel:     "Antal ungdomar",
		Categories: make([]string, len(shown)),
		Series:     []chart.Series{{Name: "total", Values: make([]float64, len(shown))}},
		Rotate:     true,
	}
	for i, d := range shown {
		bars.Categories[i] = d.Date
		bars.Series[0].Values[i] = d.Total
	}
	png := paths.Sibling(path, config.OutputName(ac.Chart, year))
	if ok, err := saveChart(bars, png); err != nil {
		return nil, err
	} else if ok {
		res.add(png)
	}
	return res, nil
}

// Remind пишет адреса участников, которые есть в списке неоплативших.
func (r *Runner) Remind(ctx context.Context, membersFile, notPaidFile, output string) (*Result, error) {
	if membersFile == "" {
		membersFile = r.Cfg.Reminder.Members
	}
	if notPaidFile == "" {
		notPaidFile = r.Cfg.Reminder.NotPaid
	}
	if membersFile == "" || notPaidFile == "" {
		return nil, apperr.New(apperr.CodeConfig, "не указаны файлы участников и неоплативших")
	}
	membersPath := r.Paths.Resolve(membersFile)

	ms, err := workbook.ReadFirstSheet(membersPath)
	if err != nil {
		return nil, err
	}
	np, err := workbook.ReadFirstSheet(r.Paths.Resolve(notPaidFile))
	if err != nil {
		return nil, err
	}
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	emails, err := reminder.Remind(ms, np, r.Cfg.Reminder.MemberColumns)
	if err != nil {
		return nil, err
	}

	if output == "" {
		output = paths.Sibling(membersPath, r.Cfg.Reminder.Output)
	} else {
		output = r.Paths.Resolve(output)
	}
	if err := reminder.WriteCSV(output, emails); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"members":  ms.Len(),
		"not_paid": np.Len(),
		"remind":   len(emails),
	}).Info("список напоминаний готов")

	return &Result{OutputFiles: []string{output}, RowCount: int64(len(emails))}, nil
}

// checkCtx переводит отмену или таймаут в ошибку с кодом CANCELED.
func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &apperr.Error{Code: apperr.CodeCanceled, Message: "прогон прерван", Cause: err}
	}
	return nil
}

// saveChart пропускает пустой график с предупреждением.
func saveChart(b chart.Bars, path string) (bool, error) {
	err := b.Save(path)
	if errors.Is(err, chart.ErrNoData) {
		log.WithField("file", path).Warn("нет данных, график не построен")
		return false, nil
	}
	return err == nil, err
}
