package chart

import (
	"sort"
	"strconv"

	"github.com/ryabkov82/clubstats/internal/age"
	"github.com/ryabkov82/clubstats/internal/aggregate"
)

// buckets возвращает только встречающиеся группы, по возрастанию номера.
func buckets(counts []aggregate.AggregatedCount) []age.Bucket {
	seen := make(map[int]age.Bucket)
	for _, c := range counts {
		seen[c.Bucket.Rank] = c.Bucket
	}
	out := make([]age.Bucket, 0, len(seen))
	for _, b := range seen {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

func series(name string, bs []age.Bucket, counts []aggregate.AggregatedCount, match func(aggregate.AggregatedCount) bool) Series {
	pos := make(map[int]int, len(bs))
	for i, b := range bs {
		pos[b.Rank] = i
	}
	s := Series{Name: name, Values: make([]float64, len(bs))}
	for _, c := range counts {
		if match(c) {
			s.Values[pos[c.Bucket.Rank]] += float64(c.Count)
		}
	}
	return s
}

func labelsOf(bs []age.Bucket) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Label
	}
	return out
}

// AgeDistribution: возрастные группы по оси X, серия на каждый пол.
func AgeDistribution(title string, counts []aggregate.AggregatedCount) Bars {
	bs := buckets(counts)
	b := Bars{
		Title:      title,
		XLabel:     "Ålder",
		YLabel:     "Antal",
		Categories: labelsOf(bs),
	}
	for _, g := range aggregate.Genders(counts) {
		g := g
		b.Series = append(b.Series, series(g, bs, counts, func(c aggregate.AggregatedCount) bool {
			return c.Gender == g
		}))
	}
	return b
}

// YearTrend: возрастные группы по оси X, серия на каждый год.
func YearTrend(title string, counts []aggregate.AggregatedCount) Bars {
	bs := buckets(counts)
	b := Bars{
		Title:      title,
		XLabel:     "Ålder",
		YLabel:     "Antal",
		Categories: labelsOf(bs),
	}
	for _, y := range aggregate.Years(counts) {
		y := y
		b.Series = append(b.Series, series(strconv.Itoa(y), bs, counts, func(c aggregate.AggregatedCount) bool {
			return c.Year == y
		}))
	}
	return b
}
