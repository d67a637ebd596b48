// Package aggregate считает участников по полу и возрастной группе.
package aggregate

import (
	"sort"

	"github.com/ryabkov82/clubstats/internal/age"
)

// Entry ключ группировки одной записи.
type Entry struct {
	Gender string
	Bucket age.Bucket
}

// AggregatedCount непустая группа. Группы с нулём записей не создаются.
type AggregatedCount struct {
	Gender string
	Bucket age.Bucket
	Year   int
	Count  int
}

type key struct {
	year   int
	gender string
	rank   int
}

// Count группирует записи одного года.
func Count(year int, entries []Entry) []AggregatedCount {
	groups := make(map[key]*AggregatedCount)
	for _, e := range entries {
		k := key{year: year, gender: e.Gender, rank: e.Bucket.Rank}
		g, ok := groups[k]
		if !ok {
			g = &AggregatedCount{Gender: e.Gender, Bucket: e.Bucket, Year: year}
			groups[k] = g
		}
		g.Count++
	}
	return collect(groups)
}

// Merge объединяет результаты нескольких прогонов; совпадающие группы
// складываются.
func Merge(sets ...[]AggregatedCount) []AggregatedCount {
	groups := make(map[key]*AggregatedCount)
	for _, set := range sets {
		for _, c := range set {
			k := key{year: c.Year, gender: c.Gender, rank: c.Bucket.Rank}
			if g, ok := groups[k]; ok {
				g.Count += c.Count
				continue
			}
			cp := c
			groups[k] = &cp
		}
	}
	return collect(groups)
}

func collect(groups map[key]*AggregatedCount) []AggregatedCount {
	out := make([]AggregatedCount, 0, len(groups))
	for _, g := range groups {
		if g.Count > 0 {
			out = append(out, *g)
		}
	}
	Sort(out)
	return out
}

// Sort упорядочивает по году, полу и номеру возрастной группы.
func Sort(counts []AggregatedCount) {
	sort.SliceStable(counts, func(i, j int) bool {
		a, b := counts[i], counts[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Gender != b.Gender {
			return a.Gender < b.Gender
		}
		return a.Bucket.Rank < b.Bucket.Rank
	})
}

// Genders возвращает пол в порядке сортировки.
func Genders(counts []AggregatedCount) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range counts {
		if !seen[c.Gender] {
			seen[c.Gender] = true
			out = append(out, c.Gender)
		}
	}
	sort.Strings(out)
	return out
}

// Years возвращает годы по возрастанию.
func Years(counts []AggregatedCount) []int {
	seen := make(map[int]bool)
	var out []int
	for _, c := range counts {
		if !seen[c.Year] {
			seen[c.Year] = true
			out = append(out, c.Year)
		}
	}
	sort.Ints(out)
	return out
}

// Total сумма по всем группам, удовлетворяющим match (nil = все).
func Total(counts []AggregatedCount, match func(AggregatedCount) bool) int {
	n := 0
	for _, c := range counts {
		if match == nil || match(c) {
			n += c.Count
		}
	}
	return n
}
