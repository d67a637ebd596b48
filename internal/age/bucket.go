package age

// Bucket возрастная группа с порядковым номером для сортировки.
type Bucket struct {
	Label string
	Rank  int
	// Max включительная верхняя граница; у последней группы её нет.
	Max     int
	Bounded bool
}

// Границы интервалов (-1, 7], (7, 12], (12, 16], (16, 20], (20, 25], (25, ∞).
var Buckets = []Bucket{
	{Label: "0-7", Rank: 0, Max: 7, Bounded: true},
	{Label: "8-12", Rank: 1, Max: 12, Bounded: true},
	{Label: "13-16", Rank: 2, Max: 16, Bounded: true},
	{Label: "17-20", Rank: 3, Max: 20, Bounded: true},
	{Label: "21-25", Rank: 4, Max: 25, Bounded: true},
	{Label: "26+", Rank: 5},
}

// BucketFor возвращает группу для возраста. Для отрицательного возраста
// группы нет.
func BucketFor(years int) (Bucket, bool) {
	if years < 0 {
		return Bucket{Rank: -1}, false
	}
	for _, b := range Buckets {
		if !b.Bounded || years <= b.Max {
			return b, true
		}
	}
	return Bucket{Rank: -1}, false
}
