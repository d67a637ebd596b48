package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ryabkov82/clubstats/internal/age"
	"github.com/ryabkov82/clubstats/internal/aggregate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counts() []aggregate.AggregatedCount {
	var in []aggregate.Entry
	for _, e := range []struct {
		g string
		a int
	}{{"Man", 69}, {"Kvinna", 15}, {"Man", 10}, {"Kvinna", 14}} {
		b, _ := age.BucketFor(e.a)
		in = append(in, aggregate.Entry{Gender: e.g, Bucket: b})
	}
	return aggregate.Count(2019, in)
}

func render(t *testing.T, s Summary) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, s.Write(&b))
	return b.String()
}

func TestSummary(t *testing.T) {
	s := Summary{
		Title:  "Medlemmar 2019",
		Counts: counts(),
		Ages:   []float64{69, 15, 10, 14},
	}
	want := "Medlemmar 2019\n" +
		"Totalt: 4 (Kvinna 2, Man 2)\n" +
		"Medelålder: 27.0, median: 14.5\n" +
		"\n" +
		"Kön     Ålder  Antal\n" +
		"Kvinna  13-16  2\n" +
		"Man     8-12   1\n" +
		"Man     26+    1\n"
	assert.Equal(t, want, render(t, s))
}

func TestSummaryEmpty(t *testing.T) {
	s := Summary{Title: "Tomt"}
	assert.Equal(t, "Tomt\nTotalt: 0\n\nKön  Ålder  Antal\n", render(t, s))
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.txt")
	s := Summary{Title: "Medlemmar 2019", Counts: counts()}
	require.NoError(t, s.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, render(t, s), string(data))
}
