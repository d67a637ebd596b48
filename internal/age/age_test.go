package age

import (
	"testing"
	"time"

	"github.com/ryabkov82/clubstats/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDerive(t *testing.T) {
	tests := []struct {
		birth string
		ref   time.Time
		want  int
	}{
		{"1950-12-31", date(2019, 12, 31), 69},
		{"1950-01-01", date(2019, 12, 31), 69},
		{"2003-01-15", date(2019, 1, 1), 15},
		{"2003-01-15", date(2019, 1, 15), 16},
		{"2004-02-29", date(2019, 2, 28), 14},
		{"2004-02-29", date(2019, 3, 1), 15},
		{"2019-12-31", date(2019, 12, 31), 0},
	}
	for _, tt := range tests {
		got, err := Derive(tt.birth, tt.ref)
		require.NoError(t, err, tt.birth)
		assert.Equal(t, tt.want, got, "Derive(%s, %s)", tt.birth, tt.ref.Format(DateLayout))
	}
}

func TestDeriveParseError(t *testing.T) {
	for _, s := range []string{"", "19501231", "1950-13-01", "31/12/1950", "1950-12-31 00:00:00"} {
		_, err := Derive(s, date(2019, 12, 31))
		assert.ErrorIs(t, err, apperr.ErrParse, "input %q", s)
	}
}

func TestBucketForBoundaries(t *testing.T) {
	tests := []struct {
		age  int
		want string
		rank int
	}{
		{0, "0-7", 0},
		{7, "0-7", 0},
		{8, "8-12", 1},
		{12, "8-12", 1},
		{13, "13-16", 2},
		{16, "13-16", 2},
		{17, "17-20", 3},
		{20, "17-20", 3},
		{21, "21-25", 4},
		{25, "21-25", 4},
		{26, "26+", 5},
		{104, "26+", 5},
	}
	for _, tt := range tests {
		b, ok := BucketFor(tt.age)
		require.True(t, ok, "age %d", tt.age)
		assert.Equal(t, tt.want, b.Label, "age %d", tt.age)
		assert.Equal(t, tt.rank, b.Rank, "age %d", tt.age)
	}
}

func TestBucketForNegative(t *testing.T) {
	b, ok := BucketFor(-1)
	assert.False(t, ok)
	assert.Equal(t, -1, b.Rank)
}

func TestYouth(t *testing.T) {
	assert.True(t, IsYouth(2020, 2004, YouthMaxAge))
	assert.False(t, IsYouth(2020, 2003, YouthMaxAge))
	assert.Equal(t, 17, CoarseAge(2020, 2003))
}

func TestCoarseAgeDisagreesWithDerive(t *testing.T) {
	calendar, err := Derive("2003-12-31", date(2020, 6, 4))
	require.NoError(t, err)
	assert.Equal(t, 16, calendar)
	assert.Equal(t, 17, CoarseAge(2020, 2003))
}
