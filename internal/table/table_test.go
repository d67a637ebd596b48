package table

import (
	"fmt"
	"testing"

	"github.com/ryabkov82/clubstats/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		[]string{"Namn", "Född", "Kön", "2020-06-04"},
		[][]string{
			{"Anna", "2005", "Kvinna", "1(1)"},
			{"Bo", "2003", "Man"},
			{"Cia", "2010", "Kvinna", ""},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestNewPadsShortRows(t *testing.T) {
	tbl := sample(t)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"Bo", "2003", "Man", ""}, tbl.Row(1))
}

func TestNewRejectsDuplicateColumns(t *testing.T) {
	_, err := New([]string{"a", "a"}, nil)
	assert.ErrorIs(t, err, apperr.ErrColumnCollision)
}

func TestNormalizeColumns(t *testing.T) {
	tbl := sample(t)
	m, err := tbl.NormalizeColumns()
	require.NoError(t, err)
	assert.Equal(t, []string{"namn", "fodd", "kon", "2020-06-04"}, tbl.Columns())
	assert.Equal(t, "Född", m.Original[1])

	born, err := tbl.Column("fodd")
	require.NoError(t, err)
	assert.Equal(t, []string{"2005", "2003", "2010"}, born)
}

func TestMissingColumn(t *testing.T) {
	tbl := sample(t)
	_, err := tbl.Column("efternamn")
	assert.ErrorIs(t, err, apperr.ErrMissingColumn)

	_, err = tbl.Drop("Namn", "efternamn")
	assert.ErrorIs(t, err, apperr.ErrMissingColumn)
}

func TestDropKeepsRowsAndValues(t *testing.T) {
	tbl := sample(t)
	out, err := tbl.Drop("Namn", "Född")
	require.NoError(t, err)

	assert.Equal(t, tbl.Len(), out.Len())
	assert.Equal(t, []string{"Kön", "2020-06-04"}, out.Columns())
	assert.Equal(t, []string{"Kvinna", "1(1)"}, out.Row(0))
	assert.Equal(t, []string{"Man", ""}, out.Row(1))

	// исходная таблица не меняется
	assert.Len(t, tbl.Columns(), 4)
}

func TestFilter(t *testing.T) {
	tbl := sample(t)
	gender, err := tbl.Column("Kön")
	require.NoError(t, err)
	out, err := tbl.Filter(func(r int) (bool, error) {
		return gender[r] == "Kvinna", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())

	_, err = tbl.Filter(func(int) (bool, error) {
		return false, apperr.New(apperr.CodeParse, "плохо")
	})
	assert.ErrorIs(t, err, apperr.ErrParse)
}

func TestRenameAndSetColumns(t *testing.T) {
	tbl := sample(t)
	require.NoError(t, tbl.Rename(map[string]string{"Namn": "name", "saknas": "x"}))
	_, err := tbl.Col("name")
	assert.NoError(t, err)

	require.NoError(t, tbl.SetColumns("a", "b", "c", "d"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, tbl.Columns())
	assert.ErrorIs(t, tbl.SetColumns("a"), apperr.ErrMissingColumn)
}

func TestApply(t *testing.T) {
	tbl := sample(t)
	err := tbl.Apply([]string{"2020-06-04"}, func(v string) (string, error) {
		if v == "" {
			return "0", nil
		}
		return "1", nil
	})
	require.NoError(t, err)
	col, _ := tbl.Column("2020-06-04")
	assert.Equal(t, []string{"1", "0", "0"}, col)

	err = tbl.Apply([]string{"Född"}, func(v string) (string, error) {
		return "", fmt.Errorf("bad %s", v)
	})
	assert.EqualError(t, err, `строка 2, колонка "Född": bad 2005`)
}
