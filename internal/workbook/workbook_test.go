package workbook

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ryabkov82/clubstats/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSaveAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	err := Save(path,
		Sheet{
			Name:    "Data",
			Headers: []string{"fornamn", "age", "binned"},
			Rows: [][]interface{}{
				{"Anna", 15, "13-16"},
				{"Bo", 69, "26+"},
			},
		},
		Sheet{
			Name:    "Stat",
			Headers: []string{"Kön", "Ålder", "Antal"},
			Rows:    [][]interface{}{{"Kvinna", "13-16", 1}},
		},
	)
	require.NoError(t, err)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"Data", "Stat"}, r.Sheets())

	data, err := r.ReadSheet("Data")
	require.NoError(t, err)
	assert.Equal(t, []string{"fornamn", "age", "binned"}, data.Columns())
	assert.Equal(t, 2, data.Len())
	assert.Equal(t, []string{"Bo", "69", "26+"}, data.Row(1))

	first, err := r.ReadFirstSheet()
	require.NoError(t, err)
	assert.Equal(t, 2, first.Len())

	stat, err := ReadSheet(path, "Stat")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kvinna", "13-16", "1"}, stat.Row(0))
}

func TestReadConvertsDateCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persons.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Förnamn", "Födelsedat/Personnr", "Född"}))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Anna"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", time.Date(2003, 1, 15, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue("Sheet1", "C2", 2003))
	require.NoError(t, f.SetCellValue("Sheet1", "A4", "Bo"))
	require.NoError(t, f.SetCellValue("Sheet1", "B4", "1950-12-31"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := ReadFirstSheet(path)
	require.NoError(t, err)

	// пустая третья строка пропущена
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"Anna", "2003-01-15", "2003"}, tbl.Row(0))
	assert.Equal(t, []string{"Bo", "1950-12-31", ""}, tbl.Row(1))
}

func TestReadMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.ErrorIs(t, err, apperr.ErrMissingFile)

	path := filepath.Join(t.TempDir(), "one.xlsx")
	require.NoError(t, Save(path, Sheet{Name: "Data", Headers: []string{"a"}}))

	_, err = ReadSheet(path, "Aktiviteter per person och dag")
	assert.ErrorIs(t, err, apperr.ErrMissingFile)
}

func TestUnnamedHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaps.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Namn", "", "Född"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Anna", "x", 2005}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := ReadFirstSheet(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Namn", "unnamed_2", "Född"}, tbl.Columns())
}

func TestDataWiderThanHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Namn", "Född"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Anna", 2005, "K", "1(1)"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Bo", 2003}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := ReadFirstSheet(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Namn", "Född", "unnamed_3", "unnamed_4"}, tbl.Columns())
	assert.Equal(t, []string{"Anna", "2005", "K", "1(1)"}, tbl.Row(0))
	assert.Equal(t, []string{"Bo", "2003", "", ""}, tbl.Row(1))
}

func TestLayoutWidths(t *testing.T) {
	var l layout
	l.Init([]string{"Kön", "fodelsedat_personnr"})
	l.AnalyzeSample([][]interface{}{{"Kvinna", "1950-12-31"}})

	assert.Equal(t, float64(minColWidth), l.width(0))
	assert.Equal(t, float64(len("fodelsedat_personnr")+2), l.width(1))
	assert.Equal(t, float64(minColWidth), l.width(5))
}
