package xlsx_test

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/fwojciec/docgrid"
	"github.com/fwojciec/docgrid/xlsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tables.xlsx")
	tables := []*docgrid.Table{
		{
			Index:    0,
			Name:     "Sensors",
			Headers:  []string{"Sensor", "Reading"},
			DataRows: [][]string{{"TP-1", "42"}, {"TP-2", "17"}},
		},
		{
			Index:    1,
			Name:     "Sensors", // collides with the first sheet
			Headers:  []string{"Station"},
			DataRows: [][]string{{"North"}},
		},
		{
			Index:    2,
			Name:     "A very long caption that exceeds the sheet name limit by far",
			Headers:  []string{"X"},
			DataRows: nil,
		},
	}

	require.NoError(t, xlsx.NewExporter().Export(tables, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 3)
	assert.Equal(t, "Sensors", sheets[0])
	assert.Equal(t, "Sensors_2", sheets[1])
	assert.LessOrEqual(t, len(sheets[2]), 31)

	got, err := f.GetCellValue("Sensors", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sensor", got)

	got, err = f.GetCellValue("Sensors", "B3")
	require.NoError(t, err)
	assert.Equal(t, "17", got)

	got, err = f.GetCellValue("Sensors_2", "A2")
	require.NoError(t, err)
	assert.Equal(t, "North", got)
}

func TestExporter_ExportDefaultSheetName(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tables.xlsx")
	tables := []*docgrid.Table{
		{
			Index:    0,
			Name:     "Sheet1", // would collide with the workbook's default sheet
			Headers:  []string{"Sensor"},
			DataRows: [][]string{{"TP-1"}},
		},
	}

	require.NoError(t, xlsx.NewExporter().Export(tables, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Sheet1_2"}, f.GetSheetList())
	got, err := f.GetCellValue("Sheet1_2", "A2")
	require.NoError(t, err)
	assert.Equal(t, "TP-1", got)
}

func TestExporter_ExportEmpty(t *testing.T) {
	t.Parallel()

	err := xlsx.NewExporter().Export(nil, filepath.Join(t.TempDir(), "empty.xlsx"))
	require.Error(t, err)
	assert.Equal(t, docgrid.EINVALID, docgrid.ErrorCode(err))
}
