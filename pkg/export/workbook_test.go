package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook_WritesSheetsInOrder(t *testing.T) {
	data, err := Workbook(
		Sheet{Name: "Users", Headers: []string{"ID", "USERNAME"}, Rows: [][]interface{}{{1, "alice"}, {2, "bob"}}},
		Sheet{Name: "Jobs", Headers: []string{"ID", "TITLE"}, Rows: [][]interface{}{{7, "Backend Engineer"}}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Users", "Jobs"}, f.GetSheetList())

	v, err := f.GetCellValue("Users", "B3")
	require.NoError(t, err)
	assert.Equal(t, "bob", v)

	v, err = f.GetCellValue("Jobs", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", v)
}

func TestWorkbook_NoSheets(t *testing.T) {
	_, err := Workbook()
	assert.Error(t, err)
}
