package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"ipcammap/internal/models"
)

// SheetName is the worksheet holding the camera table.
const SheetName = "cameras"

// SaveXLSX writes records to a single-sheet workbook at path using the same
// columns as the CSV export.
func SaveXLSX(path string, records []models.CameraRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range models.CSVHeader {
		header.AddCell().SetString(col)
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Address)
		row.AddCell().SetInt(r.Port)
		row.AddCell().SetFloat(r.Latitude)
		row.AddCell().SetFloat(r.Longitude)
		row.AddCell().SetString(r.Country)
		row.AddCell().SetString(r.City)
		row.AddCell().SetString(r.Organization)
		row.AddCell().SetString(r.Product)
		row.AddCell().SetString(r.SourceQuery)
	}

	return SaveFile(path, func(w io.Writer) error {
		return eris.Wrapf(f.Write(w), "export: write xlsx %s", path)
	})
}
