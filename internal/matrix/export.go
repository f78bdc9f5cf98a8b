package matrix

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteCSV renders the full matrix, one row per color group, under the
// header `"Series / Color","Total Stock",<power columns...>`. Every value
// is double-quote wrapped with internal quotes doubled, matching the
// format the storefront side already imports.
func WriteCSV(w io.Writer, m *Matrix) error {
	header := make([]string, 0, 2+len(m.Powers))
	header = append(header, "Series / Color", "Total Stock")
	header = append(header, m.Powers...)
	if err := writeCSVRow(w, header); err != nil {
		return err
	}

	for _, row := range m.Rows {
		cells := make([]string, 0, 2+len(m.PowerSlugs))
		cells = append(cells, row.SeriesName+" - "+row.ColorName)
		cells = append(cells, strconv.Itoa(row.TotalStock))
		for _, slug := range m.PowerSlugs {
			if cell, ok := row.CellsByPower[slug]; ok {
				cells = append(cells, strconv.Itoa(cell.Stock))
			} else {
				cells = append(cells, "")
			}
		}
		if err := writeCSVRow(w, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVRow(w io.Writer, cells []string) error {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	_, err := fmt.Fprintln(w, strings.Join(quoted, ","))
	return err
}
