package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes a header row followed by the data rows. encoding/csv
// quotes fields containing the delimiter, quotes or newlines, so values
// with embedded commas survive a round trip. (The original tools joined
// fields with a bare comma; that corrupted such values and is deliberately
// not reproduced.)
func WriteCSV(w io.Writer, columns []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadCSV parses a CSV produced by WriteCSV back into its header and rows.
func ReadCSV(r io.Reader) (columns []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}
