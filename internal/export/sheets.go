package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"bizhub/internal/log"
)

// SpreadsheetExporter writes exported rows into a Google Sheets worksheet,
// the spreadsheet-shaped export target. Each export replaces the sheet's
// content with a header row followed by the data rows.
type SpreadsheetExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	logger        *log.Logger
}

// NewSpreadsheetExporter creates an exporter from the environment.
// Required: EXPORT_SPREADSHEET_ID. Auth via GOOGLE_CREDENTIALS_JSON or
// application default credentials.
func NewSpreadsheetExporter(ctx context.Context, logger *log.Logger) (*SpreadsheetExporter, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("EXPORT_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing EXPORT_SPREADSHEET_ID")
	}

	var opts []goption.ClientOption
	if raw := os.Getenv("GOOGLE_CREDENTIALS_JSON"); raw != "" {
		opts = append(opts, goption.WithCredentialsJSON([]byte(raw)))
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SpreadsheetExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		logger:        logger.WithComponent(log.ComponentExport),
	}, nil
}

// Export writes columns and rows to the named sheet, clearing previous
// content first so a re-export never leaves stale trailing rows behind.
func (e *SpreadsheetExporter) Export(ctx context.Context, sheetName string, columns []string, rows [][]string) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:Z", sheetName)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", sheetName, err)
	}

	values := make([][]any, 0, len(rows)+1)
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	values = append(values, header)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		values = append(values, cells)
	}

	writeRange := fmt.Sprintf("%s!A1", sheetName)
	vr := &gsheet.ValueRange{Values: values}
	if _, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write sheet %s: %w", sheetName, err)
	}

	e.logger.InfoContext(ctx, "spreadsheet export completed",
		log.FieldExportName, sheetName, "rows", len(rows))
	return nil
}
