package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/internal/logger"
	"github.com/locvowork/company_dashboard/pkg/dataframe"
)

// SheetsLoader reads one tab per dataset from a Google spreadsheet.
type SheetsLoader struct {
	svc           *sheets.Service
	spreadsheetID string
}

var _ domain.TableLoader = (*SheetsLoader)(nil)

// NewSheetsLoader authenticates with service account credentials, given
// inline or as a file path. Inline JSON wins when both are set.
func NewSheetsLoader(ctx context.Context, spreadsheetID, credentialsJSON, credentialsFile string) (*SheetsLoader, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id (set GOOGLE_SPREADSHEET_ID)")
	}

	var creds []byte
	switch {
	case credentialsJSON != "":
		creds = []byte(credentialsJSON)
	case credentialsFile != "":
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		creds = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	logger.InfoLog(ctx, "Google Sheets loader ready for spreadsheet %s", spreadsheetID)
	return &SheetsLoader{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (l *SheetsLoader) Load(ctx context.Context, name string) (*dataframe.Table, error) {
	if !validDatasetName(name) {
		return nil, &dataframe.NotFoundError{Dataset: name, Location: "spreadsheet " + l.spreadsheetID}
	}
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, "'"+name+"'").
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusBadRequest || apiErr.Code == http.StatusNotFound) {
			return nil, &dataframe.NotFoundError{Dataset: name, Location: "spreadsheet " + l.spreadsheetID}
		}
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}
	return tableFromRows(name, serialDates(name, valuesToRows(resp.Values)))
}

// valuesToRows flattens the API value matrix into text rows.
func valuesToRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = cellText(v)
		}
		rows[i] = rec
	}
	return rows
}
