package sheets

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/shopledger/internal/config"
	"github.com/mamadbah2/shopledger/internal/repository/store"
)

// GoogleSheetRepository stores every ledger table as a tab of one spreadsheet.
// Tab names match store.TableName values.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

var _ store.LedgerStore = (*GoogleSheetRepository)(nil)

// NewGoogleSheetRepository builds a Google Sheets backed ledger store. Extra
// client options are appended after the credentials, which lets tests point the
// client at a local endpoint.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsPath != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// ReadTable fetches the whole tab. Numbers are requested unformatted so locale
// grouping never reaches the codecs; dates stay as their displayed text.
func (r *GoogleSheetRepository) ReadTable(ctx context.Context, name store.TableName) (store.Table, error) {
	sheetRange := string(name) + "!A:Z"

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return store.Table{}, fmt.Errorf("read range %s: %w: %w", sheetRange, store.ErrUnavailable, err)
	}

	values := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellText(v)
		}
		values = append(values, cells)
	}

	r.logger.Debug("sheet read", zap.String("range", sheetRange), zap.Int("rows", len(values)))
	return store.NewTable(values), nil
}

// WriteTable clears the tab and writes the header plus all rows from A1.
func (r *GoogleSheetRepository) WriteTable(ctx context.Context, name store.TableName, table store.Table) error {
	sheetRange := string(name) + "!A:Z"

	if _, err := r.service.Spreadsheets.Values.Clear(r.spreadsheetID, sheetRange, &sheetsapi.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear range %s: %w: %w", sheetRange, store.ErrUnavailable, err)
	}

	values := table.Values()
	if len(values) == 0 {
		return nil
	}

	payload := &sheetsapi.ValueRange{Values: make([][]interface{}, 0, len(values))}
	for _, row := range values {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v
		}
		payload.Values = append(payload.Values, cells)
	}

	target := string(name) + "!A1"
	call := r.service.Spreadsheets.Values.Update(r.spreadsheetID, target, payload).
		ValueInputOption("RAW").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("update range %s: %w: %w", target, store.ErrUnavailable, err)
	}

	r.logger.Debug("sheet written", zap.String("range", target), zap.Int("rows", len(table.Rows)))
	return nil
}

// cellText renders an unformatted cell. Numbers arrive as float64 and are written
// in plain notation, never as 1e+06.
func cellText(v interface{}) string {
	switch value := v.(type) {
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
