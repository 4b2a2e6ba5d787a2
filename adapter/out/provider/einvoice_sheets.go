package provider

import (
	"context"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"einvoice_server/core/port/out"
	"einvoice_server/pkg/apperr"
)

// SheetsAdapter implements out.SheetProviderPort against the Sheets API.
type SheetsAdapter struct {
	config *oauth2.Config
	cb     *gobreaker.CircuitBreaker
}

var _ out.SheetProviderPort = (*SheetsAdapter)(nil)

func NewSheetsAdapter(config *oauth2.Config) *SheetsAdapter {
	return &SheetsAdapter{
		config: config,
		cb:     newBreaker("sheets-api"),
	}
}

func (a *SheetsAdapter) newService(ctx context.Context, token *oauth2.Token) (*sheets.Service, error) {
	client := a.config.Client(ctx, token)
	service, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, apperr.RemoteService("sheets", err)
	}
	return service, nil
}

func (a *SheetsAdapter) UpdateValues(ctx context.Context, token *oauth2.Token, spreadsheetID, valueRange string, values [][]string) error {
	service, err := a.newService(ctx, token)
	if err != nil {
		return err
	}

	data := make([][]interface{}, len(values))
	for i, row := range values {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		data[i] = cells
	}

	_, err = a.cb.Execute(func() (interface{}, error) {
		return service.Spreadsheets.Values.Update(spreadsheetID, valueRange, &sheets.ValueRange{
			Values: data,
		}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	})
	if err != nil {
		return apperr.RemoteService("sheets", err)
	}
	return nil
}

func (a *SheetsAdapter) AutoResizeColumns(ctx context.Context, token *oauth2.Token, spreadsheetID string, sheetID, start, end int64) error {
	service, err := a.newService(ctx, token)
	if err != nil {
		return err
	}

	_, err = a.cb.Execute(func() (interface{}, error) {
		return service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
					Dimensions: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "COLUMNS",
						StartIndex: start,
						EndIndex:   end,
					},
				},
			}},
		}).Context(ctx).Do()
	})
	if err != nil {
		return apperr.RemoteService("sheets", err)
	}
	return nil
}
