package out

import (
	"context"

	"golang.org/x/oauth2"
)

// DriveFile is the subset of Drive file metadata the resolver reads.
type DriveFile struct {
	ID   string
	Name string
}

// DriveProviderPort is the outbound port for Drive file lookup/creation.
type DriveProviderPort interface {
	// FindByName lists files with the exact name, optionally restricted
	// to a parent folder. Results come back in service order.
	FindByName(ctx context.Context, token *oauth2.Token, name, parentID string) ([]DriveFile, error)

	CreateFolder(ctx context.Context, token *oauth2.Token, name string) (*DriveFile, error)

	CreateSpreadsheet(ctx context.Context, token *oauth2.Token, name, parentID string) (*DriveFile, error)
}

// SheetProviderPort is the outbound port for spreadsheet writes.
type SheetProviderPort interface {
	// UpdateValues writes values into the given A1 range with
	// USER_ENTERED input semantics.
	UpdateValues(ctx context.Context, token *oauth2.Token, spreadsheetID, valueRange string, values [][]string) error

	// AutoResizeColumns auto-fits the column widths [start, end) of the
	// given sheet.
	AutoResizeColumns(ctx context.Context, token *oauth2.Token, spreadsheetID string, sheetID, start, end int64) error
}
