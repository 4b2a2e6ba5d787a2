package ingest

import (
	"context"

	"golang.org/x/oauth2"

	"einvoice_server/core/port/out"
	"einvoice_server/pkg/apperr"
	"einvoice_server/pkg/logger"
)

// DestinationResolver looks up or creates the Drive folder and the
// per-period spreadsheet inside it.
//
// Lookup-then-create is not atomic: two concurrent invocations with the
// same name can both miss and both create. Accepted for this workload;
// the next lookup returns the first file in service order either way.
type DestinationResolver struct {
	drive out.DriveProviderPort
}

func NewDestinationResolver(drive out.DriveProviderPort) *DestinationResolver {
	return &DestinationResolver{drive: drive}
}

// ResolveFolder returns the ID of the named Drive folder, creating it
// when absent. On multiple hits the first wins.
func (r *DestinationResolver) ResolveFolder(ctx context.Context, token *oauth2.Token, name string) (string, error) {
	files, err := r.drive.FindByName(ctx, token, name, "")
	if err != nil {
		return "", err
	}
	if len(files) > 0 {
		return files[0].ID, nil
	}

	created, err := r.drive.CreateFolder(ctx, token, name)
	if err != nil {
		return "", err
	}
	logger.Info("[DestinationResolver.ResolveFolder] created folder %q (%s)", name, created.ID)
	return created.ID, nil
}

// ResolveSpreadsheet returns the ID of the named spreadsheet under
// parentID, creating it when absent.
func (r *DestinationResolver) ResolveSpreadsheet(ctx context.Context, token *oauth2.Token, parentID, name string) (string, error) {
	if parentID == "" {
		return "", apperr.BadRequest("spreadsheet lookup requires a parent folder")
	}

	files, err := r.drive.FindByName(ctx, token, name, parentID)
	if err != nil {
		return "", err
	}
	if len(files) > 0 {
		return files[0].ID, nil
	}

	created, err := r.drive.CreateSpreadsheet(ctx, token, name, parentID)
	if err != nil {
		return "", err
	}
	logger.Info("[DestinationResolver.ResolveSpreadsheet] created spreadsheet %q (%s) in %s", name, created.ID, parentID)
	return created.ID, nil
}
