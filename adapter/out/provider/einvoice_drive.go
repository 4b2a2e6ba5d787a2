package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"einvoice_server/core/port/out"
	"einvoice_server/pkg/apperr"
)

const (
	mimeFolder      = "application/vnd.google-apps.folder"
	mimeSpreadsheet = "application/vnd.google-apps.spreadsheet"
)

// DriveAdapter implements out.DriveProviderPort against the Drive API.
type DriveAdapter struct {
	config *oauth2.Config
	cb     *gobreaker.CircuitBreaker
}

var _ out.DriveProviderPort = (*DriveAdapter)(nil)

func NewDriveAdapter(config *oauth2.Config) *DriveAdapter {
	return &DriveAdapter{
		config: config,
		cb:     newBreaker("drive-api"),
	}
}

func (a *DriveAdapter) newService(ctx context.Context, token *oauth2.Token) (*drive.Service, error) {
	client := a.config.Client(ctx, token)
	service, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, apperr.RemoteService("drive", err)
	}
	return service, nil
}

// escapeQuery escapes a value for embedding in a Drive query string.
func escapeQuery(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}

func (a *DriveAdapter) FindByName(ctx context.Context, token *oauth2.Token, name, parentID string) ([]out.DriveFile, error) {
	service, err := a.newService(ctx, token)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("name = '%s'", escapeQuery(name))
	if parentID != "" {
		query += fmt.Sprintf(" and '%s' in parents", escapeQuery(parentID))
	}

	resp, err := a.cb.Execute(func() (interface{}, error) {
		return service.Files.List().
			Q(query).
			Spaces("drive").
			Fields("files(id, name)").
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, apperr.RemoteService("drive", err)
	}

	list := resp.(*drive.FileList)
	files := make([]out.DriveFile, 0, len(list.Files))
	for _, f := range list.Files {
		files = append(files, out.DriveFile{ID: f.Id, Name: f.Name})
	}
	return files, nil
}

func (a *DriveAdapter) CreateFolder(ctx context.Context, token *oauth2.Token, name string) (*out.DriveFile, error) {
	return a.create(ctx, token, &drive.File{
		Name:     name,
		MimeType: mimeFolder,
	})
}

func (a *DriveAdapter) CreateSpreadsheet(ctx context.Context, token *oauth2.Token, name, parentID string) (*out.DriveFile, error) {
	return a.create(ctx, token, &drive.File{
		Name:     name,
		MimeType: mimeSpreadsheet,
		Parents:  []string{parentID},
	})
}

func (a *DriveAdapter) create(ctx context.Context, token *oauth2.Token, file *drive.File) (*out.DriveFile, error) {
	service, err := a.newService(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := a.cb.Execute(func() (interface{}, error) {
		return service.Files.Create(file).Fields("id, name").Context(ctx).Do()
	})
	if err != nil {
		return nil, apperr.RemoteService("drive", err)
	}

	created := resp.(*drive.File)
	return &out.DriveFile{ID: created.Id, Name: created.Name}, nil
}
