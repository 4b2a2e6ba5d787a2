package ingest

import (
	"context"
	"testing"

	"einvoice_server/core/port/out"
)

func TestResolveFolderCreatesOnce(t *testing.T) {
	drive := &fakeDrive{files: map[string][]out.DriveFile{}}
	resolver := NewDestinationResolver(drive)
	ctx := context.Background()

	first, err := resolver.ResolveFolder(ctx, testToken, "einvoice")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if drive.createCalls != 1 {
		t.Fatalf("create calls after first resolve = %d, want 1", drive.createCalls)
	}

	second, err := resolver.ResolveFolder(ctx, testToken, "einvoice")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if drive.createCalls != 1 {
		t.Errorf("second resolve must not create, create calls = %d", drive.createCalls)
	}
	if first != second {
		t.Errorf("resolve returned different IDs: %q then %q", first, second)
	}
}

func TestResolveFolderFirstHitWins(t *testing.T) {
	drive := &fakeDrive{files: map[string][]out.DriveFile{
		"einvoice": {
			{ID: "older", Name: "einvoice"},
			{ID: "newer", Name: "einvoice"},
		},
	}}
	resolver := NewDestinationResolver(drive)

	id, err := resolver.ResolveFolder(context.Background(), testToken, "einvoice")
	if err != nil {
		t.Fatal(err)
	}
	if id != "older" {
		t.Errorf("id = %q, want the first listed file", id)
	}
	if drive.createCalls != 0 {
		t.Errorf("create calls = %d, want 0", drive.createCalls)
	}
}

func TestResolveSpreadsheetCreatesOnce(t *testing.T) {
	drive := &fakeDrive{files: map[string][]out.DriveFile{}}
	resolver := NewDestinationResolver(drive)
	ctx := context.Background()

	first, err := resolver.ResolveSpreadsheet(ctx, testToken, "folder-1", "202401")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := resolver.ResolveSpreadsheet(ctx, testToken, "folder-1", "202401")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first != second {
		t.Errorf("resolve returned different IDs: %q then %q", first, second)
	}
	if drive.createCalls != 1 {
		t.Errorf("create calls = %d, want 1", drive.createCalls)
	}
}

func TestResolveSpreadsheetRequiresParent(t *testing.T) {
	resolver := NewDestinationResolver(&fakeDrive{files: map[string][]out.DriveFile{}})
	if _, err := resolver.ResolveSpreadsheet(context.Background(), testToken, "", "202401"); err == nil {
		t.Error("expected error for missing parent folder")
	}
}
