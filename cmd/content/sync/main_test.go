package main

import (
	"context"
	"testing"

	"github.com/goliatone/go-mdc/cmd/content/internal/bootstrap"
	"github.com/goliatone/go-mdc/internal/logging"
	"github.com/goliatone/go-mdc/pkg/interfaces"
)

type stubSyncService struct {
	syncCalls int
	syncDir   string
	syncOpts  interfaces.SyncOptions
}

func (s *stubSyncService) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubSyncService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return nil, nil
}

func (s *stubSyncService) Render(context.Context, []byte, interfaces.ParseOptions) (*interfaces.ParseResult, error) {
	return nil, nil
}

func (s *stubSyncService) Import(context.Context, *interfaces.Document, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return nil, nil
}

func (s *stubSyncService) ImportDirectory(context.Context, string, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return nil, nil
}

func (s *stubSyncService) Sync(_ context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	s.syncCalls++
	s.syncDir = dir
	s.syncOpts = opts
	return &interfaces.SyncResult{}, nil
}

func TestRunSyncUsesCommandHandler(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubSyncService{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Service: svc,
			Logger:  logging.NoOp(),
		}, nil
	}

	if err := runSync([]string{
		"-directory", "docs",
		"-delete-orphaned=false",
	}); err != nil {
		t.Fatalf("runSync returned error: %v", err)
	}
	if svc.syncCalls != 1 {
		t.Fatalf("expected sync to be called once, got %d", svc.syncCalls)
	}
	if svc.syncDir != "docs" {
		t.Fatalf("expected sync directory docs, got %s", svc.syncDir)
	}
	if svc.syncOpts.DeleteOrphaned {
		t.Fatal("expected delete-orphaned to be disabled")
	}
	if !svc.syncOpts.UpdateExisting {
		t.Fatal("expected update-existing to default on")
	}
}
