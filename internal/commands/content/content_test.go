package contentcmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-mdc/pkg/interfaces"
)

type stubService struct {
	importCalls []importCall
	syncCalls   []syncCall
	importErr   error
	syncErr     error
}

type importCall struct {
	dir  string
	opts interfaces.ImportOptions
}

type syncCall struct {
	dir  string
	opts interfaces.SyncOptions
}

func (s *stubService) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubService) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return nil, nil
}

func (s *stubService) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) (*interfaces.ParseResult, error) {
	return nil, nil
}

func (s *stubService) Import(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return nil, nil
}

func (s *stubService) ImportDirectory(ctx context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	s.importCalls = append(s.importCalls, importCall{dir: dir, opts: opts})
	if s.importErr != nil {
		return nil, s.importErr
	}
	return &interfaces.ImportResult{CreatedPaths: []string{"/blog/post"}}, nil
}

func (s *stubService) Sync(ctx context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	s.syncCalls = append(s.syncCalls, syncCall{dir: dir, opts: opts})
	if s.syncErr != nil {
		return nil, s.syncErr
	}
	return &interfaces.SyncResult{Created: 1}, nil
}

func TestImportDirectoryCommandValidate(t *testing.T) {
	if err := (ImportDirectoryCommand{Directory: "content"}).Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
	if err := (ImportDirectoryCommand{}).Validate(); err == nil {
		t.Fatal("expected missing directory rejected")
	}
	if err := (ImportDirectoryCommand{Directory: "   "}).Validate(); err == nil {
		t.Fatal("expected blank directory rejected")
	}
}

func TestSyncDirectoryCommandValidate(t *testing.T) {
	if err := (SyncDirectoryCommand{Directory: "content"}).Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
	if err := (SyncDirectoryCommand{Directory: " "}).Validate(); err == nil {
		t.Fatal("expected blank directory rejected")
	}
}

func TestMessageTypes(t *testing.T) {
	if got := (ImportDirectoryCommand{}).Type(); got != "mdc.content.import_directory" {
		t.Fatalf("unexpected import type %q", got)
	}
	if got := (SyncDirectoryCommand{}).Type(); got != "mdc.content.sync_directory" {
		t.Fatalf("unexpected sync type %q", got)
	}
}

func TestImportHandlerDelegates(t *testing.T) {
	service := &stubService{}
	handler := NewImportDirectoryHandler(service, nil)

	err := handler.Execute(context.Background(), ImportDirectoryCommand{
		Directory: "content/blog",
		SchemaID:  "article",
		DryRun:    true,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if len(service.importCalls) != 1 {
		t.Fatalf("expected one import call, got %d", len(service.importCalls))
	}
	call := service.importCalls[0]
	if call.dir != "content/blog" {
		t.Fatalf("unexpected directory %q", call.dir)
	}
	if call.opts.SchemaID != "article" || !call.opts.DryRun {
		t.Fatalf("unexpected options %+v", call.opts)
	}
}

func TestImportHandlerValidatesBeforeExecuting(t *testing.T) {
	service := &stubService{}
	handler := NewImportDirectoryHandler(service, nil)

	if err := handler.Execute(context.Background(), ImportDirectoryCommand{}); err == nil {
		t.Fatal("expected validation failure")
	}
	if len(service.importCalls) != 0 {
		t.Fatal("expected service untouched on invalid message")
	}
}

func TestImportHandlerPropagatesServiceError(t *testing.T) {
	boom := errors.New("walk failed")
	service := &stubService{importErr: boom}
	handler := NewImportDirectoryHandler(service, nil)

	err := handler.Execute(context.Background(), ImportDirectoryCommand{Directory: "content"})
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("expected service error surfaced, got %v", err)
	}
}

func TestSyncHandlerDelegates(t *testing.T) {
	service := &stubService{}
	handler := NewSyncDirectoryHandler(service, nil)

	err := handler.Execute(context.Background(), SyncDirectoryCommand{
		Directory:      "content",
		DeleteOrphaned: true,
		UpdateExisting: true,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if len(service.syncCalls) != 1 {
		t.Fatalf("expected one sync call, got %d", len(service.syncCalls))
	}
	opts := service.syncCalls[0].opts
	if !opts.DeleteOrphaned || !opts.UpdateExisting {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.DryRun {
		t.Fatal("expected dry run off by default")
	}
}

type recordingRegistry struct {
	handlers []any
	err      error
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestRegisterContentCommands(t *testing.T) {
	registry := &recordingRegistry{}
	set, err := RegisterContentCommands(registry, &stubService{}, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if set.Import == nil || set.Sync == nil {
		t.Fatal("expected both handlers built")
	}
	if len(registry.handlers) != 2 {
		t.Fatalf("expected both handlers registered, got %d", len(registry.handlers))
	}
}

func TestRegisterContentCommandsNilService(t *testing.T) {
	if _, err := RegisterContentCommands(&recordingRegistry{}, nil, nil); err == nil {
		t.Fatal("expected nil service rejected")
	}
}

func TestRegisterContentCommandsRegistryError(t *testing.T) {
	registry := &recordingRegistry{err: errors.New("bus closed")}
	if _, err := RegisterContentCommands(registry, &stubService{}, nil); err == nil {
		t.Fatal("expected registry error surfaced")
	}
}

func TestRegisterContentCommandsNilRegistry(t *testing.T) {
	set, err := RegisterContentCommands(nil, &stubService{}, nil)
	if err != nil {
		t.Fatalf("register without registry: %v", err)
	}
	if set == nil || set.Import == nil {
		t.Fatal("expected handler set built without a registry")
	}
}
