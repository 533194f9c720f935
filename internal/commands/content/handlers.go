package contentcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-mdc/internal/commands"
	"github.com/goliatone/go-mdc/internal/logging"
	"github.com/goliatone/go-mdc/pkg/interfaces"
)

const (
	importOperation = "content.import_directory"
	syncOperation   = "content.sync_directory"
)

var (
	_ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)
	_ command.Commander[SyncDirectoryCommand]   = (*SyncDirectoryHandler)(nil)
)

// ImportDirectoryHandler orchestrates directory imports via the shared
// command handler foundation.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

// NewImportDirectoryHandler creates a handler bound to the supplied content
// service.
func NewImportDirectoryHandler(service interfaces.ContentService, logger interfaces.Logger, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		result, err := service.ImportDirectory(ctx, msg.Directory, interfaces.ImportOptions{
			DryRun:   msg.DryRun,
			SchemaID: msg.SchemaID,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": len(result.CreatedPaths),
				"updated_count": len(result.UpdatedPaths),
				"skipped_count": len(result.SkippedPaths),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("content.command.import_directory.completed")
		}
		return nil
	}

	handlerOpts := append([]commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](baseLogger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
	}, opts...)

	return &ImportDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute conforms to command.Commander.
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncDirectoryHandler orchestrates directory sync runs.
type SyncDirectoryHandler struct {
	inner *commands.Handler[SyncDirectoryCommand]
}

// NewSyncDirectoryHandler creates a handler bound to the supplied content
// service.
func NewSyncDirectoryHandler(service interfaces.ContentService, logger interfaces.Logger, opts ...commands.HandlerOption[SyncDirectoryCommand]) *SyncDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SyncDirectoryCommand) error {
		result, err := service.Sync(ctx, msg.Directory, interfaces.SyncOptions{
			ImportOptions: interfaces.ImportOptions{
				DryRun:   msg.DryRun,
				SchemaID: msg.SchemaID,
			},
			DeleteOrphaned: msg.DeleteOrphaned,
			UpdateExisting: msg.UpdateExisting,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": result.Created,
				"updated_count": result.Updated,
				"deleted_count": result.Deleted,
				"skipped_count": result.Skipped,
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("content.command.sync_directory.completed")
		}
		return nil
	}

	handlerOpts := append([]commands.HandlerOption[SyncDirectoryCommand]{
		commands.WithLogger[SyncDirectoryCommand](baseLogger),
		commands.WithOperation[SyncDirectoryCommand](syncOperation),
	}, opts...)

	return &SyncDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute conforms to command.Commander.
func (h *SyncDirectoryHandler) Execute(ctx context.Context, msg SyncDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CommandRegistry is the minimal registration contract expected when wiring
// command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the content command handlers produced by
// RegisterContentCommands.
type HandlerSet struct {
	Import *ImportDirectoryHandler
	Sync   *SyncDirectoryHandler
}

// RegisterContentCommands builds the content command handlers and registers
// them with the provided registry.
func RegisterContentCommands(reg CommandRegistry, service interfaces.ContentService, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("content command registration: service is nil")
	}

	logger := commands.CommandLogger(provider, "content")

	set := &HandlerSet{
		Import: NewImportDirectoryHandler(service, logger),
		Sync:   NewSyncDirectoryHandler(service, logger),
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Import); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Sync); err != nil {
			return nil, err
		}
	}
	return set, nil
}
