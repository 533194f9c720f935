package contentcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	importDirectoryMessageType = "mdc.content.import_directory"
	syncDirectoryMessageType   = "mdc.content.sync_directory"
)

// ImportDirectoryCommand triggers a filesystem walk for content documents
// under Directory. Options map directly onto interfaces.ImportOptions.
type ImportDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load content files from.
	Directory string `json:"directory"`
	// SchemaID selects a registered frontmatter schema to validate against.
	SchemaID string `json:"schema_id,omitempty"`
	// DryRun toggles preview mode to collect import counts without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("mdc.content.import_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// SyncDirectoryCommand orchestrates a content sync run for Directory,
// applying deletion and update flags consistent with interfaces.SyncOptions.
type SyncDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load content files from.
	Directory string `json:"directory"`
	// SchemaID selects a registered frontmatter schema to validate against.
	SchemaID string `json:"schema_id,omitempty"`
	// DryRun toggles preview mode to collect sync counts without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
	// DeleteOrphaned removes stored documents without matching files when true.
	DeleteOrphaned bool `json:"delete_orphaned,omitempty"`
	// UpdateExisting overwrites stored documents when files have changed.
	UpdateExisting bool `json:"update_existing,omitempty"`
}

// Type implements command.Message.
func (SyncDirectoryCommand) Type() string { return syncDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd SyncDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("mdc.content.sync_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}
