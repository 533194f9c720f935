package document

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record is the persisted form of a parsed content file. The body AST,
// excerpt and TOC are stored as JSON so the document survives round-trips
// without re-parsing Markdown; Meta carries the full frontmatter map for
// metadata queries.
type Record struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Path        string    `bun:"path,notnull" json:"path"`
	Locale      string    `bun:"locale,notnull,default:'en'" json:"locale"`
	Slug        string    `bun:"slug,notnull" json:"slug"`
	Title       string    `bun:"title" json:"title,omitempty"`
	Description string    `bun:"description" json:"description,omitempty"`
	FilePath    string    `bun:"file_path" json:"file_path,omitempty"`
	// Position is the lexicographic ordering key derived from numeric file
	// prefixes; records without prefixes share the unordered bucket.
	Position     string          `bun:"position,notnull,default:''" json:"position"`
	Draft        bool            `bun:"draft,notnull,default:false" json:"draft"`
	Partial      bool            `bun:"partial,notnull,default:false" json:"partial"`
	Meta         map[string]any  `bun:"meta,type:jsonb" json:"meta,omitempty"`
	Body         []byte          `bun:"body" json:"-"`
	BodyHTML     string          `bun:"body_html" json:"body_html,omitempty"`
	AST          json.RawMessage `bun:"ast,type:jsonb" json:"ast,omitempty"`
	Excerpt      json.RawMessage `bun:"excerpt,type:jsonb" json:"excerpt,omitempty"`
	TOC          json.RawMessage `bun:"toc,type:jsonb" json:"toc,omitempty"`
	Checksum     string          `bun:"checksum" json:"checksum,omitempty"`
	LastModified time.Time       `bun:"last_modified,nullzero" json:"last_modified"`
	DeletedAt    *time.Time      `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt    time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time       `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
