package document

import mdcdocument "github.com/goliatone/go-mdc/document"

type (
	Record        = mdcdocument.Record
	NotFoundError = mdcdocument.NotFoundError
)

var (
	ErrDocumentNotFound = mdcdocument.ErrDocumentNotFound
	ErrPathRequired     = mdcdocument.ErrPathRequired
	ErrLocaleRequired   = mdcdocument.ErrLocaleRequired
)
