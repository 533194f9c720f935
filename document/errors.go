package document

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document: not found")
	ErrPathRequired     = errors.New("document: path is required")
	ErrLocaleRequired   = errors.New("document: locale is required")
	ErrBodyInvalid      = errors.New("document: body payload is invalid")
)

// NotFoundError carries the lookup key of a missing document.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrDocumentNotFound.Error()
	}
	if e.Key != "" {
		return fmt.Sprintf("%s: %s=%s", ErrDocumentNotFound.Error(), e.Resource, e.Key)
	}
	return ErrDocumentNotFound.Error()
}

func (e *NotFoundError) Unwrap() error {
	return ErrDocumentNotFound
}
