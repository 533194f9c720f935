package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// DocumentUUID derives the stable identifier for a stored document. Re-importing
// the same path/locale pair always resolves to the same record.
func DocumentUUID(locale, path string) uuid.UUID {
	return UUID("go-mdc:document:" + strings.ToLower(strings.TrimSpace(locale)) + ":" + strings.TrimSpace(path))
}

// SourceUUID derives the identifier for a configured content source.
func SourceUUID(name string) uuid.UUID {
	return UUID("go-mdc:source:" + strings.ToLower(strings.TrimSpace(name)))
}
