package markdown

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	slugpkg "github.com/goliatone/go-slug"
)

// PathInfo captures everything derived from a source-relative file path.
type PathInfo struct {
	// Path is the normalized route path ("/blog/first-post"): ordering
	// prefixes stripped, extension removed, index files collapsed onto the
	// directory.
	Path string
	// Slug is the normalized name of the final segment.
	Slug string
	// Position is a lexicographic ordering key assembled from the numeric
	// prefixes along the path; segments without a prefix contribute a
	// neutral bucket so prefixed siblings sort ahead predictably.
	Position string
	// Draft is set for files carrying the .draft suffix.
	Draft bool
	// Partial is set for files or directories with a leading underscore.
	Partial bool
}

const unorderedBucket = "999"

// ParsePath normalizes a slash-separated, source-relative file path into its
// route path, slug, ordering position, and visibility flags.
func ParsePath(filePath string) PathInfo {
	cleaned := strings.TrimPrefix(path.Clean(strings.ReplaceAll(filePath, "\\", "/")), "./")

	ext := path.Ext(cleaned)
	withoutExt := strings.TrimSuffix(cleaned, ext)

	info := PathInfo{}
	if strings.HasSuffix(withoutExt, ".draft") {
		info.Draft = true
		withoutExt = strings.TrimSuffix(withoutExt, ".draft")
	}

	segments := strings.Split(withoutExt, "/")
	normalized := make([]string, 0, len(segments))
	positions := make([]string, 0, len(segments))

	for _, segment := range segments {
		if segment == "" || segment == "." {
			continue
		}
		if strings.HasPrefix(segment, "_") {
			info.Partial = true
			segment = strings.TrimPrefix(segment, "_")
		}

		order, rest := splitOrderPrefix(segment)
		positions = append(positions, order)
		normalized = append(normalized, normalizeSegment(rest))
	}

	if len(normalized) > 0 && normalized[len(normalized)-1] == "index" {
		normalized = normalized[:len(normalized)-1]
		positions = positions[:len(positions)-1]
	}

	info.Path = "/" + strings.Join(normalized, "/")
	if info.Path == "/" && len(normalized) == 0 {
		info.Path = "/"
	}
	if len(normalized) > 0 {
		info.Slug = normalized[len(normalized)-1]
	}
	info.Position = strings.Join(positions, "")
	return info
}

// splitOrderPrefix strips a numeric ordering prefix ("2.second" -> "002",
// "second"). Segments without a prefix map to the unordered bucket.
func splitOrderPrefix(segment string) (string, string) {
	dot := strings.IndexByte(segment, '.')
	if dot <= 0 {
		return unorderedBucket, segment
	}
	number, err := strconv.Atoi(segment[:dot])
	if err != nil || number < 0 {
		return unorderedBucket, segment
	}
	if number > 999 {
		number = 999
	}
	return fmt.Sprintf("%03d", number), segment[dot+1:]
}

func normalizeSegment(segment string) string {
	normalized, err := slugpkg.Normalize(segment)
	if err != nil || normalized == "" {
		return strings.ToLower(strings.TrimSpace(segment))
	}
	return normalized
}

// DirMetaFile is the per-directory metadata file name picked up during
// discovery.
const DirMetaFile = "_dir.yml"

// IsDirMeta reports whether the supplied path names a directory metadata file.
func IsDirMeta(filePath string) bool {
	return path.Base(strings.ReplaceAll(filePath, "\\", "/")) == DirMetaFile
}
