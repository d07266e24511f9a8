package chunk

import (
	"path/filepath"
	"strings"
)

// sizeClass names one row of the chunk-sizing table.
type sizeClass struct {
	size    int
	overlap int
}

var (
	classCode    = sizeClass{size: 650, overlap: 125}
	classDocs    = sizeClass{size: 1250, overlap: 250}
	classText    = sizeClass{size: 1750, overlap: 350}
	classDefault = sizeClass{size: 1000, overlap: 200}
)

var codeExtensions = map[string]bool{
	".js": true, ".ts": true, ".jsx": true, ".tsx": true, ".mjs": true, ".cjs": true,
	".py": true, ".go": true, ".rs": true, ".java": true, ".rb": true,
	".c": true, ".cpp": true, ".cc": true, ".h": true, ".hpp": true,
	".css": true, ".json": true, ".yaml": true, ".yml": true, ".sh": true, ".bash": true,
}

var docExtensions = map[string]bool{
	".md": true, ".mdx": true, ".html": true, ".htm": true,
}

var articleExtensions = map[string]bool{
	".txt": true,
}

// SizeForPath returns the default (size, overlap) pair for path's
// extension, per the content-type sizing table: Code, Documentation,
// Article, or Default.
func SizeForPath(path string) (size, overlap int) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case codeExtensions[ext]:
		return classCode.size, classCode.overlap
	case docExtensions[ext]:
		return classDocs.size, classDocs.overlap
	case articleExtensions[ext]:
		return classText.size, classText.overlap
	default:
		return classDefault.size, classDefault.overlap
	}
}

// resolveSize applies the caller-supplied Options over the automatic
// content-type default: an explicit ChunkSize pins both fields (size
// and its paired overlap, even when overlap is left at its zero value),
// always taking precedence over automatic content-type sizing.
func resolveSize(path string, opts Options) (size, overlap int) {
	size, overlap = SizeForPath(path)
	if opts.ChunkSize > 0 {
		size = opts.ChunkSize
		overlap = opts.ChunkOverlap
	}
	return size, overlap
}
