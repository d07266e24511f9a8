package acquire

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ragcore/engine/internal/ragerr"
)

// LocalFile acquires one file from disk, path-validated against Root
// (if set) to keep the indexer from following a caller-supplied path
// outside the project it was pointed at.
type LocalFile struct {
	Root string // if non-empty, Path must resolve inside Root
	Path string
}

func (f LocalFile) Acquire(ctx context.Context) ([]Item, error) {
	resolved, err := validatePath(f.Root, f.Path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, ragerr.Wrap(ragerr.KindAcquisitionError, "read file "+f.Path, err)
	}
	return []Item{{Path: f.Path, Content: data}}, nil
}

// Glob acquires every file under Root matching Pattern (a
// filepath.Match-style glob evaluated relative to Root).
type Glob struct {
	Root    string
	Pattern string
}

func (g Glob) Acquire(ctx context.Context) ([]Item, error) {
	matches, err := filepath.Glob(filepath.Join(g.Root, g.Pattern))
	if err != nil {
		return nil, ragerr.Wrap(ragerr.KindAcquisitionError, "evaluate glob "+g.Pattern, err)
	}
	items := make([]Item, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(m)
		if err != nil {
			return nil, ragerr.Wrap(ragerr.KindAcquisitionError, "read file "+m, err)
		}
		rel, err := filepath.Rel(g.Root, m)
		if err != nil {
			rel = m
		}
		items = append(items, Item{Path: rel, Content: data})
	}
	return items, nil
}

// validatePath resolves path against root (if set) and rejects any
// result that escapes root, guarding against ../ path traversal. This
// is the minimal path-traversal guard the local-file collaborator needs
// to function; full URL/path security validation is a non-goal of the
// core (§1).
func validatePath(root, path string) (string, error) {
	if root == "" {
		return filepath.Clean(path), nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", ragerr.Wrap(ragerr.KindValidationError, "resolve root", err)
	}
	joined := filepath.Join(absRoot, path)
	absJoined, err := filepath.Abs(joined)
	if err != nil {
		return "", ragerr.Wrap(ragerr.KindValidationError, "resolve path", err)
	}
	if absJoined != absRoot && !strings.HasPrefix(absJoined, absRoot+string(filepath.Separator)) {
		return "", ragerr.New(ragerr.KindValidationError, "path escapes root").
			WithDetail("root", root).WithDetail("path", path)
	}
	return absJoined, nil
}
