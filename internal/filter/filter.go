// Package filter compiles an abstract metadata filter into the two
// shapes the storage backends need: an in-memory predicate for the
// reference memory backend, and a parameterized SQL WHERE fragment for
// the SQL+vector backend.
package filter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ragcore/engine/internal/docmodel"
	"github.com/ragcore/engine/internal/ragerr"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Filter is an abstract key→value equality filter over chunk metadata.
type Filter map[string]any

// Compiled holds both views produced from one Filter.
type Compiled struct {
	Predicate func(md docmodel.Metadata) bool
	SQLWhere  string // empty if the filter is empty
	SQLArgs   []any
	keys      []string
}

// Compile validates and compiles f. Keys containing characters outside
// [A-Za-z0-9_] are rejected with KindValidationError. An empty filter
// compiles to the always-true predicate and an empty SQL fragment.
func Compile(f Filter) (*Compiled, error) {
	if len(f) == 0 {
		return &Compiled{Predicate: func(docmodel.Metadata) bool { return true }}, nil
	}

	keys := make([]string, 0, len(f))
	for k := range f {
		if !validKey.MatchString(k) {
			return nil, ragerr.New(ragerr.KindValidationError,
				fmt.Sprintf("filter key %q contains characters outside [A-Za-z0-9_]", k))
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		clauses = append(clauses, fmt.Sprintf("json_extract(metadata, '$.%s') = ?", k))
		args = append(args, canonicalScalar(f[k]))
	}

	return &Compiled{
		Predicate: buildPredicate(f, keys),
		SQLWhere:  strings.Join(clauses, " AND "),
		SQLArgs:   args,
		keys:      keys,
	}, nil
}

func buildPredicate(f Filter, keys []string) func(docmodel.Metadata) bool {
	canon := make(map[string]string, len(keys))
	for _, k := range keys {
		canon[k] = canonicalize(f[k])
	}
	return func(md docmodel.Metadata) bool {
		for _, k := range keys {
			v, ok := md[k]
			if !ok || canonicalize(v) != canon[k] {
				return false
			}
		}
		return true
	}
}

// canonicalize renders a filter value for equality comparison: scalars
// by their string form, objects/arrays by canonical (key-sorted) JSON.
func canonicalize(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any, []any:
		b, err := canonicalJSON(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return b
	default:
		return fmt.Sprintf("%v", t)
	}
}

// canonicalScalar returns the value to bind as a SQL parameter: scalars
// pass through as their native form (so numeric/bool comparisons against
// json_extract still work), objects are serialized to canonical JSON.
func canonicalScalar(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		b, err := canonicalJSON(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return b
	default:
		return v
	}
}

func canonicalJSON(v any) (string, error) {
	normalized, err := normalizeForJSON(v)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// normalizeForJSON recursively copies maps and slices without reordering
// anything: Go's encoding/json already sorts map[string]any keys, so two
// maps with the same entries serialize identically, and this mostly
// validates the shape is round-trippable.
func normalizeForJSON(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			nv, err := normalizeForJSON(val)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			nv, err := normalizeForJSON(val)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	default:
		return t, nil
	}
}
