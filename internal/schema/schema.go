// Package schema validates decoded import documents against the field rules
// for entries and tags and converts accepted documents into model values.
//
// Validation runs over the generic value produced by encoding/json (maps,
// slices, strings, float64) so that type mismatches, missing fields and
// length bounds can all be reported with the offending path.
package schema

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sadopc/datamgr/internal/model"
)

const (
	MaxEntries = 10000
	MaxTags    = 500
)

// ValidationError names the first rule an import document broke.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return e.Path + ": " + e.Reason
}

// Envelope is a validated import document.
type Envelope struct {
	Entries []model.Entry
	Tags    []model.Tag
}

type kind int

const (
	kindString kind = iota
	kindList
)

type rule struct {
	name      string
	kind      kind
	required  bool
	min, max  int
	enum      []string
	timestamp bool
	// each validates one list element; only used by kindList.
	each func(path string, v any) error
}

var tagRefRule = rule{kind: kindString, required: true, min: 1, max: 100}

var storeRules = []rule{
	{name: "id", required: true, min: 1, max: 100},
	{name: "name", required: true, min: 1, max: 200},
	{name: "description", max: 2000},
}

var entryRules = []rule{
	{name: "id", required: true, min: 1, max: 100},
	{name: "country", max: 10},
	{name: "machineId", required: true, min: 1, max: 200},
	{name: "description", max: 5000},
	{name: "category", max: 100},
	{name: "priority", required: true, enum: enumOf(model.Priorities)},
	{name: "status", required: true, enum: enumOf(model.Statuses)},
	{name: "tags", kind: kindList, max: 100, each: func(path string, v any) error {
		return checkValue(path, tagRefRule, v)
	}},
	{name: "email", enum: []string{string(model.EmailYes), string(model.EmailNo)}},
	{name: "auth", enum: []string{string(model.AuthAuto), string(model.AuthPass)}},
	{name: "url", max: 2000},
	{name: "notes", max: 10000},
	{name: "password", max: 500},
	{name: "owner", max: 200},
	{name: "orders", max: 10000},
	{name: "stores", kind: kindList, max: 100, each: func(path string, v any) error {
		return checkObject(path, storeRules, v)
	}},
	{name: "createdAt", required: true, max: 64, timestamp: true},
	{name: "updatedAt", required: true, max: 64, timestamp: true},
}

var tagRules = []rule{
	{name: "id", required: true, min: 1, max: 100},
	{name: "name", required: true, min: 1, max: 100},
	{name: "color", required: true, enum: enumOf(model.Palette)},
}

var envelopeRules = []rule{
	{name: "entries", kind: kindList, required: true, max: MaxEntries, each: func(path string, v any) error {
		return checkObject(path, entryRules, v)
	}},
	{name: "tags", kind: kindList, max: MaxTags, each: func(path string, v any) error {
		return checkObject(path, tagRules, v)
	}},
}

// Validate checks doc, the result of json.Unmarshal into an any, and returns
// the typed envelope. Unknown fields are ignored. The error is always a
// *ValidationError.
func Validate(doc any) (Envelope, error) {
	if err := checkObject("", envelopeRules, doc); err != nil {
		return Envelope{}, err
	}
	root := doc.(map[string]any)

	env := Envelope{
		Entries: []model.Entry{},
		Tags:    []model.Tag{},
	}
	for _, v := range list(root, "entries") {
		env.Entries = append(env.Entries, toEntry(v.(map[string]any)))
	}
	for _, v := range list(root, "tags") {
		env.Tags = append(env.Tags, toTag(v.(map[string]any)))
	}
	return env, nil
}

func checkObject(path string, rules []rule, v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return fail(path, "expected object, got %s", typeName(v))
	}
	for _, r := range rules {
		fv, present := obj[r.name]
		p := join(path, r.name)
		if !present || fv == nil {
			if r.required {
				return fail(p, "required")
			}
			continue
		}
		if err := checkValue(p, r, fv); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(path string, r rule, v any) error {
	switch r.kind {
	case kindList:
		items, ok := v.([]any)
		if !ok {
			return fail(path, "expected array, got %s", typeName(v))
		}
		if r.max > 0 && len(items) > r.max {
			return fail(path, "too many items (%d > %d)", len(items), r.max)
		}
		for i, item := range items {
			if err := r.each(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
		return nil
	default:
		s, ok := v.(string)
		if !ok {
			return fail(path, "expected string, got %s", typeName(v))
		}
		n := utf8.RuneCountInString(s)
		if n < r.min {
			if r.min == 1 {
				return fail(path, "must not be empty")
			}
			return fail(path, "too short (min %d)", r.min)
		}
		if r.max > 0 && n > r.max {
			return fail(path, "too long (%d > %d)", n, r.max)
		}
		if len(r.enum) > 0 && !contains(r.enum, s) {
			return fail(path, "must be one of %s", strings.Join(r.enum, ", "))
		}
		if r.timestamp {
			if _, err := time.Parse(time.RFC3339Nano, s); err != nil {
				return fail(path, "invalid timestamp %q", s)
			}
		}
		return nil
	}
}

func fail(path, format string, args ...any) error {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func enumOf[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}
