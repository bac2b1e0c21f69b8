// Package importer runs the import pipeline: read the file, parse JSON,
// validate it, then merge it into the dataset. A document that fails any
// step leaves the dataset untouched.
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sadopc/datamgr/internal/dataset"
	"github.com/sadopc/datamgr/internal/schema"
)

// MaxFileSize is the largest import file accepted.
const MaxFileSize = 10 << 20

var ErrFileTooLarge = errors.New("file too large (max 10 MiB)")

// ParseError reports input that is not well-formed JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "invalid JSON"
	}
	return "invalid JSON: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Report summarises a successful import.
type Report struct {
	EntriesImported int
	EntriesSkipped  int
	TagsAdded       int
	TagsSkipped     int
}

// Parse decodes and validates raw. Errors are *ParseError or
// *schema.ValidationError.
func Parse(raw []byte) (schema.Envelope, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return schema.Envelope{}, &ParseError{Err: errors.New("empty input")}
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return schema.Envelope{}, &ParseError{Err: err}
	}
	return schema.Validate(doc)
}

// Import parses raw and merges it into ds. Persistence failures come back
// wrapped in dataset.ErrPersist together with a populated Report, since the
// in-memory merge has already happened.
func Import(ds *dataset.Dataset, raw []byte) (Report, error) {
	env, err := Parse(raw)
	if err != nil {
		return Report{}, err
	}
	res, err := ds.Merge(env.Entries, env.Tags)
	return Report(res), err
}

// ReadFile rejects files over MaxFileSize before reading them.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat import file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	// The file may have grown after the stat.
	data, err := ReadAll(f)
	if errors.Is(err, ErrFileTooLarge) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return data, nil
}

// ReadAll reads at most MaxFileSize bytes from r, for input with no size
// known up front such as pasted text on stdin.
func ReadAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// ImportReader is Import over at most MaxFileSize bytes of r.
func ImportReader(ds *dataset.Dataset, r io.Reader) (Report, error) {
	raw, err := ReadAll(r)
	if err != nil {
		return Report{}, err
	}
	return Import(ds, raw)
}

func ImportFile(ds *dataset.Dataset, path string) (Report, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	return Import(ds, raw)
}
