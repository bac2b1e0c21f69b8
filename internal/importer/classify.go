package importer

import (
	"errors"

	"github.com/sadopc/datamgr/internal/dataset"
	"github.com/sadopc/datamgr/internal/schema"
)

type Kind int

const (
	KindNone Kind = iota
	KindParse
	KindValidation
	KindTooLarge
	KindPersist
	KindUnexpected
)

// Classify maps an import error to the category shown to the user.
func Classify(err error) Kind {
	var perr *ParseError
	var verr *schema.ValidationError
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &perr):
		return KindParse
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrFileTooLarge):
		return KindTooLarge
	case errors.Is(err, dataset.ErrPersist):
		return KindPersist
	default:
		return KindUnexpected
	}
}

// Message renders err for the status line.
func Message(err error) string {
	switch Classify(err) {
	case KindNone:
		return ""
	case KindParse:
		return "Import failed: the file is not valid JSON"
	case KindValidation:
		var verr *schema.ValidationError
		errors.As(err, &verr)
		return "Import failed: invalid data at " + pathOrRoot(verr.Path) + " (" + verr.Reason + ")"
	case KindTooLarge:
		return "Import failed: file too large (max 10 MiB)"
	case KindPersist:
		return "Imported, but changes could not be saved"
	default:
		return "Import failed: " + err.Error()
	}
}

func pathOrRoot(p string) string {
	if p == "" {
		return "document root"
	}
	return p
}
